package handlers

import (
	"context"
	"time"

	"github.com/campushq/campus-events-api/internal/auth"
	"github.com/campushq/campus-events-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
)

type StudentProfileInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type StudentStats struct {
	TotalRegistrations int64   `json:"total_registrations"`
	TotalAttendance    int64   `json:"total_attendance"`
	AttendanceRate     float64 `json:"attendance_rate"`
	TotalFeedback      int64   `json:"total_feedback"`
	AvgRatingGiven     float64 `json:"avg_rating_given"`
}

type StudentEventRef struct {
	EventID    uint      `json:"event_id"`
	EventTitle string    `json:"event_title"`
	EventCode  string    `json:"event_code"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status,omitempty"`
	Rating     int       `json:"rating,omitempty"`
}

type EventTypeCount struct {
	EventType string `json:"event_type"`
	Count     int64  `json:"count"`
}

type StudentProfileOutput struct {
	Body struct {
		Student    StudentResponse `json:"student"`
		Statistics StudentStats    `json:"statistics"`
		Recent     struct {
			Registrations []StudentEventRef `json:"registrations"`
			Attendance    []StudentEventRef `json:"attendance"`
			Feedback      []StudentEventRef `json:"feedback"`
		} `json:"recent_activity"`
		EventTypePreferences []EventTypeCount `json:"event_type_preferences"`
	}
}

func (h *StudentHandler) HandleProfile(ctx context.Context, input *StudentProfileInput) (*StudentProfileOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var student models.Student
	if err := h.db.WithContext(ctx).Preload("College").First(&student, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Student not found")
	}
	db := h.db.WithContext(ctx)

	stats := StudentStats{}
	db.Model(&models.EventRegistration{}).
		Where("student_id = ? AND status = ?", student.ID, models.RegistrationStatusRegistered).
		Count(&stats.TotalRegistrations)
	db.Model(&models.Attendance{}).
		Where("student_id = ? AND status = ?", student.ID, models.AttendanceStatusPresent).
		Count(&stats.TotalAttendance)
	stats.AttendanceRate = rate(stats.TotalAttendance, stats.TotalRegistrations)
	db.Model(&models.Feedback{}).Where("student_id = ?", student.ID).Count(&stats.TotalFeedback)

	var avgRating *float64
	db.Model(&models.Feedback{}).Where("student_id = ?", student.ID).
		Select("AVG(rating)").Scan(&avgRating)
	if avgRating != nil {
		stats.AvgRatingGiven = round2(*avgRating)
	}

	res := &StudentProfileOutput{}
	res.Body.Student = toStudentResponse(student)
	res.Body.Statistics = stats

	var registrations []models.EventRegistration
	db.Preload("Event").
		Where("student_id = ? AND status = ?", student.ID, models.RegistrationStatusRegistered).
		Order("created_at DESC").Limit(5).Find(&registrations)
	for _, r := range registrations {
		res.Body.Recent.Registrations = append(res.Body.Recent.Registrations, StudentEventRef{
			EventID: r.EventID, EventTitle: r.Event.Title, EventCode: r.Event.EventCode,
			Date: r.CreatedAt, Status: r.Status,
		})
	}

	var attendance []models.Attendance
	db.Preload("Event").
		Where("student_id = ? AND status = ?", student.ID, models.AttendanceStatusPresent).
		Order("check_in_time DESC").Limit(5).Find(&attendance)
	for _, a := range attendance {
		res.Body.Recent.Attendance = append(res.Body.Recent.Attendance, StudentEventRef{
			EventID: a.EventID, EventTitle: a.Event.Title, EventCode: a.Event.EventCode,
			Date: a.CheckInTime, Status: a.Status,
		})
	}

	var feedback []models.Feedback
	db.Preload("Event").
		Where("student_id = ?", student.ID).
		Order("created_at DESC").Limit(5).Find(&feedback)
	for _, f := range feedback {
		res.Body.Recent.Feedback = append(res.Body.Recent.Feedback, StudentEventRef{
			EventID: f.EventID, EventTitle: f.Event.Title, EventCode: f.Event.EventCode,
			Date: f.CreatedAt, Rating: f.Rating,
		})
	}

	db.Model(&models.EventRegistration{}).
		Select("events.event_type AS event_type, COUNT(*) AS count").
		Joins("JOIN events ON events.id = event_registrations.event_id").
		Where("event_registrations.student_id = ? AND event_registrations.status = ?",
			student.ID, models.RegistrationStatusRegistered).
		Group("events.event_type").Order("count DESC").
		Scan(&res.Body.EventTypePreferences)

	return res, nil
}

type StudentEventsInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type StudentEventDetail struct {
	RegistrationID     uint      `json:"registration_id"`
	EventID            uint      `json:"event_id"`
	EventCode          string    `json:"event_code"`
	Title              string    `json:"title"`
	EventType          string    `json:"event_type"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	Location           string    `json:"location"`
	RegistrationDate   time.Time `json:"registration_date"`
	RegistrationStatus string    `json:"registration_status"`
	Attendance         struct {
		CheckedIn    bool       `json:"checked_in"`
		CheckInTime  *time.Time `json:"check_in_time"`
		CheckOutTime *time.Time `json:"check_out_time"`
		Status       string     `json:"attendance_status,omitempty"`
	} `json:"attendance"`
	Feedback struct {
		Submitted bool   `json:"submitted"`
		Rating    int    `json:"rating,omitempty"`
		Comments  string `json:"comments,omitempty"`
	} `json:"feedback"`
}

type StudentEventsOutput struct {
	Body struct {
		StudentID   uint                 `json:"student_id"`
		StudentName string               `json:"student_name"`
		TotalEvents int                  `json:"total_events"`
		Events      []StudentEventDetail `json:"events"`
	}
}

func (h *StudentHandler) HandleEvents(ctx context.Context, input *StudentEventsInput) (*StudentEventsOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var student models.Student
	if err := h.db.WithContext(ctx).First(&student, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Student not found")
	}
	db := h.db.WithContext(ctx)

	var registrations []models.EventRegistration
	if err := db.Preload("Event").
		Where("student_id = ?", student.ID).
		Order("created_at DESC").Find(&registrations).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list student events")
	}

	res := &StudentEventsOutput{}
	res.Body.StudentID = student.ID
	res.Body.StudentName = student.FullName()
	res.Body.Events = make([]StudentEventDetail, 0, len(registrations))

	for _, r := range registrations {
		detail := StudentEventDetail{
			RegistrationID:     r.ID,
			EventID:            r.EventID,
			EventCode:          r.Event.EventCode,
			Title:              r.Event.Title,
			EventType:          r.Event.EventType,
			StartDate:          r.Event.StartDate,
			EndDate:            r.Event.EndDate,
			Location:           r.Event.Location,
			RegistrationDate:   r.CreatedAt,
			RegistrationStatus: r.Status,
		}

		var attendance models.Attendance
		if err := db.Where("event_id = ? AND student_id = ?", r.EventID, student.ID).First(&attendance).Error; err == nil {
			detail.Attendance.CheckedIn = true
			detail.Attendance.CheckInTime = &attendance.CheckInTime
			detail.Attendance.CheckOutTime = attendance.CheckOutTime
			detail.Attendance.Status = attendance.Status
		}

		var feedback models.Feedback
		if err := db.Where("event_id = ? AND student_id = ?", r.EventID, student.ID).First(&feedback).Error; err == nil {
			detail.Feedback.Submitted = true
			detail.Feedback.Rating = feedback.Rating
			detail.Feedback.Comments = feedback.Comments
		}

		res.Body.Events = append(res.Body.Events, detail)
	}
	res.Body.TotalEvents = len(res.Body.Events)
	return res, nil
}

type StudentAttendanceInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type StudentAttendanceOutput struct {
	Body []AttendanceResponse
}

func (h *StudentHandler) HandleAttendance(ctx context.Context, input *StudentAttendanceInput) (*StudentAttendanceOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var student models.Student
	if err := h.db.WithContext(ctx).First(&student, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Student not found")
	}

	var attendance []models.Attendance
	if err := h.db.WithContext(ctx).Preload("Event").Preload("Student").
		Where("student_id = ?", student.ID).
		Order("check_in_time DESC").Find(&attendance).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list attendance")
	}

	response := make([]AttendanceResponse, 0, len(attendance))
	for _, a := range attendance {
		response = append(response, toAttendanceResponse(a))
	}
	return &StudentAttendanceOutput{Body: response}, nil
}

type StudentFeedbackInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type StudentFeedbackOutput struct {
	Body []FeedbackResponse
}

func (h *StudentHandler) HandleFeedback(ctx context.Context, input *StudentFeedbackInput) (*StudentFeedbackOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var student models.Student
	if err := h.db.WithContext(ctx).First(&student, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Student not found")
	}

	var feedback []models.Feedback
	if err := h.db.WithContext(ctx).Preload("Event").Preload("Student").
		Where("student_id = ?", student.ID).
		Order("created_at DESC").Find(&feedback).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list feedback")
	}

	response := make([]FeedbackResponse, 0, len(feedback))
	for _, f := range feedback {
		response = append(response, toFeedbackResponse(f))
	}
	return &StudentFeedbackOutput{Body: response}, nil
}
