package handlers

import (
	"time"

	"github.com/campushq/campus-events-api/internal/models"
	"gorm.io/gorm"
)

// Wire representations are explicit structs mapped from storage entities;
// nothing is serialized straight off a model.

type CollegeResponse struct {
	ID           uint      `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toCollegeResponse(c models.College) CollegeResponse {
	return CollegeResponse{
		ID:           c.ID,
		Code:         c.Code,
		Name:         c.Name,
		Address:      c.Address,
		ContactEmail: c.ContactEmail,
		ContactPhone: c.ContactPhone,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

type StudentResponse struct {
	ID          uint      `json:"id"`
	StudentID   string    `json:"student_id"`
	CollegeID   uint      `json:"college_id"`
	CollegeName string    `json:"college_name"`
	CollegeCode string    `json:"college_code"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Department  string    `json:"department"`
	YearOfStudy *int      `json:"year_of_study"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// toStudentResponse expects College to be preloaded.
func toStudentResponse(s models.Student) StudentResponse {
	return StudentResponse{
		ID:          s.ID,
		StudentID:   s.StudentID,
		CollegeID:   s.CollegeID,
		CollegeName: s.College.Name,
		CollegeCode: s.College.Code,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		FullName:    s.FullName(),
		Email:       s.Email,
		Phone:       s.Phone,
		Department:  s.Department,
		YearOfStudy: s.YearOfStudy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type EventResponse struct {
	ID                    uint       `json:"id"`
	EventCode             string     `json:"event_code"`
	CollegeID             uint       `json:"college_id"`
	CollegeName           string     `json:"college_name"`
	CollegeCode           string     `json:"college_code"`
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	EventType             string     `json:"event_type"`
	StartDate             time.Time  `json:"start_date"`
	EndDate               time.Time  `json:"end_date"`
	Location              string     `json:"location"`
	MaxParticipants       *int       `json:"max_participants"`
	RegistrationStartDate *time.Time `json:"registration_start_date"`
	RegistrationDeadline  *time.Time `json:"registration_deadline"`
	Status                string     `json:"status"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	CurrentRegistrations  int64      `json:"current_registrations_count"`
	RegistrationOpen      bool       `json:"is_registration_open"`
	Full                  bool       `json:"is_full"`
}

// toEventResponse expects College to be preloaded; the capacity fields are
// recomputed from current registrations on every call.
func toEventResponse(db *gorm.DB, e models.Event) (EventResponse, error) {
	count, err := e.RegisteredCount(db)
	if err != nil {
		return EventResponse{}, err
	}
	full := e.MaxParticipants != nil && count >= int64(*e.MaxParticipants)

	return EventResponse{
		ID:                    e.ID,
		EventCode:             e.EventCode,
		CollegeID:             e.CollegeID,
		CollegeName:           e.College.Name,
		CollegeCode:           e.College.Code,
		Title:                 e.Title,
		Description:           e.Description,
		EventType:             e.EventType,
		StartDate:             e.StartDate,
		EndDate:               e.EndDate,
		Location:              e.Location,
		MaxParticipants:       e.MaxParticipants,
		RegistrationStartDate: e.RegistrationStartDate,
		RegistrationDeadline:  e.RegistrationDeadline,
		Status:                e.Status,
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
		CurrentRegistrations:  count,
		RegistrationOpen:      e.RegistrationOpen(time.Now()),
		Full:                  full,
	}, nil
}

type RegistrationResponse struct {
	ID               uint      `json:"id"`
	EventID          uint      `json:"event_id"`
	StudentID        uint      `json:"student_id"`
	StudentName      string    `json:"student_name"`
	StudentEmail     string    `json:"student_email"`
	EventTitle       string    `json:"event_title"`
	EventCode        string    `json:"event_code"`
	RegistrationDate time.Time `json:"registration_date"`
	Status           string    `json:"status"`
}

// toRegistrationResponse expects Event and Student to be preloaded.
func toRegistrationResponse(r models.EventRegistration) RegistrationResponse {
	return RegistrationResponse{
		ID:               r.ID,
		EventID:          r.EventID,
		StudentID:        r.StudentID,
		StudentName:      r.Student.FullName(),
		StudentEmail:     r.Student.Email,
		EventTitle:       r.Event.Title,
		EventCode:        r.Event.EventCode,
		RegistrationDate: r.CreatedAt,
		Status:           r.Status,
	}
}

type AttendanceResponse struct {
	ID              uint       `json:"id"`
	EventID         uint       `json:"event_id"`
	StudentID       uint       `json:"student_id"`
	StudentName     string     `json:"student_name"`
	StudentEmail    string     `json:"student_email"`
	EventTitle      string     `json:"event_title"`
	EventCode       string     `json:"event_code"`
	CheckInTime     time.Time  `json:"check_in_time"`
	CheckOutTime    *time.Time `json:"check_out_time"`
	Status          string     `json:"attendance_status"`
	Notes           string     `json:"notes"`
	DurationMinutes *float64   `json:"duration_minutes"`
}

// toAttendanceResponse expects Event and Student to be preloaded.
func toAttendanceResponse(a models.Attendance) AttendanceResponse {
	var minutes *float64
	if d := a.Duration(); d != nil {
		m := d.Minutes()
		minutes = &m
	}
	return AttendanceResponse{
		ID:              a.ID,
		EventID:         a.EventID,
		StudentID:       a.StudentID,
		StudentName:     a.Student.FullName(),
		StudentEmail:    a.Student.Email,
		EventTitle:      a.Event.Title,
		EventCode:       a.Event.EventCode,
		CheckInTime:     a.CheckInTime,
		CheckOutTime:    a.CheckOutTime,
		Status:          a.Status,
		Notes:           a.Notes,
		DurationMinutes: minutes,
	}
}

type FeedbackResponse struct {
	ID          uint      `json:"id"`
	EventID     uint      `json:"event_id"`
	StudentID   uint      `json:"student_id"`
	StudentName string    `json:"student_name"`
	EventTitle  string    `json:"event_title"`
	EventCode   string    `json:"event_code"`
	Rating      int       `json:"rating"`
	Comments    string    `json:"comments"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// toFeedbackResponse expects Event and Student to be preloaded.
func toFeedbackResponse(f models.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:          f.ID,
		EventID:     f.EventID,
		StudentID:   f.StudentID,
		StudentName: f.Student.FullName(),
		EventTitle:  f.Event.Title,
		EventCode:   f.Event.EventCode,
		Rating:      f.Rating,
		Comments:    f.Comments,
		SubmittedAt: f.CreatedAt,
	}
}
