package handlers

import (
	"context"
	"math"
	"time"

	"github.com/campushq/campus-events-api/internal/auth"
	"github.com/campushq/campus-events-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type ReportsHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewReportsHandler(db *gorm.DB, authHandler *auth.AuthHandler) *ReportsHandler {
	return &ReportsHandler{db: db, authHandler: authHandler}
}

// Correlated subqueries keep the aggregates exact: joining registrations,
// attendance and feedback in one query would multiply rows under AVG.
const (
	registeredCountSub = "(SELECT COUNT(*) FROM event_registrations r WHERE r.event_id = events.id AND r.status = 'registered' AND r.deleted_at IS NULL)"
	presentCountSub    = "(SELECT COUNT(*) FROM attendances a WHERE a.event_id = events.id AND a.status = 'present' AND a.deleted_at IS NULL)"
	avgRatingSub       = "(SELECT AVG(f.rating) FROM feedbacks f WHERE f.event_id = events.id AND f.deleted_at IS NULL)"
	feedbackCountSub   = "(SELECT COUNT(*) FROM feedbacks f WHERE f.event_id = events.id AND f.deleted_at IS NULL)"
)

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// rate is attendance over registrations as a percentage, 0 when there are
// no registrations.
func rate(attended, registered int64) float64 {
	if registered == 0 {
		return 0
	}
	return round2(float64(attended) / float64(registered) * 100)
}

func derefRounded(x *float64) float64 {
	if x == nil {
		return 0
	}
	return round2(*x)
}

// ReportFilters is the common event scope of every report: college, event
// type and a calendar date range on the event start.
type ReportFilters struct {
	CollegeID uint   `query:"college_id" doc:"Filter by college"`
	EventType string `query:"event_type" doc:"Filter by event type"`
	StartDate string `query:"start_date" doc:"Earliest event date (YYYY-MM-DD)" pattern:"^(\\d{4}-\\d{2}-\\d{2})?$"`
	EndDate   string `query:"end_date" doc:"Latest event date (YYYY-MM-DD)" pattern:"^(\\d{4}-\\d{2}-\\d{2})?$"`
}

func (f ReportFilters) Apply(db *gorm.DB) *gorm.DB {
	if f.CollegeID != 0 {
		db = db.Where("events.college_id = ?", f.CollegeID)
	}
	if f.EventType != "" {
		db = db.Where("events.event_type = ?", f.EventType)
	}
	if f.StartDate != "" {
		db = db.Where("DATE(events.start_date) >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		db = db.Where("DATE(events.start_date) <= ?", f.EndDate)
	}
	return db
}

// ---- Event popularity ----

type PopularityInput struct {
	ReportFilters
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"10"`
}

type eventAggRow struct {
	EventID            uint
	EventCode          string
	Title              string
	CollegeName        string
	CollegeCode        string
	EventType          string
	StartDate          time.Time
	Location           string
	MaxParticipants    *int
	TotalRegistrations int64
	TotalAttendance    int64
	AvgRating          *float64
}

type EventPopularityItem struct {
	EventID            uint      `json:"event_id"`
	EventCode          string    `json:"event_code"`
	Title              string    `json:"title"`
	CollegeName        string    `json:"college_name"`
	CollegeCode        string    `json:"college_code"`
	EventType          string    `json:"event_type"`
	StartDate          time.Time `json:"start_date"`
	Location           string    `json:"location"`
	MaxParticipants    *int      `json:"max_participants"`
	TotalRegistrations int64     `json:"total_registrations"`
	TotalAttendance    int64     `json:"total_attendance"`
	AttendanceRate     float64   `json:"attendance_rate"`
	AvgRating          float64   `json:"avg_rating"`
	IsFull             bool      `json:"is_full"`
}

type PopularityOutput struct {
	Body struct {
		ReportType  string                `json:"report_type"`
		TotalEvents int                   `json:"total_events"`
		Data        []EventPopularityItem `json:"data"`
	}
}

func (h *ReportsHandler) HandlePopularity(ctx context.Context, input *PopularityInput) (*PopularityOutput, error) {
	var rows []eventAggRow
	q := input.ReportFilters.Apply(h.db.WithContext(ctx).Model(&models.Event{})).
		Select(`events.id AS event_id, events.event_code, events.title, events.event_type,
			events.start_date, events.location, events.max_participants,
			colleges.name AS college_name, colleges.code AS college_code,
			` + registeredCountSub + ` AS total_registrations,
			` + presentCountSub + ` AS total_attendance,
			` + avgRatingSub + ` AS avg_rating`).
		Joins("JOIN colleges ON colleges.id = events.college_id").
		Order("total_registrations DESC").
		Limit(input.Limit)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to build popularity report")
	}

	res := &PopularityOutput{}
	res.Body.ReportType = "event_popularity"
	res.Body.Data = make([]EventPopularityItem, 0, len(rows))
	for _, row := range rows {
		res.Body.Data = append(res.Body.Data, EventPopularityItem{
			EventID:            row.EventID,
			EventCode:          row.EventCode,
			Title:              row.Title,
			CollegeName:        row.CollegeName,
			CollegeCode:        row.CollegeCode,
			EventType:          row.EventType,
			StartDate:          row.StartDate,
			Location:           row.Location,
			MaxParticipants:    row.MaxParticipants,
			TotalRegistrations: row.TotalRegistrations,
			TotalAttendance:    row.TotalAttendance,
			AttendanceRate:     rate(row.TotalAttendance, row.TotalRegistrations),
			AvgRating:          derefRounded(row.AvgRating),
			IsFull:             row.MaxParticipants != nil && row.TotalRegistrations >= int64(*row.MaxParticipants),
		})
	}
	res.Body.TotalEvents = len(res.Body.Data)
	return res, nil
}

// ---- Student participation ----

const (
	studentRegSub = "(SELECT COUNT(*) FROM event_registrations r WHERE r.student_id = students.id AND r.status = 'registered' AND r.deleted_at IS NULL)"
	studentAttSub = "(SELECT COUNT(*) FROM attendances a WHERE a.student_id = students.id AND a.status = 'present' AND a.deleted_at IS NULL)"
	studentAvgSub = "(SELECT AVG(f.rating) FROM feedbacks f WHERE f.student_id = students.id AND f.deleted_at IS NULL)"
)

type ParticipationInput struct {
	auth.AuthInput
	CollegeID   uint   `query:"college_id" doc:"Filter by college"`
	Department  string `query:"department" doc:"Filter by department"`
	YearOfStudy int    `query:"year_of_study" minimum:"0" maximum:"5"`
	MinEvents   int    `query:"min_events" minimum:"0" default:"1" doc:"Minimum registrations to be included"`
}

type studentAggRow struct {
	StudentPK          uint
	StudentCode        string
	FirstName          string
	LastName           string
	CollegeName        string
	Department         string
	YearOfStudy        *int
	TotalRegistrations int64
	TotalAttendance    int64
	AvgRatingGiven     *float64
}

type StudentParticipationItem struct {
	StudentID          uint    `json:"student_id"`
	StudentCode        string  `json:"student_code"`
	FullName           string  `json:"full_name"`
	CollegeName        string  `json:"college"`
	Department         string  `json:"department"`
	YearOfStudy        *int    `json:"year_of_study"`
	TotalRegistrations int64   `json:"total_registrations"`
	TotalAttendance    int64   `json:"total_attendance"`
	AttendanceRate     float64 `json:"attendance_rate"`
	AvgRatingGiven     float64 `json:"avg_rating_given"`
}

type ParticipationOutput struct {
	Body struct {
		ReportType    string                     `json:"report_type"`
		TotalStudents int                        `json:"total_students"`
		Data          []StudentParticipationItem `json:"data"`
	}
}

func (h *ReportsHandler) HandleParticipation(ctx context.Context, input *ParticipationInput) (*ParticipationOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	q := h.db.WithContext(ctx).Model(&models.Student{}).
		Select(`students.id AS student_pk, students.student_id AS student_code,
			students.first_name, students.last_name, students.department, students.year_of_study,
			colleges.name AS college_name,
			` + studentRegSub + ` AS total_registrations,
			` + studentAttSub + ` AS total_attendance,
			` + studentAvgSub + ` AS avg_rating_given`).
		Joins("JOIN colleges ON colleges.id = students.college_id").
		Where(studentRegSub+" >= ?", input.MinEvents).
		Order("total_registrations DESC")
	if input.CollegeID != 0 {
		q = q.Where("students.college_id = ?", input.CollegeID)
	}
	if input.Department != "" {
		q = q.Where("students.department = ?", input.Department)
	}
	if input.YearOfStudy != 0 {
		q = q.Where("students.year_of_study = ?", input.YearOfStudy)
	}

	var rows []studentAggRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to build participation report")
	}

	res := &ParticipationOutput{}
	res.Body.ReportType = "student_participation"
	res.Body.Data = make([]StudentParticipationItem, 0, len(rows))
	for _, row := range rows {
		res.Body.Data = append(res.Body.Data, StudentParticipationItem{
			StudentID:          row.StudentPK,
			StudentCode:        row.StudentCode,
			FullName:           row.FirstName + " " + row.LastName,
			CollegeName:        row.CollegeName,
			Department:         row.Department,
			YearOfStudy:        row.YearOfStudy,
			TotalRegistrations: row.TotalRegistrations,
			TotalAttendance:    row.TotalAttendance,
			AttendanceRate:     rate(row.TotalAttendance, row.TotalRegistrations),
			AvgRatingGiven:     derefRounded(row.AvgRatingGiven),
		})
	}
	res.Body.TotalStudents = len(res.Body.Data)
	return res, nil
}

// ---- Attendance summary ----

type AttendanceSummaryInput struct {
	auth.AuthInput
	ReportFilters
}

type GroupAttendanceItem struct {
	EventType          string  `json:"event_type,omitempty"`
	CollegeCode        string  `json:"college_code,omitempty"`
	CollegeName        string  `json:"college_name,omitempty"`
	EventCount         int64   `json:"event_count"`
	TotalRegistrations int64   `json:"total_registrations"`
	TotalAttendance    int64   `json:"total_attendance"`
	AttendanceRate     float64 `json:"attendance_rate"`
}

type AttendanceSummaryOutput struct {
	Body struct {
		ReportType string `json:"report_type"`
		Overall    struct {
			TotalEvents           int64   `json:"total_events"`
			TotalRegistrations    int64   `json:"total_registrations"`
			TotalAttendance       int64   `json:"total_attendance"`
			OverallAttendanceRate float64 `json:"overall_attendance_rate"`
		} `json:"overall_statistics"`
		ByEventType []GroupAttendanceItem `json:"attendance_by_event_type"`
		ByCollege   []GroupAttendanceItem `json:"attendance_by_college"`
	}
}

type groupAggRow struct {
	EventType          string
	CollegeCode        string
	CollegeName        string
	EventCount         int64
	TotalRegistrations int64
	TotalAttendance    int64
}

func (h *ReportsHandler) HandleAttendanceSummary(ctx context.Context, input *AttendanceSummaryInput) (*AttendanceSummaryOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}
	db := h.db.WithContext(ctx)

	res := &AttendanceSummaryOutput{}
	res.Body.ReportType = "attendance_summary"

	input.ReportFilters.Apply(db.Model(&models.Event{})).Count(&res.Body.Overall.TotalEvents)
	input.ReportFilters.Apply(
		db.Model(&models.EventRegistration{}).
			Joins("JOIN events ON events.id = event_registrations.event_id AND events.deleted_at IS NULL").
			Where("event_registrations.status = ?", models.RegistrationStatusRegistered),
	).Count(&res.Body.Overall.TotalRegistrations)
	input.ReportFilters.Apply(
		db.Model(&models.Attendance{}).
			Joins("JOIN events ON events.id = attendances.event_id AND events.deleted_at IS NULL").
			Where("attendances.status = ?", models.AttendanceStatusPresent),
	).Count(&res.Body.Overall.TotalAttendance)
	res.Body.Overall.OverallAttendanceRate = rate(res.Body.Overall.TotalAttendance, res.Body.Overall.TotalRegistrations)

	var byType []groupAggRow
	input.ReportFilters.Apply(db.Model(&models.Event{})).
		Select(`events.event_type AS event_type, COUNT(*) AS event_count,
			SUM(` + registeredCountSub + `) AS total_registrations,
			SUM(` + presentCountSub + `) AS total_attendance`).
		Group("events.event_type").Order("events.event_type").
		Scan(&byType)
	for _, row := range byType {
		res.Body.ByEventType = append(res.Body.ByEventType, GroupAttendanceItem{
			EventType:          row.EventType,
			EventCount:         row.EventCount,
			TotalRegistrations: row.TotalRegistrations,
			TotalAttendance:    row.TotalAttendance,
			AttendanceRate:     rate(row.TotalAttendance, row.TotalRegistrations),
		})
	}

	var byCollege []groupAggRow
	input.ReportFilters.Apply(db.Model(&models.Event{})).
		Select(`colleges.code AS college_code, colleges.name AS college_name, COUNT(*) AS event_count,
			SUM(` + registeredCountSub + `) AS total_registrations,
			SUM(` + presentCountSub + `) AS total_attendance`).
		Joins("JOIN colleges ON colleges.id = events.college_id").
		Group("colleges.id").Order("colleges.name").
		Scan(&byCollege)
	for _, row := range byCollege {
		res.Body.ByCollege = append(res.Body.ByCollege, GroupAttendanceItem{
			CollegeCode:        row.CollegeCode,
			CollegeName:        row.CollegeName,
			EventCount:         row.EventCount,
			TotalRegistrations: row.TotalRegistrations,
			TotalAttendance:    row.TotalAttendance,
			AttendanceRate:     rate(row.TotalAttendance, row.TotalRegistrations),
		})
	}

	return res, nil
}

// ---- Feedback scores ----

type FeedbackScoresInput struct {
	auth.AuthInput
	ReportFilters
	MinRating int `query:"min_rating" minimum:"1" maximum:"5" default:"1"`
	MaxRating int `query:"max_rating" minimum:"1" maximum:"5" default:"5"`
}

type RatingBucket struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

type GroupFeedbackItem struct {
	EventType     string  `json:"event_type,omitempty"`
	CollegeCode   string  `json:"college_code,omitempty"`
	CollegeName   string  `json:"college_name,omitempty"`
	TotalFeedback int64   `json:"total_feedback"`
	AvgRating     float64 `json:"avg_rating"`
}

type RatedEventItem struct {
	EventID       uint    `json:"event_id"`
	EventCode     string  `json:"event_code"`
	Title         string  `json:"title"`
	CollegeName   string  `json:"college"`
	AvgRating     float64 `json:"avg_rating"`
	FeedbackCount int64   `json:"feedback_count"`
}

type FeedbackScoresOutput struct {
	Body struct {
		ReportType string `json:"report_type"`
		Overall    struct {
			TotalFeedback int64   `json:"total_feedback"`
			AvgRating     float64 `json:"avg_rating"`
		} `json:"overall_statistics"`
		RatingDistribution []RatingBucket      `json:"rating_distribution"`
		ByEventType        []GroupFeedbackItem `json:"feedback_by_event_type"`
		ByCollege          []GroupFeedbackItem `json:"feedback_by_college"`
		TopRatedEvents     []RatedEventItem    `json:"top_rated_events"`
		BottomRatedEvents  []RatedEventItem    `json:"bottom_rated_events"`
	}
}

type groupFeedbackRow struct {
	EventType     string
	CollegeCode   string
	CollegeName   string
	TotalFeedback int64
	AvgRating     *float64
}

type ratedEventRow struct {
	EventID       uint
	EventCode     string
	Title         string
	CollegeName   string
	AvgRating     *float64
	FeedbackCount int64
}

func (h *ReportsHandler) HandleFeedbackScores(ctx context.Context, input *FeedbackScoresInput) (*FeedbackScoresOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}
	db := h.db.WithContext(ctx)

	res := &FeedbackScoresOutput{}
	res.Body.ReportType = "feedback_scores"

	scoped := func() *gorm.DB {
		return input.ReportFilters.Apply(
			db.Model(&models.Feedback{}).
				Joins("JOIN events ON events.id = feedbacks.event_id AND events.deleted_at IS NULL").
				Where("feedbacks.rating BETWEEN ? AND ?", input.MinRating, input.MaxRating),
		)
	}

	scoped().Count(&res.Body.Overall.TotalFeedback)
	var avg *float64
	scoped().Select("AVG(feedbacks.rating)").Scan(&avg)
	res.Body.Overall.AvgRating = derefRounded(avg)

	scoped().Select("feedbacks.rating AS rating, COUNT(*) AS count").
		Group("feedbacks.rating").Order("feedbacks.rating").
		Scan(&res.Body.RatingDistribution)

	var byType []groupFeedbackRow
	input.ReportFilters.Apply(
		db.Model(&models.Feedback{}).
			Joins("JOIN events ON events.id = feedbacks.event_id AND events.deleted_at IS NULL"),
	).
		Select("events.event_type AS event_type, COUNT(*) AS total_feedback, AVG(feedbacks.rating) AS avg_rating").
		Group("events.event_type").Order("events.event_type").
		Scan(&byType)
	for _, row := range byType {
		res.Body.ByEventType = append(res.Body.ByEventType, GroupFeedbackItem{
			EventType:     row.EventType,
			TotalFeedback: row.TotalFeedback,
			AvgRating:     derefRounded(row.AvgRating),
		})
	}

	var byCollege []groupFeedbackRow
	input.ReportFilters.Apply(
		db.Model(&models.Feedback{}).
			Joins("JOIN events ON events.id = feedbacks.event_id AND events.deleted_at IS NULL").
			Joins("JOIN colleges ON colleges.id = events.college_id"),
	).
		Select("colleges.code AS college_code, colleges.name AS college_name, COUNT(*) AS total_feedback, AVG(feedbacks.rating) AS avg_rating").
		Group("colleges.id").Order("colleges.name").
		Scan(&byCollege)
	for _, row := range byCollege {
		res.Body.ByCollege = append(res.Body.ByCollege, GroupFeedbackItem{
			CollegeCode:   row.CollegeCode,
			CollegeName:   row.CollegeName,
			TotalFeedback: row.TotalFeedback,
			AvgRating:     derefRounded(row.AvgRating),
		})
	}

	ratedEvents := func(ascending bool) ([]ratedEventRow, error) {
		direction := "DESC"
		if ascending {
			direction = "ASC"
		}
		var rows []ratedEventRow
		err := input.ReportFilters.Apply(db.Model(&models.Event{})).
			Select(`events.id AS event_id, events.event_code, events.title,
				colleges.name AS college_name,
				`+avgRatingSub+` AS avg_rating,
				`+feedbackCountSub+` AS feedback_count`).
			Joins("JOIN colleges ON colleges.id = events.college_id").
			Where(feedbackCountSub + " > 0").
			Order("avg_rating " + direction).
			Limit(10).
			Scan(&rows).Error
		return rows, err
	}

	top, err := ratedEvents(false)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to build feedback report")
	}
	bottom, err := ratedEvents(true)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to build feedback report")
	}
	for _, row := range top {
		res.Body.TopRatedEvents = append(res.Body.TopRatedEvents, RatedEventItem{
			EventID: row.EventID, EventCode: row.EventCode, Title: row.Title,
			CollegeName: row.CollegeName, AvgRating: derefRounded(row.AvgRating), FeedbackCount: row.FeedbackCount,
		})
	}
	for _, row := range bottom {
		res.Body.BottomRatedEvents = append(res.Body.BottomRatedEvents, RatedEventItem{
			EventID: row.EventID, EventCode: row.EventCode, Title: row.Title,
			CollegeName: row.CollegeName, AvgRating: derefRounded(row.AvgRating), FeedbackCount: row.FeedbackCount,
		})
	}

	return res, nil
}

// ---- College summary ----

type CollegeSummaryInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type MonthlyTrend struct {
	Year       int   `json:"year"`
	Month      int   `json:"month"`
	EventCount int64 `json:"event_count"`
}

type TopEventItem struct {
	EventID           uint    `json:"event_id"`
	EventCode         string  `json:"event_code"`
	Title             string  `json:"title"`
	EventType         string  `json:"event_type"`
	RegistrationCount int64   `json:"registration_count"`
	AttendanceCount   int64   `json:"attendance_count"`
	AvgRating         float64 `json:"avg_rating"`
}

type DepartmentParticipation struct {
	Department         string `json:"department"`
	TotalStudents      int64  `json:"total_students"`
	ActiveParticipants int64  `json:"active_participants"`
}

type CollegeSummaryOutput struct {
	Body struct {
		ReportType string `json:"report_type"`
		College    struct {
			ID   uint   `json:"id"`
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"college"`
		Overview struct {
			TotalEvents        int64   `json:"total_events"`
			ActiveEvents       int64   `json:"active_events"`
			CompletedEvents    int64   `json:"completed_events"`
			CancelledEvents    int64   `json:"cancelled_events"`
			TotalRegistrations int64   `json:"total_registrations"`
			TotalAttendance    int64   `json:"total_attendance"`
			AttendanceRate     float64 `json:"attendance_rate"`
			TotalFeedback      int64   `json:"total_feedback"`
			AvgRating          float64 `json:"avg_rating"`
		} `json:"overview"`
		EventTypeBreakdown []EventTypeCount          `json:"event_type_breakdown"`
		MonthlyTrends      []MonthlyTrend            `json:"monthly_trends"`
		TopEvents          []TopEventItem            `json:"top_events"`
		ByDepartment       []DepartmentParticipation `json:"student_participation_by_department"`
	}
}

type topEventRow struct {
	EventID           uint
	EventCode         string
	Title             string
	EventType         string
	RegistrationCount int64
	AttendanceCount   int64
	AvgRating         *float64
}

func (h *ReportsHandler) HandleCollegeSummary(ctx context.Context, input *CollegeSummaryInput) (*CollegeSummaryOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var college models.College
	if err := h.db.WithContext(ctx).First(&college, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("College not found")
	}
	db := h.db.WithContext(ctx)

	res := &CollegeSummaryOutput{}
	res.Body.ReportType = "college_summary"
	res.Body.College.ID = college.ID
	res.Body.College.Code = college.Code
	res.Body.College.Name = college.Name

	events := func() *gorm.DB {
		return db.Model(&models.Event{}).Where("events.college_id = ?", college.ID)
	}
	events().Count(&res.Body.Overview.TotalEvents)
	events().Where("status = ?", models.EventStatusActive).Count(&res.Body.Overview.ActiveEvents)
	events().Where("status = ?", models.EventStatusCompleted).Count(&res.Body.Overview.CompletedEvents)
	events().Where("status = ?", models.EventStatusCancelled).Count(&res.Body.Overview.CancelledEvents)

	db.Model(&models.EventRegistration{}).
		Joins("JOIN events ON events.id = event_registrations.event_id AND events.deleted_at IS NULL").
		Where("events.college_id = ? AND event_registrations.status = ?", college.ID, models.RegistrationStatusRegistered).
		Count(&res.Body.Overview.TotalRegistrations)
	db.Model(&models.Attendance{}).
		Joins("JOIN events ON events.id = attendances.event_id AND events.deleted_at IS NULL").
		Where("events.college_id = ? AND attendances.status = ?", college.ID, models.AttendanceStatusPresent).
		Count(&res.Body.Overview.TotalAttendance)
	res.Body.Overview.AttendanceRate = rate(res.Body.Overview.TotalAttendance, res.Body.Overview.TotalRegistrations)

	feedbackScope := func() *gorm.DB {
		return db.Model(&models.Feedback{}).
			Joins("JOIN events ON events.id = feedbacks.event_id AND events.deleted_at IS NULL").
			Where("events.college_id = ?", college.ID)
	}
	feedbackScope().Count(&res.Body.Overview.TotalFeedback)
	var avg *float64
	feedbackScope().Select("AVG(feedbacks.rating)").Scan(&avg)
	res.Body.Overview.AvgRating = derefRounded(avg)

	events().Select("events.event_type AS event_type, COUNT(*) AS count").
		Group("events.event_type").Order("count DESC").
		Scan(&res.Body.EventTypeBreakdown)

	twelveMonthsAgo := time.Now().AddDate(0, 0, -365)
	events().
		Select(`CAST(strftime('%Y', events.start_date) AS INTEGER) AS year,
			CAST(strftime('%m', events.start_date) AS INTEGER) AS month,
			COUNT(*) AS event_count`).
		Where("events.start_date >= ?", twelveMonthsAgo).
		Group("year, month").Order("year, month").
		Scan(&res.Body.MonthlyTrends)

	var topRows []topEventRow
	events().
		Select(`events.id AS event_id, events.event_code, events.title, events.event_type,
			` + registeredCountSub + ` AS registration_count,
			` + presentCountSub + ` AS attendance_count,
			` + avgRatingSub + ` AS avg_rating`).
		Order("registration_count DESC").Limit(5).
		Scan(&topRows)
	for _, row := range topRows {
		res.Body.TopEvents = append(res.Body.TopEvents, TopEventItem{
			EventID:           row.EventID,
			EventCode:         row.EventCode,
			Title:             row.Title,
			EventType:         row.EventType,
			RegistrationCount: row.RegistrationCount,
			AttendanceCount:   row.AttendanceCount,
			AvgRating:         derefRounded(row.AvgRating),
		})
	}

	db.Model(&models.Student{}).
		Select(`students.department AS department, COUNT(*) AS total_students,
			SUM(` + studentRegSub + `) AS active_participants`).
		Where("students.college_id = ?", college.ID).
		Group("students.department").Order("active_participants DESC").
		Scan(&res.Body.ByDepartment)

	return res, nil
}

// ---- Dashboard summary ----

type DashboardInput struct{}

type TopCollegeItem struct {
	CollegeID         uint    `json:"college_id"`
	CollegeCode       string  `json:"college_code"`
	CollegeName       string  `json:"college_name"`
	EventCount        int64   `json:"event_count"`
	RegistrationCount int64   `json:"registration_count"`
	AvgRating         float64 `json:"avg_rating"`
}

type RecentRegistrationItem struct {
	ID               uint      `json:"id"`
	StudentName      string    `json:"student_name"`
	StudentID        string    `json:"student_id"`
	EventTitle       string    `json:"event_title"`
	EventCode        string    `json:"event_code"`
	CollegeName      string    `json:"college_name"`
	RegistrationDate time.Time `json:"registration_date"`
	Status           string    `json:"status"`
}

type DashboardOutput struct {
	Body struct {
		ReportType string `json:"report_type"`
		Overview   struct {
			TotalColleges      int64 `json:"total_colleges"`
			TotalStudents      int64 `json:"total_students"`
			TotalEvents        int64 `json:"total_events"`
			ActiveEvents       int64 `json:"active_events"`
			TotalRegistrations int64 `json:"total_registrations"`
		} `json:"overview"`
		RecentActivity struct {
			Period        string `json:"period"`
			Registrations int64  `json:"registrations"`
			Attendance    int64  `json:"attendance"`
			Feedback      int64  `json:"feedback"`
		} `json:"recent_activity"`
		TopColleges         []TopCollegeItem         `json:"top_colleges"`
		RecentRegistrations []RecentRegistrationItem `json:"recent_registrations"`
		EventTypePopularity []EventTypeCount         `json:"event_type_popularity"`
	}
}

const (
	collegeEventCountSub = "(SELECT COUNT(*) FROM events e WHERE e.college_id = colleges.id AND e.deleted_at IS NULL)"
	collegeRegCountSub   = "(SELECT COUNT(*) FROM event_registrations r JOIN events e ON e.id = r.event_id AND e.deleted_at IS NULL WHERE e.college_id = colleges.id AND r.status = 'registered' AND r.deleted_at IS NULL)"
	collegeAvgRatingSub  = "(SELECT AVG(f.rating) FROM feedbacks f JOIN events e ON e.id = f.event_id AND e.deleted_at IS NULL WHERE e.college_id = colleges.id AND f.deleted_at IS NULL)"
)

type topCollegeRow struct {
	CollegeID         uint
	CollegeCode       string
	CollegeName       string
	EventCount        int64
	RegistrationCount int64
	AvgRating         *float64
}

func (h *ReportsHandler) HandleDashboard(ctx context.Context, _ *DashboardInput) (*DashboardOutput, error) {
	db := h.db.WithContext(ctx)

	res := &DashboardOutput{}
	res.Body.ReportType = "dashboard_summary"

	db.Model(&models.College{}).Count(&res.Body.Overview.TotalColleges)
	db.Model(&models.Student{}).Count(&res.Body.Overview.TotalStudents)
	db.Model(&models.Event{}).Count(&res.Body.Overview.TotalEvents)
	db.Model(&models.Event{}).Where("status = ?", models.EventStatusActive).Count(&res.Body.Overview.ActiveEvents)
	db.Model(&models.EventRegistration{}).Where("status = ?", models.RegistrationStatusRegistered).
		Count(&res.Body.Overview.TotalRegistrations)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	res.Body.RecentActivity.Period = "Last 30 days"
	db.Model(&models.EventRegistration{}).Where("created_at >= ?", thirtyDaysAgo).
		Count(&res.Body.RecentActivity.Registrations)
	db.Model(&models.Attendance{}).Where("check_in_time >= ?", thirtyDaysAgo).
		Count(&res.Body.RecentActivity.Attendance)
	db.Model(&models.Feedback{}).Where("created_at >= ?", thirtyDaysAgo).
		Count(&res.Body.RecentActivity.Feedback)

	var topRows []topCollegeRow
	db.Model(&models.College{}).
		Select(`colleges.id AS college_id, colleges.code AS college_code, colleges.name AS college_name,
			` + collegeEventCountSub + ` AS event_count,
			` + collegeRegCountSub + ` AS registration_count,
			` + collegeAvgRatingSub + ` AS avg_rating`).
		Where(collegeEventCountSub + " > 0").
		Order("registration_count DESC").Limit(5).
		Scan(&topRows)
	for _, row := range topRows {
		res.Body.TopColleges = append(res.Body.TopColleges, TopCollegeItem{
			CollegeID:         row.CollegeID,
			CollegeCode:       row.CollegeCode,
			CollegeName:       row.CollegeName,
			EventCount:        row.EventCount,
			RegistrationCount: row.RegistrationCount,
			AvgRating:         derefRounded(row.AvgRating),
		})
	}

	var recent []models.EventRegistration
	db.Preload("Student").Preload("Event").Preload("Event.College").
		Where("created_at >= ?", thirtyDaysAgo).
		Order("created_at DESC").Limit(10).
		Find(&recent)
	for _, r := range recent {
		res.Body.RecentRegistrations = append(res.Body.RecentRegistrations, RecentRegistrationItem{
			ID:               r.ID,
			StudentName:      r.Student.FullName(),
			StudentID:        r.Student.StudentID,
			EventTitle:       r.Event.Title,
			EventCode:        r.Event.EventCode,
			CollegeName:      r.Event.College.Name,
			RegistrationDate: r.CreatedAt,
			Status:           r.Status,
		})
	}

	db.Model(&models.Event{}).
		Select("events.event_type AS event_type, COUNT(*) AS count").
		Group("events.event_type").Order("count DESC").
		Scan(&res.Body.EventTypePopularity)

	return res, nil
}
