package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/campushq/campus-events-api/internal/models"
)

func TestRateHelpers(t *testing.T) {
	if got := rate(4, 10); got != 40.0 {
		t.Errorf("expected 40.0, got %v", got)
	}
	if got := rate(1, 3); got != 33.33 {
		t.Errorf("expected 33.33, got %v", got)
	}
	if got := rate(5, 0); got != 0 {
		t.Errorf("expected 0 for zero registrations, got %v", got)
	}
	if got := round2(4.666666); got != 4.67 {
		t.Errorf("expected 4.67, got %v", got)
	}
}

func TestHandleAttendanceSummary(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "TECH")
	event := env.createEvent(t, college, nil)

	// 10 registered students, 4 of them present.
	for i := 0; i < 10; i++ {
		student := env.createStudent(t, college, fmt.Sprintf("TECH%03d", i))
		env.db.Create(&models.EventRegistration{EventID: event.ID, StudentID: student.ID})
		if i < 4 {
			env.db.Create(&models.Attendance{EventID: event.ID, StudentID: student.ID})
		}
	}

	handler := NewReportsHandler(env.db, env.authHandler)
	resp, err := handler.HandleAttendanceSummary(context.Background(), &AttendanceSummaryInput{AuthInput: env.adminAuth})
	if err != nil {
		t.Fatalf("HandleAttendanceSummary returned error: %v", err)
	}

	if resp.Body.Overall.TotalEvents != 1 {
		t.Errorf("expected 1 event, got %d", resp.Body.Overall.TotalEvents)
	}
	if resp.Body.Overall.TotalRegistrations != 10 {
		t.Errorf("expected 10 registrations, got %d", resp.Body.Overall.TotalRegistrations)
	}
	if resp.Body.Overall.TotalAttendance != 4 {
		t.Errorf("expected 4 attendance, got %d", resp.Body.Overall.TotalAttendance)
	}
	if resp.Body.Overall.OverallAttendanceRate != 40.0 {
		t.Errorf("expected rate 40.0, got %v", resp.Body.Overall.OverallAttendanceRate)
	}

	if len(resp.Body.ByEventType) != 1 || resp.Body.ByEventType[0].EventType != "workshop" {
		t.Fatalf("expected one workshop group, got %+v", resp.Body.ByEventType)
	}
	if resp.Body.ByEventType[0].AttendanceRate != 40.0 {
		t.Errorf("expected group rate 40.0, got %v", resp.Body.ByEventType[0].AttendanceRate)
	}
}

func TestHandlePopularity(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "TECH")
	popular := env.createEvent(t, college, nil)
	quiet := env.createEvent(t, college, nil)

	for i := 0; i < 3; i++ {
		student := env.createStudent(t, college, fmt.Sprintf("TECH%03d", i))
		env.db.Create(&models.EventRegistration{EventID: popular.ID, StudentID: student.ID})
		if i == 0 {
			env.db.Create(&models.EventRegistration{EventID: quiet.ID, StudentID: student.ID})
			env.db.Create(&models.Attendance{EventID: popular.ID, StudentID: student.ID})
			env.db.Create(&models.Feedback{EventID: popular.ID, StudentID: student.ID, Rating: 5})
		}
	}

	handler := NewReportsHandler(env.db, env.authHandler)
	resp, err := handler.HandlePopularity(context.Background(), &PopularityInput{Limit: 10})
	if err != nil {
		t.Fatalf("HandlePopularity returned error: %v", err)
	}

	if resp.Body.TotalEvents != 2 {
		t.Fatalf("expected 2 events, got %d", resp.Body.TotalEvents)
	}
	first := resp.Body.Data[0]
	if first.EventID != popular.ID {
		t.Errorf("expected the busier event first, got event %d", first.EventID)
	}
	if first.TotalRegistrations != 3 {
		t.Errorf("expected 3 registrations, got %d", first.TotalRegistrations)
	}
	if first.AttendanceRate != 33.33 {
		t.Errorf("expected rate 33.33, got %v", first.AttendanceRate)
	}
	if first.AvgRating != 5.0 {
		t.Errorf("expected avg rating 5.0, got %v", first.AvgRating)
	}
	if first.IsFull {
		t.Error("expected event without capacity to never be full")
	}
}

func TestHandleParticipation(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "TECH")
	event := env.createEvent(t, college, nil)

	active := env.createStudent(t, college, "TECH001")
	env.createStudent(t, college, "TECH002")
	env.db.Create(&models.EventRegistration{EventID: event.ID, StudentID: active.ID})
	env.db.Create(&models.Attendance{EventID: event.ID, StudentID: active.ID})
	env.db.Create(&models.Feedback{EventID: event.ID, StudentID: active.ID, Rating: 4})

	handler := NewReportsHandler(env.db, env.authHandler)
	resp, err := handler.HandleParticipation(context.Background(), &ParticipationInput{AuthInput: env.adminAuth, MinEvents: 1})
	if err != nil {
		t.Fatalf("HandleParticipation returned error: %v", err)
	}

	// The idle student falls below min_events.
	if resp.Body.TotalStudents != 1 {
		t.Fatalf("expected 1 student, got %d", resp.Body.TotalStudents)
	}
	row := resp.Body.Data[0]
	if row.StudentCode != "TECH001" {
		t.Errorf("expected TECH001, got %s", row.StudentCode)
	}
	if row.AttendanceRate != 100.0 {
		t.Errorf("expected rate 100.0, got %v", row.AttendanceRate)
	}
	if row.AvgRatingGiven != 4.0 {
		t.Errorf("expected avg rating 4.0, got %v", row.AvgRatingGiven)
	}
}

func TestHandleFeedbackScores(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "TECH")
	event := env.createEvent(t, college, nil)

	ratings := []int{5, 4, 4, 2}
	for i, rating := range ratings {
		student := env.createStudent(t, college, fmt.Sprintf("TECH%03d", i))
		env.db.Create(&models.Feedback{EventID: event.ID, StudentID: student.ID, Rating: rating})
	}

	handler := NewReportsHandler(env.db, env.authHandler)
	resp, err := handler.HandleFeedbackScores(context.Background(), &FeedbackScoresInput{
		AuthInput: env.adminAuth,
		MinRating: 1,
		MaxRating: 5,
	})
	if err != nil {
		t.Fatalf("HandleFeedbackScores returned error: %v", err)
	}

	if resp.Body.Overall.TotalFeedback != 4 {
		t.Errorf("expected 4 feedback rows, got %d", resp.Body.Overall.TotalFeedback)
	}
	if resp.Body.Overall.AvgRating != 3.75 {
		t.Errorf("expected avg 3.75, got %v", resp.Body.Overall.AvgRating)
	}
	if len(resp.Body.RatingDistribution) != 3 {
		t.Errorf("expected 3 distinct ratings, got %d", len(resp.Body.RatingDistribution))
	}
	if len(resp.Body.TopRatedEvents) != 1 || resp.Body.TopRatedEvents[0].FeedbackCount != 4 {
		t.Errorf("expected the event in top rated with 4 feedback, got %+v", resp.Body.TopRatedEvents)
	}

	// A narrowed rating range shrinks the overall numbers.
	resp, err = handler.HandleFeedbackScores(context.Background(), &FeedbackScoresInput{
		AuthInput: env.adminAuth,
		MinRating: 4,
		MaxRating: 5,
	})
	if err != nil {
		t.Fatalf("HandleFeedbackScores returned error: %v", err)
	}
	if resp.Body.Overall.TotalFeedback != 3 {
		t.Errorf("expected 3 feedback rows in range, got %d", resp.Body.Overall.TotalFeedback)
	}
}

func TestHandleCollegeSummary(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "TECH")
	event := env.createEvent(t, college, nil)
	student := env.createStudent(t, college, "TECH001")

	env.db.Create(&models.EventRegistration{EventID: event.ID, StudentID: student.ID})
	env.db.Create(&models.Attendance{EventID: event.ID, StudentID: student.ID})
	env.db.Create(&models.Feedback{EventID: event.ID, StudentID: student.ID, Rating: 5})

	handler := NewReportsHandler(env.db, env.authHandler)
	resp, err := handler.HandleCollegeSummary(context.Background(), &CollegeSummaryInput{AuthInput: env.adminAuth, ID: college.ID})
	if err != nil {
		t.Fatalf("HandleCollegeSummary returned error: %v", err)
	}

	if resp.Body.College.Code != "TECH" {
		t.Errorf("expected college TECH, got %s", resp.Body.College.Code)
	}
	if resp.Body.Overview.TotalEvents != 1 || resp.Body.Overview.ActiveEvents != 1 {
		t.Errorf("expected 1 active event, got %+v", resp.Body.Overview)
	}
	if resp.Body.Overview.AttendanceRate != 100.0 {
		t.Errorf("expected rate 100.0, got %v", resp.Body.Overview.AttendanceRate)
	}
	if resp.Body.Overview.AvgRating != 5.0 {
		t.Errorf("expected avg rating 5.0, got %v", resp.Body.Overview.AvgRating)
	}
	if len(resp.Body.TopEvents) != 1 || resp.Body.TopEvents[0].RegistrationCount != 1 {
		t.Errorf("expected one top event, got %+v", resp.Body.TopEvents)
	}
	if len(resp.Body.MonthlyTrends) != 1 {
		t.Errorf("expected one monthly bucket, got %+v", resp.Body.MonthlyTrends)
	}

	if _, err := handler.HandleCollegeSummary(context.Background(), &CollegeSummaryInput{AuthInput: env.adminAuth, ID: 9999}); err == nil {
		t.Error("expected error for unknown college")
	}
}

func TestHandleDashboard(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "TECH")
	event := env.createEvent(t, college, nil)
	student := env.createStudent(t, college, "TECH001")

	env.db.Create(&models.EventRegistration{EventID: event.ID, StudentID: student.ID})
	env.db.Create(&models.Attendance{EventID: event.ID, StudentID: student.ID})
	env.db.Create(&models.Feedback{EventID: event.ID, StudentID: student.ID, Rating: 3})

	handler := NewReportsHandler(env.db, env.authHandler)
	resp, err := handler.HandleDashboard(context.Background(), &DashboardInput{})
	if err != nil {
		t.Fatalf("HandleDashboard returned error: %v", err)
	}

	if resp.Body.Overview.TotalColleges != 1 {
		t.Errorf("expected 1 college, got %d", resp.Body.Overview.TotalColleges)
	}
	if resp.Body.Overview.TotalStudents != 1 {
		t.Errorf("expected 1 student, got %d", resp.Body.Overview.TotalStudents)
	}
	if resp.Body.Overview.ActiveEvents != 1 {
		t.Errorf("expected 1 active event, got %d", resp.Body.Overview.ActiveEvents)
	}
	if resp.Body.RecentActivity.Registrations != 1 {
		t.Errorf("expected 1 recent registration, got %d", resp.Body.RecentActivity.Registrations)
	}
	if len(resp.Body.TopColleges) != 1 || resp.Body.TopColleges[0].RegistrationCount != 1 {
		t.Errorf("expected one top college, got %+v", resp.Body.TopColleges)
	}
	if len(resp.Body.RecentRegistrations) != 1 {
		t.Fatalf("expected 1 recent registration row, got %d", len(resp.Body.RecentRegistrations))
	}
	if resp.Body.RecentRegistrations[0].EventCode != event.EventCode {
		t.Errorf("expected event code %s, got %s", event.EventCode, resp.Body.RecentRegistrations[0].EventCode)
	}
}
