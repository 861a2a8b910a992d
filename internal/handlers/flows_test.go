package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/campushq/campus-events-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
)

func errStatus(t *testing.T, err error) int {
	t.Helper()
	var statusErr huma.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected a status error, got %v", err)
	}
	return statusErr.GetStatus()
}

func TestHandleRegister(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "TECH")
	alice := env.createStudent(t, college, "TECH001")
	bob := env.createStudent(t, college, "TECH002")

	capacity := 1
	event := env.createEvent(t, college, &capacity)

	handler := NewEventHandler(env.db, nil, env.authHandler)

	input := &RegisterInput{ID: event.ID}
	input.Body.StudentID = alice.ID

	resp, err := handler.HandleRegister(context.Background(), input)
	if err != nil {
		t.Fatalf("HandleRegister returned error: %v", err)
	}
	if resp.Body.Status != models.RegistrationStatusRegistered {
		t.Errorf("expected status registered, got %s", resp.Body.Status)
	}

	// Same student again is a duplicate.
	if _, err := handler.HandleRegister(context.Background(), input); err == nil {
		t.Error("expected duplicate registration to be rejected")
	} else if errStatus(t, err) != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate, got %d", errStatus(t, err))
	}

	// The event holds one seat; the endpoint rejects instead of waitlisting.
	input.Body.StudentID = bob.ID
	if _, err := handler.HandleRegister(context.Background(), input); err == nil {
		t.Error("expected registration at capacity to be rejected")
	} else if errStatus(t, err) != http.StatusBadRequest {
		t.Errorf("expected 400 at capacity, got %d", errStatus(t, err))
	}

	var count int64
	env.db.Model(&models.EventRegistration{}).Where("event_id = ?", event.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 registration in DB, got %d", count)
	}
}

func TestHandleRegisterClosedWindow(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "TECH")
	student := env.createStudent(t, college, "TECH001")
	event := env.createEvent(t, college, nil)

	deadline := time.Now().Add(-time.Hour)
	env.db.Model(&event).Update("registration_deadline", deadline)

	handler := NewEventHandler(env.db, nil, env.authHandler)
	input := &RegisterInput{ID: event.ID}
	input.Body.StudentID = student.ID

	if _, err := handler.HandleRegister(context.Background(), input); err == nil {
		t.Error("expected registration after deadline to be rejected")
	}
}

func TestHandleRegisterUnknownEvent(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "TECH")
	student := env.createStudent(t, college, "TECH001")

	handler := NewEventHandler(env.db, nil, env.authHandler)
	input := &RegisterInput{ID: 9999}
	input.Body.StudentID = student.ID

	_, err := handler.HandleRegister(context.Background(), input)
	if err == nil {
		t.Fatal("expected error for unknown event")
	}
	if errStatus(t, err) != http.StatusNotFound {
		t.Errorf("expected 404, got %d", errStatus(t, err))
	}
}

func TestDirectRegistrationCreateWaitlists(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "TECH")
	alice := env.createStudent(t, college, "TECH001")
	bob := env.createStudent(t, college, "TECH002")

	capacity := 1
	event := env.createEvent(t, college, &capacity)

	handler := NewRegistrationHandler(env.db, env.authHandler)

	first := &CreateRegistrationInput{AuthInput: env.adminAuth}
	first.Body.EventID = event.ID
	first.Body.StudentID = alice.ID
	resp, err := handler.HandleCreate(context.Background(), first)
	if err != nil {
		t.Fatalf("HandleCreate returned error: %v", err)
	}
	if resp.Body.Status != models.RegistrationStatusRegistered {
		t.Errorf("expected status registered, got %s", resp.Body.Status)
	}

	// The direct create path never rejects on capacity; it waitlists.
	second := &CreateRegistrationInput{AuthInput: env.adminAuth}
	second.Body.EventID = event.ID
	second.Body.StudentID = bob.ID
	resp, err = handler.HandleCreate(context.Background(), second)
	if err != nil {
		t.Fatalf("HandleCreate returned error: %v", err)
	}
	if resp.Body.Status != models.RegistrationStatusWaitlisted {
		t.Errorf("expected status waitlisted, got %s", resp.Body.Status)
	}
}

func TestHandleCheckIn(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "TECH")
	registered := env.createStudent(t, college, "TECH001")
	walkIn := env.createStudent(t, college, "TECH002")
	event := env.createEvent(t, college, nil)

	env.db.Create(&models.EventRegistration{EventID: event.ID, StudentID: registered.ID})

	handler := NewEventHandler(env.db, nil, env.authHandler)

	input := &CheckInInput{AuthInput: env.adminAuth, ID: event.ID}
	input.Body.StudentID = registered.ID
	resp, err := handler.HandleCheckIn(context.Background(), input)
	if err != nil {
		t.Fatalf("HandleCheckIn returned error: %v", err)
	}
	if resp.Body.Status != models.AttendanceStatusPresent {
		t.Errorf("expected status present, got %s", resp.Body.Status)
	}

	var attendance models.Attendance
	if err := env.db.First(&attendance).Error; err != nil {
		t.Fatalf("failed to load attendance: %v", err)
	}
	if attendance.MarkedByID == nil || *attendance.MarkedByID != env.admin.ID {
		t.Error("expected attendance to record the marking admin")
	}

	// Second check-in for the same student is rejected.
	if _, err := handler.HandleCheckIn(context.Background(), input); err == nil {
		t.Error("expected duplicate check-in to be rejected")
	}

	// An unregistered student cannot check in.
	input.Body.StudentID = walkIn.ID
	if _, err := handler.HandleCheckIn(context.Background(), input); err == nil {
		t.Error("expected unregistered student check-in to be rejected")
	}
}

func TestHandleCheckInRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "TECH")
	student := env.createStudent(t, college, "TECH001")
	event := env.createEvent(t, college, nil)
	env.db.Create(&models.EventRegistration{EventID: event.ID, StudentID: student.ID})

	handler := NewEventHandler(env.db, nil, env.authHandler)

	input := &CheckInInput{ID: event.ID}
	input.Body.StudentID = student.ID
	_, err := handler.HandleCheckIn(context.Background(), input)
	if err == nil {
		t.Fatal("expected error without credentials")
	}
	if errStatus(t, err) != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", errStatus(t, err))
	}
}

func TestHandleCheckOut(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "TECH")
	student := env.createStudent(t, college, "TECH001")
	event := env.createEvent(t, college, nil)

	env.db.Create(&models.EventRegistration{EventID: event.ID, StudentID: student.ID})
	env.db.Create(&models.Attendance{EventID: event.ID, StudentID: student.ID})

	handler := NewEventHandler(env.db, nil, env.authHandler)

	input := &CheckOutInput{AuthInput: env.adminAuth, ID: event.ID}
	input.Body.StudentID = student.ID
	resp, err := handler.HandleCheckOut(context.Background(), input)
	if err != nil {
		t.Fatalf("HandleCheckOut returned error: %v", err)
	}
	if resp.Body.CheckOutTime == nil {
		t.Error("expected check-out time to be set")
	}
	if resp.Body.DurationMinutes == nil {
		t.Error("expected duration once checked out")
	}

	// Check-out is one-shot.
	if _, err := handler.HandleCheckOut(context.Background(), input); err == nil {
		t.Error("expected second check-out to be rejected")
	}
}

func TestHandleSubmitFeedback(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "TECH")
	attendee := env.createStudent(t, college, "TECH001")
	absentee := env.createStudent(t, college, "TECH002")
	event := env.createEvent(t, college, nil)

	env.db.Create(&models.EventRegistration{EventID: event.ID, StudentID: attendee.ID})
	env.db.Create(&models.EventRegistration{EventID: event.ID, StudentID: absentee.ID})
	env.db.Create(&models.Attendance{EventID: event.ID, StudentID: attendee.ID})

	handler := NewEventHandler(env.db, nil, env.authHandler)

	// Feedback requires a "present" attendance record.
	input := &SubmitFeedbackInput{ID: event.ID}
	input.Body.StudentID = absentee.ID
	input.Body.Rating = 5
	if _, err := handler.HandleSubmitFeedback(context.Background(), input); err == nil {
		t.Error("expected feedback without attendance to be rejected")
	}

	input.Body.StudentID = attendee.ID
	input.Body.Rating = 4
	input.Body.Comments = "Great session"
	resp, err := handler.HandleSubmitFeedback(context.Background(), input)
	if err != nil {
		t.Fatalf("HandleSubmitFeedback returned error: %v", err)
	}
	if resp.Body.Rating != 4 {
		t.Errorf("expected rating 4, got %d", resp.Body.Rating)
	}

	// One feedback per student per event.
	if _, err := handler.HandleSubmitFeedback(context.Background(), input); err == nil {
		t.Error("expected duplicate feedback to be rejected")
	}
}
