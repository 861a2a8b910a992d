package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/campushq/campus-events-api/internal/auth"
	"github.com/campushq/campus-events-api/internal/metrics"
	"github.com/campushq/campus-events-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type RegisterInput struct {
	ID   uint `path:"id"`
	Body struct {
		StudentID uint `json:"student_id" doc:"Student record ID" required:"true"`
	}
}

type RegisterOutput struct {
	Body RegistrationResponse
}

// HandleRegister registers a student for an event. The whole check-then-set
// sequence (window, duplicate, capacity, insert) runs in one transaction;
// the composite unique index on (event, student) is the hard backstop.
func (h *EventHandler) HandleRegister(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
	var registration models.EventRegistration

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Preload("College").First(&event, input.ID).Error; err != nil {
			return huma.Error404NotFound("Event not found")
		}

		var student models.Student
		if err := tx.First(&student, input.Body.StudentID).Error; err != nil {
			return huma.Error404NotFound("Student not found")
		}

		var existing int64
		if err := tx.Model(&models.EventRegistration{}).
			Where("event_id = ? AND student_id = ?", event.ID, student.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return huma.Error400BadRequest("Student is already registered for this event")
		}

		if !event.RegistrationOpen(time.Now()) {
			return huma.Error400BadRequest("Registration is not open for this event")
		}

		full, err := event.Full(tx)
		if err != nil {
			return err
		}
		if full {
			return huma.Error400BadRequest("Event is at full capacity")
		}

		registration = models.EventRegistration{
			EventID:   event.ID,
			Event:     event,
			StudentID: student.ID,
			Student:   student,
		}
		return tx.Create(&registration).Error
	})
	if err != nil {
		var statusErr huma.StatusError
		if errors.As(err, &statusErr) {
			return nil, statusErr
		}
		return nil, huma.Error500InternalServerError("Failed to register: " + err.Error())
	}

	metrics.RegistrationsTotal.WithLabelValues(registration.Status).Inc()
	if h.notifier != nil {
		if err := h.notifier.RegistrationCreated(registration.Student, registration.Event, registration.Status); err != nil {
			log.Printf("Failed to announce registration for event %s: %v", registration.Event.EventCode, err)
		}
	}

	return &RegisterOutput{Body: toRegistrationResponse(registration)}, nil
}

type CheckInInput struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		StudentID uint   `json:"student_id" doc:"Student record ID" required:"true"`
		Status    string `json:"status,omitempty" enum:"present,late,"`
		Notes     string `json:"notes,omitempty"`
	}
}

type CheckInOutput struct {
	Body AttendanceResponse
}

// HandleCheckIn records attendance for a registered student. Marking is a
// staff action; the caller must hold an admin session.
func (h *EventHandler) HandleCheckIn(ctx context.Context, input *CheckInInput) (*CheckInOutput, error) {
	admin, err := h.authHandler.RequireAdmin(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.WithContext(ctx).First(&event, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	var student models.Student
	if err := h.db.WithContext(ctx).First(&student, input.Body.StudentID).Error; err != nil {
		return nil, huma.Error404NotFound("Student not found")
	}

	var registered int64
	h.db.WithContext(ctx).Model(&models.EventRegistration{}).
		Where("event_id = ? AND student_id = ? AND status = ?",
			event.ID, student.ID, models.RegistrationStatusRegistered).
		Count(&registered)
	if registered == 0 {
		return nil, huma.Error400BadRequest("Student is not registered for this event")
	}

	var existing int64
	h.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("event_id = ? AND student_id = ?", event.ID, student.ID).
		Count(&existing)
	if existing > 0 {
		return nil, huma.Error400BadRequest("Student is already checked in")
	}

	attendance := models.Attendance{
		EventID:    event.ID,
		Event:      event,
		StudentID:  student.ID,
		Student:    student,
		Status:     input.Body.Status,
		Notes:      input.Body.Notes,
		MarkedByID: &admin.ID,
	}
	if err := h.db.WithContext(ctx).Create(&attendance).Error; err != nil {
		return nil, huma.Error400BadRequest("Failed to check in: " + err.Error())
	}

	metrics.CheckinsTotal.Inc()
	return &CheckInOutput{Body: toAttendanceResponse(attendance)}, nil
}

type CheckOutInput struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		StudentID uint `json:"student_id" doc:"Student record ID" required:"true"`
	}
}

type CheckOutOutput struct {
	Body AttendanceResponse
}

// HandleCheckOut stamps the check-out time on an existing attendance record.
// Check-in is immutable; check-out can be set once.
func (h *EventHandler) HandleCheckOut(ctx context.Context, input *CheckOutInput) (*CheckOutOutput, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.WithContext(ctx).First(&event, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	var attendance models.Attendance
	err := h.db.WithContext(ctx).Preload("Event").Preload("Student").
		Where("event_id = ? AND student_id = ?", event.ID, input.Body.StudentID).
		First(&attendance).Error
	if err != nil {
		return nil, huma.Error404NotFound("Attendance record not found")
	}
	if attendance.CheckOutTime != nil {
		return nil, huma.Error400BadRequest("Student is already checked out")
	}

	now := time.Now()
	attendance.CheckOutTime = &now
	if err := h.db.WithContext(ctx).Save(&attendance).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to check out")
	}

	return &CheckOutOutput{Body: toAttendanceResponse(attendance)}, nil
}

type SubmitFeedbackInput struct {
	ID   uint `path:"id"`
	Body struct {
		StudentID uint   `json:"student_id" doc:"Student record ID" required:"true"`
		Rating    int    `json:"rating" doc:"1 (poor) to 5 (excellent)" required:"true" minimum:"1" maximum:"5"`
		Comments  string `json:"comments,omitempty"`
	}
}

type SubmitFeedbackOutput struct {
	Body FeedbackResponse
}

// HandleSubmitFeedback accepts feedback from a student who attended the
// event (attendance status "present"), at most once per event.
func (h *EventHandler) HandleSubmitFeedback(ctx context.Context, input *SubmitFeedbackInput) (*SubmitFeedbackOutput, error) {
	var event models.Event
	if err := h.db.WithContext(ctx).First(&event, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	var student models.Student
	if err := h.db.WithContext(ctx).First(&student, input.Body.StudentID).Error; err != nil {
		return nil, huma.Error404NotFound("Student not found")
	}

	var present int64
	h.db.WithContext(ctx).Model(&models.Attendance{}).
		Where("event_id = ? AND student_id = ? AND status = ?",
			event.ID, student.ID, models.AttendanceStatusPresent).
		Count(&present)
	if present == 0 {
		return nil, huma.Error400BadRequest("Student must have attended the event to provide feedback")
	}

	var existing int64
	h.db.WithContext(ctx).Model(&models.Feedback{}).
		Where("event_id = ? AND student_id = ?", event.ID, student.ID).
		Count(&existing)
	if existing > 0 {
		return nil, huma.Error400BadRequest("Feedback already submitted for this event")
	}

	feedback := models.Feedback{
		EventID:   event.ID,
		Event:     event,
		StudentID: student.ID,
		Student:   student,
		Rating:    input.Body.Rating,
		Comments:  input.Body.Comments,
	}
	if err := h.db.WithContext(ctx).Create(&feedback).Error; err != nil {
		if errors.Is(err, models.ErrRatingOutOfRange) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		return nil, huma.Error400BadRequest("Failed to submit feedback: " + err.Error())
	}

	metrics.FeedbackTotal.Inc()
	return &SubmitFeedbackOutput{Body: toFeedbackResponse(feedback)}, nil
}
