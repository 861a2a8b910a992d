package handlers

import (
	"context"

	"github.com/campushq/campus-events-api/internal/auth"
	"github.com/campushq/campus-events-api/internal/metrics"
	"github.com/campushq/campus-events-api/internal/models"
	"github.com/campushq/campus-events-api/internal/query"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type RegistrationHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewRegistrationHandler(db *gorm.DB, authHandler *auth.AuthHandler) *RegistrationHandler {
	return &RegistrationHandler{db: db, authHandler: authHandler}
}

type ListRegistrationsInput struct {
	auth.AuthInput
	EventID   uint   `query:"event_id" doc:"Filter by event"`
	StudentID uint   `query:"student_id" doc:"Filter by student"`
	Status    string `query:"status" doc:"Filter by status" enum:"registered,cancelled,waitlisted,"`
	Limit     int    `query:"limit" minimum:"0" maximum:"500"`
	Offset    int    `query:"offset" minimum:"0"`
}

type ListRegistrationsOutput struct {
	Body []RegistrationResponse
}

func (h *RegistrationHandler) HandleList(ctx context.Context, input *ListRegistrationsInput) (*ListRegistrationsOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	spec := query.ListSpec{
		OrderBy:    "created_at",
		Descending: true,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	if input.EventID != 0 {
		spec.Filters = append(spec.Filters, query.Filter{Column: "event_id", Value: input.EventID})
	}
	if input.StudentID != 0 {
		spec.Filters = append(spec.Filters, query.Filter{Column: "student_id", Value: input.StudentID})
	}
	if input.Status != "" {
		spec.Filters = append(spec.Filters, query.Filter{Column: "status", Value: input.Status})
	}

	var registrations []models.EventRegistration
	if err := spec.Apply(h.db.WithContext(ctx).Model(&models.EventRegistration{})).
		Preload("Event").Preload("Student").Find(&registrations).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list registrations")
	}

	response := make([]RegistrationResponse, 0, len(registrations))
	for _, r := range registrations {
		response = append(response, toRegistrationResponse(r))
	}
	return &ListRegistrationsOutput{Body: response}, nil
}

type CreateRegistrationInput struct {
	auth.AuthInput
	Body struct {
		EventID   uint   `json:"event_id" required:"true"`
		StudentID uint   `json:"student_id" required:"true"`
		Status    string `json:"status,omitempty" enum:"registered,cancelled,waitlisted,"`
	}
}

type RegistrationOutput struct {
	Body RegistrationResponse
}

// HandleCreate inserts a registration directly. Unlike the event register
// flow there is no capacity rejection here: a "registered" row for a full
// event is demoted to "waitlisted" at save time.
func (h *RegistrationHandler) HandleCreate(ctx context.Context, input *CreateRegistrationInput) (*RegistrationOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.WithContext(ctx).First(&event, input.Body.EventID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}
	var student models.Student
	if err := h.db.WithContext(ctx).First(&student, input.Body.StudentID).Error; err != nil {
		return nil, huma.Error404NotFound("Student not found")
	}

	registration := models.EventRegistration{
		EventID:   event.ID,
		Event:     event,
		StudentID: student.ID,
		Student:   student,
		Status:    input.Body.Status,
	}
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&registration).Error
	})
	if err != nil {
		return nil, huma.Error400BadRequest("Failed to create registration: " + err.Error())
	}

	metrics.RegistrationsTotal.WithLabelValues(registration.Status).Inc()
	return &RegistrationOutput{Body: toRegistrationResponse(registration)}, nil
}

type GetRegistrationInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *RegistrationHandler) HandleGet(ctx context.Context, input *GetRegistrationInput) (*RegistrationOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var registration models.EventRegistration
	if err := h.db.WithContext(ctx).Preload("Event").Preload("Student").
		First(&registration, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Registration not found")
	}
	return &RegistrationOutput{Body: toRegistrationResponse(registration)}, nil
}

type UpdateRegistrationInput struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Status string `json:"status" required:"true" enum:"registered,cancelled,waitlisted"`
	}
}

func (h *RegistrationHandler) HandleUpdate(ctx context.Context, input *UpdateRegistrationInput) (*RegistrationOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var registration models.EventRegistration
	if err := h.db.WithContext(ctx).Preload("Event").Preload("Student").
		First(&registration, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Registration not found")
	}

	registration.Status = input.Body.Status
	if err := h.db.WithContext(ctx).Save(&registration).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update registration")
	}
	return &RegistrationOutput{Body: toRegistrationResponse(registration)}, nil
}

type DeleteRegistrationInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *RegistrationHandler) HandleDelete(ctx context.Context, input *DeleteRegistrationInput) (*struct{}, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	result := h.db.WithContext(ctx).Delete(&models.EventRegistration{}, input.ID)
	if result.Error != nil {
		return nil, huma.Error500InternalServerError("Failed to delete registration")
	}
	if result.RowsAffected == 0 {
		return nil, huma.Error404NotFound("Registration not found")
	}
	return nil, nil
}
