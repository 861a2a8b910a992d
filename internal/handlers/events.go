package handlers

import (
	"context"
	"log"
	"time"

	"github.com/campushq/campus-events-api/internal/auth"
	"github.com/campushq/campus-events-api/internal/models"
	"github.com/campushq/campus-events-api/internal/notifier"
	"github.com/campushq/campus-events-api/internal/query"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type EventHandler struct {
	db          *gorm.DB
	notifier    notifier.Notifier
	authHandler *auth.AuthHandler
}

func NewEventHandler(db *gorm.DB, notifier notifier.Notifier, authHandler *auth.AuthHandler) *EventHandler {
	return &EventHandler{db: db, notifier: notifier, authHandler: authHandler}
}

var eventOrder = map[string]string{
	"start_date": "start_date",
	"title":      "title",
	"created_at": "created_at",
}

type ListEventsInput struct {
	CollegeID uint   `query:"college_id" doc:"Filter by college"`
	EventType string `query:"event_type" doc:"Filter by event type"`
	Status    string `query:"status" doc:"Filter by status" enum:"active,cancelled,completed,draft,"`
	Search    string `query:"search" doc:"Search title, description and event code"`
	Sort      string `query:"sort" doc:"Sort key (start_date, title, created_at); prefix with - for descending"`
	Limit     int    `query:"limit" minimum:"0" maximum:"500"`
	Offset    int    `query:"offset" minimum:"0"`
}

type ListEventsOutput struct {
	Body []EventResponse
}

func (h *EventHandler) HandleList(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error) {
	spec := query.ListSpec{
		SearchTerm:    input.Search,
		SearchColumns: []string{"title", "description", "event_code"},
		Limit:         input.Limit,
		Offset:        input.Offset,
	}
	if input.CollegeID != 0 {
		spec.Filters = append(spec.Filters, query.Filter{Column: "college_id", Value: input.CollegeID})
	}
	if input.EventType != "" {
		spec.Filters = append(spec.Filters, query.Filter{Column: "event_type", Value: input.EventType})
	}
	if input.Status != "" {
		spec.Filters = append(spec.Filters, query.Filter{Column: "status", Value: input.Status})
	}
	spec.OrderBy, spec.Descending = query.Order(input.Sort, eventOrder, "start_date", true)

	var events []models.Event
	if err := spec.Apply(h.db.WithContext(ctx).Model(&models.Event{})).Preload("College").Find(&events).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list events")
	}

	response := make([]EventResponse, 0, len(events))
	for _, e := range events {
		er, err := toEventResponse(h.db.WithContext(ctx), e)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to list events")
		}
		response = append(response, er)
	}
	return &ListEventsOutput{Body: response}, nil
}

type CreateEventInput struct {
	auth.AuthInput
	Body struct {
		CollegeID             uint       `json:"college_id" required:"true"`
		Title                 string     `json:"title" required:"true" maxLength:"200"`
		Description           string     `json:"description"`
		EventType             string     `json:"event_type" required:"true" enum:"hackathon,workshop,tech_talk,fest,seminar,competition,conference"`
		StartDate             time.Time  `json:"start_date" required:"true"`
		EndDate               time.Time  `json:"end_date" required:"true"`
		Location              string     `json:"location" maxLength:"200"`
		MaxParticipants       *int       `json:"max_participants,omitempty" minimum:"1"`
		RegistrationStartDate *time.Time `json:"registration_start_date,omitempty"`
		RegistrationDeadline  *time.Time `json:"registration_deadline,omitempty"`
		Status                string     `json:"status,omitempty" enum:"active,cancelled,completed,draft,"`
	}
}

type EventOutput struct {
	Body EventResponse
}

func (h *EventHandler) HandleCreate(ctx context.Context, input *CreateEventInput) (*EventOutput, error) {
	admin, err := h.authHandler.RequireAdmin(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	if input.Body.EndDate.Before(input.Body.StartDate) {
		return nil, huma.Error400BadRequest("End date cannot be before start date")
	}

	var college models.College
	if err := h.db.WithContext(ctx).First(&college, input.Body.CollegeID).Error; err != nil {
		return nil, huma.Error404NotFound("College not found")
	}

	event := models.Event{
		CollegeID:             college.ID,
		College:               college,
		Title:                 input.Body.Title,
		Description:           input.Body.Description,
		EventType:             input.Body.EventType,
		StartDate:             input.Body.StartDate,
		EndDate:               input.Body.EndDate,
		Location:              input.Body.Location,
		MaxParticipants:       input.Body.MaxParticipants,
		RegistrationStartDate: input.Body.RegistrationStartDate,
		RegistrationDeadline:  input.Body.RegistrationDeadline,
		Status:                input.Body.Status,
		CreatedByID:           &admin.ID,
	}

	// Code generation counts sibling events at save time; run the whole
	// create in one transaction so the count and insert see the same state.
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, huma.Error400BadRequest("Failed to create event: " + err.Error())
	}

	if h.notifier != nil {
		if err := h.notifier.EventCreated(event, college); err != nil {
			log.Printf("Failed to announce event %s: %v", event.EventCode, err)
		}
	}

	response, err := toEventResponse(h.db.WithContext(ctx), event)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load event")
	}
	return &EventOutput{Body: response}, nil
}

type GetEventInput struct {
	ID uint `path:"id"`
}

func (h *EventHandler) HandleGet(ctx context.Context, input *GetEventInput) (*EventOutput, error) {
	var event models.Event
	if err := h.db.WithContext(ctx).Preload("College").First(&event, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	response, err := toEventResponse(h.db.WithContext(ctx), event)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load event")
	}
	return &EventOutput{Body: response}, nil
}

type UpdateEventInput struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Title                 *string    `json:"title,omitempty" maxLength:"200"`
		Description           *string    `json:"description,omitempty"`
		StartDate             *time.Time `json:"start_date,omitempty"`
		EndDate               *time.Time `json:"end_date,omitempty"`
		Location              *string    `json:"location,omitempty" maxLength:"200"`
		MaxParticipants       *int       `json:"max_participants,omitempty" minimum:"1"`
		RegistrationStartDate *time.Time `json:"registration_start_date,omitempty"`
		RegistrationDeadline  *time.Time `json:"registration_deadline,omitempty"`
		Status                *string    `json:"status,omitempty" enum:"active,cancelled,completed,draft"`
	}
}

// HandleUpdate edits event fields. The event code never changes, even when
// the start date moves.
func (h *EventHandler) HandleUpdate(ctx context.Context, input *UpdateEventInput) (*EventOutput, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.WithContext(ctx).Preload("College").First(&event, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	if input.Body.Title != nil {
		event.Title = *input.Body.Title
	}
	if input.Body.Description != nil {
		event.Description = *input.Body.Description
	}
	if input.Body.StartDate != nil {
		event.StartDate = *input.Body.StartDate
	}
	if input.Body.EndDate != nil {
		event.EndDate = *input.Body.EndDate
	}
	if input.Body.Location != nil {
		event.Location = *input.Body.Location
	}
	if input.Body.MaxParticipants != nil {
		event.MaxParticipants = input.Body.MaxParticipants
	}
	if input.Body.RegistrationStartDate != nil {
		event.RegistrationStartDate = input.Body.RegistrationStartDate
	}
	if input.Body.RegistrationDeadline != nil {
		event.RegistrationDeadline = input.Body.RegistrationDeadline
	}
	if input.Body.Status != nil {
		event.Status = *input.Body.Status
	}
	if event.EndDate.Before(event.StartDate) {
		return nil, huma.Error400BadRequest("End date cannot be before start date")
	}

	if err := h.db.WithContext(ctx).Save(&event).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update event")
	}

	response, err := toEventResponse(h.db.WithContext(ctx), event)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load event")
	}
	return &EventOutput{Body: response}, nil
}

type DeleteEventInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *EventHandler) HandleDelete(ctx context.Context, input *DeleteEventInput) (*struct{}, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.WithContext(ctx).First(&event, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&models.EventRegistration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&event).Error
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete event")
	}
	return nil, nil
}

type EventStatusInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *EventHandler) HandleCancel(ctx context.Context, input *EventStatusInput) (*EventOutput, error) {
	return h.setStatus(ctx, input, models.EventStatusCancelled)
}

func (h *EventHandler) HandleComplete(ctx context.Context, input *EventStatusInput) (*EventOutput, error) {
	return h.setStatus(ctx, input, models.EventStatusCompleted)
}

func (h *EventHandler) setStatus(ctx context.Context, input *EventStatusInput, status string) (*EventOutput, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.WithContext(ctx).Preload("College").First(&event, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	event.Status = status
	if err := h.db.WithContext(ctx).Save(&event).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update event status")
	}

	response, err := toEventResponse(h.db.WithContext(ctx), event)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load event")
	}
	return &EventOutput{Body: response}, nil
}

type EventSubListInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type EventRegistrationsOutput struct {
	Body []RegistrationResponse
}

func (h *EventHandler) HandleRegistrations(ctx context.Context, input *EventSubListInput) (*EventRegistrationsOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.WithContext(ctx).First(&event, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	var registrations []models.EventRegistration
	if err := h.db.WithContext(ctx).Preload("Event").Preload("Student").
		Where("event_id = ?", event.ID).
		Order("created_at DESC").Find(&registrations).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list registrations")
	}

	response := make([]RegistrationResponse, 0, len(registrations))
	for _, r := range registrations {
		response = append(response, toRegistrationResponse(r))
	}
	return &EventRegistrationsOutput{Body: response}, nil
}

type EventAttendanceOutput struct {
	Body []AttendanceResponse
}

func (h *EventHandler) HandleAttendance(ctx context.Context, input *EventSubListInput) (*EventAttendanceOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.WithContext(ctx).First(&event, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	var attendance []models.Attendance
	if err := h.db.WithContext(ctx).Preload("Event").Preload("Student").
		Where("event_id = ?", event.ID).
		Order("check_in_time DESC").Find(&attendance).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list attendance")
	}

	response := make([]AttendanceResponse, 0, len(attendance))
	for _, a := range attendance {
		response = append(response, toAttendanceResponse(a))
	}
	return &EventAttendanceOutput{Body: response}, nil
}

type EventFeedbackOutput struct {
	Body []FeedbackResponse
}

func (h *EventHandler) HandleFeedback(ctx context.Context, input *EventSubListInput) (*EventFeedbackOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var event models.Event
	if err := h.db.WithContext(ctx).First(&event, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Event not found")
	}

	var feedback []models.Feedback
	if err := h.db.WithContext(ctx).Preload("Event").Preload("Student").
		Where("event_id = ?", event.ID).
		Order("created_at DESC").Find(&feedback).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list feedback")
	}

	response := make([]FeedbackResponse, 0, len(feedback))
	for _, f := range feedback {
		response = append(response, toFeedbackResponse(f))
	}
	return &EventFeedbackOutput{Body: response}, nil
}
