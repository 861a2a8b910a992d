package handlers

import (
	"context"
	"errors"

	"github.com/campushq/campus-events-api/internal/auth"
	"github.com/campushq/campus-events-api/internal/models"
	"github.com/campushq/campus-events-api/internal/query"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type FeedbackHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewFeedbackHandler(db *gorm.DB, authHandler *auth.AuthHandler) *FeedbackHandler {
	return &FeedbackHandler{db: db, authHandler: authHandler}
}

type ListFeedbackInput struct {
	auth.AuthInput
	EventID   uint   `query:"event_id" doc:"Filter by event"`
	StudentID uint   `query:"student_id" doc:"Filter by student"`
	Rating    int    `query:"rating" minimum:"0" maximum:"5" doc:"Filter by exact rating"`
	Search    string `query:"search" doc:"Search comments"`
	Sort      string `query:"sort" doc:"Sort key (submitted_at, rating); prefix with - for descending"`
	Limit     int    `query:"limit" minimum:"0" maximum:"500"`
	Offset    int    `query:"offset" minimum:"0"`
}

type ListFeedbackOutput struct {
	Body []FeedbackResponse
}

var feedbackOrder = map[string]string{
	"submitted_at": "created_at",
	"rating":       "rating",
}

func (h *FeedbackHandler) HandleList(ctx context.Context, input *ListFeedbackInput) (*ListFeedbackOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	spec := query.ListSpec{
		SearchTerm:    input.Search,
		SearchColumns: []string{"comments"},
		Limit:         input.Limit,
		Offset:        input.Offset,
	}
	if input.EventID != 0 {
		spec.Filters = append(spec.Filters, query.Filter{Column: "event_id", Value: input.EventID})
	}
	if input.StudentID != 0 {
		spec.Filters = append(spec.Filters, query.Filter{Column: "student_id", Value: input.StudentID})
	}
	if input.Rating != 0 {
		spec.Filters = append(spec.Filters, query.Filter{Column: "rating", Value: input.Rating})
	}
	spec.OrderBy, spec.Descending = query.Order(input.Sort, feedbackOrder, "created_at", true)

	var feedback []models.Feedback
	if err := spec.Apply(h.db.WithContext(ctx).Model(&models.Feedback{})).
		Preload("Event").Preload("Student").Find(&feedback).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list feedback")
	}

	response := make([]FeedbackResponse, 0, len(feedback))
	for _, f := range feedback {
		response = append(response, toFeedbackResponse(f))
	}
	return &ListFeedbackOutput{Body: response}, nil
}

type GetFeedbackInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type FeedbackOutput struct {
	Body FeedbackResponse
}

func (h *FeedbackHandler) HandleGet(ctx context.Context, input *GetFeedbackInput) (*FeedbackOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var feedback models.Feedback
	if err := h.db.WithContext(ctx).Preload("Event").Preload("Student").
		First(&feedback, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Feedback not found")
	}
	return &FeedbackOutput{Body: toFeedbackResponse(feedback)}, nil
}

type UpdateFeedbackInput struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Rating   *int    `json:"rating,omitempty" minimum:"1" maximum:"5"`
		Comments *string `json:"comments,omitempty"`
	}
}

func (h *FeedbackHandler) HandleUpdate(ctx context.Context, input *UpdateFeedbackInput) (*FeedbackOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var feedback models.Feedback
	if err := h.db.WithContext(ctx).Preload("Event").Preload("Student").
		First(&feedback, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Feedback not found")
	}

	if input.Body.Rating != nil {
		feedback.Rating = *input.Body.Rating
	}
	if input.Body.Comments != nil {
		feedback.Comments = *input.Body.Comments
	}

	if err := h.db.WithContext(ctx).Save(&feedback).Error; err != nil {
		if errors.Is(err, models.ErrRatingOutOfRange) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		return nil, huma.Error500InternalServerError("Failed to update feedback")
	}
	return &FeedbackOutput{Body: toFeedbackResponse(feedback)}, nil
}

type DeleteFeedbackInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *FeedbackHandler) HandleDelete(ctx context.Context, input *DeleteFeedbackInput) (*struct{}, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	result := h.db.WithContext(ctx).Delete(&models.Feedback{}, input.ID)
	if result.Error != nil {
		return nil, huma.Error500InternalServerError("Failed to delete feedback")
	}
	if result.RowsAffected == 0 {
		return nil, huma.Error404NotFound("Feedback not found")
	}
	return nil, nil
}
