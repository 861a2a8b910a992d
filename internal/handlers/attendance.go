package handlers

import (
	"context"

	"github.com/campushq/campus-events-api/internal/auth"
	"github.com/campushq/campus-events-api/internal/models"
	"github.com/campushq/campus-events-api/internal/query"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type AttendanceHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewAttendanceHandler(db *gorm.DB, authHandler *auth.AuthHandler) *AttendanceHandler {
	return &AttendanceHandler{db: db, authHandler: authHandler}
}

type ListAttendanceInput struct {
	auth.AuthInput
	EventID   uint   `query:"event_id" doc:"Filter by event"`
	StudentID uint   `query:"student_id" doc:"Filter by student"`
	Status    string `query:"status" doc:"Filter by attendance status" enum:"present,absent,late,"`
	Limit     int    `query:"limit" minimum:"0" maximum:"500"`
	Offset    int    `query:"offset" minimum:"0"`
}

type ListAttendanceOutput struct {
	Body []AttendanceResponse
}

func (h *AttendanceHandler) HandleList(ctx context.Context, input *ListAttendanceInput) (*ListAttendanceOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	spec := query.ListSpec{
		OrderBy:    "check_in_time",
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

	var attendance []models.Attendance
	if err := spec.Apply(h.db.WithContext(ctx).Model(&models.Attendance{})).
		Preload("Event").Preload("Student").Find(&attendance).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list attendance")
	}

	response := make([]AttendanceResponse, 0, len(attendance))
	for _, a := range attendance {
		response = append(response, toAttendanceResponse(a))
	}
	return &ListAttendanceOutput{Body: response}, nil
}

type GetAttendanceInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

type AttendanceOutput struct {
	Body AttendanceResponse
}

func (h *AttendanceHandler) HandleGet(ctx context.Context, input *GetAttendanceInput) (*AttendanceOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var attendance models.Attendance
	if err := h.db.WithContext(ctx).Preload("Event").Preload("Student").
		First(&attendance, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Attendance record not found")
	}
	return &AttendanceOutput{Body: toAttendanceResponse(attendance)}, nil
}

type UpdateAttendanceInput struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Status *string `json:"attendance_status,omitempty" enum:"present,absent,late"`
		Notes  *string `json:"notes,omitempty"`
	}
}

// HandleUpdate edits the mutable attendance fields. Check-in time is set at
// creation and never changes; check-out goes through the event checkout flow.
func (h *AttendanceHandler) HandleUpdate(ctx context.Context, input *UpdateAttendanceInput) (*AttendanceOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var attendance models.Attendance
	if err := h.db.WithContext(ctx).Preload("Event").Preload("Student").
		First(&attendance, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Attendance record not found")
	}

	if input.Body.Status != nil {
		attendance.Status = *input.Body.Status
	}
	if input.Body.Notes != nil {
		attendance.Notes = *input.Body.Notes
	}

	if err := h.db.WithContext(ctx).Save(&attendance).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update attendance")
	}
	return &AttendanceOutput{Body: toAttendanceResponse(attendance)}, nil
}

type DeleteAttendanceInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *AttendanceHandler) HandleDelete(ctx context.Context, input *DeleteAttendanceInput) (*struct{}, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	result := h.db.WithContext(ctx).Delete(&models.Attendance{}, input.ID)
	if result.Error != nil {
		return nil, huma.Error500InternalServerError("Failed to delete attendance record")
	}
	if result.RowsAffected == 0 {
		return nil, huma.Error404NotFound("Attendance record not found")
	}
	return nil, nil
}
