package handlers

import (
	"context"

	"github.com/campushq/campus-events-api/internal/auth"
	"github.com/campushq/campus-events-api/internal/models"
	"github.com/campushq/campus-events-api/internal/query"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type CollegeHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewCollegeHandler(db *gorm.DB, authHandler *auth.AuthHandler) *CollegeHandler {
	return &CollegeHandler{db: db, authHandler: authHandler}
}

var collegeOrder = map[string]string{
	"name":       "name",
	"code":       "code",
	"created_at": "created_at",
}

type ListCollegesInput struct {
	auth.AuthInput
	Code   string `query:"code" doc:"Filter by exact college code"`
	Search string `query:"search" doc:"Search name and code"`
	Sort   string `query:"sort" doc:"Sort key (name, code, created_at); prefix with - for descending"`
	Limit  int    `query:"limit" minimum:"0" maximum:"500"`
	Offset int    `query:"offset" minimum:"0"`
}

type ListCollegesOutput struct {
	Body []CollegeResponse
}

func (h *CollegeHandler) HandleList(ctx context.Context, input *ListCollegesInput) (*ListCollegesOutput, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	spec := query.ListSpec{
		SearchTerm:    input.Search,
		SearchColumns: []string{"name", "code"},
		Limit:         input.Limit,
		Offset:        input.Offset,
	}
	if input.Code != "" {
		spec.Filters = append(spec.Filters, query.Filter{Column: "code", Value: input.Code})
	}
	spec.OrderBy, spec.Descending = query.Order(input.Sort, collegeOrder, "name", false)

	var colleges []models.College
	if err := spec.Apply(h.db.WithContext(ctx).Model(&models.College{})).Find(&colleges).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list colleges")
	}

	response := make([]CollegeResponse, 0, len(colleges))
	for _, c := range colleges {
		response = append(response, toCollegeResponse(c))
	}
	return &ListCollegesOutput{Body: response}, nil
}

type CreateCollegeInput struct {
	auth.AuthInput
	Body struct {
		Code         string `json:"code" doc:"Unique college code (e.g. 'TECH')" required:"true" maxLength:"10"`
		Name         string `json:"name" required:"true" maxLength:"200"`
		Address      string `json:"address"`
		ContactEmail string `json:"contact_email" format:"email"`
		ContactPhone string `json:"contact_phone" maxLength:"20"`
	}
}

type CollegeOutput struct {
	Body CollegeResponse
}

func (h *CollegeHandler) HandleCreate(ctx context.Context, input *CreateCollegeInput) (*CollegeOutput, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	college := models.College{
		Code:         input.Body.Code,
		Name:         input.Body.Name,
		Address:      input.Body.Address,
		ContactEmail: input.Body.ContactEmail,
		ContactPhone: input.Body.ContactPhone,
	}
	if err := h.db.WithContext(ctx).Create(&college).Error; err != nil {
		return nil, huma.Error400BadRequest("Failed to create college: " + err.Error())
	}
	return &CollegeOutput{Body: toCollegeResponse(college)}, nil
}

type GetCollegeInput struct {
	ID uint `path:"id"`
}

func (h *CollegeHandler) HandleGet(ctx context.Context, input *GetCollegeInput) (*CollegeOutput, error) {
	var college models.College
	if err := h.db.WithContext(ctx).First(&college, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("College not found")
	}
	return &CollegeOutput{Body: toCollegeResponse(college)}, nil
}

type UpdateCollegeInput struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Name         *string `json:"name,omitempty" maxLength:"200"`
		Address      *string `json:"address,omitempty"`
		ContactEmail *string `json:"contact_email,omitempty" format:"email"`
		ContactPhone *string `json:"contact_phone,omitempty" maxLength:"20"`
	}
}

func (h *CollegeHandler) HandleUpdate(ctx context.Context, input *UpdateCollegeInput) (*CollegeOutput, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var college models.College
	if err := h.db.WithContext(ctx).First(&college, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("College not found")
	}

	if input.Body.Name != nil {
		college.Name = *input.Body.Name
	}
	if input.Body.Address != nil {
		college.Address = *input.Body.Address
	}
	if input.Body.ContactEmail != nil {
		college.ContactEmail = *input.Body.ContactEmail
	}
	if input.Body.ContactPhone != nil {
		college.ContactPhone = *input.Body.ContactPhone
	}

	if err := h.db.WithContext(ctx).Save(&college).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to update college")
	}
	return &CollegeOutput{Body: toCollegeResponse(college)}, nil
}

type DeleteCollegeInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

// HandleDelete removes a college and everything it owns: students, events
// and their registration, attendance and feedback rows.
func (h *CollegeHandler) HandleDelete(ctx context.Context, input *DeleteCollegeInput) (*struct{}, error) {
	if _, err := h.authHandler.RequireAdmin(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var college models.College
	if err := h.db.WithContext(ctx).First(&college, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("College not found")
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var eventIDs []uint
		if err := tx.Model(&models.Event{}).Where("college_id = ?", college.ID).Pluck("id", &eventIDs).Error; err != nil {
			return err
		}
		if len(eventIDs) > 0 {
			if err := tx.Where("event_id IN ?", eventIDs).Delete(&models.Feedback{}).Error; err != nil {
				return err
			}
			if err := tx.Where("event_id IN ?", eventIDs).Delete(&models.Attendance{}).Error; err != nil {
				return err
			}
			if err := tx.Where("event_id IN ?", eventIDs).Delete(&models.EventRegistration{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("college_id = ?", college.ID).Delete(&models.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("college_id = ?", college.ID).Delete(&models.Student{}).Error; err != nil {
			return err
		}
		if err := tx.Where("college_id = ?", college.ID).Delete(&models.AdminUser{}).Error; err != nil {
			return err
		}
		return tx.Delete(&college).Error
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete college")
	}
	return nil, nil
}
