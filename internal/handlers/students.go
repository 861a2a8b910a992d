package handlers

import (
	"context"

	"github.com/campushq/campus-events-api/internal/auth"
	"github.com/campushq/campus-events-api/internal/models"
	"github.com/campushq/campus-events-api/internal/query"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type StudentHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewStudentHandler(db *gorm.DB, authHandler *auth.AuthHandler) *StudentHandler {
	return &StudentHandler{db: db, authHandler: authHandler}
}

var studentOrder = map[string]string{
	"last_name":  "last_name",
	"first_name": "first_name",
	"created_at": "created_at",
}

type ListStudentsInput struct {
	auth.AuthInput
	CollegeID   uint   `query:"college_id" doc:"Filter by college"`
	Department  string `query:"department" doc:"Filter by department"`
	YearOfStudy int    `query:"year_of_study" minimum:"0" maximum:"5"`
	Search      string `query:"search" doc:"Search name, email and student ID"`
	Sort        string `query:"sort" doc:"Sort key (last_name, first_name, created_at); prefix with - for descending"`
	Limit       int    `query:"limit" minimum:"0" maximum:"500"`
	Offset      int    `query:"offset" minimum:"0"`
}

type ListStudentsOutput struct {
	Body []StudentResponse
}

func (h *StudentHandler) HandleList(ctx context.Context, input *ListStudentsInput) (*ListStudentsOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	spec := query.ListSpec{
		SearchTerm:    input.Search,
		SearchColumns: []string{"first_name", "last_name", "email", "student_id"},
		Limit:         input.Limit,
		Offset:        input.Offset,
	}
	if input.CollegeID != 0 {
		spec.Filters = append(spec.Filters, query.Filter{Column: "college_id", Value: input.CollegeID})
	}
	if input.Department != "" {
		spec.Filters = append(spec.Filters, query.Filter{Column: "department", Value: input.Department})
	}
	if input.YearOfStudy != 0 {
		spec.Filters = append(spec.Filters, query.Filter{Column: "year_of_study", Value: input.YearOfStudy})
	}
	spec.OrderBy, spec.Descending = query.Order(input.Sort, studentOrder, "last_name", false)

	var students []models.Student
	if err := spec.Apply(h.db.WithContext(ctx).Model(&models.Student{})).Preload("College").Find(&students).Error; err != nil {
		return nil, huma.Error500InternalServerError("Failed to list students")
	}

	response := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		response = append(response, toStudentResponse(s))
	}
	return &ListStudentsOutput{Body: response}, nil
}

type CreateStudentInput struct {
	auth.AuthInput
	Body struct {
		StudentID   string `json:"student_id" doc:"College-specific student ID" required:"true" maxLength:"20"`
		CollegeID   uint   `json:"college_id" required:"true"`
		FirstName   string `json:"first_name" required:"true" maxLength:"100"`
		LastName    string `json:"last_name" required:"true" maxLength:"100"`
		Email       string `json:"email" required:"true" format:"email"`
		Phone       string `json:"phone" maxLength:"20"`
		Department  string `json:"department" maxLength:"100"`
		YearOfStudy *int   `json:"year_of_study,omitempty" minimum:"1" maximum:"5"`
	}
}

type StudentOutput struct {
	Body StudentResponse
}

func (h *StudentHandler) HandleCreate(ctx context.Context, input *CreateStudentInput) (*StudentOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var college models.College
	if err := h.db.WithContext(ctx).First(&college, input.Body.CollegeID).Error; err != nil {
		return nil, huma.Error404NotFound("College not found")
	}

	student := models.Student{
		StudentID:   input.Body.StudentID,
		CollegeID:   college.ID,
		College:     college,
		FirstName:   input.Body.FirstName,
		LastName:    input.Body.LastName,
		Email:       input.Body.Email,
		Phone:       input.Body.Phone,
		Department:  input.Body.Department,
		YearOfStudy: input.Body.YearOfStudy,
	}
	if err := h.db.WithContext(ctx).Create(&student).Error; err != nil {
		return nil, huma.Error400BadRequest("Failed to create student: " + err.Error())
	}
	return &StudentOutput{Body: toStudentResponse(student)}, nil
}

type GetStudentInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *StudentHandler) HandleGet(ctx context.Context, input *GetStudentInput) (*StudentOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var student models.Student
	if err := h.db.WithContext(ctx).Preload("College").First(&student, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Student not found")
	}
	return &StudentOutput{Body: toStudentResponse(student)}, nil
}

type UpdateStudentInput struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		FirstName   *string `json:"first_name,omitempty" maxLength:"100"`
		LastName    *string `json:"last_name,omitempty" maxLength:"100"`
		Email       *string `json:"email,omitempty" format:"email"`
		Phone       *string `json:"phone,omitempty" maxLength:"20"`
		Department  *string `json:"department,omitempty" maxLength:"100"`
		YearOfStudy *int    `json:"year_of_study,omitempty" minimum:"1" maximum:"5"`
	}
}

func (h *StudentHandler) HandleUpdate(ctx context.Context, input *UpdateStudentInput) (*StudentOutput, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var student models.Student
	if err := h.db.WithContext(ctx).Preload("College").First(&student, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Student not found")
	}

	if input.Body.FirstName != nil {
		student.FirstName = *input.Body.FirstName
	}
	if input.Body.LastName != nil {
		student.LastName = *input.Body.LastName
	}
	if input.Body.Email != nil {
		student.Email = *input.Body.Email
	}
	if input.Body.Phone != nil {
		student.Phone = *input.Body.Phone
	}
	if input.Body.Department != nil {
		student.Department = *input.Body.Department
	}
	if input.Body.YearOfStudy != nil {
		student.YearOfStudy = input.Body.YearOfStudy
	}

	if err := h.db.WithContext(ctx).Save(&student).Error; err != nil {
		return nil, huma.Error400BadRequest("Failed to update student: " + err.Error())
	}
	return &StudentOutput{Body: toStudentResponse(student)}, nil
}

type DeleteStudentInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *StudentHandler) HandleDelete(ctx context.Context, input *DeleteStudentInput) (*struct{}, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	var student models.Student
	if err := h.db.WithContext(ctx).First(&student, input.ID).Error; err != nil {
		return nil, huma.Error404NotFound("Student not found")
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", student.ID).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", student.ID).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", student.ID).Delete(&models.EventRegistration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&student).Error
	})
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to delete student")
	}
	return nil, nil
}
