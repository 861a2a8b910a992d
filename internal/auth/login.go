package auth

import (
	"context"

	"github.com/campushq/campus-events-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
)

type AdminLoginInput struct {
	Body struct {
		Username string `json:"username" doc:"Admin username" required:"true"`
		Password string `json:"password" doc:"Admin password" required:"true"`
	}
}

type LoginOutput struct {
	SetCookie string `header:"Set-Cookie"`
	Body      struct {
		Token string `json:"token"`
		Role  string `json:"role"`
		Name  string `json:"name"`
	}
}

func (h *AuthHandler) HandleAdminLogin(ctx context.Context, input *AdminLoginInput) (*LoginOutput, error) {
	var admin models.AdminUser
	if err := h.db.WithContext(ctx).Where("username = ?", input.Body.Username).First(&admin).Error; err != nil {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}
	if !admin.Active || !admin.CheckPassword(input.Body.Password) {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}

	token, err := h.GenerateToken(admin.ID, admin.Role)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &LoginOutput{SetCookie: SessionCookie(token)}
	res.Body.Token = token
	res.Body.Role = admin.Role
	res.Body.Name = admin.Username
	return res, nil
}

type StudentLoginInput struct {
	Body struct {
		StudentID string `json:"student_id" doc:"College-issued student ID" required:"true"`
		Email     string `json:"email" doc:"Registered email address" required:"true"`
	}
}

// HandleStudentLogin issues a student session when the student ID and email
// match the same record. There is no student password.
func (h *AuthHandler) HandleStudentLogin(ctx context.Context, input *StudentLoginInput) (*LoginOutput, error) {
	var student models.Student
	err := h.db.WithContext(ctx).
		Where("student_id = ? AND email = ?", input.Body.StudentID, input.Body.Email).
		First(&student).Error
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid student credentials")
	}

	token, err := h.GenerateToken(student.ID, RoleStudent)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &LoginOutput{SetCookie: SessionCookie(token)}
	res.Body.Token = token
	res.Body.Role = RoleStudent
	res.Body.Name = student.FullName()
	return res, nil
}

type MeInput struct {
	AuthInput
}

type MeOutput struct {
	Body struct {
		Role      string `json:"role"`
		AdminID   uint   `json:"admin_id,omitempty"`
		StudentID uint   `json:"student_id,omitempty"`
		Name      string `json:"name"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *MeInput) (*MeOutput, error) {
	principal, err := h.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	res := &MeOutput{}
	res.Body.Role = principal.Role
	if principal.Role == RoleStudent {
		var student models.Student
		if err := h.db.WithContext(ctx).First(&student, principal.StudentID).Error; err != nil {
			return nil, huma.Error404NotFound("Student not found")
		}
		res.Body.StudentID = student.ID
		res.Body.Name = student.FullName()
	} else {
		var admin models.AdminUser
		if err := h.db.WithContext(ctx).First(&admin, principal.AdminID).Error; err != nil {
			return nil, huma.Error404NotFound("Admin not found")
		}
		res.Body.AdminID = admin.ID
		res.Body.Name = admin.Username
	}
	return res, nil
}
