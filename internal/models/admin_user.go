package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	AdminRoleAdmin      = "admin"
	AdminRoleSuperAdmin = "super_admin"
)

type AdminUser struct {
	gorm.Model
	Username     string  `json:"username" gorm:"uniqueIndex"`
	PasswordHash string  `json:"-"`
	Role         string  `json:"role" gorm:"default:admin"`
	CollegeID    uint    `json:"college_id"`
	College      College `json:"-"`
	Active       bool    `json:"active" gorm:"default:true"`
}

func (a *AdminUser) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

func (a *AdminUser) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}
