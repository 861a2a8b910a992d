package models

import (
	"time"

	"gorm.io/gorm"
)

type APIKey struct {
	gorm.Model
	AdminUserID uint       `json:"admin_user_id"`
	AdminUser   AdminUser  `json:"-"`
	Key         string     `json:"key" gorm:"uniqueIndex"`
	Name        string     `json:"name"`
	ExpiresAt   *time.Time `json:"expires_at"`
	LastUsedAt  *time.Time `json:"last_used_at"`
}
