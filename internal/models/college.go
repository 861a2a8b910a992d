package models

import (
	"gorm.io/gorm"
)

type College struct {
	gorm.Model
	Code         string `json:"code" gorm:"uniqueIndex"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
}
