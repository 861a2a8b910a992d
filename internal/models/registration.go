package models

import (
	"gorm.io/gorm"
)

const (
	RegistrationStatusRegistered = "registered"
	RegistrationStatusCancelled  = "cancelled"
	RegistrationStatusWaitlisted = "waitlisted"
)

type EventRegistration struct {
	gorm.Model
	EventID   uint    `json:"event_id" gorm:"uniqueIndex:idx_registration_event_student;index"`
	Event     Event   `json:"-"`
	StudentID uint    `json:"student_id" gorm:"uniqueIndex:idx_registration_event_student;index"`
	Student   Student `json:"-"`
	Status    string  `json:"status" gorm:"index;default:registered"`
}

// BeforeCreate demotes a new "registered" row to "waitlisted" when the event
// is already at capacity. Runs inside the caller's transaction.
func (r *EventRegistration) BeforeCreate(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = RegistrationStatusRegistered
	}
	if r.Status != RegistrationStatusRegistered {
		return nil
	}

	event := r.Event
	if event.ID == 0 {
		if err := tx.First(&event, r.EventID).Error; err != nil {
			return err
		}
	}

	full, err := event.Full(tx)
	if err != nil {
		return err
	}
	if full {
		r.Status = RegistrationStatusWaitlisted
	}
	return nil
}
