package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	EventStatusActive    = "active"
	EventStatusCancelled = "cancelled"
	EventStatusCompleted = "completed"
	EventStatusDraft     = "draft"
)

// EventTypes lists the accepted event_type values.
var EventTypes = []string{"hackathon", "workshop", "tech_talk", "fest", "seminar", "competition", "conference"}

type Event struct {
	gorm.Model
	EventCode             string     `json:"event_code" gorm:"uniqueIndex"`
	CollegeID             uint       `json:"college_id" gorm:"index:idx_event_college_start"`
	College               College    `json:"-"`
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	EventType             string     `json:"event_type" gorm:"index"`
	StartDate             time.Time  `json:"start_date" gorm:"index:idx_event_college_start"`
	EndDate               time.Time  `json:"end_date"`
	Location              string     `json:"location"`
	MaxParticipants       *int       `json:"max_participants"`
	RegistrationStartDate *time.Time `json:"registration_start_date"`
	RegistrationDeadline  *time.Time `json:"registration_deadline"`
	Status                string     `json:"status" gorm:"index;default:active"`
	CreatedByID           *uint      `json:"created_by_id"`
}

// BeforeCreate assigns the event code on first save. The code is immutable
// afterwards; the unique index rejects a losing concurrent duplicate.
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.Status == "" {
		e.Status = EventStatusActive
	}
	if e.EventCode != "" {
		return nil
	}

	collegeCode := e.College.Code
	if collegeCode == "" {
		var college College
		if err := tx.First(&college, e.CollegeID).Error; err != nil {
			return err
		}
		collegeCode = college.Code
	}

	dayStart := time.Date(e.StartDate.Year(), e.StartDate.Month(), e.StartDate.Day(), 0, 0, 0, 0, e.StartDate.Location())
	var existing int64
	err := tx.Model(&Event{}).
		Where("college_id = ? AND event_type = ? AND start_date >= ? AND start_date < ?",
			e.CollegeID, e.EventType, dayStart, dayStart.AddDate(0, 0, 1)).
		Count(&existing).Error
	if err != nil {
		return err
	}

	typeShort := strings.ToUpper(e.EventType)
	if len(typeShort) > 4 {
		typeShort = typeShort[:4]
	}

	e.EventCode = fmt.Sprintf("%s-%s-%s-%03d", collegeCode, typeShort, e.StartDate.Format("20060102"), existing+1)
	return nil
}

// RegistrationOpen reports whether a new registration is accepted at the
// given instant. Closed whenever the event is not active; otherwise the
// window runs from registration_start_date (when set) until the deadline
// (when set) or the event start.
func (e *Event) RegistrationOpen(now time.Time) bool {
	if e.Status != EventStatusActive {
		return false
	}
	if e.RegistrationStartDate != nil && now.Before(*e.RegistrationStartDate) {
		return false
	}
	if e.RegistrationDeadline != nil {
		return now.Before(*e.RegistrationDeadline)
	}
	return now.Before(e.StartDate)
}

// RegisteredCount counts registrations holding the "registered" status.
// Waitlisted and cancelled rows never count toward capacity.
func (e *Event) RegisteredCount(tx *gorm.DB) (int64, error) {
	var count int64
	err := tx.Model(&EventRegistration{}).
		Where("event_id = ? AND status = ?", e.ID, RegistrationStatusRegistered).
		Count(&count).Error
	return count, err
}

// Full reports whether the event is at capacity. Events without
// max_participants are never full.
func (e *Event) Full(tx *gorm.DB) (bool, error) {
	if e.MaxParticipants == nil {
		return false, nil
	}
	count, err := e.RegisteredCount(tx)
	if err != nil {
		return false, err
	}
	return count >= int64(*e.MaxParticipants), nil
}
