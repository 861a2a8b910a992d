package models

import (
	"errors"

	"gorm.io/gorm"
)

var ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")

type Feedback struct {
	gorm.Model
	EventID   uint    `json:"event_id" gorm:"uniqueIndex:idx_feedback_event_student;index"`
	Event     Event   `json:"-"`
	StudentID uint    `json:"student_id" gorm:"uniqueIndex:idx_feedback_event_student;index"`
	Student   Student `json:"-"`
	Rating    int     `json:"rating" gorm:"index"`
	Comments  string  `json:"comments"`
}

func (f *Feedback) BeforeSave(tx *gorm.DB) error {
	if f.Rating < 1 || f.Rating > 5 {
		return ErrRatingOutOfRange
	}
	return nil
}
