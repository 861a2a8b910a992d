package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
	AttendanceStatusLate    = "late"
)

type Attendance struct {
	gorm.Model
	EventID      uint       `json:"event_id" gorm:"uniqueIndex:idx_attendance_event_student;index"`
	Event        Event      `json:"-"`
	StudentID    uint       `json:"student_id" gorm:"uniqueIndex:idx_attendance_event_student;index"`
	Student      Student    `json:"-"`
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	Status       string     `json:"status" gorm:"index;default:present"`
	MarkedByID   *uint      `json:"marked_by_id"`
	Notes        string     `json:"notes"`
}

// BeforeCreate stamps the check-in time. It is immutable afterwards.
func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = AttendanceStatusPresent
	}
	if a.CheckInTime.IsZero() {
		a.CheckInTime = time.Now()
	}
	return nil
}

// Duration is check-out minus check-in, nil until checked out.
func (a *Attendance) Duration() *time.Duration {
	if a.CheckOutTime == nil {
		return nil
	}
	d := a.CheckOutTime.Sub(a.CheckInTime)
	return &d
}
