package models

import (
	"gorm.io/gorm"
)

type Student struct {
	gorm.Model
	StudentID   string  `json:"student_id" gorm:"uniqueIndex:idx_student_college"`
	CollegeID   uint    `json:"college_id" gorm:"uniqueIndex:idx_student_college"`
	College     College `json:"-"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email" gorm:"uniqueIndex"`
	Phone       string  `json:"phone"`
	Department  string  `json:"department"`
	YearOfStudy *int    `json:"year_of_study"`
}

func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
