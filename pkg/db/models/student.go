package models

import "time"

// Student is the optional 1:1 role row for a user. StudentID is externally
// assigned and immutable after creation; year/department/course changes are
// admin-only.
type Student struct {
	StudentID         string    `gorm:"column:student_id;primaryKey"`
	UserID            int64     `gorm:"column:user_id;not null;uniqueIndex"`
	YearLevel         int       `gorm:"column:year_level"`
	CollegeDepartment string    `gorm:"column:college_department"`
	Course            string    `gorm:"column:course"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Student) TableName() string { return "students" }
