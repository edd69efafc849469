package models

import "time"

// Admin is the optional 1:1 role row granting elevated operations.
type Admin struct {
	AdminID           int64     `gorm:"column:admin_id;primaryKey;autoIncrement"`
	UserID            int64     `gorm:"column:user_id;not null;uniqueIndex"`
	Position          string    `gorm:"column:position"`
	CollegeDepartment string    `gorm:"column:college_department"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Admin) TableName() string { return "admins" }
