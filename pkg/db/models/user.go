package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the canonical identity row. Legacy rows created before the
// federated-identity rollout carry only the integer key; newer rows also
// carry the provider UUID in auth_uuid.
type User struct {
	UserID       int64      `gorm:"column:user_id;primaryKey;autoIncrement"`
	AuthUUID     *uuid.UUID `gorm:"type:uuid;column:auth_uuid;uniqueIndex"`
	Username     string     `gorm:"column:username;not null;uniqueIndex"`
	FullName     string     `gorm:"column:full_name;not null"`
	Email        string     `gorm:"column:email;not null;uniqueIndex"`
	Phone        *string    `gorm:"column:phone"`
	Birthdate    *time.Time `gorm:"column:birthdate"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
