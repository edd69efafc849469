package models

import (
	"time"

	"github.com/thesisvault/backend/pkg/enums"
)

// BookshelfLog is the append-only record of physical borrow/return actions
// reported by the shelf device. Write-only from this service's perspective.
type BookshelfLog struct {
	LogID     int64              `gorm:"column:log_id;primaryKey;autoIncrement"`
	UserID    int64              `gorm:"column:user_id;not null"`
	ThesisID  int64              `gorm:"column:thesis_id;not null"`
	Status    enums.BorrowAction `gorm:"column:status;not null"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (BookshelfLog) TableName() string { return "bookshelf_logs" }
