package borrow

import (
	"context"

	"gorm.io/gorm"

	"github.com/thesisvault/backend/pkg/db/models"
)

// Repository exposes bookshelf log persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a borrow log repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts one bookshelf log row.
func (r *Repository) Append(ctx context.Context, log *models.BookshelfLog) (*models.BookshelfLog, error) {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return nil, err
	}
	return log, nil
}

// HistoryForUser lists a user's borrow/return actions, newest first.
func (r *Repository) HistoryForUser(ctx context.Context, userID int64, limit int) ([]models.BookshelfLog, error) {
	var rows []models.BookshelfLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("log_id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
