package borrow

import (
	"time"

	"github.com/thesisvault/backend/pkg/db/models"
)

// LogDTO is the wire representation of a bookshelf log row.
type LogDTO struct {
	LogID     int64     `json:"log_id"`
	UserID    int64     `json:"user_id"`
	ThesisID  int64     `json:"thesis_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// FromModel maps a log row to its wire shape.
func FromModel(row *models.BookshelfLog) LogDTO {
	if row == nil {
		return LogDTO{}
	}
	return LogDTO{
		LogID:     row.LogID,
		UserID:    row.UserID,
		ThesisID:  row.ThesisID,
		Action:    string(row.Status),
		CreatedAt: row.CreatedAt,
	}
}

// FromModels maps a slice of log rows.
func FromModels(rows []models.BookshelfLog) []LogDTO {
	out := make([]LogDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
