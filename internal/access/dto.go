package access

import (
	"time"

	"github.com/thesisvault/backend/pkg/db/models"
)

// RequestDTO is the wire representation of a ledger row.
type RequestDTO struct {
	AccessRequestID  int64      `json:"access_request_id"`
	UserID           int64      `json:"user_id"`
	ThesisID         int64      `json:"thesis_id"`
	Status           string     `json:"status"`
	RequestDate      time.Time  `json:"request_date"`
	ApprovedDate     *time.Time `json:"approved_date,omitempty"`
	RemoveAccessDate *time.Time `json:"remove_access_date,omitempty"`
}

// FromModel maps a ledger row to its wire shape.
func FromModel(row *models.AccessRequest) RequestDTO {
	if row == nil {
		return RequestDTO{}
	}
	return RequestDTO{
		AccessRequestID:  row.AccessRequestID,
		UserID:           row.UserID,
		ThesisID:         row.ThesisID,
		Status:           string(row.Status),
		RequestDate:      row.RequestDate,
		ApprovedDate:     row.ApprovedDate,
		RemoveAccessDate: row.RemoveAccessDate,
	}
}

// FromModels maps a slice of ledger rows.
func FromModels(rows []models.AccessRequest) []RequestDTO {
	out := make([]RequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
