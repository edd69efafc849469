package models

import (
	"time"

	"github.com/thesisvault/backend/pkg/enums"
)

// AccessRequest tracks permission to view a thesis PDF for one user. At most
// one pending row may exist per (user, thesis) pair; the partial unique index
// uq_access_requests_pending enforces that at the database level.
type AccessRequest struct {
	AccessRequestID  int64              `gorm:"column:access_request_id;primaryKey;autoIncrement"`
	UserID           int64              `gorm:"column:user_id;not null;index:idx_access_requests_pair"`
	ThesisID         int64              `gorm:"column:thesis_id;not null;index:idx_access_requests_pair"`
	Status           enums.AccessStatus `gorm:"column:status;not null"`
	RequestDate      time.Time          `gorm:"column:request_date;not null"`
	ApprovedDate     *time.Time         `gorm:"column:approved_date"`
	RemoveAccessDate *time.Time         `gorm:"column:remove_access_date"`
}

func (AccessRequest) TableName() string { return "thesis_access_requests" }
