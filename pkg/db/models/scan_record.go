package models

import "time"

// ScanRecord marks the most recent time a user viewed a thesis. Keyed on the
// (user, thesis) pair; every scan upserts the timestamp, so this is last-seen
// state rather than a history log.
type ScanRecord struct {
	UserID      int64     `gorm:"column:user_id;primaryKey"`
	ThesisID    int64     `gorm:"column:thesis_id;primaryKey"`
	ScannedDate time.Time `gorm:"column:scanned_date;not null"`
}

func (ScanRecord) TableName() string { return "user_recent_scanned" }
