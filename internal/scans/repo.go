package scans

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thesisvault/backend/pkg/db/models"
)

// Repository exposes recent-scan persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a scan repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert records that the user scanned the thesis now. Re-scanning the same
// thesis refreshes the timestamp rather than adding a row.
func (r *Repository) Upsert(ctx context.Context, userID, thesisID int64, scannedAt time.Time) error {
	record := models.ScanRecord{
		UserID:      userID,
		ThesisID:    thesisID,
		ScannedDate: scannedAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "thesis_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"scanned_date"}),
		}).
		Create(&record).Error
}

// RecentRow is one recently scanned thesis with its catalog fields.
type RecentRow struct {
	ThesisID          int64     `json:"thesis_id"`
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	CollegeDepartment string    `json:"college_department"`
	Batch             int       `json:"batch"`
	ScannedDate       time.Time `json:"scanned_date"`
}

// Recent lists the user's scans, newest first, joined against the catalog.
func (r *Repository) Recent(ctx context.Context, userID int64, limit int) ([]RecentRow, error) {
	var rows []RecentRow
	err := r.db.WithContext(ctx).
		Table("user_recent_scanned AS s").
		Select("s.thesis_id, t.title, t.author, t.college_department, t.batch, s.scanned_date").
		Joins("JOIN theses t ON t.thesis_id = s.thesis_id").
		Where("s.user_id = ?", userID).
		Order("s.scanned_date DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
