package access

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/thesisvault/backend/pkg/db/models"
	"github.com/thesisvault/backend/pkg/enums"
)

// Repository exposes access request persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an access request repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new access request row. The partial unique index on
// pending rows rejects a concurrent duplicate.
func (r *Repository) Create(ctx context.Context, request *models.AccessRequest) (*models.AccessRequest, error) {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, err
	}
	return request, nil
}

// FindByID loads one access request row.
func (r *Repository) FindByID(ctx context.Context, requestID int64) (*models.AccessRequest, error) {
	var row models.AccessRequest
	if err := r.db.WithContext(ctx).First(&row, "access_request_id = ?", requestID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// LatestForPair returns the newest request for a (user, thesis) pair.
func (r *Repository) LatestForPair(ctx context.Context, userID, thesisID int64) (*models.AccessRequest, error) {
	var row models.AccessRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND thesis_id = ?", userID, thesisID).
		Order("request_date DESC").
		Order("access_request_id DESC").
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// HasPending reports whether a pending request already exists for the pair.
func (r *Repository) HasPending(ctx context.Context, userID, thesisID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AccessRequest{}).
		Where("user_id = ? AND thesis_id = ? AND status = ?", userID, thesisID, enums.AccessStatusPending).
		Count(&count).Error
	return count > 0, err
}

// ListPending returns all pending requests, oldest first.
func (r *Repository) ListPending(ctx context.Context) ([]models.AccessRequest, error) {
	var rows []models.AccessRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.AccessStatusPending).
		Order("request_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkApproved finalizes a pending request with an approval window.
func (r *Repository) MarkApproved(ctx context.Context, requestID int64, approvedAt time.Time, removeAt *time.Time) error {
	return r.db.WithContext(ctx).Model(&models.AccessRequest{}).
		Where("access_request_id = ?", requestID).
		Updates(map[string]any{
			"status":             enums.AccessStatusApproved,
			"approved_date":      approvedAt,
			"remove_access_date": removeAt,
		}).Error
}

// MarkDenied finalizes a pending request as denied.
func (r *Repository) MarkDenied(ctx context.Context, requestID int64) error {
	return r.db.WithContext(ctx).Model(&models.AccessRequest{}).
		Where("access_request_id = ?", requestID).
		Update("status", enums.AccessStatusDenied).Error
}
