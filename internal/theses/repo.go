package theses

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/thesisvault/backend/pkg/db/models"
	"github.com/thesisvault/backend/pkg/pagination"
)

// Repository exposes thesis persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a thesis repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type searchQuery struct {
	term       string
	department string
	batch      int
	limit      int
	cursor     *pagination.Cursor
}

// FindByID loads one thesis row.
func (r *Repository) FindByID(ctx context.Context, thesisID int64) (*models.Thesis, error) {
	var row models.Thesis
	if err := r.db.WithContext(ctx).First(&row, "thesis_id = ?", thesisID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByFileFragment returns theses whose stored PDF URL contains the given
// filename. Callers decide what to do when the match is not unique.
func (r *Repository) FindByFileFragment(ctx context.Context, filename string) ([]models.Thesis, error) {
	pattern := "%" + escapeLike(filename) + "%"
	var rows []models.Thesis
	err := r.db.WithContext(ctx).
		Where("pdf_file_url ILIKE ?", pattern).
		Limit(3).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Search returns theses matching the filters using cursor pagination.
func (r *Repository) Search(ctx context.Context, opts searchQuery) ([]models.Thesis, error) {
	query := r.db.WithContext(ctx).Model(&models.Thesis{})

	if opts.term != "" {
		pattern := "%" + escapeLike(opts.term) + "%"
		query = query.Where("title ILIKE ? OR author ILIKE ?", pattern, pattern)
	}
	if opts.department != "" {
		query = query.Where("college_department = ?", opts.department)
	}
	if opts.batch > 0 {
		query = query.Where("batch = ?", opts.batch)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND thesis_id < ?)",
			opts.cursor.At, opts.cursor.At, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("thesis_id DESC").Limit(opts.limit)

	var rows []models.Thesis
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a thesis row.
func (r *Repository) Create(ctx context.Context, thesis *models.Thesis) (*models.Thesis, error) {
	if err := r.db.WithContext(ctx).Create(thesis).Error; err != nil {
		return nil, err
	}
	return thesis, nil
}

// UpdateCopies sets the physical copy count for a thesis.
func (r *Repository) UpdateCopies(ctx context.Context, thesisID int64, copies int) error {
	return r.db.WithContext(ctx).Model(&models.Thesis{}).
		Where("thesis_id = ?", thesisID).
		Update("available_copies", copies).Error
}

// AdjustCopies applies a delta to the copy count without going below zero.
func (r *Repository) AdjustCopies(ctx context.Context, thesisID int64, delta int) error {
	return r.db.WithContext(ctx).Model(&models.Thesis{}).
		Where("thesis_id = ? AND available_copies + ? >= 0", thesisID, delta).
		Update("available_copies", gorm.Expr("available_copies + ?", delta)).Error
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer("%", "\\%", "_", "\\_")
	return replacer.Replace(value)
}
