package theses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/thesisvault/backend/internal/qr"
	"github.com/thesisvault/backend/pkg/db/models"
	pkgerrors "github.com/thesisvault/backend/pkg/errors"
	"github.com/thesisvault/backend/pkg/pagination"
	"github.com/thesisvault/backend/pkg/storage"
)

type thesesRepository interface {
	FindByID(ctx context.Context, thesisID int64) (*models.Thesis, error)
	FindByFileFragment(ctx context.Context, filename string) ([]models.Thesis, error)
	Search(ctx context.Context, opts searchQuery) ([]models.Thesis, error)
	Create(ctx context.Context, thesis *models.Thesis) (*models.Thesis, error)
	UpdateCopies(ctx context.Context, thesisID int64, copies int) error
}

type pdfResolver interface {
	ResolvePDF(ctx context.Context, filename string) (string, error)
}

// SearchParams holds catalog search filters.
type SearchParams struct {
	Term       string
	Department string
	Batch      int
	Limit      int
	Cursor     string
}

// SearchResult is one page of catalog results.
type SearchResult struct {
	Items  []ThesisDTO `json:"items"`
	Cursor string          `json:"cursor,omitempty"`
}

// CreateInput holds the metadata required to register a thesis.
type CreateInput struct {
	Title             string
	Author            string
	Abstract          string
	CollegeDepartment string
	Batch             int
	PDFFileURL        string
	AvailableCopies   int
}

// Service exposes catalog lookup, search, and QR resolution semantics.
type Service interface {
	GetThesis(ctx context.Context, thesisID int64) (*models.Thesis, error)
	Search(ctx context.Context, params SearchParams) (*SearchResult, error)
	ResolveQR(ctx context.Context, rawContent string) (*models.Thesis, error)
	PDFURL(ctx context.Context, thesis *models.Thesis) (string, error)
	CreateThesis(ctx context.Context, input CreateInput) (*models.Thesis, error)
	SetAvailableCopies(ctx context.Context, thesisID int64, copies int) (*models.Thesis, error)
}

type service struct {
	repo     thesesRepository
	resolver pdfResolver
}

// NewService builds a thesis catalog service.
func NewService(repo thesesRepository, resolver pdfResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("thesis repository required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("pdf resolver required")
	}
	return &service{repo: repo, resolver: resolver}, nil
}

func (s *service) GetThesis(ctx context.Context, thesisID int64) (*models.Thesis, error) {
	if thesisID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "thesis id is required")
	}
	row, err := s.repo.FindByID(ctx, thesisID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "thesis not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup thesis")
	}
	return row, nil
}

func (s *service) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := searchQuery{
		term:       strings.TrimSpace(params.Term),
		department: strings.TrimSpace(params.Department),
		batch:      params.Batch,
		limit:      pagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search theses")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			At: rows[limit].CreatedAt,
			ID: rows[limit].ThesisID,
		})
		rows = rows[:limit]
	}

	return &SearchResult{Items: fromModels(rows), Cursor: nextCursor}, nil
}

// ResolveQR interprets scanned QR content and resolves it to a catalog row.
func (s *service) ResolveQR(ctx context.Context, rawContent string) (*models.Thesis, error) {
	payload, err := qr.Interpret(rawContent)
	if err != nil {
		return nil, err
	}

	switch payload.Kind {
	case qr.KindBorrow, qr.KindThesisID:
		return s.GetThesis(ctx, payload.ThesisID)
	case qr.KindFile:
		return s.byFilename(ctx, payload.Filename)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized qr payload")
	}
}

// byFilename matches a scanned PDF filename against the catalog. An ambiguous
// match is refused rather than guessed at.
func (s *service) byFilename(ctx context.Context, filename string) (*models.Thesis, error) {
	rows, err := s.repo.FindByFileFragment(ctx, filename)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup thesis by filename")
	}
	switch len(rows) {
	case 0:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no thesis matches scanned file")
	case 1:
		return &rows[0], nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "scanned file matches multiple theses")
	}
}

// PDFURL returns a fetchable URL for the thesis document. Full URLs stored on
// the row pass through; bare filenames are resolved against storage.
func (s *service) PDFURL(ctx context.Context, thesis *models.Thesis) (string, error) {
	stored := strings.TrimSpace(thesis.PDFFileURL)
	if stored == "" {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "thesis has no document")
	}
	if strings.HasPrefix(stored, "http://") || strings.HasPrefix(stored, "https://") {
		return stored, nil
	}

	resolved, err := s.resolver.ResolvePDF(ctx, stored)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "thesis document not found in storage")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve thesis document")
	}
	return resolved, nil
}

func (s *service) CreateThesis(ctx context.Context, input CreateInput) (*models.Thesis, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Author) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author is required")
	}
	if input.AvailableCopies < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "available_copies cannot be negative")
	}

	row := &models.Thesis{
		Title:             strings.TrimSpace(input.Title),
		Author:            strings.TrimSpace(input.Author),
		Abstract:          strings.TrimSpace(input.Abstract),
		CollegeDepartment: strings.TrimSpace(input.CollegeDepartment),
		Batch:             input.Batch,
		PDFFileURL:        strings.TrimSpace(input.PDFFileURL),
		AvailableCopies:   input.AvailableCopies,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create thesis")
	}
	return created, nil
}

func (s *service) SetAvailableCopies(ctx context.Context, thesisID int64, copies int) (*models.Thesis, error) {
	if copies < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "available_copies cannot be negative")
	}
	row, err := s.GetThesis(ctx, thesisID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCopies(ctx, thesisID, copies); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update available copies")
	}
	row.AvailableCopies = copies
	return row, nil
}
