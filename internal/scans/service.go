package scans

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/thesisvault/backend/pkg/errors"
	"github.com/thesisvault/backend/pkg/logger"
	"github.com/thesisvault/backend/pkg/pagination"
)

type scansRepository interface {
	Upsert(ctx context.Context, userID, thesisID int64, scannedAt time.Time) error
	Recent(ctx context.Context, userID int64, limit int) ([]RecentRow, error)
}

// Service records scan activity and serves the recent-scans list.
type Service interface {
	// Record persists the scan. Failures are logged and swallowed: losing a
	// history entry must never fail the scan that produced it.
	Record(ctx context.Context, userID, thesisID int64)
	Recent(ctx context.Context, userID int64, limit int) ([]RecentRow, error)
}

type service struct {
	repo scansRepository
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the scan activity service.
func NewService(repo scansRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("scan repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

func (s *service) Record(ctx context.Context, userID, thesisID int64) {
	if userID <= 0 || thesisID <= 0 {
		return
	}
	if err := s.repo.Upsert(ctx, userID, thesisID, s.now().UTC()); err != nil {
		ctx = s.logg.WithThesisID(ctx, thesisID)
		s.logg.Error(ctx, "recording scan failed", err)
	}
}

func (s *service) Recent(ctx context.Context, userID int64, limit int) ([]RecentRow, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	rows, err := s.repo.Recent(ctx, userID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent scans")
	}
	return rows, nil
}
