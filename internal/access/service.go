package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/thesisvault/backend/pkg/db"
	"github.com/thesisvault/backend/pkg/db/models"
	"github.com/thesisvault/backend/pkg/enums"
	pkgerrors "github.com/thesisvault/backend/pkg/errors"
	"github.com/thesisvault/backend/pkg/logger"
)

// State is the effective access a user holds for a thesis. It is derived
// from the latest ledger row, never stored directly.
type State string

const (
	StateNone     State = "none"
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateDenied   State = "denied"
	StateExpired  State = "expired"
)

// Granted reports whether the state permits reading the document.
func (s State) Granted() bool {
	return s == StateApproved
}

type accessRepository interface {
	Create(ctx context.Context, request *models.AccessRequest) (*models.AccessRequest, error)
	FindByID(ctx context.Context, requestID int64) (*models.AccessRequest, error)
	LatestForPair(ctx context.Context, userID, thesisID int64) (*models.AccessRequest, error)
	HasPending(ctx context.Context, userID, thesisID int64) (bool, error)
	ListPending(ctx context.Context) ([]models.AccessRequest, error)
	MarkApproved(ctx context.Context, requestID int64, approvedAt time.Time, removeAt *time.Time) error
	MarkDenied(ctx context.Context, requestID int64) error
}

type thesesRepository interface {
	FindByID(ctx context.Context, thesisID int64) (*models.Thesis, error)
}

// ApproveInput carries the admin decision parameters.
type ApproveInput struct {
	RequestID int64
	// Window bounds how long access lasts. Zero means indefinite.
	Window time.Duration
}

// Service exposes the access request ledger semantics.
type Service interface {
	RequestAccess(ctx context.Context, userID, thesisID int64) (*models.AccessRequest, error)
	Status(ctx context.Context, userID, thesisID int64) State
	Approve(ctx context.Context, input ApproveInput) (*models.AccessRequest, error)
	Deny(ctx context.Context, requestID int64) (*models.AccessRequest, error)
	ListPending(ctx context.Context) ([]models.AccessRequest, error)
}

type service struct {
	repo   accessRepository
	theses thesesRepository
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds the access ledger service.
func NewService(repo accessRepository, theses thesesRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("access repository required")
	}
	if theses == nil {
		return nil, fmt.Errorf("thesis repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, theses: theses, logg: logg, now: time.Now}, nil
}

// RequestAccess appends a pending row for the pair. A live pending request
// is refused; the database index backs the pre-check against races.
func (s *service) RequestAccess(ctx context.Context, userID, thesisID int64) (*models.AccessRequest, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if thesisID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "thesis id is required")
	}

	if _, err := s.theses.FindByID(ctx, thesisID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "thesis not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup thesis")
	}

	pending, err := s.repo.HasPending(ctx, userID, thesisID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pending request")
	}
	if pending {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a pending request already exists for this thesis")
	}

	row := &models.AccessRequest{
		UserID:      userID,
		ThesisID:    thesisID,
		Status:      enums.AccessStatusPending,
		RequestDate: s.now().UTC(),
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_access_requests_pending") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a pending request already exists for this thesis")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create access request")
	}
	return created, nil
}

// Status derives the effective access state for a pair. The read fails
// closed: invalid identifiers and repository failures both come back as
// StateNone rather than an error.
func (s *service) Status(ctx context.Context, userID, thesisID int64) State {
	if userID <= 0 || thesisID <= 0 {
		return StateNone
	}

	row, err := s.repo.LatestForPair(ctx, userID, thesisID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Error(ctx, "access status lookup failed, treating as no access", err)
		}
		return StateNone
	}
	return s.derive(row)
}

func (s *service) derive(row *models.AccessRequest) State {
	switch row.Status {
	case enums.AccessStatusPending:
		return StatePending
	case enums.AccessStatusDenied:
		return StateDenied
	case enums.AccessStatusApproved:
		if row.RemoveAccessDate != nil && !row.RemoveAccessDate.After(s.now()) {
			return StateExpired
		}
		return StateApproved
	default:
		return StateNone
	}
}

func (s *service) Approve(ctx context.Context, input ApproveInput) (*models.AccessRequest, error) {
	row, err := s.loadPending(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}

	approvedAt := s.now().UTC()
	var removeAt *time.Time
	if input.Window > 0 {
		expiry := approvedAt.Add(input.Window)
		removeAt = &expiry
	}
	if err := s.repo.MarkApproved(ctx, row.AccessRequestID, approvedAt, removeAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve access request")
	}

	row.Status = enums.AccessStatusApproved
	row.ApprovedDate = &approvedAt
	row.RemoveAccessDate = removeAt
	return row, nil
}

func (s *service) Deny(ctx context.Context, requestID int64) (*models.AccessRequest, error) {
	row, err := s.loadPending(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.MarkDenied(ctx, row.AccessRequestID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deny access request")
	}
	row.Status = enums.AccessStatusDenied
	return row, nil
}

// loadPending fetches a request and refuses decisions on finalized rows.
func (s *service) loadPending(ctx context.Context, requestID int64) (*models.AccessRequest, error) {
	if requestID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}
	row, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "access request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup access request")
	}
	if row.Status != enums.AccessStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "access request already finalized")
	}
	return row, nil
}

func (s *service) ListPending(ctx context.Context) ([]models.AccessRequest, error) {
	rows, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending requests")
	}
	return rows, nil
}
