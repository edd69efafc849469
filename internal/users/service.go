package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thesisvault/backend/internal/identity"
	"github.com/thesisvault/backend/pkg/db/models"
	pkgerrors "github.com/thesisvault/backend/pkg/errors"
)

type usersRepository interface {
	FindByID(ctx context.Context, userID int64) (*models.User, error)
	FindByAuthUUID(ctx context.Context, authUUID uuid.UUID) (*models.User, error)
	FindStudentByUserID(ctx context.Context, userID int64) (*models.Student, error)
	FindAdminByUserID(ctx context.Context, userID int64) (*models.Admin, error)
}

// Service exposes profile lookups keyed by either identifier scheme.
type Service interface {
	ProfileByKey(ctx context.Context, key identity.Key) (*Profile, error)
	ProfileByID(ctx context.Context, userID int64) (*Profile, error)
}

type service struct {
	repo usersRepository
}

// NewService builds a user profile service.
func NewService(repo usersRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ProfileByKey(ctx context.Context, key identity.Key) (*Profile, error) {
	if key.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}

	if key.IsNumeric() {
		return s.ProfileByID(ctx, key.Numeric())
	}

	authUUID, err := uuid.Parse(key.Opaque())
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid federated subject")
	}
	user, err := s.repo.FindByAuthUUID(ctx, authUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user by auth uuid")
	}
	return s.assemble(ctx, user)
}

func (s *service) ProfileByID(ctx context.Context, userID int64) (*Profile, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	return s.assemble(ctx, user)
}

// assemble loads the role rows. A missing role row is normal; any other
// lookup failure is surfaced.
func (s *service) assemble(ctx context.Context, user *models.User) (*Profile, error) {
	student, err := s.repo.FindStudentByUserID(ctx, user.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup student row")
	}

	admin, err := s.repo.FindAdminByUserID(ctx, user.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup admin row")
	}

	profile := BuildProfile(user, student, admin)
	return &profile, nil
}
