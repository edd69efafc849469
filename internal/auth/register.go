package auth

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/thesisvault/backend/internal/users"
	"github.com/thesisvault/backend/pkg/config"
	"github.com/thesisvault/backend/pkg/db"
	"github.com/thesisvault/backend/pkg/db/models"
	pkgerrors "github.com/thesisvault/backend/pkg/errors"
	"github.com/thesisvault/backend/pkg/security"
)

// RegisterRequest contains the payload required to onboard a student account.
type RegisterRequest struct {
	Username          string     `json:"username" validate:"required,min=3"`
	FullName          string     `json:"full_name" validate:"required"`
	Email             string     `json:"email" validate:"required,email"`
	Password          string     `json:"password" validate:"required,min=8"`
	Phone             *string    `json:"phone,omitempty"`
	Birthdate         *time.Time `json:"birthdate,omitempty"`
	StudentID         string     `json:"student_id" validate:"required"`
	YearLevel         int        `json:"year_level" validate:"required,min=1,max=6"`
	CollegeDepartment string     `json:"college_department" validate:"required"`
	Course            string     `json:"course" validate:"required"`
}

// RegisterService handles the signup transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*users.Profile, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	StudentIDExists(ctx context.Context, studentID string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	CreateStudent(ctx context.Context, student *models.Student) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
// UserRepoFactory defaults to the GORM repository bound to the transaction.
type RegisterServiceParams struct {
	TxRunner        txRunner
	UserRepoFactory func(tx *gorm.DB) registerUserRepository
	PasswordConfig  config.PasswordConfig
}

type registerService struct {
	tx          txRunner
	repoFactory func(tx *gorm.DB) registerUserRepository
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	factory := params.UserRepoFactory
	if factory == nil {
		factory = func(tx *gorm.DB) registerUserRepository {
			return users.NewRepository(tx)
		}
	}
	return &registerService{
		tx:          params.TxRunner,
		repoFactory: factory,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates the user and student rows in one transaction. Either both
// rows land or neither does; the half-created accounts the legacy signup
// could leave behind cannot happen here.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*users.Profile, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	studentID := strings.TrimSpace(req.StudentID)
	if username == "" || email == "" || studentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username, email, and student_id are required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var profile users.Profile
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repoFactory(tx)

		if taken, err := repo.UsernameExists(ctx, username); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		} else if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		if taken, err := repo.EmailExists(ctx, email); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
		} else if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		if taken, err := repo.StudentIDExists(ctx, studentID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check student id")
		} else if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "student id already registered")
		}

		user := &models.User{
			Username:     username,
			FullName:     strings.TrimSpace(req.FullName),
			Email:        email,
			Phone:        req.Phone,
			Birthdate:    req.Birthdate,
			PasswordHash: passwordHash,
		}
		if err := repo.CreateUser(ctx, user); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "username or email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		student := &models.Student{
			StudentID:         studentID,
			UserID:            user.UserID,
			YearLevel:         req.YearLevel,
			CollegeDepartment: strings.TrimSpace(req.CollegeDepartment),
			Course:            strings.TrimSpace(req.Course),
		}
		if err := repo.CreateStudent(ctx, student); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "student id already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create student")
		}

		profile = users.BuildProfile(user, student, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
