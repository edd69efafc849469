package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thesisvault/backend/pkg/db/models"
)

// Repository exposes user, student, and admin persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a user by the integer database key.
func (r *Repository) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByAuthUUID loads a user by the federated identity key.
func (r *Repository) FindByAuthUUID(ctx context.Context, authUUID uuid.UUID) (*models.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).First(&row, "auth_uuid = ?", authUUID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByUsername loads a user by the unique username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var row models.User
	if err := r.db.WithContext(ctx).First(&row, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UsernameExists reports whether a username is already taken.
func (r *Repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// EmailExists reports whether an email is already registered.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// StudentIDExists reports whether a student id is already claimed.
func (r *Repository) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Student{}).
		Where("student_id = ?", studentID).Count(&count).Error
	return count > 0, err
}

// CreateUser inserts a user row. Construct the repository from a transaction
// when this must land together with the role row insert.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// CreateStudent inserts the student role row.
func (r *Repository) CreateStudent(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

// FindStudentByUserID loads the student role row, if any.
func (r *Repository) FindStudentByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	var row models.Student
	if err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindAdminByUserID loads the admin role row, if any.
func (r *Repository) FindAdminByUserID(ctx context.Context, userID int64) (*models.Admin, error) {
	var row models.Admin
	if err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdatePasswordHash rewrites the stored credential for a user.
func (r *Repository) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("password_hash", hash).Error
}
