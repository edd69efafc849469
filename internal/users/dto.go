package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/thesisvault/backend/pkg/db/models"
	"github.com/thesisvault/backend/pkg/enums"
)

// Profile is the merged view of a user and their optional role rows.
type Profile struct {
	UserID    int64      `json:"user_id"`
	AuthUUID  *uuid.UUID `json:"auth_uuid,omitempty"`
	Username  string     `json:"username"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone,omitempty"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
	Role      enums.Role `json:"role"`

	StudentID         *string `json:"student_id,omitempty"`
	YearLevel         *int    `json:"year_level,omitempty"`
	CollegeDepartment *string `json:"college_department,omitempty"`
	Course            *string `json:"course,omitempty"`

	Position *string `json:"position,omitempty"`
}

// BuildProfile merges a user row with its role rows. The admin row wins when
// both are present.
func BuildProfile(user *models.User, student *models.Student, admin *models.Admin) Profile {
	profile := Profile{
		UserID:    user.UserID,
		AuthUUID:  user.AuthUUID,
		Username:  user.Username,
		FullName:  user.FullName,
		Email:     user.Email,
		Phone:     user.Phone,
		Birthdate: user.Birthdate,
		Role:      enums.RoleUser,
	}

	if student != nil {
		profile.Role = enums.RoleStudent
		profile.StudentID = &student.StudentID
		profile.YearLevel = &student.YearLevel
		profile.CollegeDepartment = &student.CollegeDepartment
		profile.Course = &student.Course
	}
	if admin != nil {
		profile.Role = enums.RoleAdmin
		profile.Position = &admin.Position
		profile.CollegeDepartment = &admin.CollegeDepartment
	}
	return profile
}
