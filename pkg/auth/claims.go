package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/thesisvault/backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID    int64
	AuthUUID  *uuid.UUID
	Role      enums.Role
	StudentID *string
	JTI       string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID    int64      `json:"user_id"`
	AuthUUID  *uuid.UUID `json:"auth_uuid,omitempty"`
	Role      enums.Role `json:"role"`
	StudentID *string    `json:"student_id,omitempty"`
	jwt.RegisteredClaims
}
