package auth

import "github.com/thesisvault/backend/internal/users"

// LoginRequest carries the credential pair. Logins are by username, not email.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the token pair plus the merged profile.
type LoginResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         users.Profile `json:"user"`
}

// RefreshRequest exchanges an expired access token and its refresh token for
// a new pair.
type RefreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse returns the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RestoreRequest carries a session document persisted by an older client
// build. The shape varies between builds, so it stays raw here.
type RestoreRequest struct {
	Session map[string]any `json:"session" validate:"required"`
}

// RestoreResponse identifies the account a legacy session belonged to. It
// never carries tokens: legacy blobs are client-held input, so the caller
// still has to log in.
type RestoreResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}
