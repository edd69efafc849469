package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/thesisvault/backend/internal/auth"
	"github.com/thesisvault/backend/internal/users"
	pkgerrors "github.com/thesisvault/backend/pkg/errors"
	"github.com/thesisvault/backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type fakeAuthService struct {
	loginFn   func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	restoreFn func(ctx context.Context, req auth.RestoreRequest) (*auth.RestoreResponse, error)
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, req)
	}
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid username or password")
}

func (f *fakeAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
}

func (f *fakeAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

func (f *fakeAuthService) Restore(ctx context.Context, req auth.RestoreRequest) (*auth.RestoreResponse, error) {
	if f.restoreFn != nil {
		return f.restoreFn(ctx, req)
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
}

type fakeRegisterService struct {
	registerFn func(ctx context.Context, req auth.RegisterRequest) (*users.Profile, error)
}

func (f *fakeRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*users.Profile, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, req)
	}
	return &users.Profile{UserID: 1, Username: req.Username}, nil
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := &fakeAuthService{
		loginFn: func(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
			if req.Username != "jdoe" {
				t.Fatalf("unexpected username %q", req.Username)
			}
			return &auth.LoginResponse{
				AccessToken:  "access",
				RefreshToken: "refresh",
				User:         users.Profile{UserID: 5, Username: "jdoe"},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"jdoe","password":"secret"}`))
	rec := httptest.NewRecorder()
	AuthLogin(svc, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var payload struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.AccessToken != "access" {
		t.Fatalf("unexpected token %q", payload.Data.AccessToken)
	}
	if payload.Data.User.UserID != 5 {
		t.Fatalf("unexpected user id %d", payload.Data.User.UserID)
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"jdoe","password":"wrong"}`))
	rec := httptest.NewRecorder()
	AuthLogin(&fakeAuthService{}, testLogger())(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthLoginRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"jdoe","password":"x","extra":true}`))
	rec := httptest.NewRecorder()
	AuthLogin(&fakeAuthService{}, testLogger())(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthRegisterCreated(t *testing.T) {
	body := `{"username":"newkid","password":"longenough","email":"newkid@example.com","full_name":"New Kid","student_id":"2021-00123","year_level":3,"college_department":"CCS","course":"BSCS"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	AuthRegister(&fakeRegisterService{}, testLogger())(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d (body %s)", rec.Code, rec.Body.String())
	}
}

func TestAuthRestoreIdentifiesAccount(t *testing.T) {
	svc := &fakeAuthService{
		restoreFn: func(ctx context.Context, req auth.RestoreRequest) (*auth.RestoreResponse, error) {
			return &auth.RestoreResponse{UserID: 9, Username: "olduser", Role: "student"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/restore", strings.NewReader(`{"session":{"user":{"id":9}}}`))
	rec := httptest.NewRecorder()
	AuthRestore(svc, testLogger())(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var payload struct {
		Data auth.RestoreResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.UserID != 9 {
		t.Fatalf("unexpected user id %d", payload.Data.UserID)
	}
}

func TestAuthServiceUnavailable(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"a","password":"b"}`))
	rec := httptest.NewRecorder()
	AuthLogin(nil, testLogger())(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}
