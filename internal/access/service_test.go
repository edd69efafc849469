package access

import (
	"context"
	"io"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/thesisvault/backend/pkg/db/models"
	"github.com/thesisvault/backend/pkg/enums"
	pkgerrors "github.com/thesisvault/backend/pkg/errors"
	"github.com/thesisvault/backend/pkg/logger"
)

type fakeAccessRepo struct {
	rows      []*models.AccessRequest
	nextID    int64
	createErr error
	latestErr error
}

func (f *fakeAccessRepo) Create(_ context.Context, request *models.AccessRequest) (*models.AccessRequest, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	request.AccessRequestID = f.nextID
	f.rows = append(f.rows, request)
	return request, nil
}

func (f *fakeAccessRepo) FindByID(_ context.Context, requestID int64) (*models.AccessRequest, error) {
	for _, row := range f.rows {
		if row.AccessRequestID == requestID {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAccessRepo) LatestForPair(_ context.Context, userID, thesisID int64) (*models.AccessRequest, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	var latest *models.AccessRequest
	for _, row := range f.rows {
		if row.UserID != userID || row.ThesisID != thesisID {
			continue
		}
		if latest == nil || row.RequestDate.After(latest.RequestDate) {
			latest = row
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (f *fakeAccessRepo) HasPending(_ context.Context, userID, thesisID int64) (bool, error) {
	for _, row := range f.rows {
		if row.UserID == userID && row.ThesisID == thesisID && row.Status == enums.AccessStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccessRepo) ListPending(_ context.Context) ([]models.AccessRequest, error) {
	var out []models.AccessRequest
	for _, row := range f.rows {
		if row.Status == enums.AccessStatusPending {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeAccessRepo) MarkApproved(_ context.Context, requestID int64, approvedAt time.Time, removeAt *time.Time) error {
	row, err := f.FindByID(context.Background(), requestID)
	if err != nil {
		return err
	}
	row.Status = enums.AccessStatusApproved
	row.ApprovedDate = &approvedAt
	row.RemoveAccessDate = removeAt
	return nil
}

func (f *fakeAccessRepo) MarkDenied(_ context.Context, requestID int64) error {
	row, err := f.FindByID(context.Background(), requestID)
	if err != nil {
		return err
	}
	row.Status = enums.AccessStatusDenied
	return nil
}

type fakeThesisLookup struct {
	known map[int64]bool
}

func (f *fakeThesisLookup) FindByID(_ context.Context, thesisID int64) (*models.Thesis, error) {
	if f.known[thesisID] {
		return &models.Thesis{ThesisID: thesisID}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newAccessService(t *testing.T, repo *fakeAccessRepo, thesisIDs ...int64) *service {
	t.Helper()
	known := map[int64]bool{}
	for _, id := range thesisIDs {
		known[id] = true
	}
	svc, err := NewService(repo, &fakeThesisLookup{known: known}, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc.(*service)
}

func TestRequestAccessCreatesPendingRow(t *testing.T) {
	repo := &fakeAccessRepo{}
	svc := newAccessService(t, repo, 42)

	created, err := svc.RequestAccess(context.Background(), 7, 42)
	if err != nil {
		t.Fatalf("RequestAccess: %v", err)
	}
	if created.Status != enums.AccessStatusPending {
		t.Errorf("status = %q, want pending", created.Status)
	}
	if got := svc.Status(context.Background(), 7, 42); got != StatePending {
		t.Errorf("Status = %q, want pending", got)
	}
}

func TestRequestAccessRefusesDuplicatePending(t *testing.T) {
	repo := &fakeAccessRepo{}
	svc := newAccessService(t, repo, 42)

	if _, err := svc.RequestAccess(context.Background(), 7, 42); err != nil {
		t.Fatalf("first request: %v", err)
	}
	_, err := svc.RequestAccess(context.Background(), 7, 42)
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestRequestAccessUnknownThesis(t *testing.T) {
	svc := newAccessService(t, &fakeAccessRepo{})
	_, err := svc.RequestAccess(context.Background(), 7, 999)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestStatusFailsClosed(t *testing.T) {
	repo := &fakeAccessRepo{latestErr: gorm.ErrInvalidDB}
	svc := newAccessService(t, repo, 42)

	if got := svc.Status(context.Background(), 7, 42); got != StateNone {
		t.Errorf("repo failure: Status = %q, want none", got)
	}
	if got := svc.Status(context.Background(), 0, 42); got != StateNone {
		t.Errorf("invalid user: Status = %q, want none", got)
	}
	if got := svc.Status(context.Background(), 7, -1); got != StateNone {
		t.Errorf("invalid thesis: Status = %q, want none", got)
	}
}

func TestApproveSetsWindowAndExpires(t *testing.T) {
	repo := &fakeAccessRepo{}
	svc := newAccessService(t, repo, 42)

	created, err := svc.RequestAccess(context.Background(), 7, 42)
	if err != nil {
		t.Fatalf("RequestAccess: %v", err)
	}

	approved, err := svc.Approve(context.Background(), ApproveInput{RequestID: created.AccessRequestID, Window: time.Hour})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.RemoveAccessDate == nil {
		t.Fatal("expected remove_access_date to be set")
	}
	if got := svc.Status(context.Background(), 7, 42); got != StateApproved {
		t.Errorf("Status = %q, want approved", got)
	}

	// Move the clock past the window.
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if got := svc.Status(context.Background(), 7, 42); got != StateExpired {
		t.Errorf("Status after window = %q, want expired", got)
	}
	if svc.Status(context.Background(), 7, 42).Granted() {
		t.Error("expired access must not grant reads")
	}
}

func TestApproveIndefiniteWindow(t *testing.T) {
	repo := &fakeAccessRepo{}
	svc := newAccessService(t, repo, 42)

	created, _ := svc.RequestAccess(context.Background(), 7, 42)
	approved, err := svc.Approve(context.Background(), ApproveInput{RequestID: created.AccessRequestID})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.RemoveAccessDate != nil {
		t.Errorf("zero window should leave remove_access_date unset, got %v", approved.RemoveAccessDate)
	}
}

func TestDecisionsOnFinalizedRequests(t *testing.T) {
	repo := &fakeAccessRepo{}
	svc := newAccessService(t, repo, 42)

	created, _ := svc.RequestAccess(context.Background(), 7, 42)
	if _, err := svc.Deny(context.Background(), created.AccessRequestID); err != nil {
		t.Fatalf("Deny: %v", err)
	}
	if got := svc.Status(context.Background(), 7, 42); got != StateDenied {
		t.Errorf("Status = %q, want denied", got)
	}

	_, err := svc.Approve(context.Background(), ApproveInput{RequestID: created.AccessRequestID})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Errorf("expected state conflict, got %v", err)
	}

	_, err = svc.Deny(context.Background(), 404)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDeniedUserCanRequestAgain(t *testing.T) {
	repo := &fakeAccessRepo{}
	svc := newAccessService(t, repo, 42)

	created, _ := svc.RequestAccess(context.Background(), 7, 42)
	_, _ = svc.Deny(context.Background(), created.AccessRequestID)

	again, err := svc.RequestAccess(context.Background(), 7, 42)
	if err != nil {
		t.Fatalf("request after denial: %v", err)
	}
	// Newer rows must win the status derivation.
	again.RequestDate = again.RequestDate.Add(time.Second)
	if got := svc.Status(context.Background(), 7, 42); got != StatePending {
		t.Errorf("Status = %q, want pending", got)
	}
}
