package borrow

import (
	"context"
	"io"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/thesisvault/backend/internal/access"
	"github.com/thesisvault/backend/internal/qr"
	"github.com/thesisvault/backend/pkg/db/models"
	"github.com/thesisvault/backend/pkg/enums"
	pkgerrors "github.com/thesisvault/backend/pkg/errors"
	"github.com/thesisvault/backend/pkg/logger"
)

type fakeBorrowTheses struct {
	rows map[int64]*models.Thesis
}

func (f *fakeBorrowTheses) FindByID(_ context.Context, thesisID int64) (*models.Thesis, error) {
	if row, ok := f.rows[thesisID]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBorrowTheses) AdjustCopies(_ context.Context, thesisID int64, delta int) error {
	if row, ok := f.rows[thesisID]; ok && row.AvailableCopies+delta >= 0 {
		row.AvailableCopies += delta
	}
	return nil
}

type fakeLogsRepo struct {
	rows []*models.BookshelfLog
}

func (f *fakeLogsRepo) Append(_ context.Context, log *models.BookshelfLog) (*models.BookshelfLog, error) {
	log.LogID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, log)
	return log, nil
}

func (f *fakeLogsRepo) HistoryForUser(_ context.Context, userID int64, limit int) ([]models.BookshelfLog, error) {
	var out []models.BookshelfLog
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fixedAccess struct {
	state access.State
}

func (f *fixedAccess) Status(_ context.Context, _, _ int64) access.State {
	return f.state
}

func newBorrowService(t *testing.T, theses *fakeBorrowTheses, logs *fakeLogsRepo, state access.State) Service {
	t.Helper()
	svc, err := NewService(theses, logs, &fixedAccess{state: state},
		logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestIssueQRHappyPath(t *testing.T) {
	theses := &fakeBorrowTheses{rows: map[int64]*models.Thesis{
		42: {ThesisID: 42, AvailableCopies: 1},
	}}
	svc := newBorrowService(t, theses, &fakeLogsRepo{}, access.StateApproved)

	ticket, err := svc.IssueQR(context.Background(), 7, 42)
	if err != nil {
		t.Fatalf("IssueQR: %v", err)
	}

	payload, err := qr.Interpret(ticket.Payload)
	if err != nil {
		t.Fatalf("issued payload does not round-trip: %v", err)
	}
	if payload.Kind != qr.KindBorrow || payload.ThesisID != 42 || payload.UserID != 7 {
		t.Errorf("unexpected payload %+v", payload)
	}
	if !strings.HasPrefix(ticket.ImageURI, "data:image/png;base64,") {
		t.Errorf("image uri is not a png data uri: %q", ticket.ImageURI[:32])
	}
}

func TestIssueQRRefusalReasonsStayDistinct(t *testing.T) {
	theses := &fakeBorrowTheses{rows: map[int64]*models.Thesis{
		42: {ThesisID: 42, AvailableCopies: 0},
		43: {ThesisID: 43, AvailableCopies: 3},
	}}

	// Approved access but no copies on the shelf.
	svc := newBorrowService(t, theses, &fakeLogsRepo{}, access.StateApproved)
	_, err := svc.IssueQR(context.Background(), 7, 42)
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Errorf("no copies: expected state conflict, got %v", err)
	}

	// Copies on the shelf but no approved access.
	svc = newBorrowService(t, theses, &fakeLogsRepo{}, access.StatePending)
	_, err = svc.IssueQR(context.Background(), 7, 43)
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Errorf("no access: expected forbidden, got %v", err)
	}

	// Expired approval must also refuse.
	svc = newBorrowService(t, theses, &fakeLogsRepo{}, access.StateExpired)
	_, err = svc.IssueQR(context.Background(), 7, 43)
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Errorf("expired access: expected forbidden, got %v", err)
	}
}

func TestIssueQRUnknownThesis(t *testing.T) {
	svc := newBorrowService(t, &fakeBorrowTheses{rows: map[int64]*models.Thesis{}}, &fakeLogsRepo{}, access.StateApproved)
	_, err := svc.IssueQR(context.Background(), 7, 999)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestLogActionMovesCopyCount(t *testing.T) {
	theses := &fakeBorrowTheses{rows: map[int64]*models.Thesis{
		42: {ThesisID: 42, AvailableCopies: 2},
	}}
	logs := &fakeLogsRepo{}
	svc := newBorrowService(t, theses, logs, access.StateApproved)

	if _, err := svc.LogAction(context.Background(), 7, 42, enums.BorrowActionBorrowed); err != nil {
		t.Fatalf("LogAction borrow: %v", err)
	}
	if theses.rows[42].AvailableCopies != 1 {
		t.Errorf("copies after borrow = %d, want 1", theses.rows[42].AvailableCopies)
	}

	if _, err := svc.LogAction(context.Background(), 7, 42, enums.BorrowActionReturned); err != nil {
		t.Fatalf("LogAction return: %v", err)
	}
	if theses.rows[42].AvailableCopies != 2 {
		t.Errorf("copies after return = %d, want 2", theses.rows[42].AvailableCopies)
	}
	if len(logs.rows) != 2 {
		t.Errorf("expected 2 log rows, got %d", len(logs.rows))
	}
}

func TestLogActionRejectsInvalidInput(t *testing.T) {
	svc := newBorrowService(t, &fakeBorrowTheses{rows: map[int64]*models.Thesis{42: {ThesisID: 42}}}, &fakeLogsRepo{}, access.StateApproved)

	if _, err := svc.LogAction(context.Background(), 7, 42, enums.BorrowAction("misplaced")); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Errorf("invalid action: expected validation error, got %v", err)
	}
	if _, err := svc.LogAction(context.Background(), 0, 42, enums.BorrowActionBorrowed); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Errorf("missing user: expected validation error, got %v", err)
	}
}
