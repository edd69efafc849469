package borrow

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/thesisvault/backend/internal/access"
	"github.com/thesisvault/backend/internal/qr"
	"github.com/thesisvault/backend/pkg/db/models"
	"github.com/thesisvault/backend/pkg/enums"
	pkgerrors "github.com/thesisvault/backend/pkg/errors"
	"github.com/thesisvault/backend/pkg/logger"
	"github.com/thesisvault/backend/pkg/pagination"
)

const qrImageSize = 256

type thesesRepository interface {
	FindByID(ctx context.Context, thesisID int64) (*models.Thesis, error)
	AdjustCopies(ctx context.Context, thesisID int64, delta int) error
}

type logsRepository interface {
	Append(ctx context.Context, log *models.BookshelfLog) (*models.BookshelfLog, error)
	HistoryForUser(ctx context.Context, userID int64, limit int) ([]models.BookshelfLog, error)
}

type accessChecker interface {
	Status(ctx context.Context, userID, thesisID int64) access.State
}

// Ticket is an issued borrow QR: the encoded payload plus a rendered PNG
// the shelf device camera can read.
type Ticket struct {
	ThesisID int64  `json:"thesis_id"`
	UserID   int64  `json:"user_id"`
	Payload  string `json:"payload"`
	ImageURI string `json:"image_uri"`
}

// Service issues borrow tickets and records shelf actions.
type Service interface {
	IssueQR(ctx context.Context, userID, thesisID int64) (*Ticket, error)
	LogAction(ctx context.Context, userID, thesisID int64, action enums.BorrowAction) (*models.BookshelfLog, error)
	History(ctx context.Context, userID int64, limit int) ([]models.BookshelfLog, error)
}

type service struct {
	theses thesesRepository
	logs   logsRepository
	access accessChecker
	logg   *logger.Logger
}

// NewService builds the borrow session service.
func NewService(theses thesesRepository, logs logsRepository, accessSvc accessChecker, logg *logger.Logger) (Service, error) {
	if theses == nil {
		return nil, fmt.Errorf("thesis repository required")
	}
	if logs == nil {
		return nil, fmt.Errorf("borrow log repository required")
	}
	if accessSvc == nil {
		return nil, fmt.Errorf("access checker required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{theses: theses, logs: logs, access: accessSvc, logg: logg}, nil
}

// IssueQR mints a borrow ticket for a user holding approved access to a
// thesis with at least one physical copy on the shelf. The two refusal
// reasons stay distinct so the client can prompt the right next step.
func (s *service) IssueQR(ctx context.Context, userID, thesisID int64) (*Ticket, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if thesisID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "thesis id is required")
	}

	thesis, err := s.theses.FindByID(ctx, thesisID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "thesis not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup thesis")
	}

	if !s.access.Status(ctx, userID, thesisID).Granted() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "approved access required to borrow this thesis")
	}
	if thesis.AvailableCopies <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no copies available")
	}

	payload, err := qr.EncodeBorrowTicket(thesisID, userID)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render borrow qr")
	}

	return &Ticket{
		ThesisID: thesisID,
		UserID:   userID,
		Payload:  payload,
		ImageURI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}

// LogAction appends a shelf action and moves the copy count. A return can
// arrive after an unlogged borrow, so the count adjustment is best-effort
// and clamped at zero by the repository.
func (s *service) LogAction(ctx context.Context, userID, thesisID int64, action enums.BorrowAction) (*models.BookshelfLog, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if thesisID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "thesis id is required")
	}
	if !action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid borrow action")
	}

	if _, err := s.theses.FindByID(ctx, thesisID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "thesis not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup thesis")
	}

	row, err := s.logs.Append(ctx, &models.BookshelfLog{
		UserID:   userID,
		ThesisID: thesisID,
		Status:   action,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append bookshelf log")
	}

	delta := -1
	if action == enums.BorrowActionReturned {
		delta = 1
	}
	if err := s.theses.AdjustCopies(ctx, thesisID, delta); err != nil {
		ctx = s.logg.WithThesisID(ctx, thesisID)
		s.logg.Error(ctx, "adjusting copy count failed", err)
	}
	return row, nil
}

func (s *service) History(ctx context.Context, userID int64, limit int) ([]models.BookshelfLog, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	rows, err := s.logs.HistoryForUser(ctx, userID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list borrow history")
	}
	return rows, nil
}
