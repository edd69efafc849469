package controllers

import (
	"net/http"

	"github.com/thesisvault/backend/api/middleware"
	"github.com/thesisvault/backend/api/responses"
	"github.com/thesisvault/backend/api/validators"
	"github.com/thesisvault/backend/internal/borrow"
	"github.com/thesisvault/backend/pkg/enums"
	pkgerrors "github.com/thesisvault/backend/pkg/errors"
	"github.com/thesisvault/backend/pkg/logger"
	"github.com/thesisvault/backend/pkg/pagination"
)

type bookshelfLogRequest struct {
	UserID   int64  `json:"user_id" validate:"required,gt=0"`
	ThesisID int64  `json:"thesis_id" validate:"required,gt=0"`
	Action   string `json:"action" validate:"required"`
}

// BorrowIssueQR mints a borrow ticket for the caller.
func BorrowIssueQR(svc borrow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "borrow service unavailable"))
			return
		}

		thesisID, err := thesisIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.IssueQR(r.Context(), middleware.UserIDFromContext(r.Context()), thesisID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ticket)
	}
}

// BookshelfLogCreate records a borrow or return action reported by the shelf
// device. The device supplies the user id from the scanned ticket.
func BookshelfLogCreate(svc borrow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "borrow service unavailable"))
			return
		}

		var body bookshelfLogRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		action, err := enums.ParseBorrowAction(body.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action"))
			return
		}

		row, err := svc.LogAction(r.Context(), body.UserID, body.ThesisID, action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, borrow.FromModel(row))
	}
}

// BorrowHistory lists the caller's borrow/return log entries.
func BorrowHistory(svc borrow.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "borrow service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.History(r.Context(), middleware.UserIDFromContext(r.Context()), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": borrow.FromModels(rows)})
	}
}
