package controllers

import (
	"net/http"

	"github.com/thesisvault/backend/api/middleware"
	"github.com/thesisvault/backend/api/responses"
	"github.com/thesisvault/backend/internal/access"
	pkgerrors "github.com/thesisvault/backend/pkg/errors"
	"github.com/thesisvault/backend/pkg/logger"
)

// AccessStatus reports the caller's effective state for one thesis. The
// service fails closed, so this endpoint never errors on ledger reads.
func AccessStatus(svc access.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access service unavailable"))
			return
		}

		thesisID, err := thesisIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state := svc.Status(r.Context(), middleware.UserIDFromContext(r.Context()), thesisID)
		responses.WriteSuccess(w, map[string]any{
			"thesis_id": thesisID,
			"state":     state,
		})
	}
}

// AccessRequestCreate files a pending request for the caller.
func AccessRequestCreate(svc access.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access service unavailable"))
			return
		}

		thesisID, err := thesisIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.RequestAccess(r.Context(), middleware.UserIDFromContext(r.Context()), thesisID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, access.FromModel(row))
	}
}
