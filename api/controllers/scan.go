package controllers

import (
	"net/http"

	"github.com/thesisvault/backend/api/middleware"
	"github.com/thesisvault/backend/api/responses"
	"github.com/thesisvault/backend/api/validators"
	"github.com/thesisvault/backend/internal/access"
	"github.com/thesisvault/backend/internal/scans"
	"github.com/thesisvault/backend/internal/theses"
	pkgerrors "github.com/thesisvault/backend/pkg/errors"
	"github.com/thesisvault/backend/pkg/logger"
	"github.com/thesisvault/backend/pkg/pagination"
)

type scanRequest struct {
	Data string `json:"data" validate:"required"`
}

type scanResponse struct {
	Thesis      theses.ThesisDTO `json:"thesis"`
	AccessState access.State     `json:"access_state"`
}

// Scan interprets raw QR content, resolves the thesis, records the scan, and
// reports the caller's current access state for it.
func Scan(thesesSvc theses.Service, scansSvc scans.Service, accessSvc access.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if thesesSvc == nil || scansSvc == nil || accessSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scan services unavailable"))
			return
		}

		var body scanRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := thesesSvc.ResolveQR(r.Context(), body.Data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())

		// Recording the scan must never block the lookup result.
		scansSvc.Record(r.Context(), userID, row.ThesisID)

		responses.WriteSuccess(w, scanResponse{
			Thesis:      theses.FromModel(row),
			AccessState: accessSvc.Status(r.Context(), userID, row.ThesisID),
		})
	}
}

// RecentScans lists the caller's most recently scanned theses.
func RecentScans(svc scans.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scan services unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.Recent(r.Context(), middleware.UserIDFromContext(r.Context()), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": rows})
	}
}
