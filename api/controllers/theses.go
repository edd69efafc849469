package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/thesisvault/backend/api/middleware"
	"github.com/thesisvault/backend/api/responses"
	"github.com/thesisvault/backend/api/validators"
	"github.com/thesisvault/backend/internal/access"
	"github.com/thesisvault/backend/internal/theses"
	pkgerrors "github.com/thesisvault/backend/pkg/errors"
	"github.com/thesisvault/backend/pkg/logger"
	"github.com/thesisvault/backend/pkg/pagination"
)

func thesisIDFromPath(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "thesisId"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "thesis id must be a positive integer")
	}
	return id, nil
}

// ThesisSearch pages through the catalog with optional filters.
func ThesisSearch(svc theses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "thesis service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		batch, err := validators.ParseQueryInt(r, "batch", 0, 0, 9999)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := theses.SearchParams{
			Term:       validators.SanitizeString(r.URL.Query().Get("query"), 200),
			Department: validators.SanitizeString(r.URL.Query().Get("college_department"), 100),
			Batch:      batch,
			Limit:      limit,
			Cursor:     strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		result, err := svc.Search(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// ThesisGet returns one catalog row by id.
func ThesisGet(svc theses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "thesis service unavailable"))
			return
		}

		thesisID, err := thesisIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.GetThesis(r.Context(), thesisID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, theses.FromModel(row))
	}
}

// ThesisPDF returns the resolved document URL, gated on approved access.
func ThesisPDF(thesesSvc theses.Service, accessSvc access.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if thesesSvc == nil || accessSvc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "thesis service unavailable"))
			return
		}

		thesisID, err := thesisIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		state := accessSvc.Status(r.Context(), userID, thesisID)
		if !state.Granted() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "approved access required to view this thesis"))
			return
		}

		row, err := thesesSvc.GetThesis(r.Context(), thesisID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := thesesSvc.PDFURL(r.Context(), row)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"thesis_id": thesisID,
			"pdf_url":   url,
		})
	}
}
