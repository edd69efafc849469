package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/thesisvault/backend/api/responses"
	"github.com/thesisvault/backend/api/validators"
	"github.com/thesisvault/backend/internal/access"
	"github.com/thesisvault/backend/internal/theses"
	pkgerrors "github.com/thesisvault/backend/pkg/errors"
	"github.com/thesisvault/backend/pkg/logger"
)

type approveAccessRequest struct {
	RemoveAfterDays int `json:"remove_after_days" validate:"gte=0,lte=365"`
}

type createThesisRequest struct {
	Title             string `json:"title" validate:"required"`
	Author            string `json:"author" validate:"required"`
	Abstract          string `json:"abstract"`
	CollegeDepartment string `json:"college_department"`
	Batch             int    `json:"batch" validate:"gte=0,lte=9999"`
	PDFFileURL        string `json:"pdf_file_url"`
	AvailableCopies   int    `json:"available_copies" validate:"gte=0"`
}

type setCopiesRequest struct {
	AvailableCopies int `json:"available_copies" validate:"gte=0"`
}

func requestIDFromPath(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "requestId"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "request id must be a positive integer")
	}
	return id, nil
}

// AdminAccessPending lists pending requests oldest first.
func AdminAccessPending(svc access.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access service unavailable"))
			return
		}

		rows, err := svc.ListPending(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": access.FromModels(rows)})
	}
}

// AdminAccessApprove grants a pending request, optionally with an expiry window.
func AdminAccessApprove(svc access.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access service unavailable"))
			return
		}

		requestID, err := requestIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body approveAccessRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Approve(r.Context(), access.ApproveInput{
			RequestID: requestID,
			Window:    time.Duration(body.RemoveAfterDays) * 24 * time.Hour,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, access.FromModel(row))
	}
}

// AdminAccessDeny finalizes a pending request as denied.
func AdminAccessDeny(svc access.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access service unavailable"))
			return
		}

		requestID, err := requestIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Deny(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, access.FromModel(row))
	}
}

// AdminThesisCreate registers a new catalog row.
func AdminThesisCreate(svc theses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "thesis service unavailable"))
			return
		}

		var body createThesisRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.CreateThesis(r.Context(), theses.CreateInput{
			Title:             body.Title,
			Author:            body.Author,
			Abstract:          body.Abstract,
			CollegeDepartment: body.CollegeDepartment,
			Batch:             body.Batch,
			PDFFileURL:        body.PDFFileURL,
			AvailableCopies:   body.AvailableCopies,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, theses.FromModel(row))
	}
}

// AdminThesisSetCopies replaces the physical copy count for a thesis.
func AdminThesisSetCopies(svc theses.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body setCopiesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.SetAvailableCopies(r.Context(), thesisID, body.AvailableCopies)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, theses.FromModel(row))
	}
}
