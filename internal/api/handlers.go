package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/blueprint/internal/apperr"
	"github.com/starford/blueprint/internal/models"
	"github.com/starford/blueprint/internal/templateservice"
)

const maxBodyBytes = 10 << 20

// Handler holds the template API route handlers.
type Handler struct {
	svc *templateservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *templateservice.Service) *Handler {
	return &Handler{svc: svc}
}

// templateTitle extracts the title path parameter, tolerating URL-escaped
// characters (e.g. spaces from OpenAPI clients).
func templateTitle(r *http.Request) string {
	raw := chi.URLParam(r, "title")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// CreateTemplate handles POST /api/templates.
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		return
	}

	t, err := h.svc.Create(r.Context(), models.TemplateDraft{
		Title:       req.Title,
		Content:     req.Content,
		Description: req.Description,
		Owner:       req.Owner,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrAlreadyExists):
			writeJSON(w, http.StatusConflict, errorBody("template already exists"))
		case errors.Is(err, apperr.ErrValidation):
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		default:
			slog.Error("create template failed", slog.String("title", req.Title), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// GetTemplate handles GET /api/templates/{title}.
func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	title := templateTitle(r)
	t, err := h.svc.Get(r.Context(), title)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("template not found"))
		case errors.Is(err, apperr.ErrValidation):
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		default:
			slog.Error("get template failed", slog.String("title", title), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ListTemplates handles GET /api/templates.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 20
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		offset = v
	}
	owner := q.Get("owner")

	items, err := h.svc.List(r.Context(), limit, offset, owner)
	if err != nil {
		slog.Error("list templates failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if items == nil {
		items = []models.Template{}
	}
	writeJSON(w, http.StatusOK, TemplateListResponse{
		Templates: items,
		Total:     len(items),
		Limit:     limit,
		Offset:    offset,
	})
}

// UpdateTemplate handles PUT /api/templates/{title}.
func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	title := templateTitle(r)

	var req UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	t, err := h.svc.Update(r.Context(), title, models.TemplateUpdate{
		Content:     req.Content,
		Description: req.Description,
		Owner:       req.Owner,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("template not found"))
		case errors.Is(err, apperr.ErrValidation):
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		default:
			slog.Error("update template failed", slog.String("title", title), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTemplate handles DELETE /api/templates/{title}.
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	title := templateTitle(r)
	if err := h.svc.Delete(r.Context(), title); err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("template not found"))
		case errors.Is(err, apperr.ErrValidation):
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
		default:
			slog.Error("delete template failed", slog.String("title", title), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
