package schools

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/schooladmin/schooladmin/internal/platform/httpx"
	"github.com/schooladmin/schooladmin/internal/rbac"
	"github.com/schooladmin/schooladmin/internal/shared"
)

// Handler manages school endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
	limit   func(http.Handler) http.Handler
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware, limit func(http.Handler) http.Handler) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac, limit: limit}
}

// MountRoutes registers school routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.limit)
		r.Use(h.rbac.RequireRoles(shared.SchoolManagers()...))
		r.Post("/", h.createSchool)
		r.Get("/", h.getSchools)
		r.Put("/", h.updateSchool)
		r.Delete("/", h.deleteSchool)
	})
}

func (h *Handler) createSchool(w http.ResponseWriter, r *http.Request) {
	var req CreateSchoolRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err, MsgRequired)
		return
	}
	identity, _ := shared.IdentityFromContext(r.Context())
	school, err := h.service.Create(r.Context(), req, identity.SubjectID)
	if err != nil {
		h.fail(w, err, "Error creating school.")
		return
	}
	httpx.Success(w, http.StatusCreated, "School created successfully.", school)
}

func (h *Handler) getSchools(w http.ResponseWriter, r *http.Request) {
	if id := strings.TrimSpace(r.URL.Query().Get("id")); id != "" {
		school, err := h.service.Get(r.Context(), id)
		if err != nil {
			h.fail(w, err, "Error retrieving schools.")
			return
		}
		httpx.Success(w, http.StatusOK, "School retrieved successfully.", school)
		return
	}
	page := shared.PageFromRequest(r)
	schools, total, err := h.service.List(r.Context(), page)
	if err != nil {
		h.fail(w, err, "Error retrieving schools.")
		return
	}
	httpx.Page(w, "Schools retrieved successfully.", schools, shared.NewPagination(page.Page, page.Limit, total))
}

func (h *Handler) updateSchool(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		httpx.Failure(w, http.StatusBadRequest, MsgUpdateIDMissing)
		return
	}
	var req UpdateSchoolRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err, shared.MsgNoUpdateFields)
		return
	}
	school, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, err, "Error updating school.")
		return
	}
	httpx.Success(w, http.StatusOK, "School updated successfully.", school)
}

func (h *Handler) deleteSchool(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, err, "Error deleting school.")
		return
	}
	httpx.Success(w, http.StatusOK, "School deleted successfully.", nil)
}

func (h *Handler) fail(w http.ResponseWriter, err error, fallback string) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error(fallback, slog.Any("error", err))
	}
	httpx.RespondError(w, err, fallback)
}
