package classrooms

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/schooladmin/schooladmin/internal/platform/httpx"
	"github.com/schooladmin/schooladmin/internal/rbac"
	"github.com/schooladmin/schooladmin/internal/shared"
)

// Handler manages classroom endpoints.
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

// MountRoutes registers classroom routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.limit)
		r.Use(h.rbac.RequireRoles(shared.ClassroomManagers()...))
		r.Post("/", h.createClassroom)
		r.Get("/", h.listClassrooms)
		r.Put("/", h.updateClassroom)
		r.Delete("/", h.deleteClassroom)
	})
}

func (h *Handler) createClassroom(w http.ResponseWriter, r *http.Request) {
	var req CreateClassroomRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err, MsgRequired)
		return
	}
	classroom, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.fail(w, err, "Error creating classroom.")
		return
	}
	httpx.Success(w, http.StatusCreated, "Classroom created successfully.", classroom)
}

func (h *Handler) listClassrooms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		ID:       strings.TrimSpace(q.Get("id")),
		SchoolID: strings.TrimSpace(q.Get("schoolId")),
	}
	page := shared.PageFromRequest(r)
	classrooms, total, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		h.fail(w, err, "Error retrieving classroom(s).")
		return
	}
	httpx.Page(w, "Classroom(s) found.", classrooms, shared.NewPagination(page.Page, page.Limit, total))
}

func (h *Handler) updateClassroom(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		httpx.Failure(w, http.StatusBadRequest, MsgUpdateIDMissing)
		return
	}
	var req UpdateClassroomRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err, shared.MsgNoUpdateFields)
		return
	}
	classroom, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, err, "Error updating classroom.")
		return
	}
	httpx.Success(w, http.StatusOK, "Classroom updated successfully.", classroom)
}

func (h *Handler) deleteClassroom(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, err, "Error deleting classroom.")
		return
	}
	httpx.Success(w, http.StatusOK, "Classroom deleted successfully.", nil)
}

func (h *Handler) fail(w http.ResponseWriter, err error, fallback string) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error(fallback, slog.Any("error", err))
	}
	httpx.RespondError(w, err, fallback)
}
