package students

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/schooladmin/schooladmin/internal/platform/httpx"
	"github.com/schooladmin/schooladmin/internal/rbac"
	"github.com/schooladmin/schooladmin/internal/shared"
)

// Handler manages student endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers student routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(shared.ClassroomManagers()...))
		r.Post("/", h.createStudent)
		r.Get("/", h.listStudents)
		r.Put("/", h.updateStudent)
		r.Delete("/", h.deleteStudent)
	})
}

func (h *Handler) createStudent(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err, MsgRequired)
		return
	}
	student, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.fail(w, err, "Error creating student.")
		return
	}
	httpx.Success(w, http.StatusCreated, "Student created successfully.", student)
}

func (h *Handler) listStudents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		ID:          strings.TrimSpace(q.Get("id")),
		SchoolID:    strings.TrimSpace(q.Get("schoolId")),
		ClassroomID: strings.TrimSpace(q.Get("classroomId")),
	}
	page := shared.PageFromRequest(r)
	students, total, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		h.fail(w, err, "Error retrieving student(s).")
		return
	}
	httpx.Page(w, "Student(s) found.", students, shared.NewPagination(page.Page, page.Limit, total))
}

func (h *Handler) updateStudent(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		httpx.Failure(w, http.StatusBadRequest, MsgUpdateIDMissing)
		return
	}
	var req UpdateStudentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err, shared.MsgNoUpdateFields)
		return
	}
	student, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, err, "Error updating student.")
		return
	}
	httpx.Success(w, http.StatusOK, "Student updated successfully.", student)
}

func (h *Handler) deleteStudent(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, err, "Error deleting student.")
		return
	}
	httpx.Success(w, http.StatusOK, "Student deleted successfully.", nil)
}

func (h *Handler) fail(w http.ResponseWriter, err error, fallback string) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error(fallback, slog.Any("error", err))
	}
	httpx.RespondError(w, err, fallback)
}
