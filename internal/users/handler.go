package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/schooladmin/schooladmin/internal/platform/httpx"
	"github.com/schooladmin/schooladmin/internal/rbac"
	"github.com/schooladmin/schooladmin/internal/shared"
)

// Handler manages account endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    rbac.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers account routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createUser)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(shared.SchoolManagers()...))
		r.Get("/", h.listUsers)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(shared.AllRoles()...))
		r.Get("/me", h.me)
	})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err, MsgRequired)
		return
	}
	account, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.fail(w, err, "Error creating user.")
		return
	}
	httpx.Success(w, http.StatusCreated, "User created successfully.", account)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	page := shared.PageFromRequest(r)
	accounts, total, err := h.service.List(r.Context(), page)
	if err != nil {
		h.fail(w, err, "Error retrieving users.")
		return
	}
	httpx.Page(w, "Users retrieved successfully.", accounts, shared.NewPagination(page.Page, page.Limit, total))
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	httpx.Success(w, http.StatusOK, "Identity retrieved successfully.", identity)
}

func (h *Handler) fail(w http.ResponseWriter, err error, fallback string) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error(fallback, slog.Any("error", err))
	}
	httpx.RespondError(w, err, fallback)
}
