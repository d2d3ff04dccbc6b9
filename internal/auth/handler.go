package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/schooladmin/schooladmin/internal/platform/httpx"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger       *slog.Logger
	service      *Service
	loginLimit   func(http.Handler) http.Handler
	refreshLimit func(http.Handler) http.Handler
}

// NewHandler constructs a Handler instance. The limiters guard login and
// refresh respectively.
func NewHandler(logger *slog.Logger, service *Service, loginLimit, refreshLimit func(http.Handler) http.Handler) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		loginLimit:   loginLimit,
		refreshLimit: refreshLimit,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.loginLimit).Post("/login", h.handleLogin)
	r.With(h.refreshLimit).Post("/refreshtoken", h.handleRefresh)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Failure(w, http.StatusBadRequest, MsgCredentialsRequired)
		return
	}
	result, err := h.service.Login(r.Context(), req, deviceFingerprint(r))
	if err != nil {
		h.fail(w, err, "Error during login.")
		return
	}
	httpx.Success(w, http.StatusOK, "Login successful.", result)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Failure(w, http.StatusUnauthorized, MsgLongTokenRequired)
		return
	}
	result, err := h.service.Refresh(r.Context(), req, deviceFingerprint(r))
	if err != nil {
		h.fail(w, err, "Error refreshing token.")
		return
	}
	httpx.Success(w, http.StatusOK, "Token refreshed successfully.", result)
}

func (h *Handler) fail(w http.ResponseWriter, err error, fallback string) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error(fallback, slog.Any("error", err))
	}
	httpx.RespondError(w, err, fallback)
}

// deviceFingerprint identifies the calling client for short-lived tokens.
func deviceFingerprint(r *http.Request) string {
	if ua := strings.TrimSpace(r.UserAgent()); ua != "" {
		return ua
	}
	return "unknown"
}
