package rbac

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/schooladmin/schooladmin/internal/platform/httpx"
	"github.com/schooladmin/schooladmin/internal/shared"
	"github.com/schooladmin/schooladmin/internal/token"
)

// Role trust sources.
const (
	// SourceToken requires the role header to match the role signed into the token.
	SourceToken = "token"
	// SourceHeader trusts the role header alone.
	SourceHeader = "header"
)

// Rejection reasons reported to the Recorder.
const (
	ReasonUnauthenticated = "unauthenticated"
	ReasonExpired         = "expired"
	ReasonInvalid         = "invalid"
	ReasonMissingRole     = "missing_role"
	ReasonForbidden       = "forbidden"
	ReasonRoleMismatch    = "role_mismatch"
)

// Client messages for guard rejections.
const (
	MsgNoToken      = "No token provided."
	MsgExpired      = "Token expired."
	MsgInvalid      = "Invalid token."
	MsgMissingRole  = "Role header is required."
	MsgInsufficient = "Insufficient role permissions."
)

// Verifier checks short-lived tokens.
type Verifier interface {
	VerifyShort(tokenString string) (*token.Claims, error)
}

// Recorder counts guard rejections.
type Recorder interface {
	GuardRejected(reason string)
}

// Middleware wires the access guard for HTTP handlers.
type Middleware struct {
	Verifier   Verifier
	Logger     *slog.Logger
	RoleSource string
	Recorder   Recorder
}

// RequireRoles admits a request only when it carries a valid short-lived token
// and a role header naming one of roles. The caller identity is attached to the
// request context before next runs. Every request is evaluated afresh.
func (m Middleware) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := normalizeRoles(roles)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				m.reject(w, r, http.StatusForbidden, ReasonUnauthenticated, MsgNoToken)
				return
			}
			claims, err := m.Verifier.VerifyShort(raw)
			if err != nil {
				if errors.Is(err, token.ErrExpired) {
					m.reject(w, r, http.StatusUnauthorized, ReasonExpired, MsgExpired)
					return
				}
				m.reject(w, r, http.StatusUnauthorized, ReasonInvalid, MsgInvalid)
				return
			}
			role := strings.TrimSpace(strings.ToLower(r.Header.Get(shared.HeaderRole)))
			if role == "" {
				m.reject(w, r, http.StatusForbidden, ReasonMissingRole, MsgMissingRole)
				return
			}
			if _, ok := allowed[role]; !ok {
				m.reject(w, r, http.StatusForbidden, ReasonForbidden, MsgInsufficient)
				return
			}
			if m.RoleSource != SourceHeader && !strings.EqualFold(claims.Role, role) {
				m.reject(w, r, http.StatusForbidden, ReasonRoleMismatch, MsgInsufficient)
				return
			}
			ctx := shared.ContextWithIdentity(r.Context(), shared.Identity{
				SubjectID:  claims.UserID,
				SubjectKey: claims.UserKey,
				Role:       role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (m Middleware) reject(w http.ResponseWriter, r *http.Request, status int, reason, msg string) {
	if m.Recorder != nil {
		m.Recorder.GuardRejected(reason)
	}
	if m.Logger != nil {
		m.Logger.Debug("access guard rejected request",
			slog.String("reason", reason),
			slog.String("path", r.URL.Path),
		)
	}
	httpx.Failure(w, status, msg)
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, value, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(value)
}

func normalizeRoles(roles []string) map[string]struct{} {
	unique := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(strings.ToLower(role))
		if role == "" {
			continue
		}
		unique[role] = struct{}{}
	}
	return unique
}
