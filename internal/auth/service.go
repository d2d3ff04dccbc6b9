package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/schooladmin/schooladmin/internal/shared"
	"github.com/schooladmin/schooladmin/internal/token"
	"github.com/schooladmin/schooladmin/internal/users"
)

// Client messages.
const (
	MsgCredentialsRequired = "Username or email and password are required."
	MsgInvalidPassword     = "Invalid password."
	MsgLongTokenRequired   = "Long token is required."
	MsgLongTokenExpired    = "Long token expired."
	MsgLongTokenInvalid    = "Invalid long token."
)

// AccountFinder resolves accounts for login.
type AccountFinder interface {
	FindByLogin(ctx context.Context, username, email string) (*users.Account, error)
}

// TokenIssuer mints and refreshes token pairs.
type TokenIssuer interface {
	IssueLong(subjectID, subjectKey, role string) (string, error)
	IssueShort(longToken, device string) (string, error)
	Refresh(longToken, device string) (string, error)
}

// Service wraps authentication business rules.
type Service struct {
	accounts AccountFinder
	tokens   TokenIssuer
}

// NewService constructs a new Service.
func NewService(accounts AccountFinder, tokens TokenIssuer) *Service {
	return &Service{accounts: accounts, tokens: tokens}
}

// Login validates credentials against the stored hash and issues a long-lived
// token plus a short-lived token bound to device.
func (s *Service) Login(ctx context.Context, req LoginRequest, device string) (LoginResult, error) {
	if (strings.TrimSpace(req.Username) == "" && strings.TrimSpace(req.Email) == "") || req.Password == "" {
		return LoginResult{}, shared.Validation(MsgCredentialsRequired)
	}
	account, err := s.accounts.FindByLogin(ctx, req.Username, req.Email)
	if err != nil {
		return LoginResult{}, err
	}
	if !account.PasswordMatches(req.Password) {
		return LoginResult{}, &shared.Error{Kind: shared.ErrInvalidCredentials, Message: MsgInvalidPassword}
	}
	long, err := s.tokens.IssueLong(account.ID, account.Username, account.Role)
	if err != nil {
		return LoginResult{}, err
	}
	short, err := s.tokens.IssueShort(long, device)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		Username:   account.Username,
		Role:       account.Role,
		LongToken:  long,
		ShortToken: short,
	}, nil
}

// Refresh issues a new short-lived token from a valid long-lived token
// without re-authenticating.
func (s *Service) Refresh(ctx context.Context, req RefreshRequest, device string) (RefreshResult, error) {
	short, err := s.tokens.Refresh(strings.TrimSpace(req.LongToken), device)
	switch {
	case err == nil:
		return RefreshResult{ShortToken: short}, nil
	case errors.Is(err, token.ErrMissing):
		return RefreshResult{}, shared.Unauthorized(MsgLongTokenRequired)
	case errors.Is(err, token.ErrExpired):
		return RefreshResult{}, shared.Unauthorized(MsgLongTokenExpired)
	case errors.Is(err, token.ErrInvalid):
		return RefreshResult{}, shared.Unauthorized(MsgLongTokenInvalid)
	default:
		return RefreshResult{}, err
	}
}
