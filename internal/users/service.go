package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"

	"github.com/schooladmin/schooladmin/internal/shared"
)

// Client messages.
const (
	MsgRequired     = "Username, email, firstName, and password are required."
	MsgInvalidEmail = "A valid email address is required."
	MsgTooLong      = "One or more fields exceed their maximum length."
	MsgDuplicate    = "A user with the same username or email already exists."
	MsgNotFound     = "User not found."

	MsgPasswordTooLong = "Password must not exceed 72 bytes."
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Service handles account business logic.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
	cost     int
	now      func() time.Time
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, validate: validator.New(), cost: bcrypt.DefaultCost, now: time.Now}
}

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *Service) WithHashCost(cost int) *Service {
	s.cost = cost
	return s
}

// NormalizeUsername trims and NFC-normalises a username so visually equal
// names collide on the unique index.
func NormalizeUsername(username string) string {
	return norm.NFC.String(strings.TrimSpace(username))
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a readonly account.
func (s *Service) Register(ctx context.Context, req CreateAccountRequest) (Account, error) {
	req.Username = NormalizeUsername(req.Username)
	req.Email = NormalizeEmail(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := s.check(req); err != nil {
		return Account{}, err
	}
	return s.create(ctx, req, shared.RoleReadOnly)
}

// EnsureSuperAdmin creates a superadmin account unless the username or email
// is already taken. It reports whether an account was created.
func (s *Service) EnsureSuperAdmin(ctx context.Context, username, email, password string) (bool, error) {
	return s.EnsureAccount(ctx, CreateAccountRequest{
		Username:  username,
		Email:     email,
		Password:  password,
		FirstName: "Administrator",
	}, shared.RoleSuperAdmin)
}

// EnsureAccount creates an account with role unless the username or email is
// already taken. It reports whether an account was created.
func (s *Service) EnsureAccount(ctx context.Context, req CreateAccountRequest, role string) (bool, error) {
	if !shared.ValidRole(role) {
		return false, shared.Validation("Unknown role: " + role)
	}
	req.Username = NormalizeUsername(req.Username)
	req.Email = NormalizeEmail(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := s.check(req); err != nil {
		return false, err
	}
	_, err := s.create(ctx, req, role)
	if errors.Is(err, shared.ErrDuplicate) {
		return false, nil
	}
	return err == nil, err
}

// FindByLogin resolves an account by username or email.
func (s *Service) FindByLogin(ctx context.Context, username, email string) (*Account, error) {
	return s.repo.FindByLogin(ctx, NormalizeUsername(username), NormalizeEmail(email))
}

// List returns a page of accounts.
func (s *Service) List(ctx context.Context, page shared.PageRequest) ([]Account, int, error) {
	return s.repo.List(ctx, page)
}

func (s *Service) check(req CreateAccountRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		if len(req.Password) > MaxPasswordBytes {
			return shared.Validation(MsgPasswordTooLong)
		}
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return shared.Validation(MsgRequired)
		}
	}
	for _, fe := range verrs {
		if fe.Tag() == "email" {
			return shared.Validation(MsgInvalidEmail)
		}
	}
	return shared.Validation(MsgTooLong)
}

// create runs the two-phase insert: a lookup for a friendly conflict, then an
// insert that the unique indexes guard against concurrent creators.
func (s *Service) create(ctx context.Context, req CreateAccountRequest, role string) (Account, error) {
	existing, err := s.repo.FindByLogin(ctx, req.Username, req.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return Account{}, err
	}
	if existing != nil {
		return Account{}, shared.Duplicate(MsgDuplicate)
	}
	now := s.now().UTC()
	account := Account{
		ID:        shared.NewID(""),
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := account.SetPassword(req.Password, s.cost); err != nil {
		return Account{}, err
	}
	return s.repo.Create(ctx, account)
}
