package users

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/schooladmin/schooladmin/internal/rbac"
	"github.com/schooladmin/schooladmin/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	mu        sync.Mutex
	accounts  []Account
	createErr error
}

func (m *mockRepository) Create(ctx context.Context, a Account) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return Account{}, m.createErr
	}
	for _, existing := range m.accounts {
		if existing.Username == a.Username || existing.Email == a.Email {
			return Account{}, shared.Duplicate(MsgDuplicate)
		}
	}
	m.accounts = append(m.accounts, a)
	return a, nil
}

func (m *mockRepository) FindByLogin(ctx context.Context, username, email string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.accounts {
		a := m.accounts[i]
		if (username != "" && a.Username == username) || (email != "" && a.Email == email) {
			return &a, nil
		}
	}
	return nil, shared.NotFound(MsgNotFound)
}

func (m *mockRepository) List(ctx context.Context, page shared.PageRequest) ([]Account, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Account(nil), m.accounts...), len(m.accounts), nil
}

func newTestService() (*Service, *mockRepository) {
	repo := &mockRepository{}
	return NewService(repo).WithHashCost(bcrypt.MinCost), repo
}

func validRequest() CreateAccountRequest {
	return CreateAccountRequest{
		Username:  "  jdoe ",
		Email:     "JDoe@Example.com",
		Password:  "s3cret-pass",
		FirstName: "John",
	}
}

// ============================================================================
// SERVICE TESTS
// ============================================================================

func TestRegisterCreatesReadonlyAccount(t *testing.T) {
	svc, repo := newTestService()

	account, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "jdoe", account.Username)
	assert.Equal(t, "jdoe@example.com", account.Email)
	assert.Equal(t, shared.RoleReadOnly, account.Role)
	assert.Len(t, account.ID, 10)
	assert.NotEqual(t, "s3cret-pass", account.PasswordHash)
	assert.True(t, account.PasswordMatches("s3cret-pass"))
	assert.False(t, account.PasswordMatches("wrong"))
	assert.Len(t, repo.accounts, 1)
}

func TestRegisterRequiresFields(t *testing.T) {
	svc, _ := newTestService()
	req := validRequest()
	req.FirstName = ""

	_, err := svc.Register(context.Background(), req)

	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Equal(t, MsgRequired, shared.UserSafeMessage(err, ""))
}

func TestRegisterRejectsMalformedEmail(t *testing.T) {
	svc, _ := newTestService()
	req := validRequest()
	req.Email = "not-an-email"

	_, err := svc.Register(context.Background(), req)

	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Equal(t, MsgInvalidEmail, shared.UserSafeMessage(err, ""))
}

func TestRegisterPasswordLimitCountsBytes(t *testing.T) {
	svc, repo := newTestService()

	req := validRequest()
	req.Password = strings.Repeat("é", 40)
	_, err := svc.Register(context.Background(), req)
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Equal(t, MsgPasswordTooLong, shared.UserSafeMessage(err, ""))
	assert.Empty(t, repo.accounts)

	req.Password = strings.Repeat("é", 36)
	account, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, account.PasswordMatches(req.Password))
}

func TestRegisterDuplicateUsernameOrEmail(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)

	other := validRequest()
	other.Username = "someone-else"
	_, err = svc.Register(context.Background(), other)

	require.ErrorIs(t, err, shared.ErrDuplicate)
	assert.Equal(t, MsgDuplicate, shared.UserSafeMessage(err, ""))
}

func TestRegisterSurfacesStorageConstraint(t *testing.T) {
	svc, repo := newTestService()
	repo.createErr = shared.Duplicate(MsgDuplicate)

	_, err := svc.Register(context.Background(), validRequest())

	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestNormalizeUsernameComposesUnicode(t *testing.T) {
	decomposed := " Jose\u0301 "
	assert.Equal(t, "Jos\u00e9", NormalizeUsername(decomposed))
}

func TestEnsureSuperAdminIsIdempotent(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.EnsureSuperAdmin(context.Background(), "root", "root@school.test", "changeme")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureSuperAdmin(context.Background(), "root", "root@school.test", "changeme")
	require.NoError(t, err)
	assert.False(t, created)

	require.Len(t, repo.accounts, 1)
	assert.Equal(t, shared.RoleSuperAdmin, repo.accounts[0].Role)
}

// ============================================================================
// HANDLER TESTS
// ============================================================================

func newTestRouter(svc *Service) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, svc, rbac.Middleware{})
	r := chi.NewRouter()
	r.Route("/user", h.MountRoutes)
	return r
}

func TestCreateUserNeverEchoesPassword(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)

	body := `{"username":"jdoe","email":"jdoe@example.com","password":"s3cret-pass","firstName":"John"}`
	req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusCreated, res.Code)
	assert.NotContains(t, res.Body.String(), "password")
	assert.NotContains(t, res.Body.String(), "s3cret-pass")
	assert.NotContains(t, res.Body.String(), "$2a$")

	var env struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &env))
	assert.Equal(t, "success", env.Status)
	assert.Contains(t, string(env.Data), `"role":"readonly"`)
}

func TestCreateUserMissingFields(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(`{"username":"jdoe"}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), MsgRequired)
}

func TestCreateUserMultiBytePasswordOverLimit(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)

	body := `{"username":"jdoe","email":"jdoe@example.com","firstName":"John","password":"` + strings.Repeat("é", 40) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), MsgPasswordTooLong)
}

func TestCreateUserStorageFailureHidesDetails(t *testing.T) {
	svc, repo := newTestService()
	repo.createErr = errors.New("pq: connection reset by peer")
	router := newTestRouter(svc)

	body := `{"username":"jdoe","email":"jdoe@example.com","password":"s3cret-pass","firstName":"John"}`
	req := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Contains(t, res.Body.String(), "Error creating user.")
	assert.NotContains(t, res.Body.String(), "connection reset")
}
