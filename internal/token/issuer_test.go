package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestIssuer(t *testing.T) (*Issuer, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
	iss, err := NewIssuer(Config{
		LongSecret:  []byte("long-secret"),
		ShortSecret: []byte("short-secret"),
		LongTTL:     72 * time.Hour,
		ShortTTL:    15 * time.Minute,
	})
	require.NoError(t, err)
	return iss.WithClock(c.now), c
}

func TestNewIssuerRejectsEmptySecrets(t *testing.T) {
	_, err := NewIssuer(Config{LongTTL: time.Hour, ShortTTL: time.Minute})
	assert.Error(t, err)
}

func TestIssueShortCarriesLongIdentity(t *testing.T) {
	iss, _ := newTestIssuer(t)

	long, err := iss.IssueLong("a1b2c3d4e5", "jdoe", "admin")
	require.NoError(t, err)
	short, err := iss.IssueShort(long, "curl/8.0")
	require.NoError(t, err)

	claims, err := iss.VerifyShort(short)
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4e5", claims.UserID)
	assert.Equal(t, "jdoe", claims.UserKey)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "curl/8.0", claims.Device)
	assert.Equal(t, "a1b2c3d4e5", claims.Subject)
}

func TestRefreshRoundTripPreservesSubject(t *testing.T) {
	iss, c := newTestIssuer(t)

	long, err := iss.IssueLong("u-1", "alice", "superadmin")
	require.NoError(t, err)
	first, err := iss.IssueShort(long, "device-a")
	require.NoError(t, err)

	// The first short token lapses; the long one is still valid.
	c.t = c.t.Add(20 * time.Minute)
	_, err = iss.VerifyShort(first)
	require.ErrorIs(t, err, ErrExpired)

	refreshed, err := iss.Refresh(long, "device-b")
	require.NoError(t, err)
	claims, err := iss.VerifyShort(refreshed)
	require.NoError(t, err)

	longClaims, err := iss.VerifyLong(long)
	require.NoError(t, err)
	assert.Equal(t, longClaims.UserID, claims.UserID)
	assert.Equal(t, longClaims.UserKey, claims.UserKey)
	assert.Equal(t, "device-b", claims.Device)
}

func TestRefreshErrors(t *testing.T) {
	iss, c := newTestIssuer(t)
	long, err := iss.IssueLong("u-1", "alice", "admin")
	require.NoError(t, err)

	_, err = iss.Refresh("", "dev")
	assert.ErrorIs(t, err, ErrMissing)

	tampered := long[:len(long)-2] + "xx"
	_, err = iss.Refresh(tampered, "dev")
	assert.ErrorIs(t, err, ErrInvalid)

	// A short token is not accepted where a long one is expected.
	short, err := iss.IssueShort(long, "dev")
	require.NoError(t, err)
	_, err = iss.Refresh(short, "dev")
	assert.ErrorIs(t, err, ErrInvalid)

	c.t = c.t.Add(73 * time.Hour)
	_, err = iss.Refresh(long, "dev")
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyShortExpiredRegardlessOfSignature(t *testing.T) {
	iss, c := newTestIssuer(t)
	long, err := iss.IssueLong("u-1", "alice", "admin")
	require.NoError(t, err)
	short, err := iss.IssueShort(long, "dev")
	require.NoError(t, err)

	c.t = c.t.Add(time.Hour)
	_, err = iss.VerifyShort(short)
	assert.ErrorIs(t, err, ErrExpired)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(c.t.Add(-time.Minute)),
		},
	}).SignedString([]byte("not-the-secret"))
	require.NoError(t, err)
	_, err = iss.VerifyShort(forged)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyShortRejectsOtherAlgorithms(t *testing.T) {
	iss, c := newTestIssuer(t)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(c.t.Add(time.Minute)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = iss.VerifyShort(unsigned)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyShortMalformed(t *testing.T) {
	iss, _ := newTestIssuer(t)
	_, err := iss.VerifyShort("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = iss.VerifyShort("")
	assert.ErrorIs(t, err, ErrMissing)
}
