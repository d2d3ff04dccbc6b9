package token

import (
	"errors"
	"time"
)

// Config carries secrets and lifetimes for both token kinds.
type Config struct {
	LongSecret  []byte
	ShortSecret []byte
	LongTTL     time.Duration
	ShortTTL    time.Duration
}

// Issuer mints, refreshes and verifies tokens.
type Issuer struct {
	cfg Config
	now func() time.Time
}

// NewIssuer constructs an Issuer.
func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.LongSecret) == 0 || len(cfg.ShortSecret) == 0 {
		return nil, errors.New("token: secrets must not be empty")
	}
	if cfg.LongTTL <= 0 || cfg.ShortTTL <= 0 {
		return nil, errors.New("token: ttl must be positive")
	}
	return &Issuer{cfg: cfg, now: time.Now}, nil
}

// WithClock replaces the time source; used by tests.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// IssueLong signs a long-lived token for the subject.
func (i *Issuer) IssueLong(subjectID, subjectKey, role string) (string, error) {
	return sign(Claims{UserID: subjectID, UserKey: subjectKey, Role: role}, i.cfg.LongSecret, i.now(), i.cfg.LongTTL)
}

// IssueShort derives a short-lived token bound to device from longToken.
// The long token's signature is not checked here; callers verify it first.
func (i *Issuer) IssueShort(longToken, device string) (string, error) {
	if longToken == "" {
		return "", ErrMissing
	}
	long, err := parseUnverified(longToken)
	if err != nil {
		return "", err
	}
	return sign(Claims{
		UserID:  long.UserID,
		UserKey: long.UserKey,
		Role:    long.Role,
		Device:  device,
	}, i.cfg.ShortSecret, i.now(), i.cfg.ShortTTL)
}

// Refresh verifies longToken and issues a new short-lived token for device.
func (i *Issuer) Refresh(longToken, device string) (string, error) {
	if _, err := i.VerifyLong(longToken); err != nil {
		return "", err
	}
	return i.IssueShort(longToken, device)
}

// VerifyLong checks a long-lived token against the long-token secret.
func (i *Issuer) VerifyLong(tokenString string) (*Claims, error) {
	return verify(tokenString, i.cfg.LongSecret, i.now())
}

// VerifyShort checks a short-lived token against the short-token secret.
func (i *Issuer) VerifyShort(tokenString string) (*Claims, error) {
	return verify(tokenString, i.cfg.ShortSecret, i.now())
}
