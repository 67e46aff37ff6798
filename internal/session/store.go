package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/naumanrao/courseadmin/internal/api"
	"github.com/naumanrao/courseadmin/internal/domain"
	"github.com/naumanrao/courseadmin/internal/repository"
)

// DefaultMaxAge is the session lifetime when none is configured.
const DefaultMaxAge = 24 * time.Hour

const (
	keyAuthToken = "authToken"
	keyUserInfo  = "userInfo"
	keyLoginTime = "loginTime"
)

// Credential is the stored login triple.
type Credential struct {
	Token     string
	User      domain.User
	LoginTime time.Time
}

// Store keeps the credential in the session storage area. The three fields
// are always written and cleared together.
type Store struct {
	kv    repository.KVStore
	codec *Codec
	now   func() time.Time
}

type StoreOption func(*Store)

// WithClock injects the time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func NewStore(kv repository.KVStore, codec *Codec, opts ...StoreOption) *Store {
	s := &Store{kv: kv, codec: codec, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCredential stores token, user and the current time in one transaction.
func (s *Store) SetCredential(ctx context.Context, token string, user domain.User) error {
	if strings.TrimSpace(token) == "" {
		return api.Invalid("token", "required")
	}

	sealedToken, err := s.codec.Seal(keyAuthToken, token)
	if err != nil {
		return err
	}
	sealedUser, err := s.codec.Seal(keyUserInfo, user)
	if err != nil {
		return err
	}
	sealedTime, err := s.codec.Seal(keyLoginTime, s.now().UTC())
	if err != nil {
		return err
	}

	if err := s.kv.SetMany(ctx, map[string]string{
		keyAuthToken: sealedToken,
		keyUserInfo:  sealedUser,
		keyLoginTime: sealedTime,
	}); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}
	return nil
}

// Credential returns the stored credential, or nil when token or user is
// absent or fails to unseal. A missing or unreadable login time leaves
// LoginTime zero, which IsExpired treats as expired.
func (s *Store) Credential(ctx context.Context) (*Credential, error) {
	raw, err := s.kv.GetMany(ctx, keyAuthToken, keyUserInfo, keyLoginTime)
	if err != nil {
		return nil, fmt.Errorf("reading credential: %w", err)
	}

	var cred Credential
	if s.codec.Open(keyAuthToken, raw[keyAuthToken], &cred.Token) != nil || cred.Token == "" {
		return nil, nil
	}
	if s.codec.Open(keyUserInfo, raw[keyUserInfo], &cred.User) != nil {
		return nil, nil
	}
	if s.codec.Open(keyLoginTime, raw[keyLoginTime], &cred.LoginTime) != nil {
		cred.LoginTime = time.Time{}
	}
	return &cred, nil
}

// IsAuthenticated reports whether both token and user are present.
func (s *Store) IsAuthenticated(ctx context.Context) (bool, error) {
	cred, err := s.Credential(ctx)
	if err != nil {
		return false, err
	}
	return cred != nil, nil
}

// IsExpired reports whether the login is older than maxAge. No stored login
// time counts as expired. maxAge <= 0 means DefaultMaxAge.
func (s *Store) IsExpired(ctx context.Context, maxAge time.Duration) (bool, error) {
	cred, err := s.Credential(ctx)
	if err != nil {
		return false, err
	}
	if cred == nil {
		return true, nil
	}
	return s.expired(cred, maxAge), nil
}

func (s *Store) expired(cred *Credential, maxAge time.Duration) bool {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if cred.LoginTime.IsZero() {
		return true
	}
	return s.now().Sub(cred.LoginTime) > maxAge
}

// Remaining is the session time left, floored at zero.
func (s *Store) Remaining(cred *Credential, maxAge time.Duration) time.Duration {
	if cred == nil || s.expired(cred, maxAge) {
		return 0
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return maxAge - s.now().Sub(cred.LoginTime)
}

// Clear removes all three credential fields.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, keyAuthToken, keyUserInfo, keyLoginTime); err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}
	return nil
}

// Token implements api.TokenSource.
func (s *Store) Token(ctx context.Context) (string, error) {
	cred, err := s.Credential(ctx)
	if err != nil {
		return "", err
	}
	if cred == nil {
		return "", api.ErrAuthenticationMissing
	}
	return cred.Token, nil
}
