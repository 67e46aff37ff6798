package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/naumanrao/courseadmin/internal/api"
)

// Guard gates every protected navigation on a live credential.
type Guard struct {
	store  *Store
	maxAge time.Duration
	logger *zap.Logger
}

func NewGuard(store *Store, maxAge time.Duration, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Guard{store: store, maxAge: maxAge, logger: logger}
}

// Require returns the current credential. It fails with
// api.ErrAuthenticationMissing when nobody is logged in, and with
// api.ErrAuthenticationExpired after clearing a credential that outlived
// the session lifetime.
func (g *Guard) Require(ctx context.Context) (*Credential, error) {
	cred, err := g.store.Credential(ctx)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, api.ErrAuthenticationMissing
	}
	if g.store.expired(cred, g.maxAge) {
		g.logger.Info("session expired", zap.Time("login_time", cred.LoginTime), zap.Duration("max_age", g.maxAge))
		if err := g.store.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, api.ErrAuthenticationExpired
	}
	return cred, nil
}

// Remaining is the session time left for cred.
func (g *Guard) Remaining(cred *Credential) time.Duration {
	return g.store.Remaining(cred, g.maxAge)
}
