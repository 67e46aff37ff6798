package session

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/naumanrao/courseadmin/internal/api"
)

// LoginClient is the slice of the API client used for login.
type LoginClient interface {
	Login(ctx context.Context, username, password string) (*api.LoginResult, error)
}

type LoginRequest struct {
	Username string
	Password string
	Remember bool
}

// Authenticator runs the login and logout flows.
type Authenticator struct {
	client LoginClient
	store  *Store
	prefs  *Preferences
	logger *zap.Logger
}

func NewAuthenticator(client LoginClient, store *Store, prefs *Preferences, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{client: client, store: store, prefs: prefs, logger: logger}
}

// Login validates the form, updates the remembered login, authenticates
// against the API and stores the resulting credential.
func (a *Authenticator) Login(ctx context.Context, req LoginRequest) (*Credential, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, api.Invalid("username", "required")
	}
	if req.Password == "" {
		return nil, api.Invalid("password", "required")
	}

	if req.Remember {
		if err := a.prefs.Remember(ctx, username, req.Password); err != nil {
			return nil, err
		}
	} else if err := a.prefs.Forget(ctx); err != nil {
		return nil, err
	}

	res, err := a.client.Login(ctx, username, req.Password)
	if err != nil {
		a.logger.Info("login failed", zap.String("username", username), zap.String("kind", api.Classify(err).String()))
		return nil, err
	}
	if err := a.store.SetCredential(ctx, res.Token, res.User); err != nil {
		return nil, err
	}
	a.logger.Info("login succeeded", zap.String("username", username))
	return a.store.Credential(ctx)
}

// Logout clears the stored credential.
func (a *Authenticator) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return err
	}
	a.logger.Info("logged out")
	return nil
}
