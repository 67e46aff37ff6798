package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/naumanrao/courseadmin/internal/api"
)

func TestGuard_NoCredential(t *testing.T) {
	store, _, _ := newTestStore(t)
	guard := NewGuard(store, 24*time.Hour, nil)

	_, err := guard.Require(context.Background())
	assert.ErrorIs(t, err, api.ErrAuthenticationMissing)
}

func TestGuard_ValidCredentialPasses(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetCredential(ctx, "tok", jacob))
	clock.Advance(2 * time.Hour)

	guard := NewGuard(store, 24*time.Hour, nil)
	cred, err := guard.Require(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Jacob", cred.User.Name)
	assert.Equal(t, 22*time.Hour, guard.Remaining(cred))
}

func TestGuard_ExpiredClearsStore(t *testing.T) {
	store, _, clock := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetCredential(ctx, "tok", jacob))
	clock.Advance(25 * time.Hour)

	core, logs := observer.New(zapcore.InfoLevel)
	guard := NewGuard(store, 24*time.Hour, zap.New(core))

	_, err := guard.Require(ctx)
	require.ErrorIs(t, err, api.ErrAuthenticationExpired)
	assert.Equal(t, 1, logs.FilterMessage("session expired").Len())

	ok, err := store.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "expired credential must be cleared")

	_, err = guard.Require(ctx)
	assert.ErrorIs(t, err, api.ErrAuthenticationMissing)
}
