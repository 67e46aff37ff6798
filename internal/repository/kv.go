package repository

import "context"

// KVStore is a flat string key/value storage area. The console keeps two:
// one scoped to the login session and one that persists across runs.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all values in one transaction.
	SetMany(ctx context.Context, values map[string]string) error
	// Delete removes keys in one transaction. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}
