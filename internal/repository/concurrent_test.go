package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naumanrao/courseadmin/internal/db"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	database, err := db.OpenDB(filepath.Join(dir, "concurrent_test.db"))
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringWrite checks that readers polling the
// session area never see a half-written credential while one writer replaces
// it. WAL mode allows concurrent readers with a single writer.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	store := NewSQLiteSessionValues(database)

	require.NoError(t, store.SetMany(ctx, map[string]string{"token": "t-0", "user": "u-0"}))

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 20; i++ {
			err := store.SetMany(ctx, map[string]string{
				"token": fmt.Sprintf("t-%d", i),
				"user":  fmt.Sprintf("u-%d", i),
			})
			if err != nil {
				t.Errorf("writer: set %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				got, err := store.GetMany(ctx, "token", "user")
				if err != nil {
					t.Errorf("reader %d: %v", reader, err)
					return
				}
				// Both keys come from the same SetMany.
				if got["token"][2:] != got["user"][2:] {
					t.Errorf("reader %d: torn read %v", reader, got)
				}
			}
		}(r)
	}

	wg.Wait()

	got, err := store.GetMany(ctx, "token", "user")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"token": "t-20", "user": "u-20"}, got)
}

// TestConcurrentAccess_ClearWhileReading checks that clearing the session
// area on logout is seen as all-or-nothing by concurrent readers.
func TestConcurrentAccess_ClearWhileReading(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	sessionArea := NewSQLiteSessionValues(database)
	localArea := NewSQLiteLocalValues(database)

	require.NoError(t, localArea.Set(ctx, "theme", "dark"))
	require.NoError(t, sessionArea.SetMany(ctx, map[string]string{"token": "t", "user": "u"}))

	var wg sync.WaitGroup
	const readers = 10

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := sessionArea.Delete(ctx, "token", "user"); err != nil {
			t.Errorf("delete: %v", err)
		}
	}()

	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			got, err := sessionArea.GetMany(ctx, "token", "user")
			if err != nil {
				t.Errorf("reader %d: %v", reader, err)
				return
			}
			if len(got) == 1 {
				t.Errorf("reader %d: partial delete visible: %v", reader, got)
			}
			theme, ok, err := localArea.Get(ctx, "theme")
			if err != nil || !ok || theme != "dark" {
				t.Errorf("reader %d: local area disturbed: %q %v %v", reader, theme, ok, err)
			}
		}(r)
	}

	wg.Wait()

	got, err := sessionArea.GetMany(ctx, "token", "user")
	require.NoError(t, err)
	assert.Empty(t, got)
}
