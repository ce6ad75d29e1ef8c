package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusquest/focusquest/internal/domain"
)

func openSQLite(t *testing.T, namespace string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.db")
	s, err := Open(context.Background(), SQLite, SQLiteDSN(path), namespace)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_UpdateAndGet(t *testing.T) {
	s := openSQLite(t, "")
	ctx := context.Background()

	_, found, err := s.Get(ctx, domain.KeyProgression)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Update(ctx, domain.KeyProgression, []byte(`{"level":1}`)))
	require.NoError(t, s.Update(ctx, domain.KeyProgression, []byte(`{"level":2}`)))

	got, found, err := s.Get(ctx, domain.KeyProgression)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"level":2}`, string(got))
}

func TestSQLite_Initialize(t *testing.T) {
	s := openSQLite(t, "")
	ctx := context.Background()

	assert.True(t, s.IsInitialized(ctx))
	require.NoError(t, s.Initialize(ctx), "Initialize is idempotent")
}

func TestSQLite_NamespacesShareTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	ctx := context.Background()

	alice, err := Open(ctx, SQLite, SQLiteDSN(path), "alice")
	require.NoError(t, err)
	defer alice.Close()
	require.NoError(t, alice.Update(ctx, "tasks", []byte(`["a"]`)))

	bob := New(alice.db, SQLite, "bob")
	_, found, err := bob.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLite_ConcurrentUpdates(t *testing.T) {
	s := openSQLite(t, "")
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Update(ctx, "focusStats", []byte(`{"totalFocusSessions":1}`)))
		}()
	}
	wg.Wait()

	_, found, err := s.Get(ctx, "focusStats")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestPostgres_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := New(db, Postgres, "fq")
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT item_value FROM kv_store WHERE namespace = $1 AND item_key = $2`)).
		WithArgs("fq", "progression").
		WillReturnRows(sqlmock.NewRows([]string{"item_value"}).AddRow(`{"level":3}`))

	got, found, err := s.Get(ctx, "progression")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"level":3}`, string(got))

	// No rows is "not found", not an error
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT item_value FROM kv_store`)).
		WithArgs("fq", "tasks").
		WillReturnRows(sqlmock.NewRows([]string{"item_value"}))

	_, found, err = s.Get(ctx, "tasks")
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT item_value`)).
		WillReturnError(errors.New("connection reset"))

	_, _, err = New(db, Postgres, "fq").Get(context.Background(), "progression")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := New(db, Postgres, "fq")
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_store (namespace, item_key, item_value, updated_at) VALUES ($1, $2, $3, $4)`)).
		WithArgs("fq", "progression", `{"level":3}`, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Update(context.Background(), "progression", []byte(`{"level":3}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO kv_store`)).
		WillReturnError(errors.New("read-only transaction"))

	err = New(db, Postgres, "fq").Update(context.Background(), "progression", []byte(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert progression")
}

func TestPostgres_Initialize(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := New(db, Postgres, "")
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM information_schema.tables`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS kv_store`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.False(t, s.IsInitialized(ctx))
	require.NoError(t, s.Initialize(ctx))
	assert.Equal(t, domain.DefaultNamespace, s.namespace)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDialectFor(t *testing.T) {
	tests := []struct {
		want    string
		backend string
		wantErr bool
	}{
		{"sqlite", domain.BackendSQLite, false},
		{"pgx", domain.BackendPostgres, false},
		{"", "mongo", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			d, err := DialectFor(tt.backend)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnknownBackend)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Driver)
		})
	}
}
