package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "recipes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db), db
}

func countSlots(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM metadata WHERE key IN ('access_token','refresh_token')`).Scan(&n))
	return n
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	want := models.Credential{Access: "acc", Refresh: "ref"}
	require.NoError(t, s.Save(ctx, want))

	got, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestStore_LoadEmpty(t *testing.T) {
	s, _ := openStore(t)

	got, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, got.IsZero())
}

func TestStore_SaveOverwrites(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.Credential{Access: "a1", Refresh: "r1"}))
	require.NoError(t, s.Save(ctx, models.Credential{Access: "a2", Refresh: "r2"}))

	got, ok, err := s.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a2", got.Access)
	assert.Equal(t, "r2", got.Refresh)
}

func TestStore_ClearRemovesBothSlots(t *testing.T) {
	s, db := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.Credential{Access: "a", Refresh: "r"}))
	require.Equal(t, 2, countSlots(t, db))

	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, 0, countSlots(t, db))

	_, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Clear(ctx), "clearing an empty store is fine")
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "recipes.db")

	db, err := client.InitDatabase(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewSQLiteStore(db).Save(ctx, models.Credential{Access: "a", Refresh: "r"}))
	require.NoError(t, db.Close())

	db, err = client.InitDatabase(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	got, ok, err := NewSQLiteStore(db).Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", got.Access)
}

func TestStore_SaveRollsBackOnSecondSlotFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO metadata`)).
		WithArgs("access_token", []byte("a")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO metadata`)).
		WithArgs("refresh_token", []byte("r")).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = NewSQLiteStore(db).Save(context.Background(), models.Credential{Access: "a", Refresh: "r"})
	require.ErrorContains(t, err, "save credential")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadErrorWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM metadata WHERE key = ?`)).
		WithArgs("access_token").
		WillReturnError(errors.New("corrupt"))

	_, ok, err := NewSQLiteStore(db).Load(context.Background())
	require.ErrorContains(t, err, "load credential")
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
