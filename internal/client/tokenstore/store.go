// Package tokenstore persists the credential pair in the local client
// database under two metadata slots (access_token, refresh_token).
//
// The store only persists. It never attaches credentials to requests; the
// session service injects them per call.
package tokenstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/dbx"
)

// Store is the credential persistence contract used by the session service.
type Store interface {
	Save(ctx context.Context, c models.Credential) error
	// Load returns ok=false when no access token is stored.
	Load(ctx context.Context) (c models.Credential, ok bool, err error)
	Clear(ctx context.Context) error
}

// SQLiteStore keeps both slots consistent by writing them in one transaction.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Save(ctx context.Context, c models.Credential) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.AccessTokenKey, []byte(c.Access)); err != nil {
			return err
		}
		return repo.Set(ctx, common.RefreshTokenKey, []byte(c.Refresh))
	})
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (models.Credential, bool, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	access, err := repo.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return models.Credential{}, false, fmt.Errorf("load credential: %w", err)
	}
	if len(access) == 0 {
		return models.Credential{}, false, nil
	}

	refresh, err := repo.Get(ctx, common.RefreshTokenKey)
	if err != nil {
		return models.Credential{}, false, fmt.Errorf("load credential: %w", err)
	}

	return models.Credential{Access: string(access), Refresh: string(refresh)}, true, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	repo := metadata.NewSQLiteRepository(s.db)
	if err := repo.Delete(ctx, common.AccessTokenKey, common.RefreshTokenKey); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
