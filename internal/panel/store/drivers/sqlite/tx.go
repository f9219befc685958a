package sqlite

import (
	"context"
	"database/sql"

	"github.com/brightforge/sitepanel/internal/panel/store"
)

// txStore presents an open transaction through the same repository surface
// as the root store, so service code is oblivious to whether it runs inside
// a transaction.
type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the owning store stays open after commit or rollback.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

// Nested transactions are not supported. SAVEPOINT emulation would go here
// if a caller ever needed them.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users                 { return &usersRepo{db: t.tx} }
func (t *txStore) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{db: t.tx} }
func (t *txStore) ActionTokens() store.ActionTokens   { return &actionTokensRepo{db: t.tx} }
func (t *txStore) Clients() store.Clients             { return &clientsRepo{db: t.tx} }
func (t *txStore) Sites() store.Sites                 { return &sitesRepo{db: t.tx} }
func (t *txStore) Backups() store.Backups             { return &backupsRepo{db: t.tx} }

// Migrations run before any transaction starts.
func (t *txStore) ApplyMigrations() error { return nil }
