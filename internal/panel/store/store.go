package store

import (
	"context"
	"errors"
	"time"

	"github.com/brightforge/sitepanel/internal/panel/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface, split into one repository per
// aggregate. sqlite is the only driver today. Multi-step writes go through
// WithTx so transaction boundaries stay explicit.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	ActionTokens() ActionTokens
	Clients() Clients
	Sites() Sites
	Backups() Backups

	ApplyMigrations() error

	// Tx opens a read/write transaction scoped to the same repository
	// surface. The caller owns the Commit/Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing on nil and rolling back
	// on error. Refresh rotation and one-time token redemption depend on
	// this for their atomicity.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping reports whether the database is reachable; readyz uses it.
	Ping(ctx context.Context) error
}

// Tx is a Store bound to an open transaction.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively; login and reset use it.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a user with a caller-assigned ULID id. A taken
	// email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash replaces the stored argon2 hash.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// MarkEmailVerified sets email_verified_at if not already set.
	MarkEmailVerified(ctx context.Context, userID string, at time.Time) error

	// DeleteUser cascades to refresh_tokens, action_tokens and clients.
	DeleteUser(ctx context.Context, userID string) error
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash looks a credential up by its SHA-256
	// fingerprint; raw tokens are never stored.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken marks one credential revoked.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// RevokeAllUserRefreshTokens kills every session of one user; password
	// reset calls this.
	RevokeAllUserRefreshTokens(ctx context.Context, userID string) error

	// DeleteExpiredRefreshTokens is the housekeeping sweep.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}

type ActionTokens interface {
	// CreateActionToken stores a freshly minted one-time token.
	CreateActionToken(ctx context.Context, t domain.ActionToken) error

	// GetActionTokenByHash fetches a token of the given kind by its
	// fingerprint regardless of expiry or consumption. Callers decide how
	// to report expired vs unknown tokens.
	GetActionTokenByHash(ctx context.Context, kind domain.TokenKind, hash string) (domain.ActionToken, error)

	// ConsumeActionToken marks a token used. It only succeeds when the
	// token is still unconsumed, which makes redemption single-use even
	// under concurrent requests. Returns ErrNotFound otherwise.
	ConsumeActionToken(ctx context.Context, id string, at time.Time) error

	// GetLatestUserActionToken returns the newest token of a kind for a
	// user, consumed or not. Used to confirm a reset flow was started.
	GetLatestUserActionToken(ctx context.Context, userID string, kind domain.TokenKind) (domain.ActionToken, error)

	// DeleteUserActionTokens removes all tokens of a kind for a user,
	// so issuing a new link invalidates older ones.
	DeleteUserActionTokens(ctx context.Context, userID string, kind domain.TokenKind) error

	// DeleteExpiredActionTokens removes tokens past their grace window.
	// Tokens are kept for the grace period after expiry so an expired
	// link can still be recognised as expired rather than unknown.
	DeleteExpiredActionTokens(ctx context.Context, grace time.Duration) error
}

type Clients interface {
	// GetClientByID fetches a single client record.
	GetClientByID(ctx context.Context, id string) (domain.Client, error)

	// ListClientsByUser returns all clients owned by a panel user,
	// newest first.
	ListClientsByUser(ctx context.Context, userID string) ([]domain.Client, error)

	// CreateClient inserts a new client (id is ULID).
	CreateClient(ctx context.Context, c domain.Client) error

	// UpdateClient replaces the mutable fields and bumps updated_at.
	UpdateClient(ctx context.Context, c domain.Client) error

	// DeleteClient cascades to sites (per schema).
	DeleteClient(ctx context.Context, clientID string) error
}

type Sites interface {
	// GetSiteByID fetches a single site with its credential sections.
	GetSiteByID(ctx context.Context, id string) (domain.Site, error)

	// ListSites returns all sites visible to a panel user, newest first.
	ListSites(ctx context.Context, userID string) ([]domain.Site, error)

	// ListSitesByClient returns the sites belonging to one client.
	ListSitesByClient(ctx context.Context, clientID string) ([]domain.Site, error)

	// CreateSite inserts a new site (id is ULID).
	CreateSite(ctx context.Context, s domain.Site) error

	// UpdateSite replaces the mutable fields and bumps updated_at.
	UpdateSite(ctx context.Context, s domain.Site) error

	// DeleteSite removes a site record.
	DeleteSite(ctx context.Context, siteID string) error
}

type Backups interface {
	// CreateBackup records a backup run (usually in the running state).
	CreateBackup(ctx context.Context, b domain.Backup) error

	// UpdateBackup finalises a run with its status, size and upload URL.
	UpdateBackup(ctx context.Context, b domain.Backup) error

	// GetBackupByID fetches a single backup record.
	GetBackupByID(ctx context.Context, id string) (domain.Backup, error)

	// ListBackups returns backup history, newest first, capped at limit.
	ListBackups(ctx context.Context, limit int) ([]domain.Backup, error)

	// GetSettings returns the singleton settings row, seeding defaults
	// on first read.
	GetSettings(ctx context.Context) (domain.BackupSettings, error)

	// SaveSettings upserts the singleton settings row.
	SaveSettings(ctx context.Context, s domain.BackupSettings) error

	// DeleteOldBackups trims history beyond keep entries.
	DeleteOldBackups(ctx context.Context, keep int) error
}
