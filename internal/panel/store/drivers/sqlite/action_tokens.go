package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/brightforge/sitepanel/internal/panel/domain"
)

type actionTokensRepo struct {
	db dbtx
}

func (r *actionTokensRepo) CreateActionToken(ctx context.Context, t domain.ActionToken) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO action_tokens (id, user_id, kind, token_hash, expires_at, consumed_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, string(t.Kind), t.TokenHash, t.ExpiresAt,
		mapOptionalTime(t.ConsumedAt), t.CreatedAt)
	return mapConstraint(err)
}

func (r *actionTokensRepo) GetActionTokenByHash(ctx context.Context, kind domain.TokenKind, hash string) (domain.ActionToken, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, kind, token_hash, expires_at, consumed_at, created_at
		 FROM action_tokens WHERE kind = ? AND token_hash = ?`, string(kind), hash)

	var t domain.ActionToken
	var kindStr string
	var consumedAt sql.NullTime
	err := row.Scan(&t.ID, &t.UserID, &kindStr, &t.TokenHash, &t.ExpiresAt, &consumedAt, &t.CreatedAt)
	if err != nil {
		return domain.ActionToken{}, mapNotFound(err)
	}
	t.Kind = domain.TokenKind(kindStr)
	t.ConsumedAt = mapNullTimePtr(consumedAt)
	return t, nil
}

func (r *actionTokensRepo) GetLatestUserActionToken(ctx context.Context, userID string, kind domain.TokenKind) (domain.ActionToken, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, kind, token_hash, expires_at, consumed_at, created_at
		 FROM action_tokens WHERE user_id = ? AND kind = ?
		 ORDER BY created_at DESC LIMIT 1`, userID, string(kind))

	var t domain.ActionToken
	var kindStr string
	var consumedAt sql.NullTime
	err := row.Scan(&t.ID, &t.UserID, &kindStr, &t.TokenHash, &t.ExpiresAt, &consumedAt, &t.CreatedAt)
	if err != nil {
		return domain.ActionToken{}, mapNotFound(err)
	}
	t.Kind = domain.TokenKind(kindStr)
	t.ConsumedAt = mapNullTimePtr(consumedAt)
	return t, nil
}

func (r *actionTokensRepo) ConsumeActionToken(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE action_tokens SET consumed_at = ? WHERE id = ? AND consumed_at IS NULL`,
		at, id)
	if err != nil {
		return err
	}
	// Zero rows means the token was already consumed by a concurrent
	// request, which callers must treat as a failed redemption.
	return requireRowAffected(res)
}

func (r *actionTokensRepo) DeleteUserActionTokens(ctx context.Context, userID string, kind domain.TokenKind) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM action_tokens WHERE user_id = ? AND kind = ?`, userID, string(kind))
	return err
}

func (r *actionTokensRepo) DeleteExpiredActionTokens(ctx context.Context, grace time.Duration) error {
	cutoff := time.Now().UTC().Add(-grace)
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM action_tokens WHERE expires_at < ?`, cutoff)
	return err
}
