package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/brightforge/sitepanel/internal/panel/domain"
)

type clientsRepo struct {
	db dbtx
}

const clientColumns = `id, user_id, name, email, phone, company, notes, created_at, updated_at`

func scanClient(row interface{ Scan(...any) error }) (domain.Client, error) {
	var c domain.Client
	var phone, company, notes sql.NullString
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &phone, &company, &notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Client{}, err
	}
	c.Phone = mapNullString(phone)
	c.Company = mapNullString(company)
	c.Notes = mapNullString(notes)
	return c, nil
}

func (r *clientsRepo) GetClientByID(ctx context.Context, id string) (domain.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	c, err := scanClient(row)
	return c, mapNotFound(err)
}

func (r *clientsRepo) ListClientsByUser(ctx context.Context, userID string) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (id, user_id, name, email, phone, company, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Email,
		mapStringNull(c.Phone), mapStringNull(c.Company), mapStringNull(c.Notes),
		c.CreatedAt, c.UpdatedAt)
	return mapConstraint(err)
}

func (r *clientsRepo) UpdateClient(ctx context.Context, c domain.Client) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET name = ?, email = ?, phone = ?, company = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		c.Name, c.Email,
		mapStringNull(c.Phone), mapStringNull(c.Company), mapStringNull(c.Notes),
		time.Now().UTC(), c.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *clientsRepo) DeleteClient(ctx context.Context, clientID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, clientID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
