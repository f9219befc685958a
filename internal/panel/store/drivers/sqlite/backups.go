package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/brightforge/sitepanel/internal/panel/domain"
)

type backupsRepo struct {
	db dbtx
}

func (r *backupsRepo) CreateBackup(ctx context.Context, b domain.Backup) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO backups (id, status, type, size_bytes, s3_url, email_sent, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Status, b.Type, b.SizeBytes,
		mapStringNull(b.S3URL), b.EmailSent, mapStringNull(b.Error), b.CreatedAt)
	return mapConstraint(err)
}

func (r *backupsRepo) UpdateBackup(ctx context.Context, b domain.Backup) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE backups SET status = ?, size_bytes = ?, s3_url = ?, email_sent = ?, error = ?
		 WHERE id = ?`,
		b.Status, b.SizeBytes, mapStringNull(b.S3URL), b.EmailSent, mapStringNull(b.Error), b.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func scanBackup(row interface{ Scan(...any) error }) (domain.Backup, error) {
	var b domain.Backup
	var s3URL, errMsg sql.NullString
	err := row.Scan(&b.ID, &b.Status, &b.Type, &b.SizeBytes, &s3URL, &b.EmailSent, &errMsg, &b.CreatedAt)
	if err != nil {
		return domain.Backup{}, err
	}
	b.S3URL = mapNullString(s3URL)
	b.Error = mapNullString(errMsg)
	return b, nil
}

func (r *backupsRepo) GetBackupByID(ctx context.Context, id string) (domain.Backup, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, status, type, size_bytes, s3_url, email_sent, error, created_at
		 FROM backups WHERE id = ?`, id)
	b, err := scanBackup(row)
	return b, mapNotFound(err)
}

func (r *backupsRepo) ListBackups(ctx context.Context, limit int) ([]domain.Backup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, status, type, size_bytes, s3_url, email_sent, error, created_at
		 FROM backups ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Backup
	for rows.Next() {
		b, err := scanBackup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *backupsRepo) GetSettings(ctx context.Context) (domain.BackupSettings, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT schedule, auto_backups, store_on_s3, s3_bucket, s3_region, s3_endpoint,
			s3_access_key, s3_secret_key, send_by_email, recipient_email, updated_at
		 FROM backup_settings WHERE id = 1`)

	var s domain.BackupSettings
	var bucket, region, endpoint, accessKey, secretKey, recipient sql.NullString
	err := row.Scan(&s.Schedule, &s.AutoBackups, &s.StoreOnS3, &bucket, &region, &endpoint,
		&accessKey, &secretKey, &s.SendByEmail, &recipient, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Seed defaults on first read so callers always get a row back.
		return domain.BackupSettings{
			Schedule:  domain.BackupScheduleDaily,
			UpdatedAt: time.Now().UTC(),
		}, nil
	}
	if err != nil {
		return domain.BackupSettings{}, err
	}

	s.S3Bucket = mapNullString(bucket)
	s.S3Region = mapNullString(region)
	s.S3Endpoint = mapNullString(endpoint)
	s.S3AccessKey = mapNullString(accessKey)
	s.S3SecretKey = mapNullString(secretKey)
	s.RecipientEmail = mapNullString(recipient)
	return s, nil
}

func (r *backupsRepo) SaveSettings(ctx context.Context, s domain.BackupSettings) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO backup_settings (id, schedule, auto_backups, store_on_s3, s3_bucket, s3_region,
			s3_endpoint, s3_access_key, s3_secret_key, send_by_email, recipient_email, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			schedule = excluded.schedule,
			auto_backups = excluded.auto_backups,
			store_on_s3 = excluded.store_on_s3,
			s3_bucket = excluded.s3_bucket,
			s3_region = excluded.s3_region,
			s3_endpoint = excluded.s3_endpoint,
			s3_access_key = excluded.s3_access_key,
			s3_secret_key = excluded.s3_secret_key,
			send_by_email = excluded.send_by_email,
			recipient_email = excluded.recipient_email,
			updated_at = excluded.updated_at`,
		s.Schedule, s.AutoBackups, s.StoreOnS3,
		mapStringNull(s.S3Bucket), mapStringNull(s.S3Region), mapStringNull(s.S3Endpoint),
		mapStringNull(s.S3AccessKey), mapStringNull(s.S3SecretKey),
		s.SendByEmail, mapStringNull(s.RecipientEmail), s.UpdatedAt)
	return err
}

func (r *backupsRepo) DeleteOldBackups(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM backups WHERE id NOT IN (
			SELECT id FROM backups ORDER BY created_at DESC LIMIT ?
		)`, keep)
	return err
}
