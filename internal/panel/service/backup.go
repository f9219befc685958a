package service

import (
	"compress/gzip"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscred "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/brightforge/sitepanel/internal/panel/domain"
	"github.com/brightforge/sitepanel/internal/panel/mailer"
	"github.com/brightforge/sitepanel/internal/panel/store"
	"github.com/brightforge/sitepanel/pkg/idx"
)

// BackupHistoryLimit caps how many backup records are kept and listed.
const BackupHistoryLimit = 50

// BackupService snapshots the panel database, optionally ships the snapshot
// to S3 and emails a report, and runs the automatic schedule.
type BackupService struct {
	Store  store.Store
	Mailer *mailer.Mailer
	Logger *slog.Logger

	// DatabasePath is the sqlite file being backed up.
	DatabasePath string
	// BackupDir is where local snapshots are written.
	BackupDir string

	mu     sync.Mutex // one backup at a time
	stopCh chan struct{}
	doneCh chan struct{}
}

func NewBackupService(st store.Store, m *mailer.Mailer, logger *slog.Logger, databasePath, backupDir string) *BackupService {
	return &BackupService{
		Store:        st,
		Mailer:       m,
		Logger:       logger,
		DatabasePath: databasePath,
		BackupDir:    backupDir,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Run performs a backup now and records the outcome. The snapshot is taken
// with VACUUM INTO, which produces a consistent copy without blocking writers.
func (s *BackupService) Run(ctx context.Context, backupType string) (domain.Backup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	b := domain.Backup{
		ID:        idx.New().String(),
		Status:    domain.BackupStatusRunning,
		Type:      backupType,
		CreatedAt: now,
	}
	if err := s.Store.Backups().CreateBackup(ctx, b); err != nil {
		return domain.Backup{}, err
	}

	settings, err := s.Store.Backups().GetSettings(ctx)
	if err != nil {
		return s.finish(ctx, b, err)
	}

	path, size, err := s.snapshot(ctx, now)
	if err != nil {
		return s.finish(ctx, b, err)
	}
	b.SizeBytes = size

	if settings.StoreOnS3 {
		url, err := s.upload(ctx, settings, path)
		if err != nil {
			return s.finish(ctx, b, fmt.Errorf("s3 upload: %w", err))
		}
		b.S3URL = url
	}

	b.Status = domain.BackupStatusCompleted

	if settings.SendByEmail && settings.RecipientEmail != "" {
		detail := fmt.Sprintf("Snapshot %s (%d bytes).", filepath.Base(path), size)
		if b.S3URL != "" {
			detail += " Uploaded to " + b.S3URL
		}
		if err := s.Mailer.SendBackupReport(ctx, settings.RecipientEmail, b.Status, detail); err != nil {
			s.Logger.Error("failed to send backup report", "error", err)
		} else {
			b.EmailSent = true
		}
	}

	if err := s.Store.Backups().UpdateBackup(ctx, b); err != nil {
		return domain.Backup{}, err
	}
	if err := s.Store.Backups().DeleteOldBackups(ctx, BackupHistoryLimit); err != nil {
		s.Logger.Error("failed to trim backup history", "error", err)
	}
	return b, nil
}

// finish records a failed run and returns the record alongside the cause.
func (s *BackupService) finish(ctx context.Context, b domain.Backup, cause error) (domain.Backup, error) {
	b.Status = domain.BackupStatusFailed
	b.Error = cause.Error()
	if err := s.Store.Backups().UpdateBackup(ctx, b); err != nil {
		s.Logger.Error("failed to record backup failure", "error", err)
	}
	return b, cause
}

func (s *BackupService) snapshot(ctx context.Context, now time.Time) (string, int64, error) {
	if err := os.MkdirAll(s.BackupDir, 0o755); err != nil {
		return "", 0, err
	}

	name := fmt.Sprintf("panel-%s.db", now.Format("20060102-150405"))
	path := filepath.Join(s.BackupDir, name)

	// VACUUM INTO refuses to overwrite, so clear any stale file first.
	_ = os.Remove(path)

	db, err := openSnapshotConn(s.DatabasePath)
	if err != nil {
		return "", 0, err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return "", 0, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", 0, err
	}
	return path, info.Size(), nil
}

// openSnapshotConn opens a separate read-only handle for VACUUM INTO. The
// statement only reads the source database, so mode=ro is sufficient and
// keeps the snapshot from contending with the store's pool.
func openSnapshotConn(path string) (*sql.DB, error) {
	return sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
}

// compressSnapshot gzips the snapshot next to itself and returns the .gz
// path. The caller removes the file after upload.
func compressSnapshot(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	gzPath := path + ".gz"
	dst, err := os.Create(gzPath)
	if err != nil {
		return "", err
	}

	zw := gzip.NewWriter(dst)
	if _, err := io.Copy(zw, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(gzPath)
		return "", err
	}
	if err := zw.Close(); err != nil {
		_ = dst.Close()
		_ = os.Remove(gzPath)
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(gzPath)
		return "", err
	}

	return gzPath, nil
}

func (s *BackupService) upload(ctx context.Context, settings domain.BackupSettings, path string) (string, error) {
	gzPath, err := compressSnapshot(path)
	if err != nil {
		return "", err
	}
	defer os.Remove(gzPath)

	f, err := os.Open(gzPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	opts := s3.Options{
		Region: settings.S3Region,
		Credentials: aws.NewCredentialsCache(
			awscred.NewStaticCredentialsProvider(settings.S3AccessKey, settings.S3SecretKey, ""),
		),
	}
	// MinIO and friends need the custom endpoint plus path-style addressing.
	if settings.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(settings.S3Endpoint)
		opts.UsePathStyle = true
	}
	client := s3.New(opts)

	key := "backups/" + filepath.Base(gzPath)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(settings.S3Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/gzip"),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("s3://%s/%s", settings.S3Bucket, key), nil
}

// List returns backup history, newest first.
func (s *BackupService) List(ctx context.Context) ([]domain.Backup, error) {
	return s.Store.Backups().ListBackups(ctx, BackupHistoryLimit)
}

// Settings returns the current backup configuration.
func (s *BackupService) Settings(ctx context.Context) (domain.BackupSettings, error) {
	return s.Store.Backups().GetSettings(ctx)
}

// SaveSettings validates and persists the backup configuration.
func (s *BackupService) SaveSettings(ctx context.Context, settings domain.BackupSettings) (domain.BackupSettings, error) {
	switch settings.Schedule {
	case domain.BackupScheduleDaily, domain.BackupScheduleWeekly, domain.BackupScheduleMonthly:
	case "":
		settings.Schedule = domain.BackupScheduleDaily
	default:
		return domain.BackupSettings{}, ErrInvalidInput
	}
	if settings.StoreOnS3 && (settings.S3Bucket == "" || settings.S3Region == "") {
		return domain.BackupSettings{}, ErrInvalidInput
	}
	if settings.SendByEmail && settings.RecipientEmail == "" {
		return domain.BackupSettings{}, ErrInvalidInput
	}

	settings.UpdatedAt = time.Now().UTC()
	if err := s.Store.Backups().SaveSettings(ctx, settings); err != nil {
		return domain.BackupSettings{}, err
	}
	return settings, nil
}

// Start begins the automatic backup scheduler. The schedule is re-read each
// tick so settings changes take effect without a restart.
func (s *BackupService) Start() {
	go s.run()
	s.Logger.Info("backup scheduler started")
}

// Stop gracefully shuts down the scheduler, waiting for any in-progress run.
func (s *BackupService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("backup scheduler stopped")
}

func (s *BackupService) run() {
	defer close(s.doneCh)

	// Check hourly whether an automatic backup is due rather than sleeping
	// for the whole interval, so schedule edits apply promptly.
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.maybeRunScheduled()
		case <-s.stopCh:
			return
		}
	}
}

func (s *BackupService) maybeRunScheduled() {
	ctx := context.Background()

	settings, err := s.Store.Backups().GetSettings(ctx)
	if err != nil {
		s.Logger.Error("failed to load backup settings", "error", err)
		return
	}
	if !settings.AutoBackups {
		return
	}

	backups, err := s.Store.Backups().ListBackups(ctx, 1)
	if err != nil {
		s.Logger.Error("failed to load backup history", "error", err)
		return
	}
	if len(backups) > 0 && time.Since(backups[0].CreatedAt) < settings.Interval() {
		return
	}

	if _, err := s.Run(ctx, domain.BackupTypeAutomatic); err != nil {
		s.Logger.Error("scheduled backup failed", "error", err)
	}
}
