package domain

import "time"

// Backup status values.
const (
	BackupStatusRunning   = "running"
	BackupStatusCompleted = "completed"
	BackupStatusFailed    = "failed"
)

// Backup trigger types.
const (
	BackupTypeManual    = "manual"
	BackupTypeAutomatic = "automatic"
)

// Backup records a single database backup run.
type Backup struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Type      string    `json:"type"`
	SizeBytes int64     `json:"sizeBytes,omitempty"`
	S3URL     string    `json:"s3Url,omitempty"`
	EmailSent bool      `json:"emailSent"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"timestamp"`
}

// Backup schedule values.
const (
	BackupScheduleDaily   = "daily"
	BackupScheduleWeekly  = "weekly"
	BackupScheduleMonthly = "monthly"
)

// BackupSettings is the singleton backup configuration row.
type BackupSettings struct {
	Schedule       string    `json:"backupSchedule"`
	AutoBackups    bool      `json:"autoBackups"`
	StoreOnS3      bool      `json:"storeOnS3"`
	S3Bucket       string    `json:"s3Bucket,omitempty"`
	S3Region       string    `json:"s3Region,omitempty"`
	S3Endpoint     string    `json:"s3Endpoint,omitempty"`
	S3AccessKey    string    `json:"s3AccessKey,omitempty"`
	S3SecretKey    string    `json:"-"`
	SendByEmail    bool      `json:"sendByEmail"`
	RecipientEmail string    `json:"recipientEmail,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Interval returns the time between automatic backups for the schedule.
func (s BackupSettings) Interval() time.Duration {
	switch s.Schedule {
	case BackupScheduleWeekly:
		return 7 * 24 * time.Hour
	case BackupScheduleMonthly:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}
