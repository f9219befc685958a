package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brightforge/sitepanel/internal/panel/domain"
	"github.com/brightforge/sitepanel/internal/panel/service"
	"github.com/brightforge/sitepanel/pkg/httpx"
	"github.com/brightforge/sitepanel/pkg/slogx"
)

// BackupsHandler serves backup history, manual triggers and settings.
type BackupsHandler struct {
	BackupService *service.BackupService
}

// HandleList godoc
//
//	@Summary	Backup History
//	@Tags		Backups
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	map[string][]domain.Backup	"data, newest first"
//	@Router		/api/backups [get].
func (h *BackupsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	backups, err := h.BackupService.List(ctx)
	if err != nil {
		log.Error("backup list failed", "err", err)
		writeServerError(w)
		return
	}
	if backups == nil {
		backups = []domain.Backup{}
	}

	httpx.WriteData(w, http.StatusOK, backups)
}

// HandleTrigger godoc
//
//	@Summary	Trigger Manual Backup
//	@Description	Runs a backup synchronously and records the outcome.
//	@Tags		Backups
//	@Produce	json
//	@Security	BearerAuth
//	@Success	201	{object}	map[string]domain.Backup	"data"
//	@Failure	500	{object}	APIError
//	@Router		/api/backups [post].
func (h *BackupsHandler) HandleTrigger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	backup, err := h.BackupService.Run(ctx, domain.BackupTypeManual)
	if err != nil {
		log.Error("manual backup failed", "err", err)
		// The failed run is still recorded; report it with the cause.
		writeError(w, http.StatusInternalServerError, "backup failed: "+err.Error())
		return
	}

	httpx.WriteData(w, http.StatusCreated, backup)
}

// HandleGetSettings godoc
//
//	@Summary	Backup Settings
//	@Tags		Backups
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	map[string]domain.BackupSettings	"data"
//	@Router		/api/backups/settings [get].
func (h *BackupsHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	settings, err := h.BackupService.Settings(ctx)
	if err != nil {
		log.Error("backup settings load failed", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteData(w, http.StatusOK, settings)
}

// backupSettingsRequest accepts the S3 secret on input; the domain type
// never serialises it on output.
type backupSettingsRequest struct {
	domain.BackupSettings
	S3SecretKey string `json:"s3SecretKey"`
}

// HandleSaveSettings godoc
//
//	@Summary	Save Backup Settings
//	@Tags		Backups
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		domain.BackupSettings	true	"Settings"
//	@Success	200		{object}	map[string]domain.BackupSettings	"data"
//	@Failure	400		{object}	APIError
//	@Router		/api/backups/settings [post].
func (h *BackupsHandler) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req backupSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	settings := req.BackupSettings
	settings.S3SecretKey = req.S3SecretKey
	if settings.S3SecretKey == "" {
		// Omitting the secret keeps the stored one; it is never echoed back.
		if current, err := h.BackupService.Settings(ctx); err == nil {
			settings.S3SecretKey = current.S3SecretKey
		}
	}

	saved, err := h.BackupService.SaveSettings(ctx, settings)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeBadRequest(w, "incomplete backup settings")
			return
		}
		log.Error("backup settings save failed", "err", err)
		writeServerError(w)
		return
	}

	httpx.WriteData(w, http.StatusOK, saved)
}
