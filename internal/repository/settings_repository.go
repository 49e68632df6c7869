package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/smart-presensee/auto-alpha-api/internal/models"
)

// SettingsRepository persists the single attendance_settings row.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs the repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get fetches the attendance policy. Returns sql.ErrNoRows when the row is
// missing; callers decide how to degrade.
func (r *SettingsRepository) Get(ctx context.Context) (*models.AttendanceSettings, error) {
	const query = `SELECT id, aktif, jam_mulai, jam_selesai, updated_at
FROM attendance_settings WHERE id = $1`
	var settings models.AttendanceSettings
	if err := r.db.GetContext(ctx, &settings, query, models.SettingsDocumentID); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert inserts or updates the attendance policy.
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.AttendanceSettings) error {
	const query = `INSERT INTO attendance_settings (id, aktif, jam_mulai, jam_selesai, updated_at)
VALUES (:id, :aktif, :jam_mulai, :jam_selesai, :updated_at)
ON CONFLICT (id)
DO UPDATE SET aktif = EXCLUDED.aktif, jam_mulai = EXCLUDED.jam_mulai,
              jam_selesai = EXCLUDED.jam_selesai, updated_at = EXCLUDED.updated_at`
	settings.ID = models.SettingsDocumentID
	settings.UpdatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("upsert attendance settings: %w", err)
	}
	return nil
}
