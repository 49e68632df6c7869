package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smart-presensee/auto-alpha-api/internal/dto"
	"github.com/smart-presensee/auto-alpha-api/internal/models"
	"github.com/smart-presensee/auto-alpha-api/pkg/config"
	appErrors "github.com/smart-presensee/auto-alpha-api/pkg/errors"
)

type settingsStore interface {
	Get(ctx context.Context) (*models.AttendanceSettings, error)
	Upsert(ctx context.Context, settings *models.AttendanceSettings) error
}

// SettingsService loads and manages the attendance policy. Load acts as the
// gate for reconciliation runs and never fails: missing or unreadable settings
// degrade to the configured defaults.
type SettingsService struct {
	repo      settingsStore
	defaults  models.AttendanceSettings
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs the settings service.
func NewSettingsService(repo settingsStore, cfg config.AttendanceConfig, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := models.DefaultAttendanceSettings()
	if cfg.DefaultWindowStart != "" {
		defaults.WindowStart = cfg.DefaultWindowStart
	}
	if cfg.DefaultWindowEnd != "" {
		defaults.WindowEnd = cfg.DefaultWindowEnd
	}
	return &SettingsService{repo: repo, defaults: defaults, validator: validate, logger: logger}
}

// Load returns the stored policy, or the default when the row is missing or
// storage is unavailable. Absence of configuration must not block the day's
// attendance closure.
func (s *SettingsService) Load(ctx context.Context) models.AttendanceSettings {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("no attendance settings found, using defaults")
		} else {
			s.logger.Warn("failed to load attendance settings, using defaults", zap.Error(err))
		}
		return s.defaults
	}
	return *stored
}

// Update validates and persists the attendance policy.
func (s *SettingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest) (*models.AttendanceSettings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	settings := &models.AttendanceSettings{
		ID:          models.SettingsDocumentID,
		Active:      *req.Active,
		WindowStart: req.WindowStart,
		WindowEnd:   req.WindowEnd,
	}
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance settings")
	}
	return settings, nil
}
