package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/smart-presensee/auto-alpha-api/internal/dto"
	"github.com/smart-presensee/auto-alpha-api/internal/models"
	appErrors "github.com/smart-presensee/auto-alpha-api/pkg/errors"
)

type rosterRepository interface {
	ListActive(ctx context.Context) ([]models.Student, error)
}

type attendanceStore interface {
	ListByDateRange(ctx context.Context, from, to time.Time) ([]models.AttendanceRecord, error)
	LastIDWithPrefix(ctx context.Context, prefix string) (string, error)
	InsertBatch(ctx context.Context, records []models.AttendanceRecord) error
	AlphaRecap(ctx context.Context, from, to time.Time) ([]models.AlphaRecapRow, error)
}

type attendanceGate interface {
	Load(ctx context.Context) models.AttendanceSettings
}

type statusInvalidator interface {
	InvalidateToday(ctx context.Context)
}

// AutoAlphaService runs the daily reconciliation: every enrolled student
// without an attendance record for the current day receives an auto-generated
// alpha record.
type AutoAlphaService struct {
	settings   attendanceGate
	students   rosterRepository
	attendance attendanceStore
	status     statusInvalidator
	metrics    *MetricsService
	loc        *time.Location
	logger     *zap.Logger
	now        func() time.Time
}

// NewAutoAlphaService constructs the reconciliation service.
func NewAutoAlphaService(settings attendanceGate, students rosterRepository, attendance attendanceStore, status statusInvalidator, metrics *MetricsService, loc *time.Location, logger *zap.Logger) *AutoAlphaService {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoAlphaService{
		settings:   settings,
		students:   students,
		attendance: attendance,
		status:     status,
		metrics:    metrics,
		loc:        loc,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one reconciliation pass. It is idempotent by construction: a
// failed commit leaves nothing written, and the next invocation recomputes the
// absent set and the ID high-water mark from storage.
func (s *AutoAlphaService) Run(ctx context.Context) dto.RunResponse {
	started := time.Now()
	s.logger.Info("starting auto-alpha run")

	settings := s.settings.Load(ctx)
	if !settings.Active {
		s.logger.Info("attendance restriction not active, skipping auto-alpha")
		s.observe("skipped", 0, started)
		return dto.RunResponse{Success: true, Skipped: true, AlphaCount: 0, AlphaStudents: []string{}}
	}

	roster, err := s.students.ListActive(ctx)
	if err != nil {
		s.logger.Error("failed to load student roster", zap.Error(err))
		s.observe("failure", 0, started)
		return dto.RunResponse{Success: false, Error: "failed to load student roster"}
	}
	if len(roster) == 0 {
		s.logger.Warn("no students found, nothing to reconcile")
		s.observe("success", 0, started)
		return dto.RunResponse{Success: true, AlphaCount: 0, AlphaStudents: []string{}}
	}

	now := s.now().In(s.loc)
	from, to := dayBounds(now)
	existing, err := s.attendance.ListByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("failed to load today's attendance records", zap.Error(err))
		s.observe("failure", 0, started)
		return dto.RunResponse{Success: false, Error: "failed to load today's attendance records"}
	}

	alloc := NewAlphaIDAllocator(s.attendance, s.logger)
	records, names, degraded := reconcile(ctx, roster, existing, now, from, alloc)

	s.logger.Info("reconciliation computed",
		zap.Int("roster_size", len(roster)),
		zap.Int("already_attended", len(roster)-len(records)),
		zap.Int("alpha_count", len(records)),
	)

	if len(records) == 0 {
		s.logger.Info("all students have attended today")
		s.observe("success", 0, started)
		return dto.RunResponse{Success: true, AlphaCount: 0, AlphaStudents: []string{}}
	}

	if err := s.attendance.InsertBatch(ctx, records); err != nil {
		s.logger.Error("failed to commit alpha batch", zap.Error(err))
		s.observe("failure", 0, started)
		return dto.RunResponse{Success: false, Error: "failed to persist alpha records"}
	}

	if s.status != nil {
		s.status.InvalidateToday(ctx)
	}
	s.observe("success", len(records), started)
	s.logger.Info("auto-alpha run completed", zap.Int("alpha_count", len(records)), zap.Bool("degraded_ids", degraded))

	return dto.RunResponse{Success: true, AlphaCount: len(records), AlphaStudents: names, Degraded: degraded}
}

// Recap returns the day's auto-generated alpha rows for reporting and export.
func (s *AutoAlphaService) Recap(ctx context.Context, day time.Time) ([]models.AlphaRecapRow, error) {
	from, to := dayBounds(day.In(s.loc))
	rows, err := s.attendance.AlphaRecap(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load alpha recap")
	}
	return rows, nil
}

func (s *AutoAlphaService) observe(result string, alphaCount int, started time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveRun(result, alphaCount, time.Since(started))
	}
}

// reconcile computes the absent set: roster minus students with any record
// today, regardless of status. It performs no writes, which keeps decision
// logic isolated from the write path. Roster order is preserved.
func reconcile(ctx context.Context, roster []models.Student, existing []models.AttendanceRecord, now, day time.Time, alloc *AlphaIDAllocator) ([]models.AttendanceRecord, []string, bool) {
	attended := make(map[string]struct{}, len(existing))
	for _, rec := range existing {
		if rec.NISN != "" {
			attended[rec.NISN] = struct{}{}
		}
	}

	records := make([]models.AttendanceRecord, 0, len(roster))
	names := make([]string, 0, len(roster))
	degraded := false
	for _, student := range roster {
		if _, ok := attended[student.NISN]; ok {
			continue
		}
		id := alloc.Next(ctx)
		if id.Fallback {
			degraded = true
		}
		records = append(records, models.AttendanceRecord{
			ID:        id.Value,
			NISN:      student.NISN,
			Timestamp: now,
			Day:       day,
			Status:    models.AttendanceStatusAlpha,
			Method:    models.AttendanceMethodAutoGenerated,
		})
		names = append(names, student.Name)
	}
	return records, names, degraded
}
