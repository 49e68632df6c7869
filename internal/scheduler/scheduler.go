package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smart-presensee/auto-alpha-api/internal/dto"
	"github.com/smart-presensee/auto-alpha-api/pkg/config"
	"github.com/smart-presensee/auto-alpha-api/pkg/jobs"
)

const jobTypeAutoAlphaRun = "auto_alpha_run"

// Runner executes one reconciliation pass.
type Runner interface {
	Run(ctx context.Context) dto.RunResponse
}

// Scheduler fires the auto-alpha run once daily at the configured local time.
// Runs are dispatched through the job queue so transient failures get the
// queue's retry handling; retrying is safe because runs are idempotent.
type Scheduler struct {
	runner Runner
	queue  *jobs.Queue
	loc    *time.Location
	hour   int
	minute int
	logger *zap.Logger
	now    func() time.Time
}

// New constructs the scheduler from configuration.
func New(cfg config.SchedulerConfig, loc *time.Location, runner Runner, logger *zap.Logger) (*Scheduler, error) {
	hour, minute, err := parseRunAt(cfg.RunAt)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		runner: runner,
		loc:    loc,
		hour:   hour,
		minute: minute,
		logger: logger,
		now:    time.Now,
	}
	s.queue = jobs.NewQueue(jobTypeAutoAlphaRun, s.handle, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s, nil
}

// Start launches the queue workers and the daily tick loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.queue.Start(ctx)
	go s.loop(ctx)
	s.logger.Sugar().Infow("auto-alpha scheduler started",
		"run_at", fmt.Sprintf("%02d:%02d", s.hour, s.minute),
		"timezone", s.loc.String(),
	)
}

// Stop drains the queue workers.
func (s *Scheduler) Stop() {
	s.queue.Stop()
}

func (s *Scheduler) loop(ctx context.Context) {
	for {
		wait := time.Until(s.nextRun(s.now().In(s.loc)))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			job := jobs.Job{ID: uuid.NewString(), Type: jobTypeAutoAlphaRun}
			if err := s.queue.Enqueue(job); err != nil {
				s.logger.Error("failed to enqueue scheduled run", zap.Error(err))
			}
		}
	}
}

func (s *Scheduler) handle(ctx context.Context, job jobs.Job) error {
	result := s.runner.Run(ctx)
	if !result.Success {
		return fmt.Errorf("scheduled auto-alpha run failed: %s", result.Error)
	}
	s.logger.Sugar().Infow("scheduled auto-alpha run finished",
		"job_id", job.ID,
		"alpha_count", result.AlphaCount,
		"skipped", result.Skipped,
	)
	return nil
}

// nextRun returns the next occurrence of the configured time after now.
func (s *Scheduler) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func parseRunAt(raw string) (int, int, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid run time %q, expected HH:MM", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid run hour %q", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid run minute %q", parts[1])
	}
	return hour, minute, nil
}
