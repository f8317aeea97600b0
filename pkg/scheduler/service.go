// Package scheduler re-runs the classification pipeline on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mimir-aip/kraljic-go/pkg/loader"
	"github.com/mimir-aip/kraljic-go/pkg/logging"
	"github.com/mimir-aip/kraljic-go/pkg/models"
	"github.com/mimir-aip/kraljic-go/pkg/pipeline"
)

// Source loads the input tables for one run
type Source interface {
	Load(ctx context.Context, files loader.Files) (pipeline.Inputs, error)
}

// Runner executes the pipeline
type Runner interface {
	Execute(in pipeline.Inputs, trigger models.TriggerType) (*pipeline.Result, error)
}

// ResultHandler receives every successful scheduled result
type ResultHandler func(*pipeline.Result) error

// Service provides scheduled pipeline runs
type Service struct {
	source   Source
	files    loader.Files
	runner   Runner
	handler  ResultHandler
	logger   *logging.ComponentLogger
	cron     *cron.Cron
	entryID  cron.EntryID
	schedule cron.Schedule

	mu       sync.Mutex
	running  bool
	lastRun  *models.Run
	lastErr  error
	jobCount int
}

// NewService creates a new scheduler service. handler and logger may be nil.
func NewService(source Source, files loader.Files, runner Runner, handler ResultHandler, logger *logging.ComponentLogger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		source:  source,
		files:   files,
		runner:  runner,
		handler: handler,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start schedules the job with a standard cron expression and starts the
// scheduler
func (s *Service) Start(spec string) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	s.mu.Lock()
	if s.schedule != nil {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already started")
	}
	s.schedule = schedule
	s.entryID = s.cron.Schedule(schedule, cron.FuncJob(s.executeJob))
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info().Str("schedule", spec).Time("next_run", schedule.Next(time.Now())).Msg("Job scheduler started")
	return nil
}

// Stop stops the scheduler and returns a context that is done once a
// running job has finished
func (s *Service) Stop() context.Context {
	ctx := s.cron.Stop()
	s.logger.Info().Msg("Job scheduler stopped")
	return ctx
}

// NextRun returns the next activation time, or false before Start
func (s *Service) NextRun() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedule == nil {
		return time.Time{}, false
	}
	if entry := s.cron.Entry(s.entryID); !entry.Next.IsZero() {
		return entry.Next, true
	}
	return s.schedule.Next(time.Now()), true
}

// LastRun returns the record and error of the most recent scheduled run
func (s *Service) LastRun() (*models.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastErr
}

// Runs returns how many scheduled runs have been attempted
func (s *Service) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobCount
}

// RunNow executes the job once, outside the schedule
func (s *Service) RunNow() error {
	return s.run(context.Background())
}

// executeJob is the cron callback. Activations that overlap a running job
// are skipped.
func (s *Service) executeJob() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn().Msg("Previous scheduled run still in progress, skipping")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if err := s.run(context.Background()); err != nil {
		s.logger.Error().Err(err).Msg("Scheduled run failed")
	}
}

func (s *Service) run(ctx context.Context) error {
	s.logger.Info().Msg("Executing scheduled job")

	var run *models.Run
	err := func() error {
		in, err := s.source.Load(ctx, s.files)
		if err != nil {
			return fmt.Errorf("failed to load inputs: %w", err)
		}
		result, err := s.runner.Execute(in, models.TriggerScheduled)
		if result != nil {
			run = result.Run
		}
		if err != nil {
			return err
		}
		if s.handler != nil {
			if err := s.handler(result); err != nil {
				return fmt.Errorf("failed to handle result: %w", err)
			}
		}
		return nil
	}()

	s.mu.Lock()
	s.jobCount++
	s.lastRun = run
	s.lastErr = err
	s.mu.Unlock()

	if err == nil && run != nil {
		s.logger.Info().Str("run_id", run.ID).Str("status", string(run.Status)).Msg("Scheduled job completed")
	}
	return err
}
