// Package scheduler runs the daily refresh, scan and settlement jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/valuebet-bot/internal/config"
	"github.com/yourusername/valuebet-bot/internal/service"
)

// jobTimeout bounds a single scheduled run; providers are slow at worst,
// not hung forever.
const jobTimeout = 30 * time.Minute

// Scheduler manages the daily job cycle on UTC wall-clock hours.
type Scheduler struct {
	cron      *cron.Cron
	scanSvc   *service.ScanService
	settleSvc *service.SettlementService
	log       *logrus.Logger
	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a new scheduler
func NewScheduler(scanSvc *service.ScanService, settleSvc *service.SettlementService, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		scanSvc:   scanSvc,
		settleSvc: settleSvc,
		log:       log,
		jobIDs:    make([]cron.EntryID, 0),
	}
}

// ScheduleDaily registers the three daily jobs at the configured UTC hours:
// statistics refresh, value scan and bet settlement.
func (s *Scheduler) ScheduleDaily(cfg config.SchedulerConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule jobs while scheduler is running")
	}

	jobs := []struct {
		name string
		hour int
		run  func(ctx context.Context) error
	}{
		{"refresh", cfg.RefreshHour, s.scanSvc.RefreshStats},
		{"scan", cfg.ScanHour, func(ctx context.Context) error {
			_, err := s.scanSvc.RunScan(ctx)
			return err
		}},
		{"settle", cfg.SettleHour, func(ctx context.Context) error {
			_, err := s.settleSvc.SettleResults(ctx)
			return err
		}},
	}

	for _, job := range jobs {
		job := job
		spec := fmt.Sprintf("0 %d * * *", job.hour)

		entryID, err := s.cron.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()

			s.log.WithField("job", job.name).Info("Scheduled job starting")
			if err := job.run(ctx); err != nil {
				s.log.WithError(err).WithField("job", job.name).Error("Scheduled job failed")
				return
			}
			s.log.WithField("job", job.name).Info("Scheduled job finished")
		})
		if err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", job.name, err)
		}

		s.jobIDs = append(s.jobIDs, entryID)
		s.log.WithFields(logrus.Fields{"job": job.name, "spec": spec}).Info("Job scheduled")
	}

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.log.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.log.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	next := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}
