package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs CreateIfChanged on a standard five-field cron schedule.
type Scheduler struct {
	archiver *Archiver
	cron     *cron.Cron
	timeout  time.Duration
}

// NewScheduler parses expr and prepares a scheduler; call Start to run it.
func NewScheduler(a *Archiver, expr string) (*Scheduler, error) {
	if _, err := cron.ParseStandard(expr); err != nil {
		return nil, fmt.Errorf("invalid archive schedule %q: %w", expr, err)
	}
	s := &Scheduler{archiver: a, cron: cron.New(), timeout: time.Minute}
	if _, err := s.cron.AddFunc(expr, s.tick); err != nil {
		return nil, fmt.Errorf("schedule archive: %w", err)
	}
	return s, nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, _, err := s.archiver.CreateIfChanged(ctx); err != nil {
		s.archiver.logger.Error("scheduled archive failed", "error", err)
	}
}

// Start begins running scheduled archives in the background.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the schedule and waits for a running archive to finish or ctx
// to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
