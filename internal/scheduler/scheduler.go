// Package scheduler runs the daily absence back-fill.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/service"
)

const runTimeout = 5 * time.Minute

type Backfiller interface {
	BackfillAbsences(ctx context.Context, input service.BackfillInput) (service.BackfillResult, error)
}

type Scheduler struct {
	cron     *cron.Cron
	backfill Backfiller
	location *time.Location
	logger   *log.Logger
	now      func() time.Time
}

// New registers the back-fill under a standard five-field cron expression
// evaluated in location.
func New(backfill Backfiller, schedule string, location *time.Location, logger *log.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(location)),
		backfill: backfill,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		s.RunDaily(ctx)
	}); err != nil {
		return nil, fmt.Errorf("parse backfill schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Printf("absence back-fill scheduled")
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunDaily back-fills yesterday's month up to and including yesterday.
func (s *Scheduler) RunDaily(ctx context.Context) {
	yesterday := s.now().In(s.location).AddDate(0, 0, -1)
	input := service.BackfillInput{
		Year:    yesterday.Year(),
		Month:   int(yesterday.Month()),
		Through: time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC),
	}

	result, err := s.backfill.BackfillAbsences(ctx, input)
	if err != nil {
		s.logger.Printf("absence back-fill %04d-%02d failed: %v", input.Year, input.Month, err)
		return
	}
	s.logger.Printf("absence back-fill %04d-%02d through %s: created=%d skipped_days=%d",
		input.Year, input.Month, input.Through.Format("2006-01-02"), result.Created, result.Skipped)
}
