package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/RSC-NA/rsc-core/internal/platform/logging"
)

type expirer interface {
	ExpireOld(ctx context.Context) (int64, error)
}

// Sweeper runs the daily expiry pass at a fixed UTC time of day.
type Sweeper struct {
	service expirer
	atHour  int
	atMin   int
	logger  *logging.Logger
	now     func() time.Time
}

// NewSweeper builds a sweeper firing daily at "HH:MM" UTC.
func NewSweeper(service expirer, at string, logger *logging.Logger) (*Sweeper, error) {
	parsed, err := time.Parse("15:04", at)
	if err != nil {
		return nil, fmt.Errorf("%w: sweep time must be HH:MM, got %q", ErrInvalidInput, at)
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Sweeper{
		service: service,
		atHour:  parsed.Hour(),
		atMin:   parsed.Minute(),
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Run blocks until ctx is cancelled, sweeping once per day.
func (s *Sweeper) Run(ctx context.Context) error {
	for {
		wait := time.Until(s.nextFire())
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		s.SweepOnce(ctx)
	}
}

// SweepOnce performs a single expiry pass and logs the outcome.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	removed, err := s.service.ExpireOld(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "daily expiry sweep failed", "error", err)
		return
	}
	s.logger.InfoContext(ctx, "daily expiry sweep finished", "removed", removed)
}

func (s *Sweeper) nextFire() time.Time {
	now := s.now().UTC()
	fire := time.Date(now.Year(), now.Month(), now.Day(), s.atHour, s.atMin, 0, 0, time.UTC)
	if !fire.After(now) {
		fire = fire.AddDate(0, 0, 1)
	}
	return fire
}
