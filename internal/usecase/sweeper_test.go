package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RSC-NA/rsc-core/internal/platform/logging"
)

type countingExpirer struct {
	calls int
	err   error
}

func (c *countingExpirer) ExpireOld(context.Context) (int64, error) {
	c.calls++
	return 3, c.err
}

func TestNewSweeper_RejectsBadTime(t *testing.T) {
	_, err := NewSweeper(&countingExpirer{}, "25:99", logging.NewNop())
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSweeper_NextFire(t *testing.T) {
	sweeper, err := NewSweeper(&countingExpirer{}, "04:30", logging.NewNop())
	if err != nil {
		t.Fatalf("build sweeper: %v", err)
	}

	// Before the daily slot: fires later today.
	sweeper.now = func() time.Time { return time.Date(2026, 3, 14, 2, 0, 0, 0, time.UTC) }
	if got := sweeper.nextFire(); !got.Equal(time.Date(2026, 3, 14, 4, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected next fire: %v", got)
	}

	// After the daily slot: fires tomorrow.
	sweeper.now = func() time.Time { return time.Date(2026, 3, 14, 6, 0, 0, 0, time.UTC) }
	if got := sweeper.nextFire(); !got.Equal(time.Date(2026, 3, 15, 4, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected next fire: %v", got)
	}
}

func TestSweeper_SweepOnce(t *testing.T) {
	expirer := &countingExpirer{}
	sweeper, err := NewSweeper(expirer, "04:30", logging.NewNop())
	if err != nil {
		t.Fatalf("build sweeper: %v", err)
	}

	sweeper.SweepOnce(t.Context())
	if expirer.calls != 1 {
		t.Fatalf("expected 1 expiry pass, got %d", expirer.calls)
	}

	expirer.err = errors.New("db down")
	sweeper.SweepOnce(t.Context())
	if expirer.calls != 2 {
		t.Fatalf("failed sweep should still count a pass, got %d", expirer.calls)
	}
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	sweeper, err := NewSweeper(&countingExpirer{}, "04:30", logging.NewNop())
	if err != nil {
		t.Fatalf("build sweeper: %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if err := sweeper.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
