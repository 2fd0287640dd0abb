package memory

import (
	"context"
	"sync"
	"time"

	"github.com/RSC-NA/rsc-core/internal/domain/checkin"
)

type CheckInRepository struct {
	mu    sync.RWMutex
	items []checkin.CheckIn
}

func NewCheckInRepository() *CheckInRepository {
	return &CheckInRepository{}
}

func (r *CheckInRepository) ListByGuild(_ context.Context, guildID int64) ([]checkin.CheckIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]checkin.CheckIn, 0, len(r.items))
	for _, item := range r.items {
		if item.GuildID == guildID {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *CheckInRepository) Get(_ context.Context, guildID, playerID int64, date time.Time) (checkin.CheckIn, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := checkin.Day(date)
	for _, item := range r.items {
		if item.GuildID == guildID && item.PlayerID == playerID && checkin.Day(item.Date).Equal(day) {
			return item, true, nil
		}
	}

	return checkin.CheckIn{}, false, nil
}

func (r *CheckInRepository) Create(_ context.Context, item checkin.CheckIn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, item)
	return nil
}

func (r *CheckInRepository) Delete(_ context.Context, guildID, playerID int64, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := checkin.Day(date)
	kept := r.items[:0]
	for _, item := range r.items {
		if item.GuildID == guildID && item.PlayerID == playerID && checkin.Day(item.Date).Equal(day) {
			continue
		}
		kept = append(kept, item)
	}
	r.items = kept

	return nil
}

func (r *CheckInRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	kept := r.items[:0]
	for _, item := range r.items {
		if checkin.Day(item.Date).Before(checkin.Day(before)) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	r.items = kept

	return removed, nil
}
