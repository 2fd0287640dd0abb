package memory

import (
	"context"
	"sync"
	"time"

	"github.com/RSC-NA/rsc-core/internal/domain/checkin"
)

type SubstituteRepository struct {
	mu    sync.RWMutex
	items []checkin.Substitute
}

func NewSubstituteRepository() *SubstituteRepository {
	return &SubstituteRepository{}
}

func (r *SubstituteRepository) ListByGuild(_ context.Context, guildID int64) ([]checkin.Substitute, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]checkin.Substitute, 0, len(r.items))
	for _, item := range r.items {
		if item.GuildID == guildID {
			out = append(out, item)
		}
	}

	return out, nil
}

func (r *SubstituteRepository) Create(_ context.Context, item checkin.Substitute) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, item)
	return nil
}

func (r *SubstituteRepository) Delete(_ context.Context, guildID, playerInID int64, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := checkin.Day(date)
	kept := r.items[:0]
	for _, item := range r.items {
		if item.GuildID == guildID && item.PlayerInID == playerInID && checkin.Day(item.Date).Equal(day) {
			continue
		}
		kept = append(kept, item)
	}
	r.items = kept

	return nil
}

func (r *SubstituteRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
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
