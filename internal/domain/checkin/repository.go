package checkin

import (
	"context"
	"time"
)

type Repository interface {
	ListByGuild(ctx context.Context, guildID int64) ([]CheckIn, error)
	// Get returns the player's check-in for the given day, if any.
	Get(ctx context.Context, guildID, playerID int64, date time.Time) (CheckIn, bool, error)
	Create(ctx context.Context, item CheckIn) error
	Delete(ctx context.Context, guildID, playerID int64, date time.Time) error
	// DeleteExpired removes check-ins dated before the given day and returns
	// how many were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type SubstituteRepository interface {
	ListByGuild(ctx context.Context, guildID int64) ([]Substitute, error)
	Create(ctx context.Context, item Substitute) error
	Delete(ctx context.Context, guildID, playerInID int64, date time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
