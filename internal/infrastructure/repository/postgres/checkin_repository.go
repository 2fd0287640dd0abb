package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/RSC-NA/rsc-core/internal/domain/checkin"
)

type CheckinRepository struct {
	db *sqlx.DB
}

func NewCheckinRepository(db *sqlx.DB) *CheckinRepository {
	return &CheckinRepository{db: db}
}

func (r *CheckinRepository) ListByGuild(ctx context.Context, guildID int64) ([]checkin.CheckIn, error) {
	const query = `
		SELECT id, guild_id, player_id, tier, date, visible, created_at
		FROM checkins
		WHERE guild_id = $1
		ORDER BY date, id`

	var rows []checkinTableModel
	if err := r.db.SelectContext(ctx, &rows, query, guildID); err != nil {
		return nil, fmt.Errorf("list checkins: %w", err)
	}

	out := make([]checkin.CheckIn, 0, len(rows))
	for _, row := range rows {
		out = append(out, checkinFromRow(row))
	}
	return out, nil
}

func (r *CheckinRepository) Get(ctx context.Context, guildID, playerID int64, date time.Time) (checkin.CheckIn, bool, error) {
	const query = `
		SELECT id, guild_id, player_id, tier, date, visible, created_at
		FROM checkins
		WHERE guild_id = $1 AND player_id = $2 AND date = $3`

	var row checkinTableModel
	if err := r.db.GetContext(ctx, &row, query, guildID, playerID, checkin.Day(date)); err != nil {
		if isNotFound(err) {
			return checkin.CheckIn{}, false, nil
		}
		return checkin.CheckIn{}, false, fmt.Errorf("get checkin: %w", err)
	}

	return checkinFromRow(row), true, nil
}

func (r *CheckinRepository) Create(ctx context.Context, item checkin.CheckIn) error {
	const query = `
		INSERT INTO checkins (guild_id, player_id, tier, date, visible)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT checkins_unique_per_day DO UPDATE
		SET tier = EXCLUDED.tier, visible = EXCLUDED.visible`

	if _, err := r.db.ExecContext(ctx, query,
		item.GuildID, item.PlayerID, item.Tier, checkin.Day(item.Date), item.Visible); err != nil {
		return fmt.Errorf("create checkin: %w", err)
	}
	return nil
}

func (r *CheckinRepository) Delete(ctx context.Context, guildID, playerID int64, date time.Time) error {
	const query = `DELETE FROM checkins WHERE guild_id = $1 AND player_id = $2 AND date = $3`

	if _, err := r.db.ExecContext(ctx, query, guildID, playerID, checkin.Day(date)); err != nil {
		return fmt.Errorf("delete checkin: %w", err)
	}
	return nil
}

func (r *CheckinRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM checkins WHERE date < $1`

	result, err := r.db.ExecContext(ctx, query, checkin.Day(before))
	if err != nil {
		return 0, fmt.Errorf("delete expired checkins: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count expired checkins: %w", err)
	}
	return removed, nil
}
