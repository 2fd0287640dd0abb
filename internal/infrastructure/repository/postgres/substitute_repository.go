package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/RSC-NA/rsc-core/internal/domain/checkin"
)

type SubstituteRepository struct {
	db *sqlx.DB
}

func NewSubstituteRepository(db *sqlx.DB) *SubstituteRepository {
	return &SubstituteRepository{db: db}
}

func (r *SubstituteRepository) ListByGuild(ctx context.Context, guildID int64) ([]checkin.Substitute, error) {
	const query = `
		SELECT id, guild_id, date, gm_id, player_in_id, player_out_id, team, tier, franchise, created_at
		FROM substitutes
		WHERE guild_id = $1
		ORDER BY date, id`

	var rows []substituteTableModel
	if err := r.db.SelectContext(ctx, &rows, query, guildID); err != nil {
		return nil, fmt.Errorf("list substitutes: %w", err)
	}

	out := make([]checkin.Substitute, 0, len(rows))
	for _, row := range rows {
		out = append(out, substituteFromRow(row))
	}
	return out, nil
}

func (r *SubstituteRepository) Create(ctx context.Context, item checkin.Substitute) error {
	const query = `
		INSERT INTO substitutes (guild_id, date, gm_id, player_in_id, player_out_id, team, tier, franchise)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.db.ExecContext(ctx, query,
		item.GuildID, checkin.Day(item.Date), item.GMID, item.PlayerInID,
		item.PlayerOutID, item.Team, item.Tier, item.Franchise); err != nil {
		return fmt.Errorf("create substitute: %w", err)
	}
	return nil
}

func (r *SubstituteRepository) Delete(ctx context.Context, guildID, playerInID int64, date time.Time) error {
	const query = `DELETE FROM substitutes WHERE guild_id = $1 AND player_in_id = $2 AND date = $3`

	if _, err := r.db.ExecContext(ctx, query, guildID, playerInID, checkin.Day(date)); err != nil {
		return fmt.Errorf("delete substitute: %w", err)
	}
	return nil
}

func (r *SubstituteRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM substitutes WHERE date < $1`

	result, err := r.db.ExecContext(ctx, query, checkin.Day(before))
	if err != nil {
		return 0, fmt.Errorf("delete expired substitutes: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count expired substitutes: %w", err)
	}
	return removed, nil
}
