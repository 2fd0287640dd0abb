package postgres

import (
	"time"

	"github.com/RSC-NA/rsc-core/internal/domain/checkin"
)

type checkinTableModel struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	PlayerID  int64     `db:"player_id"`
	Tier      string    `db:"tier"`
	Date      time.Time `db:"date"`
	Visible   bool      `db:"visible"`
	CreatedAt time.Time `db:"created_at"`
}

func checkinFromRow(row checkinTableModel) checkin.CheckIn {
	return checkin.CheckIn{
		GuildID:  row.GuildID,
		PlayerID: row.PlayerID,
		Tier:     row.Tier,
		Date:     checkin.Day(row.Date),
		Visible:  row.Visible,
	}
}
