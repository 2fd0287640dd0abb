package postgres

import (
	"time"

	"github.com/RSC-NA/rsc-core/internal/domain/checkin"
)

type substituteTableModel struct {
	ID          int64     `db:"id"`
	GuildID     int64     `db:"guild_id"`
	Date        time.Time `db:"date"`
	GMID        int64     `db:"gm_id"`
	PlayerInID  int64     `db:"player_in_id"`
	PlayerOutID int64     `db:"player_out_id"`
	Team        string    `db:"team"`
	Tier        string    `db:"tier"`
	Franchise   string    `db:"franchise"`
	CreatedAt   time.Time `db:"created_at"`
}

func substituteFromRow(row substituteTableModel) checkin.Substitute {
	return checkin.Substitute{
		GuildID:     row.GuildID,
		Date:        checkin.Day(row.Date),
		GMID:        row.GMID,
		PlayerInID:  row.PlayerInID,
		PlayerOutID: row.PlayerOutID,
		Team:        row.Team,
		Tier:        row.Tier,
		Franchise:   row.Franchise,
	}
}
