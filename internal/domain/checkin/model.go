package checkin

import (
	"fmt"
	"time"
)

// CheckIn marks a free agent as available for a match day. Date is the
// guild-local calendar day the availability applies to, stored at midnight UTC.
type CheckIn struct {
	GuildID  int64
	PlayerID int64
	Tier     string
	Date     time.Time
	Visible  bool
}

// Substitute records a temporary roster replacement agreed by a GM.
type Substitute struct {
	GuildID     int64
	Date        time.Time
	GMID        int64
	PlayerInID  int64
	PlayerOutID int64
	Team        string
	Tier        string
	Franchise   string
}

func (c CheckIn) Validate() error {
	if c.GuildID <= 0 {
		return fmt.Errorf("check-in guild id is required")
	}
	if c.PlayerID <= 0 {
		return fmt.Errorf("check-in player id is required")
	}
	if c.Tier == "" {
		return fmt.Errorf("check-in tier is required")
	}
	if c.Date.IsZero() {
		return fmt.Errorf("check-in date is required")
	}

	return nil
}

func (s Substitute) Validate() error {
	if s.GuildID <= 0 {
		return fmt.Errorf("substitute guild id is required")
	}
	if s.PlayerInID <= 0 || s.PlayerOutID <= 0 {
		return fmt.Errorf("substitute player ids are required")
	}
	if s.PlayerInID == s.PlayerOutID {
		return fmt.Errorf("substitute cannot replace themselves")
	}
	if s.Team == "" || s.Tier == "" || s.Franchise == "" {
		return fmt.Errorf("substitute team, tier and franchise are required")
	}
	if s.Date.IsZero() {
		return fmt.Errorf("substitute date is required")
	}

	return nil
}

// Expired reports whether the record's day has passed relative to today,
// both truncated to calendar days.
func Expired(date, today time.Time) bool {
	return Day(date).Before(Day(today))
}

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
