package replay

import "fmt"

// Side is the team a player row belongs to: 0 = blue, 1 = orange.
type Side int

const (
	SideBlue   Side = 0
	SideOrange Side = 1
)

// CoreStats is the per-player stat block compared during duplicate detection.
type CoreStats struct {
	Score   int
	Goals   int
	Assists int
	Saves   int
	Shots   int
}

// PlayerStats is one player's row in a parsed replay.
type PlayerStats struct {
	Name string
	Side Side
	Core CoreStats
}

// Parsed is the locally decoded metadata of a submitted replay file. It only
// lives long enough to be compared against remote records.
type Parsed struct {
	FileName string
	MapCode  string
	Players  []PlayerStats
}

// Remote is a replay record already present in a remote group.
type Remote struct {
	ID      string
	MapCode string
	Players []PlayerStats
}

func (p Parsed) Validate() error {
	if len(p.Players) == 0 {
		return fmt.Errorf("parsed replay %q has no player stats", p.FileName)
	}
	for _, row := range p.Players {
		if row.Name == "" {
			return fmt.Errorf("parsed replay %q has a player row without a name", p.FileName)
		}
		if row.Side != SideBlue && row.Side != SideOrange {
			return fmt.Errorf("parsed replay %q has a player row with side %d", p.FileName, row.Side)
		}
	}

	return nil
}

func (r Remote) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("remote replay id is required")
	}
	if len(r.Players) == 0 {
		return fmt.Errorf("remote replay %s has no team player stats", r.ID)
	}

	return nil
}
