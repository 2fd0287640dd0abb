package trade

import (
	"context"
	"fmt"

	"github.com/RSC-NA/rsc-core/internal/domain/franchise"
)

// FranchiseRef is a partially-filled franchise reference. At least one of
// ID/Name or GM must be resolvable before the ref is submitted anywhere.
type FranchiseRef struct {
	ID   int64
	Name string
	GM   string
}

func (r FranchiseRef) Resolvable() bool {
	return r.ID > 0 || r.Name != "" || r.GM != ""
}

func RefOf(f franchise.Franchise) FranchiseRef {
	return FranchiseRef{
		ID:   f.ID,
		Name: f.Name,
		GM:   f.GM.DisplayName,
	}
}

// Item is one atomic asset transfer between two franchises.
type Item struct {
	Source      FranchiseRef
	Destination FranchiseRef
	Value       Value
}

// Value is a tagged union: exactly one of Player or Pick is set.
type Value struct {
	Player *PlayerValue
	Pick   *PickValue
}

// PlayerValue transfers a rostered player, optionally onto a named team.
type PlayerValue struct {
	PlayerID int64
	Name     string
	DestTeam string
}

// PickValue transfers a draft pick. Number is only set for current-season
// picks; Season is only set for future picks.
type PickValue struct {
	Tier   string
	Round  int
	Number int
	Season int
	Future bool
}

func (v Value) Validate() error {
	if (v.Player == nil) == (v.Pick == nil) {
		return fmt.Errorf("trade value must carry exactly one of player or pick")
	}

	return nil
}

// Player is a league player as seen by the parser's roster source.
// Franchise is the zero value for free agents.
type Player struct {
	ID        int64
	Name      string
	Tier      string
	Franchise franchise.Franchise
}

// Roster resolves names from a trade announcement against current league
// state. Implementations are backed by the league API or an in-memory seed.
type Roster interface {
	// GMCandidates returns every franchise whose GM display name (team
	// prefix stripped) starts with namePrefix, case-insensitively.
	GMCandidates(ctx context.Context, namePrefix string) ([]franchise.Franchise, error)
	PlayerByName(ctx context.Context, name string) (Player, bool, error)
	FranchiseTeams(ctx context.Context, franchiseID int64) ([]franchise.Team, error)
}
