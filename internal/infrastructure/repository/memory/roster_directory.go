package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/RSC-NA/rsc-core/internal/domain/franchise"
	"github.com/RSC-NA/rsc-core/internal/domain/trade"
)

// RosterDirectory is an in-memory trade.Roster used in tests and dev mode.
type RosterDirectory struct {
	mu         sync.RWMutex
	franchises []franchise.Franchise
	players    map[string]trade.Player
	teams      map[int64][]franchise.Team
}

func NewRosterDirectory(franchises []franchise.Franchise, players []trade.Player, teams []franchise.Team) *RosterDirectory {
	playerByName := make(map[string]trade.Player, len(players))
	for _, p := range players {
		playerByName[strings.ToLower(p.Name)] = p
	}

	teamsByFranchise := make(map[int64][]franchise.Team, len(franchises))
	for _, t := range teams {
		teamsByFranchise[t.FranchiseID] = append(teamsByFranchise[t.FranchiseID], t)
	}

	return &RosterDirectory{
		franchises: append([]franchise.Franchise(nil), franchises...),
		players:    playerByName,
		teams:      teamsByFranchise,
	}
}

func (d *RosterDirectory) GMCandidates(_ context.Context, namePrefix string) ([]franchise.Franchise, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	prefix := strings.ToLower(strings.TrimSpace(namePrefix))
	var out []franchise.Franchise
	for _, f := range d.franchises {
		if strings.HasPrefix(strings.ToLower(f.GM.DisplayName), prefix) {
			out = append(out, f)
		}
	}

	return out, nil
}

func (d *RosterDirectory) PlayerByName(_ context.Context, name string) (trade.Player, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	p, ok := d.players[strings.ToLower(strings.TrimSpace(name))]
	return p, ok, nil
}

func (d *RosterDirectory) FranchiseTeams(_ context.Context, franchiseID int64) ([]franchise.Team, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append([]franchise.Team(nil), d.teams[franchiseID]...), nil
}
