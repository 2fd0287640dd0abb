package rscapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/RSC-NA/rsc-core/internal/domain/franchise"
	"github.com/RSC-NA/rsc-core/internal/domain/trade"
	"github.com/RSC-NA/rsc-core/internal/platform/cache"
)

// LeagueRoster adapts the league API into the trade parser's roster source.
// Franchise and team listings are cached; player lookups always hit the API
// because roster state changes mid-announcement are exactly what trades are.
type LeagueRoster struct {
	client *Client
	cache  *cache.Store
}

func NewLeagueRoster(client *Client, store *cache.Store) *LeagueRoster {
	return &LeagueRoster{client: client, cache: store}
}

func (r *LeagueRoster) GMCandidates(ctx context.Context, namePrefix string) ([]franchise.Franchise, error) {
	franchises, err := r.franchises(ctx)
	if err != nil {
		return nil, err
	}

	prefix := strings.ToLower(strings.TrimSpace(namePrefix))
	var out []franchise.Franchise
	for _, f := range franchises {
		if strings.HasPrefix(strings.ToLower(f.GM.DisplayName), prefix) {
			out = append(out, f)
		}
	}

	return out, nil
}

func (r *LeagueRoster) PlayerByName(ctx context.Context, name string) (trade.Player, bool, error) {
	wanted := strings.TrimSpace(name)
	if wanted == "" {
		return trade.Player{}, false, nil
	}

	page, err := r.client.LeaguePlayers(ctx, LeaguePlayersOptions{Search: wanted})
	if err != nil {
		return trade.Player{}, false, fmt.Errorf("search player %q: %w", wanted, err)
	}

	for _, candidate := range page.Players {
		if !strings.EqualFold(strings.TrimSpace(candidate.Name), wanted) {
			continue
		}

		player := trade.Player{
			ID:   candidate.ID,
			Name: strings.TrimSpace(candidate.Name),
			Tier: candidate.Tier,
		}
		if candidate.FranchiseID > 0 {
			f, err := r.franchiseByID(ctx, candidate.FranchiseID)
			if err != nil {
				return trade.Player{}, false, err
			}
			player.Franchise = f
		}

		return player, true, nil
	}

	return trade.Player{}, false, nil
}

func (r *LeagueRoster) FranchiseTeams(ctx context.Context, franchiseID int64) ([]franchise.Team, error) {
	if r.cache == nil {
		return r.client.FranchiseTeams(ctx, franchiseID)
	}

	key := "roster:teams:" + strconv.FormatInt(franchiseID, 10)
	value, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.client.FranchiseTeams(ctx, franchiseID)
	})
	if err != nil {
		return nil, err
	}

	teams, ok := value.([]franchise.Team)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value type %T for %s", value, key)
	}

	return teams, nil
}

func (r *LeagueRoster) franchises(ctx context.Context) ([]franchise.Franchise, error) {
	if r.cache == nil {
		return r.client.Franchises(ctx)
	}

	value, err := r.cache.GetOrLoad(ctx, "roster:franchises", func(ctx context.Context) (any, error) {
		return r.client.Franchises(ctx)
	})
	if err != nil {
		return nil, err
	}

	franchises, ok := value.([]franchise.Franchise)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value type %T for roster:franchises", value)
	}

	return franchises, nil
}

func (r *LeagueRoster) franchiseByID(ctx context.Context, franchiseID int64) (franchise.Franchise, error) {
	franchises, err := r.franchises(ctx)
	if err != nil {
		return franchise.Franchise{}, err
	}

	for _, f := range franchises {
		if f.ID == franchiseID {
			return f, nil
		}
	}

	return franchise.Franchise{}, fmt.Errorf("franchise %d not found in league listing", franchiseID)
}
