package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/RSC-NA/rsc-core/external/rscapi"
	"github.com/RSC-NA/rsc-core/internal/domain/franchise"
	"github.com/RSC-NA/rsc-core/internal/platform/cache"
)

const leagueCachePrefix = "league:"

type leagueDirectory interface {
	Franchises(ctx context.Context) ([]franchise.Franchise, error)
	Teams(ctx context.Context) ([]franchise.Team, error)
	FranchiseTeams(ctx context.Context, franchiseID int64) ([]franchise.Team, error)
	Tiers(ctx context.Context) ([]rscapi.Tier, error)
}

// FranchiseService serves league reference data through an explicit TTL
// cache. Invalidate drops every cached listing after a known roster change.
type FranchiseService struct {
	directory leagueDirectory
	cache     *cache.Store
}

func NewFranchiseService(directory leagueDirectory, store *cache.Store) *FranchiseService {
	return &FranchiseService{directory: directory, cache: store}
}

func (s *FranchiseService) Franchises(ctx context.Context) ([]franchise.Franchise, error) {
	ctx, span := startUsecaseSpan(ctx, "FranchiseService.Franchises")
	defer span.End()

	value, err := s.cache.GetOrLoad(ctx, leagueCachePrefix+"franchises", func(ctx context.Context) (any, error) {
		return s.directory.Franchises(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("load franchises: %w", err)
	}

	return castCached[[]franchise.Franchise](value, "franchises")
}

func (s *FranchiseService) Teams(ctx context.Context) ([]franchise.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "FranchiseService.Teams")
	defer span.End()

	value, err := s.cache.GetOrLoad(ctx, leagueCachePrefix+"teams", func(ctx context.Context) (any, error) {
		return s.directory.Teams(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}

	return castCached[[]franchise.Team](value, "teams")
}

func (s *FranchiseService) FranchiseTeams(ctx context.Context, franchiseID int64) ([]franchise.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "FranchiseService.FranchiseTeams")
	defer span.End()

	if franchiseID <= 0 {
		return nil, fmt.Errorf("%w: franchise id is required", ErrInvalidInput)
	}

	key := leagueCachePrefix + "teams:" + strconv.FormatInt(franchiseID, 10)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.directory.FranchiseTeams(ctx, franchiseID)
	})
	if err != nil {
		return nil, fmt.Errorf("load franchise teams: %w", err)
	}

	return castCached[[]franchise.Team](value, "franchise teams")
}

func (s *FranchiseService) Tiers(ctx context.Context) ([]rscapi.Tier, error) {
	ctx, span := startUsecaseSpan(ctx, "FranchiseService.Tiers")
	defer span.End()

	value, err := s.cache.GetOrLoad(ctx, leagueCachePrefix+"tiers", func(ctx context.Context) (any, error) {
		return s.directory.Tiers(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("load tiers: %w", err)
	}

	return castCached[[]rscapi.Tier](value, "tiers")
}

// Invalidate drops every cached league listing. Called after transactions
// that change rosters or team assignments.
func (s *FranchiseService) Invalidate(ctx context.Context) {
	s.cache.DeletePrefix(ctx, leagueCachePrefix)
}

func castCached[T any](value any, label string) (T, error) {
	out, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected cached value type %T for %s", value, label)
	}
	return out, nil
}
