package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/RSC-NA/rsc-core/external/rscapi"
)

type memberDirectory interface {
	Members(ctx context.Context, search string) ([]rscapi.Member, error)
	Trackers(ctx context.Context, memberDiscordID int64) ([]rscapi.TrackerLink, error)
}

// TrackerService looks up members and their third-party stats trackers.
type TrackerService struct {
	directory memberDirectory
}

func NewTrackerService(directory memberDirectory) *TrackerService {
	return &TrackerService{directory: directory}
}

func (s *TrackerService) FindMembers(ctx context.Context, search string) ([]rscapi.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "TrackerService.FindMembers")
	defer span.End()

	if strings.TrimSpace(search) == "" {
		return nil, fmt.Errorf("%w: member search term is required", ErrInvalidInput)
	}

	members, err := s.directory.Members(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("search members: %w", err)
	}

	return members, nil
}

func (s *TrackerService) Trackers(ctx context.Context, memberDiscordID int64) ([]rscapi.TrackerLink, error) {
	ctx, span := startUsecaseSpan(ctx, "TrackerService.Trackers")
	defer span.End()

	if memberDiscordID <= 0 {
		return nil, fmt.Errorf("%w: member discord id is required", ErrInvalidInput)
	}

	links, err := s.directory.Trackers(ctx, memberDiscordID)
	if err != nil {
		return nil, fmt.Errorf("fetch trackers: %w", err)
	}

	return links, nil
}
