package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RSC-NA/rsc-core/internal/domain/checkin"
)

type CheckInInput struct {
	GuildID  int64
	PlayerID int64
	Tier     string
	Visible  bool
}

type DeclareSubstituteInput struct {
	GuildID     int64
	GMID        int64
	PlayerInID  int64
	PlayerOutID int64
	Team        string
	Tier        string
	Franchise   string
}

// CheckinService manages per-day availability records. Records live until the
// daily sweep removes every entry dated before the current day.
type CheckinService struct {
	checkins    checkin.Repository
	substitutes checkin.SubstituteRepository
	now         func() time.Time
}

func NewCheckinService(checkins checkin.Repository, substitutes checkin.SubstituteRepository) *CheckinService {
	return &CheckinService{
		checkins:    checkins,
		substitutes: substitutes,
		now:         time.Now,
	}
}

func (s *CheckinService) CheckIn(ctx context.Context, input CheckInInput) (checkin.CheckIn, error) {
	ctx, span := startUsecaseSpan(ctx, "CheckinService.CheckIn")
	defer span.End()

	item := checkin.CheckIn{
		GuildID:  input.GuildID,
		PlayerID: input.PlayerID,
		Tier:     strings.TrimSpace(input.Tier),
		Date:     checkin.Day(s.now()),
		Visible:  input.Visible,
	}
	if err := item.Validate(); err != nil {
		return checkin.CheckIn{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	_, exists, err := s.checkins.Get(ctx, item.GuildID, item.PlayerID, item.Date)
	if err != nil {
		return checkin.CheckIn{}, fmt.Errorf("check existing check-in: %w", err)
	}
	if exists {
		return checkin.CheckIn{}, fmt.Errorf("%w: player %d is already checked in today", ErrInvalidInput, item.PlayerID)
	}

	if err := s.checkins.Create(ctx, item); err != nil {
		return checkin.CheckIn{}, fmt.Errorf("create check-in: %w", err)
	}

	return item, nil
}

func (s *CheckinService) CheckOut(ctx context.Context, guildID, playerID int64) error {
	ctx, span := startUsecaseSpan(ctx, "CheckinService.CheckOut")
	defer span.End()

	if guildID <= 0 || playerID <= 0 {
		return fmt.Errorf("%w: guild id and player id are required", ErrInvalidInput)
	}

	today := checkin.Day(s.now())
	_, exists, err := s.checkins.Get(ctx, guildID, playerID, today)
	if err != nil {
		return fmt.Errorf("check existing check-in: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: player %d is not checked in today", ErrNotFound, playerID)
	}

	if err := s.checkins.Delete(ctx, guildID, playerID, today); err != nil {
		return fmt.Errorf("delete check-in: %w", err)
	}

	return nil
}

func (s *CheckinService) ListCheckIns(ctx context.Context, guildID int64) ([]checkin.CheckIn, error) {
	ctx, span := startUsecaseSpan(ctx, "CheckinService.ListCheckIns")
	defer span.End()

	if guildID <= 0 {
		return nil, fmt.Errorf("%w: guild id is required", ErrInvalidInput)
	}

	items, err := s.checkins.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}

	return items, nil
}

func (s *CheckinService) DeclareSubstitute(ctx context.Context, input DeclareSubstituteInput) (checkin.Substitute, error) {
	ctx, span := startUsecaseSpan(ctx, "CheckinService.DeclareSubstitute")
	defer span.End()

	item := checkin.Substitute{
		GuildID:     input.GuildID,
		Date:        checkin.Day(s.now()),
		GMID:        input.GMID,
		PlayerInID:  input.PlayerInID,
		PlayerOutID: input.PlayerOutID,
		Team:        strings.TrimSpace(input.Team),
		Tier:        strings.TrimSpace(input.Tier),
		Franchise:   strings.TrimSpace(input.Franchise),
	}
	if err := item.Validate(); err != nil {
		return checkin.Substitute{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.substitutes.Create(ctx, item); err != nil {
		return checkin.Substitute{}, fmt.Errorf("create substitute: %w", err)
	}

	return item, nil
}

func (s *CheckinService) RemoveSubstitute(ctx context.Context, guildID, playerInID int64) error {
	ctx, span := startUsecaseSpan(ctx, "CheckinService.RemoveSubstitute")
	defer span.End()

	if guildID <= 0 || playerInID <= 0 {
		return fmt.Errorf("%w: guild id and player id are required", ErrInvalidInput)
	}

	if err := s.substitutes.Delete(ctx, guildID, playerInID, checkin.Day(s.now())); err != nil {
		return fmt.Errorf("delete substitute: %w", err)
	}

	return nil
}

func (s *CheckinService) ListSubstitutes(ctx context.Context, guildID int64) ([]checkin.Substitute, error) {
	ctx, span := startUsecaseSpan(ctx, "CheckinService.ListSubstitutes")
	defer span.End()

	if guildID <= 0 {
		return nil, fmt.Errorf("%w: guild id is required", ErrInvalidInput)
	}

	items, err := s.substitutes.ListByGuild(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("list substitutes: %w", err)
	}

	return items, nil
}

// ExpireOld removes every check-in and substitute dated before today and
// returns how many records were removed in total.
func (s *CheckinService) ExpireOld(ctx context.Context) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "CheckinService.ExpireOld")
	defer span.End()

	today := checkin.Day(s.now())

	checkinsRemoved, err := s.checkins.DeleteExpired(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("expire check-ins: %w", err)
	}
	subsRemoved, err := s.substitutes.DeleteExpired(ctx, today)
	if err != nil {
		return checkinsRemoved, fmt.Errorf("expire substitutes: %w", err)
	}

	return checkinsRemoved + subsRemoved, nil
}
