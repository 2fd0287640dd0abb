package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/RSC-NA/rsc-core/internal/infrastructure/repository/memory"
)

func newCheckinFixture(t *testing.T, now time.Time) *CheckinService {
	t.Helper()

	svc := NewCheckinService(memory.NewCheckInRepository(), memory.NewSubstituteRepository())
	svc.now = func() time.Time { return now }
	return svc
}

func TestCheckinService_CheckIn(t *testing.T) {
	day := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	svc := newCheckinFixture(t, day)

	item, err := svc.CheckIn(t.Context(), CheckInInput{
		GuildID:  memory.SeedGuildID,
		PlayerID: 501,
		Tier:     "Elite",
		Visible:  true,
	})
	if err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	if !item.Date.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date not truncated to the day: %v", item.Date)
	}

	items, err := svc.ListCheckIns(t.Context(), memory.SeedGuildID)
	if err != nil {
		t.Fatalf("list check-ins failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 check-in, got %d", len(items))
	}
}

func TestCheckinService_CheckIn_RejectsDoubleCheckIn(t *testing.T) {
	svc := newCheckinFixture(t, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))

	input := CheckInInput{GuildID: memory.SeedGuildID, PlayerID: 501, Tier: "Elite", Visible: true}
	if _, err := svc.CheckIn(t.Context(), input); err != nil {
		t.Fatalf("first check-in failed: %v", err)
	}
	if _, err := svc.CheckIn(t.Context(), input); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for double check-in, got %v", err)
	}
}

func TestCheckinService_CheckOut(t *testing.T) {
	svc := newCheckinFixture(t, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))

	if _, err := svc.CheckIn(t.Context(), CheckInInput{GuildID: memory.SeedGuildID, PlayerID: 501, Tier: "Elite"}); err != nil {
		t.Fatalf("check-in failed: %v", err)
	}
	if err := svc.CheckOut(t.Context(), memory.SeedGuildID, 501); err != nil {
		t.Fatalf("check-out failed: %v", err)
	}

	if err := svc.CheckOut(t.Context(), memory.SeedGuildID, 501); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for repeated check-out, got %v", err)
	}
}

func TestCheckinService_DeclareSubstitute_Validation(t *testing.T) {
	svc := newCheckinFixture(t, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))

	_, err := svc.DeclareSubstitute(t.Context(), DeclareSubstituteInput{
		GuildID:     memory.SeedGuildID,
		GMID:        1001,
		PlayerInID:  501,
		PlayerOutID: 501,
		Team:        "Arctic Foxes Elite",
		Tier:        "Elite",
		Franchise:   "Arctic Foxes",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self-substitution, got %v", err)
	}
}

func TestCheckinService_ExpireOld(t *testing.T) {
	dayOne := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	svc := newCheckinFixture(t, dayOne)

	if _, err := svc.CheckIn(t.Context(), CheckInInput{GuildID: memory.SeedGuildID, PlayerID: 501, Tier: "Elite"}); err != nil {
		t.Fatalf("day-one check-in failed: %v", err)
	}
	if _, err := svc.DeclareSubstitute(t.Context(), DeclareSubstituteInput{
		GuildID:     memory.SeedGuildID,
		GMID:        1001,
		PlayerInID:  503,
		PlayerOutID: 502,
		Team:        "Arctic Foxes Major",
		Tier:        "Major",
		Franchise:   "Arctic Foxes",
	}); err != nil {
		t.Fatalf("day-one substitute failed: %v", err)
	}

	// Advance to the next day and add a fresh record that must survive.
	dayTwo := dayOne.AddDate(0, 0, 1)
	svc.now = func() time.Time { return dayTwo }
	if _, err := svc.CheckIn(t.Context(), CheckInInput{GuildID: memory.SeedGuildID, PlayerID: 505, Tier: "Elite"}); err != nil {
		t.Fatalf("day-two check-in failed: %v", err)
	}

	removed, err := svc.ExpireOld(t.Context())
	if err != nil {
		t.Fatalf("expire failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 expired records, got %d", removed)
	}

	items, err := svc.ListCheckIns(t.Context(), memory.SeedGuildID)
	if err != nil {
		t.Fatalf("list check-ins failed: %v", err)
	}
	if len(items) != 1 || items[0].PlayerID != 505 {
		t.Fatalf("day-two check-in should survive, got %+v", items)
	}
}
