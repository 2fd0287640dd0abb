package trade

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/RSC-NA/rsc-core/internal/domain/franchise"
)

type fakeRoster struct {
	franchises []franchise.Franchise
	players    map[string]Player
	teams      map[int64][]franchise.Team
}

func (r *fakeRoster) GMCandidates(_ context.Context, namePrefix string) ([]franchise.Franchise, error) {
	var out []franchise.Franchise
	for _, f := range r.franchises {
		if strings.HasPrefix(strings.ToLower(f.GM.DisplayName), strings.ToLower(namePrefix)) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeRoster) PlayerByName(_ context.Context, name string) (Player, bool, error) {
	p, ok := r.players[strings.ToLower(name)]
	return p, ok, nil
}

func (r *fakeRoster) FranchiseTeams(_ context.Context, franchiseID int64) ([]franchise.Team, error) {
	return r.teams[franchiseID], nil
}

func testRoster() *fakeRoster {
	avalanche := franchise.Franchise{
		ID:   1,
		Name: "Avalanche",
		GM:   franchise.GeneralManager{MemberID: 11, DisplayName: "Alice"},
	}
	barracuda := franchise.Franchise{
		ID:   2,
		Name: "Barracuda",
		GM:   franchise.GeneralManager{MemberID: 22, DisplayName: "Bob"},
	}

	return &fakeRoster{
		franchises: []franchise.Franchise{avalanche, barracuda},
		players: map[string]Player{
			"bob":   {ID: 100, Name: "Bob", Tier: "Elite", Franchise: barracuda},
			"carol": {ID: 101, Name: "Carol", Tier: "Major", Franchise: avalanche},
		},
		teams: map[int64][]franchise.Team{
			1: {
				{ID: 10, Name: "Avalanche Elite", Tier: "Elite", FranchiseID: 1},
				{ID: 11, Name: "Avalanche Major", Tier: "Major", FranchiseID: 1},
			},
			2: {
				{ID: 20, Name: "Barracuda Elite", Tier: "Elite", FranchiseID: 2},
				{ID: 21, Name: "Barracuda Major A", Tier: "Major", FranchiseID: 2},
				{ID: 22, Name: "Barracuda Major B", Tier: "Major", FranchiseID: 2},
			},
		},
	}
}

func TestParser_TwoWayTrade(t *testing.T) {
	parser := NewParser(testRoster())

	items, err := parser.Parse(t.Context(), "Alice receives:\n@Bob to TeamX\n---\nBob receives:\n1st Round Elite (5)")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Destination.Name != "Avalanche" {
		t.Fatalf("expected destination Avalanche, got %s", first.Destination.Name)
	}
	if first.Source.Name != "Barracuda" {
		t.Fatalf("expected source Barracuda, got %s", first.Source.Name)
	}
	if first.Value.Player == nil {
		t.Fatal("expected player value on first item")
	}
	if first.Value.Player.Name != "Bob" || first.Value.Player.DestTeam != "TeamX" {
		t.Fatalf("unexpected player value: %+v", first.Value.Player)
	}

	second := items[1]
	if second.Destination.Name != "Barracuda" {
		t.Fatalf("expected destination Barracuda, got %s", second.Destination.Name)
	}
	if second.Value.Pick == nil {
		t.Fatal("expected pick value on second item")
	}
	if second.Value.Pick.Round != 1 || second.Value.Pick.Tier != "Elite" || second.Value.Pick.Number != 5 {
		t.Fatalf("unexpected pick value: %+v", second.Value.Pick)
	}
	if second.Value.Pick.Future {
		t.Fatal("current-season pick flagged as future")
	}
	// Owner omitted in a two-way trade resolves to the counterparty.
	if second.Source.Name != "Avalanche" {
		t.Fatalf("expected inferred source Avalanche, got %s", second.Source.Name)
	}
}

func TestParser_PlayerDestinationTeamFromTier(t *testing.T) {
	parser := NewParser(testRoster())

	items, err := parser.Parse(t.Context(), "Alice receives:\n@Bob\n---\nBob receives:\nAlice's S23 2nd Round Elite")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	// Bob plays Elite; Avalanche has exactly one Elite team.
	if got := items[0].Value.Player.DestTeam; got != "Avalanche Elite" {
		t.Fatalf("expected tier-resolved team Avalanche Elite, got %s", got)
	}

	pick := items[1].Value.Pick
	if pick == nil || !pick.Future {
		t.Fatalf("expected future pick, got %+v", items[1].Value)
	}
	if pick.Season != 23 || pick.Round != 2 || pick.Tier != "Elite" {
		t.Fatalf("unexpected future pick: %+v", pick)
	}
	if items[1].Source.Name != "Avalanche" {
		t.Fatalf("expected future pick source Avalanche, got %s", items[1].Source.Name)
	}
}

func TestParser_AmbiguousDestinationTeam(t *testing.T) {
	parser := NewParser(testRoster())

	// Carol plays Major; Barracuda fields two Major teams.
	_, err := parser.Parse(t.Context(), "Bob receives:\n@Carol\n---\nAlice receives:\n1st Round Major (3)")
	if !errors.Is(err, ErrAmbiguousTeam) {
		t.Fatalf("expected ErrAmbiguousTeam, got %v", err)
	}
}

func TestParser_UnknownLineCarriesLineText(t *testing.T) {
	parser := NewParser(testRoster())

	_, err := parser.Parse(t.Context(), "Alice receives:\nsomething unrecognizable here!\n---\nBob receives:\n@Carol")
	if !errors.Is(err, ErrUnknownLine) {
		t.Fatalf("expected ErrUnknownLine, got %v", err)
	}
	if !strings.Contains(err.Error(), "something unrecognizable here!") {
		t.Fatalf("error does not reference offending line: %v", err)
	}
}

func TestParser_AmbiguousGM(t *testing.T) {
	roster := testRoster()
	roster.franchises = append(roster.franchises, franchise.Franchise{
		ID:   3,
		Name: "Bandits",
		GM:   franchise.GeneralManager{MemberID: 33, DisplayName: "Bobby"},
	})
	parser := NewParser(roster)

	_, err := parser.Parse(t.Context(), "Bob receives:\n@Carol")
	if !errors.Is(err, ErrAmbiguousGM) {
		t.Fatalf("expected ErrAmbiguousGM, got %v", err)
	}
	if !strings.Contains(err.Error(), "Bobby") {
		t.Fatalf("ambiguity error should list candidates: %v", err)
	}
}

func TestParser_TransferBeforeHeader(t *testing.T) {
	parser := NewParser(testRoster())

	_, err := parser.Parse(t.Context(), "@Bob to TeamX")
	if !errors.Is(err, ErrMissingHeader) {
		t.Fatalf("expected ErrMissingHeader, got %v", err)
	}
}

func TestParser_SeparatorResetsDestination(t *testing.T) {
	parser := NewParser(testRoster())

	_, err := parser.Parse(t.Context(), "Alice receives:\n@Bob\n---\n@Carol")
	if !errors.Is(err, ErrMissingHeader) {
		t.Fatalf("expected ErrMissingHeader after separator, got %v", err)
	}
}

func TestParser_SingleFranchiseRejected(t *testing.T) {
	parser := NewParser(testRoster())

	_, err := parser.Parse(t.Context(), "Alice receives:\n@Bob to TeamX")
	if !errors.Is(err, ErrTooFewFranchises) {
		t.Fatalf("expected ErrTooFewFranchises, got %v", err)
	}
}

func TestParser_UnknownPlayer(t *testing.T) {
	parser := NewParser(testRoster())

	_, err := parser.Parse(t.Context(), "Alice receives:\n@Nobody\n---\nBob receives:\n@Carol")
	if !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
}
