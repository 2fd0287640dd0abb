package trade

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/RSC-NA/rsc-core/internal/domain/franchise"
)

var (
	ErrUnknownLine      = errors.New("line matches no trade grammar")
	ErrMissingHeader    = errors.New("transfer line before any receiving franchise")
	ErrTooFewFranchises = errors.New("trade must involve at least two franchises")
	ErrUnknownGM        = errors.New("gm name matches no franchise")
	ErrAmbiguousGM      = errors.New("gm name matches multiple franchises")
	ErrUnknownPlayer    = errors.New("player matches no league record")
	ErrPlayerNotSigned  = errors.New("player is not on a franchise")
	ErrNoTeamAtTier     = errors.New("destination franchise has no team at tier")
	ErrAmbiguousTeam    = errors.New("destination franchise has multiple teams at tier")
	ErrMissingPickOwner = errors.New("pick owner cannot be inferred")
)

const separator = "---"

// One regex per line grammar, matched independently and case-insensitively.
var (
	gmHeaderRegex    = regexp.MustCompile(`(?i)^(.+?)\s+receives:$`)
	playerLineRegex  = regexp.MustCompile(`(?i)^@(.+?)(?:\s+to\s+(.+))?$`)
	futurePickRegex  = regexp.MustCompile(`(?i)^(.+?)'s\s+S(\d+)\s+(\d+)(?:st|nd|rd|th)\s+Round\s+(.+)$`)
	currentPickRegex = regexp.MustCompile(`(?i)^(?:(.+?)\s+)?(\d+)(?:st|nd|rd|th)\s+Round\s+(.+?)\s+\((\d+)\)$`)
)

// Parser converts a trade announcement into transfer items. The announcement
// lists each GM's incoming assets under a "<gm> receives:" header; paragraphs
// are separated by "---" lines.
type Parser struct {
	roster Roster
}

func NewParser(roster Roster) *Parser {
	return &Parser{roster: roster}
}

// pendingItem defers pick-owner inference for current-season picks written
// without a GM prefix, which is legal in two-way trades.
type pendingItem struct {
	item        Item
	destination franchise.Franchise
	needsOwner  bool
}

func (p *Parser) Parse(ctx context.Context, text string) ([]Item, error) {
	var (
		dest     *franchise.Franchise
		pending  []pendingItem
		involved = make(map[int64]franchise.Franchise)
	)

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if line == separator {
			dest = nil
			continue
		}

		if m := gmHeaderRegex.FindStringSubmatch(line); m != nil {
			f, err := p.resolveGM(ctx, m[1])
			if err != nil {
				return nil, err
			}
			dest = &f
			involved[f.ID] = f
			continue
		}

		if dest == nil {
			return nil, fmt.Errorf("%w: %q", ErrMissingHeader, line)
		}

		item, needsOwner, err := p.parseTransferLine(ctx, line, *dest)
		if err != nil {
			return nil, err
		}
		pending = append(pending, pendingItem{item: item, destination: *dest, needsOwner: needsOwner})
	}

	if len(involved) < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrTooFewFranchises, len(involved))
	}

	items := make([]Item, 0, len(pending))
	for _, entry := range pending {
		if entry.needsOwner {
			other, err := counterparty(involved, entry.destination.ID)
			if err != nil {
				return nil, err
			}
			entry.item.Source = RefOf(other)
		}
		items = append(items, entry.item)
	}

	return items, nil
}

func (p *Parser) parseTransferLine(ctx context.Context, line string, dest franchise.Franchise) (Item, bool, error) {
	if m := playerLineRegex.FindStringSubmatch(line); m != nil {
		item, err := p.parsePlayerLine(ctx, m, dest)
		return item, false, err
	}
	if m := futurePickRegex.FindStringSubmatch(line); m != nil {
		item, err := p.parseFuturePickLine(ctx, m, dest)
		return item, false, err
	}
	if m := currentPickRegex.FindStringSubmatch(line); m != nil {
		return p.parseCurrentPickLine(ctx, m, dest)
	}

	return Item{}, false, fmt.Errorf("%w: %q", ErrUnknownLine, line)
}

func (p *Parser) parsePlayerLine(ctx context.Context, m []string, dest franchise.Franchise) (Item, error) {
	name := strings.TrimSpace(m[1])
	player, found, err := p.roster.PlayerByName(ctx, name)
	if err != nil {
		return Item{}, fmt.Errorf("resolve player %q: %w", name, err)
	}
	if !found {
		return Item{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, name)
	}
	if player.Franchise.ID <= 0 {
		return Item{}, fmt.Errorf("%w: %q", ErrPlayerNotSigned, name)
	}

	destTeam := strings.TrimSpace(m[2])
	if destTeam == "" {
		destTeam, err = p.soleTeamAtTier(ctx, dest, player.Tier)
		if err != nil {
			return Item{}, err
		}
	}

	return Item{
		Source:      RefOf(player.Franchise),
		Destination: RefOf(dest),
		Value: Value{Player: &PlayerValue{
			PlayerID: player.ID,
			Name:     player.Name,
			DestTeam: destTeam,
		}},
	}, nil
}

func (p *Parser) parseFuturePickLine(ctx context.Context, m []string, dest franchise.Franchise) (Item, error) {
	owner, err := p.resolveGM(ctx, m[1])
	if err != nil {
		return Item{}, err
	}
	season, _ := strconv.Atoi(m[2])
	round, _ := strconv.Atoi(m[3])

	return Item{
		Source:      RefOf(owner),
		Destination: RefOf(dest),
		Value: Value{Pick: &PickValue{
			Tier:   strings.TrimSpace(m[4]),
			Round:  round,
			Season: season,
			Future: true,
		}},
	}, nil
}

func (p *Parser) parseCurrentPickLine(ctx context.Context, m []string, dest franchise.Franchise) (Item, bool, error) {
	round, _ := strconv.Atoi(m[2])
	number, _ := strconv.Atoi(m[4])
	value := Value{Pick: &PickValue{
		Tier:   strings.TrimSpace(m[3]),
		Round:  round,
		Number: number,
	}}

	ownerName := strings.TrimSpace(m[1])
	if ownerName == "" {
		// Two-way trades omit the owner; inferred once every franchise
		// in the announcement is known.
		return Item{Destination: RefOf(dest), Value: value}, true, nil
	}

	owner, err := p.resolveGM(ctx, ownerName)
	if err != nil {
		return Item{}, false, err
	}

	return Item{Source: RefOf(owner), Destination: RefOf(dest), Value: value}, false, nil
}

// resolveGM requires a unique prefix match. The source system resolved
// ambiguous prefixes to whichever member iterated first; here ambiguity is
// surfaced to the announcer instead.
func (p *Parser) resolveGM(ctx context.Context, namePrefix string) (franchise.Franchise, error) {
	namePrefix = strings.TrimSpace(namePrefix)
	candidates, err := p.roster.GMCandidates(ctx, namePrefix)
	if err != nil {
		return franchise.Franchise{}, fmt.Errorf("resolve gm %q: %w", namePrefix, err)
	}

	switch len(candidates) {
	case 0:
		return franchise.Franchise{}, fmt.Errorf("%w: %q", ErrUnknownGM, namePrefix)
	case 1:
		return candidates[0], nil
	default:
		names := make([]string, 0, len(candidates))
		for _, c := range candidates {
			names = append(names, c.GM.DisplayName)
		}
		return franchise.Franchise{}, fmt.Errorf("%w: %q matches %s", ErrAmbiguousGM, namePrefix, strings.Join(names, ", "))
	}
}

func (p *Parser) soleTeamAtTier(ctx context.Context, dest franchise.Franchise, tier string) (string, error) {
	teams, err := p.roster.FranchiseTeams(ctx, dest.ID)
	if err != nil {
		return "", fmt.Errorf("list teams for franchise %q: %w", dest.Name, err)
	}

	var matches []franchise.Team
	for _, t := range teams {
		if strings.EqualFold(t.Tier, tier) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: franchise=%s tier=%s", ErrNoTeamAtTier, dest.Name, tier)
	case 1:
		return matches[0].Name, nil
	default:
		return "", fmt.Errorf("%w: franchise=%s tier=%s count=%d", ErrAmbiguousTeam, dest.Name, tier, len(matches))
	}
}

func counterparty(involved map[int64]franchise.Franchise, destID int64) (franchise.Franchise, error) {
	if len(involved) != 2 {
		return franchise.Franchise{}, fmt.Errorf("%w: %d franchises in announcement", ErrMissingPickOwner, len(involved))
	}
	for id, f := range involved {
		if id != destID {
			return f, nil
		}
	}

	return franchise.Franchise{}, fmt.Errorf("%w: destination is the only franchise", ErrMissingPickOwner)
}
