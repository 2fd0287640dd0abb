package replay

import (
	"fmt"
	"strings"
)

// DuplicateOf compares a locally parsed replay against remote records and
// returns the id of the first remote replay it duplicates, in remote list
// order. Returns "" when the candidate is new. Malformed stat data on either
// side is an error, not a skip.
func DuplicateOf(candidate Parsed, remotes []Remote) (string, error) {
	if err := candidate.Validate(); err != nil {
		return "", err
	}

	for _, remote := range remotes {
		if err := remote.Validate(); err != nil {
			return "", err
		}
		if matches(candidate, remote) {
			return remote.ID, nil
		}
	}

	return "", nil
}

// FilterNew partitions candidates into those not yet present remotely and the
// duplicate ids of the rest, preserving candidate order.
func FilterNew(candidates []Parsed, remotes []Remote) (fresh []Parsed, duplicates map[string]string, err error) {
	duplicates = make(map[string]string)
	for _, candidate := range candidates {
		remoteID, err := DuplicateOf(candidate, remotes)
		if err != nil {
			return nil, nil, fmt.Errorf("check replay %q: %w", candidate.FileName, err)
		}
		if remoteID != "" {
			duplicates[candidate.FileName] = remoteID
			continue
		}
		fresh = append(fresh, candidate)
	}

	return fresh, duplicates, nil
}

// matches reports whether every candidate player row finds a same-side remote
// counterpart agreeing exactly on name and all core stats. Comparison is by
// content only; file identity never factors in.
func matches(candidate Parsed, remote Remote) bool {
	// Map codes gate the comparison only when both sides report one.
	if candidate.MapCode != "" && remote.MapCode != "" &&
		!strings.EqualFold(candidate.MapCode, remote.MapCode) {
		return false
	}

	used := make([]bool, len(remote.Players))
	for _, row := range candidate.Players {
		if !claimCounterpart(row, remote.Players, used) {
			return false
		}
	}

	return true
}

func claimCounterpart(row PlayerStats, pool []PlayerStats, used []bool) bool {
	for i, other := range pool {
		if used[i] || other.Side != row.Side {
			continue
		}
		if !strings.EqualFold(other.Name, row.Name) {
			continue
		}
		if other.Core != row.Core {
			continue
		}
		used[i] = true
		return true
	}

	return false
}
