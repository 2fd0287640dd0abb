package ballchasing

import (
	"context"
	"fmt"
	"strings"

	"github.com/RSC-NA/rsc-core/internal/domain/match"
)

// GroupResolver walks the league's replay-group hierarchy, creating missing
// segments on the way down. Resolution is idempotent: re-resolving the same
// match path finds the existing groups and returns the same leaf ID.
type GroupResolver struct {
	client     *Client
	topGroupID string
}

func NewGroupResolver(client *Client, topGroupID string) *GroupResolver {
	return &GroupResolver{client: client, topGroupID: strings.TrimSpace(topGroupID)}
}

// ResolvePath returns the ID of the leaf group for m, creating every missing
// segment beneath the configured top group. The path is
// season / match type / tier / match day / "Home vs Away".
func (r *GroupResolver) ResolvePath(ctx context.Context, m match.Match) (string, error) {
	if err := m.Validate(); err != nil {
		return "", fmt.Errorf("resolve group path: %w", err)
	}

	dayName, err := m.DayGroupName()
	if err != nil {
		return "", fmt.Errorf("resolve group path: %w", err)
	}

	segments := []string{
		m.SeasonGroupName(),
		m.Type.DisplayName(),
		m.Tier,
		dayName,
		m.GroupName(),
	}

	parentID := r.topGroupID
	for _, segment := range segments {
		groupID, err := r.childByName(ctx, parentID, segment)
		if err != nil {
			return "", err
		}
		if groupID == "" {
			created, err := r.client.CreateGroup(ctx, segment, parentID)
			if err != nil {
				return "", fmt.Errorf("create group segment %q under %q: %w", segment, parentID, err)
			}
			groupID = created.ID
		}
		parentID = groupID
	}

	return parentID, nil
}

func (r *GroupResolver) childByName(ctx context.Context, parentID, name string) (string, error) {
	children, err := r.client.ChildGroups(ctx, parentID)
	if err != nil {
		return "", fmt.Errorf("list group segment %q under %q: %w", name, parentID, err)
	}

	for _, child := range children {
		if strings.EqualFold(strings.TrimSpace(child.Name), strings.TrimSpace(name)) {
			return child.ID, nil
		}
	}

	return "", nil
}
