package franchise

import "fmt"

// Franchise is a league organization owning one team per tier, led by a
// General Manager.
type Franchise struct {
	ID     int64
	Name   string
	Prefix string
	GM     GeneralManager
}

// GeneralManager identifies the guild member leading a franchise. DisplayName
// is the member's current guild display name with any team prefix stripped.
type GeneralManager struct {
	MemberID    int64
	DisplayName string
}

// Team is one tiered roster inside a franchise.
type Team struct {
	ID          int64
	Name        string
	Tier        string
	FranchiseID int64
}

func (f Franchise) Validate() error {
	if f.ID <= 0 {
		return fmt.Errorf("franchise id is required")
	}
	if f.Name == "" {
		return fmt.Errorf("franchise name is required")
	}
	if f.GM.DisplayName == "" {
		return fmt.Errorf("franchise gm display name is required")
	}

	return nil
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Tier == "" {
		return fmt.Errorf("team tier is required")
	}
	if t.FranchiseID <= 0 {
		return fmt.Errorf("team franchise id is required")
	}

	return nil
}
