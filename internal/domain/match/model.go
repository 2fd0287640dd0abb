package match

import "fmt"

// Type categorizes a scheduled match for grouping and reporting.
type Type string

const (
	TypeRegular    Type = "REG"
	TypePostseason Type = "POST"
	TypePreseason  Type = "PRE"
)

var AllTypes = map[Type]struct{}{
	TypeRegular:    {},
	TypePostseason: {},
	TypePreseason:  {},
}

// DisplayName is the human-facing label used as a replay group segment.
func (t Type) DisplayName() string {
	switch t {
	case TypeRegular:
		return "Regular Season"
	case TypePostseason:
		return "Postseason"
	case TypePreseason:
		return "Preseason"
	default:
		return string(t)
	}
}

// Postseason match days encode the playoff round instead of a calendar slot.
var postseasonRounds = map[int]string{
	1: "Wildcard",
	2: "Quarterfinals",
	3: "Semifinals",
	4: "Finals",
}

// Match is the scheduling record replays are filed under. Day is a 1-based
// match day for regular play, or a playoff round code for postseason.
type Match struct {
	ID       int64
	Season   int
	Type     Type
	Tier     string
	Day      int
	HomeTeam string
	AwayTeam string
}

func (m Match) Validate() error {
	if m.Season <= 0 {
		return fmt.Errorf("match season is required")
	}
	if _, ok := AllTypes[m.Type]; !ok {
		return fmt.Errorf("unknown match type: %s", m.Type)
	}
	if m.Tier == "" {
		return fmt.Errorf("match tier is required")
	}
	if m.Day <= 0 {
		return fmt.Errorf("match day is required")
	}
	if m.HomeTeam == "" || m.AwayTeam == "" {
		return fmt.Errorf("match home and away teams are required")
	}

	return nil
}

// SeasonGroupName names the season level of the replay group hierarchy.
func (m Match) SeasonGroupName() string {
	return fmt.Sprintf("Season %d", m.Season)
}

// DayGroupName names the match-day level: "Match Day 03" for regular play,
// the playoff round's capitalized name for postseason matches.
func (m Match) DayGroupName() (string, error) {
	if m.Day <= 0 {
		return "", fmt.Errorf("match day is required to name the group segment")
	}
	if m.Type == TypePostseason {
		round, ok := postseasonRounds[m.Day]
		if !ok {
			return "", fmt.Errorf("unknown postseason round: day=%d", m.Day)
		}
		return round, nil
	}

	return fmt.Sprintf("Match Day %02d", m.Day), nil
}

// GroupName names the leaf level holding the match's replays.
func (m Match) GroupName() string {
	return fmt.Sprintf("%s vs %s", m.HomeTeam, m.AwayTeam)
}
