package match

import "testing"

func TestMatch_DayGroupName_RegularSeason(t *testing.T) {
	m := Match{Season: 22, Type: TypeRegular, Tier: "Elite", Day: 3, HomeTeam: "Spartans", AwayTeam: "Vikings"}

	name, err := m.DayGroupName()
	if err != nil {
		t.Fatalf("day group name failed: %v", err)
	}
	if name != "Match Day 03" {
		t.Fatalf("expected Match Day 03, got %q", name)
	}
}

func TestMatch_DayGroupName_Postseason(t *testing.T) {
	m := Match{Season: 22, Type: TypePostseason, Tier: "Elite", Day: 3, HomeTeam: "Spartans", AwayTeam: "Vikings"}

	name, err := m.DayGroupName()
	if err != nil {
		t.Fatalf("day group name failed: %v", err)
	}
	if name != "Semifinals" {
		t.Fatalf("expected Semifinals, got %q", name)
	}
}

func TestMatch_DayGroupName_UnknownPostseasonRound(t *testing.T) {
	m := Match{Season: 22, Type: TypePostseason, Tier: "Elite", Day: 9, HomeTeam: "Spartans", AwayTeam: "Vikings"}

	if _, err := m.DayGroupName(); err == nil {
		t.Fatal("expected error for unknown postseason round")
	}
}

func TestMatch_DayGroupName_MissingDay(t *testing.T) {
	m := Match{Season: 22, Type: TypeRegular, Tier: "Elite", HomeTeam: "Spartans", AwayTeam: "Vikings"}

	if _, err := m.DayGroupName(); err == nil {
		t.Fatal("expected error for missing match day")
	}
}

func TestMatch_GroupNames(t *testing.T) {
	m := Match{Season: 7, Type: TypeRegular, Tier: "Major", Day: 12, HomeTeam: "Spartans", AwayTeam: "Vikings"}

	if got := m.SeasonGroupName(); got != "Season 7" {
		t.Fatalf("unexpected season group name: %q", got)
	}
	if got := m.GroupName(); got != "Spartans vs Vikings" {
		t.Fatalf("unexpected match group name: %q", got)
	}
}
