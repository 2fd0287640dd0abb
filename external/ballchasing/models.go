package ballchasing

import (
	"fmt"
	"strings"
)

// APIError is a non-2xx ballchasing response.
type APIError struct {
	Status int
	Reason string
}

func (e *APIError) Error() string {
	reason := strings.TrimSpace(e.Reason)
	if reason == "" {
		reason = "request rejected"
	}
	return fmt.Sprintf("ballchasing status=%d: %s", e.Status, reason)
}

// Group is a replay folder. Groups nest to arbitrary depth; the league files
// replays under season/type/tier/day/match.
type Group struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Link    string `json:"link"`
	Creator string `json:"creator,omitempty"`
}

type groupListEnvelope struct {
	List []Group `json:"list"`
}

type createGroupRequest struct {
	Name                 string `json:"name"`
	Parent               string `json:"parent,omitempty"`
	PlayerIdentification string `json:"player_identification"`
	TeamIdentification   string `json:"team_identification"`
}

type createGroupResponse struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}

// UploadResult reports one replay upload. Duplicate is set when ballchasing
// already holds an identical replay; ID then names the existing one.
type UploadResult struct {
	ID        string
	Link      string
	Duplicate bool
}

type uploadResponse struct {
	ID       string `json:"id"`
	Link     string `json:"link"`
	Error    string `json:"error"`
	Location string `json:"location"`
}

type replayPlayerModel struct {
	Name  string `json:"name"`
	Stats struct {
		Core struct {
			Score   int `json:"score"`
			Goals   int `json:"goals"`
			Assists int `json:"assists"`
			Saves   int `json:"saves"`
			Shots   int `json:"shots"`
		} `json:"core"`
	} `json:"stats"`
}

type replayTeamModel struct {
	Players []replayPlayerModel `json:"players"`
}

type replayModel struct {
	ID      string          `json:"id"`
	MapCode string          `json:"map_code"`
	Blue    replayTeamModel `json:"blue"`
	Orange  replayTeamModel `json:"orange"`
}

type replayListEnvelope struct {
	Count int           `json:"count"`
	Next  string        `json:"next"`
	List  []replayModel `json:"list"`
}
