package rscapi

import (
	"fmt"
	"strings"
	"time"
)

// APIError is the league API's business-error payload: an HTTP status plus a
// human-readable reason. All rule enforcement (eligibility, contract limits,
// MMR) happens server-side and surfaces through this type.
type APIError struct {
	Status int
	Reason string
}

func (e *APIError) Error() string {
	reason := strings.TrimSpace(e.Reason)
	if reason == "" {
		reason = "request rejected"
	}
	return fmt.Sprintf("league api status=%d: %s", e.Status, reason)
}

// Member is a Discord-linked league account.
type Member struct {
	ID          int64  `json:"id"`
	DiscordID   int64  `json:"discord_id"`
	Username    string `json:"rsc_name"`
	DisplayName string `json:"display_name"`
}

// LeaguePlayer is a member's per-league competitive record.
type LeaguePlayer struct {
	ID            int64  `json:"id"`
	MemberID      int64  `json:"member_id"`
	Name          string `json:"player_name"`
	Status        string `json:"status"`
	Tier          string `json:"tier"`
	TeamName      string `json:"team_name"`
	FranchiseID   int64  `json:"franchise_id"`
	FranchiseName string `json:"franchise_name"`
	CurrentMMR    int    `json:"current_mmr"`
}

// Player statuses mirrored from the league API.
const (
	StatusFreeAgent     = "FA"
	StatusDraftEligible = "DE"
	StatusRostered      = "RO"
	StatusInactive      = "IR"
)

type franchiseModel struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
	GM     struct {
		DiscordID   int64  `json:"discord_id"`
		DisplayName string `json:"rsc_name"`
	} `json:"gm"`
}

type teamModel struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Tier        string `json:"tier"`
	FranchiseID int64  `json:"franchise_id"`
}

type tierModel struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Position int    `json:"position"`
}

// Tier is a skill-based competitive division.
type Tier struct {
	ID       int64
	Name     string
	Color    string
	Position int
}

// TrackerLink is a third-party stats profile attached to a member.
type TrackerLink struct {
	ID       int64  `json:"id"`
	MemberID int64  `json:"member_id"`
	Platform string `json:"platform"`
	Name     string `json:"name"`
	URL      string `json:"link"`
	Status   string `json:"status"`
}

type matchModel struct {
	ID        int64  `json:"id"`
	Season    int    `json:"season"`
	MatchType string `json:"match_type"`
	Tier      string `json:"tier"`
	Day       int    `json:"day"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	PlayedAt  string `json:"var_date"`
}

// TradeItemRequest is one asset transfer inside a trade submission.
type TradeItemRequest struct {
	SourceFranchiseID      int64  `json:"source_franchise"`
	DestinationFranchiseID int64  `json:"destination_franchise"`
	PlayerID               int64  `json:"player,omitempty"`
	DestinationTeam        string `json:"destination_team,omitempty"`
	PickTier               string `json:"pick_tier,omitempty"`
	PickRound              int    `json:"pick_round,omitempty"`
	PickNumber             int    `json:"pick_number,omitempty"`
	PickSeason             int    `json:"pick_season,omitempty"`
	FuturePick             bool   `json:"future_pick,omitempty"`
}

// TradeRequest submits a multi-item trade on behalf of an executor.
type TradeRequest struct {
	ExecutorDiscordID int64              `json:"executor"`
	Notes             string             `json:"notes,omitempty"`
	Items             []TradeItemRequest `json:"trade_items"`
}

// TransactionRequest covers single-player moves: sign, cut, re-sign, sub.
type TransactionRequest struct {
	ExecutorDiscordID int64  `json:"executor"`
	PlayerDiscordID   int64  `json:"player"`
	TeamName          string `json:"team,omitempty"`
	// PlayerOutDiscordID is only set for substitutions.
	PlayerOutDiscordID int64 `json:"player_out,omitempty"`
}

// TransactionResponse echoes the committed transaction for audit channels.
type TransactionResponse struct {
	ID              int64          `json:"id"`
	Type            string         `json:"type"`
	FirstFranchise  string         `json:"first_franchise"`
	SecondFranchise string         `json:"second_franchise,omitempty"`
	PlayerUpdates   []LeaguePlayer `json:"player_updates"`
	CompletedAt     time.Time      `json:"var_date"`
}

type pagedPlayersEnvelope struct {
	Count   int64          `json:"count"`
	Next    string         `json:"next"`
	Results []LeaguePlayer `json:"results"`
}

type membersEnvelope struct {
	Count   int64    `json:"count"`
	Next    string   `json:"next"`
	Results []Member `json:"results"`
}

// LeaguePlayersPage is one page of a league-player listing.
type LeaguePlayersPage struct {
	Players []LeaguePlayer
	Total   int64
	HasNext bool
}

// LeaguePlayersOptions filters a league-player listing.
type LeaguePlayersOptions struct {
	Status string
	Tier   string
	Search string
	Limit  int
	Offset int
}
