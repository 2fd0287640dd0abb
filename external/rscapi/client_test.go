package rscapi

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RSC-NA/rsc-core/internal/platform/cache"
	"github.com/RSC-NA/rsc-core/internal/platform/logging"
	"github.com/RSC-NA/rsc-core/internal/platform/resilience"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:  server.URL,
		APIKey:   "test-key",
		LeagueID: 4,
		Timeout:  2 * time.Second,
		Logger:   logging.NewNop(),
	})

	return client, server
}

func TestMembersSendsAuthAndQuery(t *testing.T) {
	var gotAuth, gotSearch string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotSearch = r.URL.Query().Get("rsc_name")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":1,"results":[{"id":7,"discord_id":42,"rsc_name":"Vex"}]}`))
	}))

	members, err := client.Members(t.Context(), "Vex")
	if err != nil {
		t.Fatalf("Members returned error: %v", err)
	}
	if gotAuth != "Api-Key test-key" {
		t.Fatalf("expected api key header, got %q", gotAuth)
	}
	if gotSearch != "Vex" {
		t.Fatalf("expected rsc_name=Vex, got %q", gotSearch)
	}
	if len(members) != 1 || members[0].DiscordID != 42 {
		t.Fatalf("unexpected members: %+v", members)
	}
}

func TestForEachLeaguePlayerWalksAllPages(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("offset") == "0" {
			_, _ = w.Write([]byte(`{"count":3,"next":"?offset=2","results":[{"id":1,"player_name":"A"},{"id":2,"player_name":"B"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"count":3,"next":"","results":[{"id":3,"player_name":"C"}]}`))
	}))

	var seen []int64
	err := client.ForEachLeaguePlayer(t.Context(), LeaguePlayersOptions{Limit: 2}, func(p LeaguePlayer) error {
		seen = append(seen, p.ID)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachLeaguePlayer returned error: %v", err)
	}
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Fatalf("unexpected players walked: %v", seen)
	}
}

func TestForEachLeaguePlayerStopsOnCallbackError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":2,"next":"?offset=1","results":[{"id":1,"player_name":"A"}]}`))
	}))

	boom := errors.New("stop here")
	err := client.ForEachLeaguePlayer(t.Context(), LeaguePlayersOptions{Limit: 1}, func(LeaguePlayer) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
}

func TestBusinessRejectionSurfacesAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"player is not a free agent"}`))
	}))

	_, err := client.SignPlayer(t.Context(), TransactionRequest{ExecutorDiscordID: 1, PlayerDiscordID: 2, TeamName: "Arctic Foxes Elite"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Reason != "player is not a free agent" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestGetRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Arctic Foxes","prefix":"AF","gm":{"discord_id":9,"rsc_name":"Harlan"}}]`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		LeagueID:   4,
		MaxRetries: 2,
		Logger:     logging.NewNop(),
	})

	franchises, err := client.Franchises(t.Context())
	if err != nil {
		t.Fatalf("Franchises returned error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
	if len(franchises) != 1 || franchises[0].GM.DisplayName != "Harlan" {
		t.Fatalf("unexpected franchises: %+v", franchises)
	}
}

func TestPostIsNeverRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		LeagueID:   4,
		MaxRetries: 3,
		Logger:     logging.NewNop(),
	})

	_, err := client.CutPlayer(t.Context(), TransactionRequest{ExecutorDiscordID: 1, PlayerDiscordID: 2})
	if err == nil {
		t.Fatal("expected error from unavailable upstream")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly 1 attempt for a write, got %d", calls.Load())
	}
}

func TestCircuitBreakerOpensAfterRepeatedFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:  server.URL,
		APIKey:   "test-key",
		LeagueID: 4,
		Logger:   logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		if _, err := client.Tiers(t.Context()); err == nil {
			t.Fatal("expected upstream failure")
		}
	}

	_, err := client.Tiers(t.Context())
	if err == nil || !strings.Contains(err.Error(), "temporarily unavailable") {
		t.Fatalf("expected circuit rejection, got %v", err)
	}
}

func TestSubmitTradeEncodesItems(t *testing.T) {
	var gotBody string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":88,"type":"TRD","first_franchise":"Arctic Foxes"}`))
	}))

	resp, err := client.SubmitTrade(t.Context(), TradeRequest{
		ExecutorDiscordID: 1001,
		Items: []TradeItemRequest{
			{SourceFranchiseID: 1, DestinationFranchiseID: 2, PlayerID: 501, DestinationTeam: "Boulder Bison Elite"},
		},
	})
	if err != nil {
		t.Fatalf("SubmitTrade returned error: %v", err)
	}
	if resp.ID != 88 || resp.Type != "TRD" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !strings.Contains(gotBody, `"destination_team":"Boulder Bison Elite"`) {
		t.Fatalf("trade item not encoded: %s", gotBody)
	}
}

func TestLeagueRosterResolvesPlayersWithFranchise(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/league-players":
			_, _ = w.Write([]byte(`{"count":1,"results":[{"id":501,"player_name":"Vex","tier":"Elite","franchise_id":1}]}`))
		case "/franchises":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Arctic Foxes","prefix":"AF","gm":{"discord_id":1001,"rsc_name":"Harlan"}}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	roster := NewLeagueRoster(client, cache.NewStore(time.Minute))

	player, found, err := roster.PlayerByName(t.Context(), "vex")
	if err != nil {
		t.Fatalf("PlayerByName returned error: %v", err)
	}
	if !found {
		t.Fatal("expected player to be found")
	}
	if player.Franchise.Name != "Arctic Foxes" || player.Tier != "Elite" {
		t.Fatalf("unexpected player: %+v", player)
	}

	candidates, err := roster.GMCandidates(t.Context(), "har")
	if err != nil {
		t.Fatalf("GMCandidates returned error: %v", err)
	}
	if len(candidates) != 1 || candidates[0].GM.DisplayName != "Harlan" {
		t.Fatalf("unexpected candidates: %+v", candidates)
	}
}
