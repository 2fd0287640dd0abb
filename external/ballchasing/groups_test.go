package ballchasing

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/RSC-NA/rsc-core/internal/domain/match"
	"github.com/RSC-NA/rsc-core/internal/platform/logging"
)

// fakeGroupServer is an in-memory ballchasing groups API.
type fakeGroupServer struct {
	mu      sync.Mutex
	nextID  int
	groups  map[string][]Group // parent id -> children
	creates int
}

func newFakeGroupServer() *fakeGroupServer {
	return &fakeGroupServer{groups: map[string][]Group{}}
}

func (s *fakeGroupServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /groups", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		children := append([]Group(nil), s.groups[r.URL.Query().Get("group")]...)
		s.mu.Unlock()

		raw, _ := sonic.Marshal(groupListEnvelope{List: children})
		_, _ = w.Write(raw)
	})
	mux.HandleFunc("POST /groups", func(w http.ResponseWriter, r *http.Request) {
		var req createGroupRequest
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		s.creates++
		s.nextID++
		id := fmt.Sprintf("grp-%d", s.nextID)
		s.groups[req.Parent] = append(s.groups[req.Parent], Group{ID: id, Name: req.Name})
		s.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		raw, _ := sonic.Marshal(createGroupResponse{ID: id})
		_, _ = w.Write(raw)
	})
	return mux
}

func (s *fakeGroupServer) createCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates
}

func newGroupTestResolver(t *testing.T, top string) (*GroupResolver, *fakeGroupServer) {
	t.Helper()

	fake := newFakeGroupServer()
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "test-token",
		Timeout: 2 * time.Second,
		Logger:  logging.NewNop(),
	})

	return NewGroupResolver(client, top), fake
}

func regularMatch() match.Match {
	return match.Match{
		ID:       301,
		Season:   19,
		Type:     match.TypeRegular,
		Tier:     "Elite",
		Day:      3,
		HomeTeam: "Arctic Foxes Elite",
		AwayTeam: "Boulder Bison Elite",
	}
}

func TestResolvePathCreatesMissingSegments(t *testing.T) {
	resolver, fake := newGroupTestResolver(t, "top")

	leafID, err := resolver.ResolvePath(t.Context(), regularMatch())
	if err != nil {
		t.Fatalf("ResolvePath returned error: %v", err)
	}
	if leafID == "" {
		t.Fatal("expected a leaf group id")
	}
	if fake.createCount() != 5 {
		t.Fatalf("expected 5 created segments, got %d", fake.createCount())
	}
}

func TestResolvePathIsIdempotent(t *testing.T) {
	resolver, fake := newGroupTestResolver(t, "top")

	first, err := resolver.ResolvePath(t.Context(), regularMatch())
	if err != nil {
		t.Fatalf("first ResolvePath returned error: %v", err)
	}
	second, err := resolver.ResolvePath(t.Context(), regularMatch())
	if err != nil {
		t.Fatalf("second ResolvePath returned error: %v", err)
	}

	if first != second {
		t.Fatalf("leaf id changed across resolutions: %s vs %s", first, second)
	}
	if fake.createCount() != 5 {
		t.Fatalf("re-resolution created groups: %d creates", fake.createCount())
	}
}

func TestResolvePathReusesSharedPrefix(t *testing.T) {
	resolver, fake := newGroupTestResolver(t, "top")

	if _, err := resolver.ResolvePath(t.Context(), regularMatch()); err != nil {
		t.Fatalf("first ResolvePath returned error: %v", err)
	}

	other := regularMatch()
	other.Day = 4
	other.AwayTeam = "Cinder Wolves Elite"
	if _, err := resolver.ResolvePath(t.Context(), other); err != nil {
		t.Fatalf("second ResolvePath returned error: %v", err)
	}

	// Season, type, and tier are shared; only the day and match leaf differ.
	if fake.createCount() != 7 {
		t.Fatalf("expected 7 total creates, got %d", fake.createCount())
	}
}

func TestResolvePathNamesPostseasonRounds(t *testing.T) {
	resolver, _ := newGroupTestResolver(t, "top")

	m := regularMatch()
	m.Type = match.TypePostseason
	m.Day = 3

	if _, err := resolver.ResolvePath(t.Context(), m); err != nil {
		t.Fatalf("ResolvePath returned error: %v", err)
	}

	client := resolver.client
	seasonID := mustChildID(t, client, "top", "Season 19")
	typeID := mustChildID(t, client, seasonID, "Postseason")
	tierID := mustChildID(t, client, typeID, "Elite")
	if id := mustChildID(t, client, tierID, "Semifinals"); id == "" {
		t.Fatal("expected Semifinals group segment")
	}
}

func TestResolvePathRejectsUnknownRound(t *testing.T) {
	resolver, fake := newGroupTestResolver(t, "top")

	m := regularMatch()
	m.Type = match.TypePostseason
	m.Day = 9

	if _, err := resolver.ResolvePath(t.Context(), m); err == nil {
		t.Fatal("expected error for unknown postseason round")
	}
	if fake.createCount() != 0 {
		t.Fatalf("invalid path created groups: %d creates", fake.createCount())
	}
}

func mustChildID(t *testing.T, client *Client, parentID, name string) string {
	t.Helper()

	children, err := client.ChildGroups(t.Context(), parentID)
	if err != nil {
		t.Fatalf("ChildGroups returned error: %v", err)
	}
	for _, child := range children {
		if child.Name == name {
			return child.ID
		}
	}

	t.Fatalf("segment %q not found under %q", name, parentID)
	return ""
}
