package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/RSC-NA/rsc-core/external/ballchasing"
	"github.com/RSC-NA/rsc-core/internal/domain/match"
	"github.com/RSC-NA/rsc-core/internal/domain/replay"
	"github.com/RSC-NA/rsc-core/internal/platform/logging"
)

type stubParser struct{}

// Parse treats the file contents as "name:score" pairs, one player per line
// alternating sides, so tests can express stats as plain strings.
func (stubParser) Parse(_ context.Context, fileName string, data []byte) (replay.Parsed, error) {
	if len(data) == 0 || data[0] == '!' {
		return replay.Parsed{}, errors.New("corrupt replay header")
	}

	parsed := replay.Parsed{FileName: fileName, MapCode: "stadium_p"}
	score := int(data[0])
	parsed.Players = []replay.PlayerStats{
		{Name: "Vex", Side: replay.SideBlue, Core: replay.CoreStats{Score: score, Goals: 1}},
		{Name: "Onyx", Side: replay.SideOrange, Core: replay.CoreStats{Score: score + 1}},
	}
	return parsed, nil
}

type fakeHost struct {
	remotes   []replay.Remote
	uploads   []string
	failAfter int
	cancel    context.CancelFunc
	duplicate bool
}

func (h *fakeHost) GroupReplays(_ context.Context, _ string) ([]replay.Remote, error) {
	return h.remotes, nil
}

func (h *fakeHost) UploadReplay(_ context.Context, _ string, fileName string, _ io.Reader) (ballchasing.UploadResult, error) {
	h.uploads = append(h.uploads, fileName)
	if h.cancel != nil && len(h.uploads) >= h.failAfter {
		h.cancel()
	}
	if h.duplicate {
		return ballchasing.UploadResult{ID: "rep-existing", Duplicate: true}, nil
	}
	return ballchasing.UploadResult{ID: fmt.Sprintf("rep-%d", len(h.uploads))}, nil
}

type fakeResolver struct{ id string }

func (r fakeResolver) ResolvePath(_ context.Context, _ match.Match) (string, error) {
	return r.id, nil
}

func testMatch() match.Match {
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

func newReplayFixture(host *fakeHost) *ReplayService {
	return NewReplayService(stubParser{}, host, fakeResolver{id: "grp-1"}, logging.NewNop())
}

func TestReplayService_UploadsFreshReplays(t *testing.T) {
	host := &fakeHost{}
	svc := newReplayFixture(host)

	report, err := svc.ProcessMatchReplays(t.Context(), ProcessReplaysInput{
		Match: testMatch(),
		Files: []ReplayFile{
			{Name: "g1.replay", Data: []byte("a")},
			{Name: "g2.replay", Data: []byte("b")},
		},
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if report.GroupID != "grp-1" {
		t.Fatalf("unexpected group id: %s", report.GroupID)
	}
	if len(report.Uploaded) != 2 || len(report.Duplicates) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(host.uploads) != 2 || host.uploads[0] != "g1.replay" {
		t.Fatalf("uploads out of order: %v", host.uploads)
	}
}

func TestReplayService_SkipsRemoteDuplicates(t *testing.T) {
	// Remote stats for file "a" (score 97/98) already exist in the group.
	host := &fakeHost{remotes: []replay.Remote{{
		ID:      "rep-old",
		MapCode: "stadium_p",
		Players: []replay.PlayerStats{
			{Name: "Vex", Side: replay.SideBlue, Core: replay.CoreStats{Score: 'a', Goals: 1}},
			{Name: "Onyx", Side: replay.SideOrange, Core: replay.CoreStats{Score: 'a' + 1}},
		},
	}}}
	svc := newReplayFixture(host)

	report, err := svc.ProcessMatchReplays(t.Context(), ProcessReplaysInput{
		Match: testMatch(),
		Files: []ReplayFile{
			{Name: "g1.replay", Data: []byte("a")},
			{Name: "g2.replay", Data: []byte("b")},
		},
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if report.Duplicates["g1.replay"] != "rep-old" {
		t.Fatalf("duplicate not detected: %+v", report.Duplicates)
	}
	if len(report.Uploaded) != 1 || report.Uploaded[0].FileName != "g2.replay" {
		t.Fatalf("fresh replay not uploaded: %+v", report.Uploaded)
	}
}

func TestReplayService_RecordsMalformedFiles(t *testing.T) {
	host := &fakeHost{}
	svc := newReplayFixture(host)

	report, err := svc.ProcessMatchReplays(t.Context(), ProcessReplaysInput{
		Match: testMatch(),
		Files: []ReplayFile{
			{Name: "good.replay", Data: []byte("a")},
			{Name: "bad.replay", Data: []byte("!corrupt")},
		},
	})
	if err != nil {
		t.Fatalf("malformed file should not be fatal: %v", err)
	}
	if _, ok := report.Malformed["bad.replay"]; !ok {
		t.Fatalf("malformed file not recorded: %+v", report.Malformed)
	}
	if len(report.Uploaded) != 1 {
		t.Fatalf("good file should still upload: %+v", report.Uploaded)
	}
}

func TestReplayService_HostDuplicateGoesToDuplicates(t *testing.T) {
	host := &fakeHost{duplicate: true}
	svc := newReplayFixture(host)

	report, err := svc.ProcessMatchReplays(t.Context(), ProcessReplaysInput{
		Match: testMatch(),
		Files: []ReplayFile{{Name: "g1.replay", Data: []byte("a")}},
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if len(report.Uploaded) != 0 || report.Duplicates["g1.replay"] != "rep-existing" {
		t.Fatalf("host-side duplicate not recorded: %+v", report)
	}
}

func TestReplayService_CancellationStopsBetweenUploads(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	host := &fakeHost{failAfter: 1, cancel: cancel}
	svc := newReplayFixture(host)

	files := make([]ReplayFile, 0, 4)
	for i := 0; i < 4; i++ {
		files = append(files, ReplayFile{Name: fmt.Sprintf("g%d.replay", i), Data: []byte{byte('a' + i)}})
	}

	report, err := svc.ProcessMatchReplays(ctx, ProcessReplaysInput{Match: testMatch(), Files: files})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(host.uploads) != 1 {
		t.Fatalf("cancellation should stop before the next upload, got %d uploads", len(host.uploads))
	}
	if len(report.Uploaded) != 1 {
		t.Fatalf("finished upload should be reported, got %+v", report.Uploaded)
	}
}

func TestReplayService_ProgressEveryTenAndAtEnd(t *testing.T) {
	host := &fakeHost{}
	svc := newReplayFixture(host)

	files := make([]ReplayFile, 0, 12)
	for i := 0; i < 12; i++ {
		files = append(files, ReplayFile{Name: fmt.Sprintf("g%02d.replay", i), Data: []byte{byte(i + 1)}})
	}

	var notified []int
	_, err := svc.ProcessMatchReplays(t.Context(), ProcessReplaysInput{
		Match: testMatch(),
		Files: files,
		Progress: func(done, total int) {
			if total != 12 {
				t.Fatalf("unexpected total: %d", total)
			}
			notified = append(notified, done)
		},
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if len(notified) != 2 || notified[0] != 10 || notified[1] != 12 {
		t.Fatalf("unexpected progress notifications: %v", notified)
	}
}

func TestReplayService_RejectsEmptyBatch(t *testing.T) {
	svc := newReplayFixture(&fakeHost{})

	_, err := svc.ProcessMatchReplays(t.Context(), ProcessReplaysInput{Match: testMatch()})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
