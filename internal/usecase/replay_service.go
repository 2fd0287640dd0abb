package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/RSC-NA/rsc-core/external/ballchasing"
	"github.com/RSC-NA/rsc-core/internal/domain/match"
	"github.com/RSC-NA/rsc-core/internal/domain/replay"
	"github.com/RSC-NA/rsc-core/internal/platform/logging"
)

const (
	defaultParseWorkers = 4
	progressNotifyEvery = 10
	maxReplayBatchFiles = 64
	maxReplayFileBytes  = 10 << 20
)

// ReplayParser extracts per-player core stats from a raw replay file.
type ReplayParser interface {
	Parse(ctx context.Context, fileName string, data []byte) (replay.Parsed, error)
}

type replayHost interface {
	GroupReplays(ctx context.Context, groupID string) ([]replay.Remote, error)
	UploadReplay(ctx context.Context, groupID, fileName string, contents io.Reader) (ballchasing.UploadResult, error)
}

type groupPathResolver interface {
	ResolvePath(ctx context.Context, m match.Match) (string, error)
}

// ProgressSink receives upload progress. done counts finished uploads out of
// total fresh replays.
type ProgressSink func(done, total int)

type ReplayFile struct {
	Name string
	Data []byte
}

type ProcessReplaysInput struct {
	Match    match.Match
	Files    []ReplayFile
	Progress ProgressSink
}

type UploadedReplay struct {
	FileName string
	RemoteID string
	Link     string
}

// ReplayReport is the outcome of one match-replay batch. Every input file
// lands in exactly one of Uploaded, Duplicates, or Malformed.
type ReplayReport struct {
	GroupID    string
	Uploaded   []UploadedReplay
	Duplicates map[string]string
	Malformed  map[string]string
}

// ReplayService files match replays into the hosting service. Local parsing
// fans out over a worker pool; uploads run strictly one at a time so a
// cancellation between files never abandons a half-sent replay.
type ReplayService struct {
	parser       ReplayParser
	host         replayHost
	resolver     groupPathResolver
	logger       *logging.Logger
	parseWorkers int
}

func NewReplayService(parser ReplayParser, host replayHost, resolver groupPathResolver, logger *logging.Logger) *ReplayService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReplayService{
		parser:       parser,
		host:         host,
		resolver:     resolver,
		logger:       logger,
		parseWorkers: defaultParseWorkers,
	}
}

// SetParseWorkers overrides the parse pool size. Values below 1 are ignored.
func (s *ReplayService) SetParseWorkers(n int) {
	if n > 0 {
		s.parseWorkers = n
	}
}

func (s *ReplayService) ProcessMatchReplays(ctx context.Context, input ProcessReplaysInput) (ReplayReport, error) {
	ctx, span := startUsecaseSpan(ctx, "ReplayService.ProcessMatchReplays")
	defer span.End()

	if len(input.Files) == 0 {
		return ReplayReport{}, fmt.Errorf("%w: at least one replay file is required", ErrInvalidInput)
	}
	if len(input.Files) > maxReplayBatchFiles {
		return ReplayReport{}, fmt.Errorf("%w: batch exceeds %d files", ErrInvalidInput, maxReplayBatchFiles)
	}
	for _, file := range input.Files {
		if file.Name == "" {
			return ReplayReport{}, fmt.Errorf("%w: replay file name is required", ErrInvalidInput)
		}
		if len(file.Data) == 0 || len(file.Data) > maxReplayFileBytes {
			return ReplayReport{}, fmt.Errorf("%w: replay file %s is empty or oversized", ErrInvalidInput, file.Name)
		}
	}
	if err := input.Match.Validate(); err != nil {
		return ReplayReport{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	report := ReplayReport{
		Duplicates: map[string]string{},
		Malformed:  map[string]string{},
	}

	parsed := s.parseAll(ctx, input.Files, report.Malformed)

	groupID, err := s.resolver.ResolvePath(ctx, input.Match)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("resolve replay group: %w", err)
	}
	report.GroupID = groupID

	remotes, err := s.host.GroupReplays(ctx, groupID)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("list existing replays: %w", err)
	}

	fresh, duplicates, err := replay.FilterNew(parsed, remotes)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("detect duplicate replays: %w", err)
	}
	for fileName, remoteID := range duplicates {
		report.Duplicates[fileName] = remoteID
	}

	byName := make(map[string][]byte, len(input.Files))
	for _, file := range input.Files {
		byName[file.Name] = file.Data
	}

	total := len(fresh)
	for i, candidate := range fresh {
		if err := ctx.Err(); err != nil {
			s.logger.WarnContext(ctx, "replay batch cancelled",
				"group_id", groupID, "uploaded", len(report.Uploaded), "remaining", total-i)
			return report, err
		}

		result, err := s.host.UploadReplay(ctx, groupID, candidate.FileName, bytes.NewReader(byName[candidate.FileName]))
		if err != nil {
			return report, fmt.Errorf("upload replay %s: %w", candidate.FileName, err)
		}

		if result.Duplicate {
			report.Duplicates[candidate.FileName] = result.ID
		} else {
			report.Uploaded = append(report.Uploaded, UploadedReplay{
				FileName: candidate.FileName,
				RemoteID: result.ID,
				Link:     result.Link,
			})
		}

		done := i + 1
		if input.Progress != nil && (done%progressNotifyEvery == 0 || done == total) {
			input.Progress(done, total)
		}
	}

	s.logger.InfoContext(ctx, "replay batch processed",
		"group_id", groupID,
		"uploaded", len(report.Uploaded),
		"duplicates", len(report.Duplicates),
		"malformed", len(report.Malformed))

	return report, nil
}

// parseAll parses the batch concurrently. Files that fail to parse or carry
// no usable stats are recorded as malformed, never fatal.
func (s *ReplayService) parseAll(ctx context.Context, files []ReplayFile, malformed map[string]string) []replay.Parsed {
	workerCount := s.parseWorkers
	if workerCount > len(files) {
		workerCount = len(files)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		// Fall back to inline parsing when the pool cannot start.
		return s.parseSequential(ctx, files, malformed)
	}
	defer pool.Release()

	var mu sync.Mutex
	var workers sync.WaitGroup
	out := make([]replay.Parsed, 0, len(files))

	for _, file := range files {
		file := file
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			item, parseErr := s.parseOne(ctx, file)
			mu.Lock()
			defer mu.Unlock()
			if parseErr != nil {
				malformed[file.Name] = parseErr.Error()
				return
			}
			out = append(out, item)
		}); err != nil {
			workers.Done()
			mu.Lock()
			malformed[file.Name] = fmt.Sprintf("schedule parse: %v", err)
			mu.Unlock()
		}
	}
	workers.Wait()

	return orderLike(files, out)
}

func (s *ReplayService) parseSequential(ctx context.Context, files []ReplayFile, malformed map[string]string) []replay.Parsed {
	out := make([]replay.Parsed, 0, len(files))
	for _, file := range files {
		item, err := s.parseOne(ctx, file)
		if err != nil {
			malformed[file.Name] = err.Error()
			continue
		}
		out = append(out, item)
	}
	return out
}

func (s *ReplayService) parseOne(ctx context.Context, file ReplayFile) (replay.Parsed, error) {
	item, err := s.parser.Parse(ctx, file.Name, file.Data)
	if err != nil {
		return replay.Parsed{}, err
	}
	item.FileName = file.Name
	if err := item.Validate(); err != nil {
		return replay.Parsed{}, err
	}
	return item, nil
}

// orderLike restores the caller's file order after concurrent parsing so
// uploads happen in a deterministic sequence.
func orderLike(files []ReplayFile, parsed []replay.Parsed) []replay.Parsed {
	byName := make(map[string]replay.Parsed, len(parsed))
	for _, item := range parsed {
		byName[item.FileName] = item
	}

	out := make([]replay.Parsed, 0, len(parsed))
	for _, file := range files {
		if item, ok := byName[file.Name]; ok {
			out = append(out, item)
		}
	}
	return out
}
