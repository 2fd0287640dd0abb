package httpapi

import (
	"fmt"
	"io"
	"net/http"

	"github.com/RSC-NA/rsc-core/internal/usecase"
)

const maxReplayUploadBytes = 256 << 20

type uploadedReplayDTO struct {
	FileName string `json:"file_name"`
	RemoteID string `json:"remote_id"`
	Link     string `json:"link,omitempty"`
}

type replayReportDTO struct {
	GroupID    string              `json:"group_id"`
	Uploaded   []uploadedReplayDTO `json:"uploaded"`
	Duplicates map[string]string   `json:"duplicates"`
	Malformed  map[string]string   `json:"malformed"`
}

// ProcessMatchReplays accepts a multipart batch under the "replays" field,
// resolves the match's replay group, and files every fresh replay.
func (h *Handler) ProcessMatchReplays(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProcessMatchReplays")
	defer span.End()

	matchID, err := pathID(r, "matchID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := r.ParseMultipartForm(maxReplayUploadBytes); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid multipart payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	headers := r.MultipartForm.File["replays"]
	if len(headers) == 0 {
		writeError(ctx, w, fmt.Errorf("%w: at least one file under the replays field is required", usecase.ErrInvalidInput))
		return
	}

	files := make([]usecase.ReplayFile, 0, len(headers))
	for _, header := range headers {
		part, err := header.Open()
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: open uploaded file %s: %v", usecase.ErrInvalidInput, header.Filename, err))
			return
		}
		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: read uploaded file %s: %v", usecase.ErrInvalidInput, header.Filename, err))
			return
		}
		files = append(files, usecase.ReplayFile{Name: header.Filename, Data: data})
	}

	m, err := h.matches.MatchByID(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "match lookup failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	report, err := h.replayService.ProcessMatchReplays(ctx, usecase.ProcessReplaysInput{
		Match: m,
		Files: files,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "replay batch failed",
			"match_id", matchID, "uploaded", len(report.Uploaded), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, replayReportResponse(report))
}

func replayReportResponse(report usecase.ReplayReport) replayReportDTO {
	out := replayReportDTO{
		GroupID:    report.GroupID,
		Uploaded:   make([]uploadedReplayDTO, 0, len(report.Uploaded)),
		Duplicates: report.Duplicates,
		Malformed:  report.Malformed,
	}
	for _, item := range report.Uploaded {
		out.Uploaded = append(out.Uploaded, uploadedReplayDTO{
			FileName: item.FileName,
			RemoteID: item.RemoteID,
			Link:     item.Link,
		})
	}
	return out
}
