package ballchasing

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/RSC-NA/rsc-core/internal/domain/replay"
	"github.com/RSC-NA/rsc-core/internal/platform/logging"
)

const (
	defaultBaseURL = "https://ballchasing.com/api"
	maxBodySize    = 4 << 20
	pageSize       = 200
)

var errBallchasingTransient = crerr.New("ballchasing transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
}

// Client talks to the ballchasing replay-hosting API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	maxRetries int
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		// Uploads carry whole replay files.
		httpClient.Timeout = 60 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// ChildGroups lists the direct children of parentID. An empty parentID lists
// the caller's top-level groups.
func (c *Client) ChildGroups(ctx context.Context, parentID string) ([]Group, error) {
	values := url.Values{}
	values.Set("count", fmt.Sprintf("%d", pageSize))
	if strings.TrimSpace(parentID) != "" {
		values.Set("group", strings.TrimSpace(parentID))
	}

	var envelope groupListEnvelope
	if err := c.getJSON(ctx, "/groups", values, &envelope); err != nil {
		return nil, fmt.Errorf("list groups parent=%q: %w", parentID, err)
	}

	return envelope.List, nil
}

// CreateGroup creates a child group under parentID with the league's fixed
// identification settings so per-player stats line up across replays.
func (c *Client) CreateGroup(ctx context.Context, name, parentID string) (Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Group{}, fmt.Errorf("group name is required")
	}

	payload := createGroupRequest{
		Name:                 name,
		Parent:               strings.TrimSpace(parentID),
		PlayerIdentification: "by-id",
		TeamIdentification:   "by-distinct-players",
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return Group{}, fmt.Errorf("encode group payload: %w", err)
	}

	raw, err := c.executeOnce(ctx, http.MethodPost, c.baseURL+"/groups", "application/json", bytes.NewReader(body))
	if err != nil {
		return Group{}, fmt.Errorf("create group %q: %w", name, err)
	}

	var resp createGroupResponse
	if err := sonic.Unmarshal(raw, &resp); err != nil {
		return Group{}, fmt.Errorf("decode group payload: %w", err)
	}

	return Group{ID: resp.ID, Name: name, Link: resp.Link}, nil
}

// GroupReplays returns every replay already filed in groupID, with per-player
// core stats, in the API's stable listing order.
func (c *Client) GroupReplays(ctx context.Context, groupID string) ([]replay.Remote, error) {
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return nil, fmt.Errorf("group id is required")
	}

	var out []replay.Remote
	values := url.Values{}
	values.Set("group", groupID)
	values.Set("count", fmt.Sprintf("%d", pageSize))

	next := "/replays?" + values.Encode()
	for next != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var envelope replayListEnvelope
		if err := c.getJSONURL(ctx, c.absolute(next), &envelope); err != nil {
			return nil, fmt.Errorf("list group replays group=%s: %w", groupID, err)
		}

		for _, row := range envelope.List {
			out = append(out, mapRemote(row))
		}
		next = envelope.Next
	}

	return out, nil
}

// UploadReplay uploads one replay file into groupID. Ballchasing deduplicates
// by content; an existing identical replay comes back as a duplicate result,
// not an error.
func (c *Client) UploadReplay(ctx context.Context, groupID, fileName string, contents io.Reader) (UploadResult, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return UploadResult{}, fmt.Errorf("file name is required")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return UploadResult{}, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, contents); err != nil {
		return UploadResult{}, fmt.Errorf("read replay file %s: %w", fileName, err)
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("finish multipart body: %w", err)
	}

	values := url.Values{}
	values.Set("visibility", "public")
	if strings.TrimSpace(groupID) != "" {
		values.Set("group", strings.TrimSpace(groupID))
	}
	fullURL := c.baseURL + "/v2/upload?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return UploadResult{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload replay %s: %w", fileName, err)
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	_ = resp.Body.Close()
	if readErr != nil {
		return UploadResult{}, fmt.Errorf("read upload response: %w", readErr)
	}

	var decoded uploadResponse
	if len(raw) > 0 {
		if err := sonic.Unmarshal(raw, &decoded); err != nil {
			return UploadResult{}, fmt.Errorf("decode upload response status=%d: %w", resp.StatusCode, err)
		}
	}

	switch {
	case resp.StatusCode == http.StatusCreated:
		return UploadResult{ID: decoded.ID, Link: decoded.Location}, nil
	case resp.StatusCode == http.StatusConflict && decoded.ID != "":
		return UploadResult{ID: decoded.ID, Link: decoded.Location, Duplicate: true}, nil
	default:
		return UploadResult{}, &APIError{Status: resp.StatusCode, Reason: decoded.Error}
	}
}

func (c *Client) getJSON(ctx context.Context, path string, values url.Values, target any) error {
	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	return c.getJSONURL(ctx, fullURL, target)
}

func (c *Client) getJSONURL(ctx context.Context, fullURL string, target any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err := c.executeOnce(ctx, http.MethodGet, fullURL, "", nil)
		if err == nil {
			if err := sonic.Unmarshal(raw, target); err != nil {
				return fmt.Errorf("decode ballchasing payload: %w", err)
			}
			return nil
		}

		lastErr = err
		if !stderrors.Is(err, errBallchasingTransient) {
			return err
		}
		if attempt == c.maxRetries {
			break
		}

		timer := time.NewTimer(time.Duration(attempt+1) * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "ballchasing request failed", "url", fullURL, "error", lastErr)
	return lastErr
}

func (c *Client) executeOnce(ctx context.Context, method, fullURL, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errBallchasingTransient, err)
	}

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errBallchasingTransient, readErr)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status=%d", errBallchasingTransient, resp.StatusCode)
	}

	return nil, &APIError{Status: resp.StatusCode, Reason: extractReason(raw)}
}

func (c *Client) absolute(pathOrURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}
	return c.baseURL + pathOrURL
}

func extractReason(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := sonic.Unmarshal(raw, &body); err == nil && strings.TrimSpace(body.Error) != "" {
		return strings.TrimSpace(body.Error)
	}

	reason := strings.TrimSpace(string(raw))
	if len(reason) > 256 {
		reason = reason[:256] + "..."
	}
	return reason
}

func mapRemote(row replayModel) replay.Remote {
	remote := replay.Remote{ID: row.ID, MapCode: row.MapCode}
	for _, p := range row.Blue.Players {
		remote.Players = append(remote.Players, mapPlayer(p, replay.SideBlue))
	}
	for _, p := range row.Orange.Players {
		remote.Players = append(remote.Players, mapPlayer(p, replay.SideOrange))
	}
	return remote
}

func mapPlayer(p replayPlayerModel, side replay.Side) replay.PlayerStats {
	return replay.PlayerStats{
		Name: p.Name,
		Side: side,
		Core: replay.CoreStats{
			Score:   p.Stats.Core.Score,
			Goals:   p.Stats.Core.Goals,
			Assists: p.Stats.Core.Assists,
			Saves:   p.Stats.Core.Saves,
			Shots:   p.Stats.Core.Shots,
		},
	}
}
