package rscapi

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/RSC-NA/rsc-core/internal/domain/franchise"
	"github.com/RSC-NA/rsc-core/internal/domain/match"
	"github.com/RSC-NA/rsc-core/internal/platform/logging"
	"github.com/RSC-NA/rsc-core/internal/platform/resilience"
)

const (
	defaultBaseURL  = "https://api.rscna.com/api/v1"
	defaultPageSize = 100
	maxResponseSize = 6 << 20
)

var apiKeyHeaderRegex = regexp.MustCompile(`Api-Key\s+\S+`)
var errLeagueAPITransient = crerr.New("league api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	LeagueID       int64
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the league-management REST API. It is treated as the
// authoritative system of record: writes are pass-through submissions and
// business rejections come back as *APIError.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	leagueID       int64
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
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
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		leagueID:       cfg.LeagueID,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) Members(ctx context.Context, search string) ([]Member, error) {
	query := map[string]string{}
	if strings.TrimSpace(search) != "" {
		query["rsc_name"] = strings.TrimSpace(search)
	}

	var envelope membersEnvelope
	if err := c.getJSON(ctx, "/members", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch members: %w", err)
	}

	return envelope.Results, nil
}

func (c *Client) LeaguePlayers(ctx context.Context, opts LeaguePlayersOptions) (LeaguePlayersPage, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	query := map[string]string{
		"league": strconv.FormatInt(c.leagueID, 10),
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(maxInt(opts.Offset, 0)),
	}
	if opts.Status != "" {
		query["status"] = opts.Status
	}
	if opts.Tier != "" {
		query["tier_name"] = opts.Tier
	}
	if strings.TrimSpace(opts.Search) != "" {
		query["player_name"] = strings.TrimSpace(opts.Search)
	}

	var envelope pagedPlayersEnvelope
	if err := c.getJSON(ctx, "/league-players", query, &envelope); err != nil {
		return LeaguePlayersPage{}, fmt.Errorf("fetch league players: %w", err)
	}

	return LeaguePlayersPage{
		Players: envelope.Results,
		Total:   envelope.Count,
		HasNext: strings.TrimSpace(envelope.Next) != "",
	}, nil
}

// ForEachLeaguePlayer walks every page matching opts and hands each player to
// fn sequentially. Pagination is pure: progress reporting belongs to callers.
func (c *Client) ForEachLeaguePlayer(ctx context.Context, opts LeaguePlayersOptions, fn func(LeaguePlayer) error) error {
	if fn == nil {
		return fmt.Errorf("player callback is required")
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultPageSize
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := c.LeaguePlayers(ctx, opts)
		if err != nil {
			return err
		}
		for _, player := range page.Players {
			if err := fn(player); err != nil {
				return err
			}
		}
		if !page.HasNext || len(page.Players) == 0 {
			return nil
		}
		opts.Offset += opts.Limit
	}
}

func (c *Client) Franchises(ctx context.Context) ([]franchise.Franchise, error) {
	query := map[string]string{"league": strconv.FormatInt(c.leagueID, 10)}

	var rows []franchiseModel
	if err := c.getJSON(ctx, "/franchises", query, &rows); err != nil {
		return nil, fmt.Errorf("fetch franchises: %w", err)
	}

	out := make([]franchise.Franchise, 0, len(rows))
	for _, row := range rows {
		out = append(out, franchise.Franchise{
			ID:     row.ID,
			Name:   strings.TrimSpace(row.Name),
			Prefix: strings.TrimSpace(row.Prefix),
			GM: franchise.GeneralManager{
				MemberID:    row.GM.DiscordID,
				DisplayName: strings.TrimSpace(row.GM.DisplayName),
			},
		})
	}

	return out, nil
}

func (c *Client) FranchiseTeams(ctx context.Context, franchiseID int64) ([]franchise.Team, error) {
	if franchiseID <= 0 {
		return nil, fmt.Errorf("franchise id must be greater than zero")
	}

	var rows []teamModel
	path := fmt.Sprintf("/franchises/%d/teams", franchiseID)
	if err := c.getJSON(ctx, path, nil, &rows); err != nil {
		return nil, fmt.Errorf("fetch franchise teams franchise_id=%d: %w", franchiseID, err)
	}

	return mapTeams(rows), nil
}

func (c *Client) Teams(ctx context.Context) ([]franchise.Team, error) {
	query := map[string]string{"league": strconv.FormatInt(c.leagueID, 10)}

	var rows []teamModel
	if err := c.getJSON(ctx, "/teams", query, &rows); err != nil {
		return nil, fmt.Errorf("fetch teams: %w", err)
	}

	return mapTeams(rows), nil
}

func (c *Client) Tiers(ctx context.Context) ([]Tier, error) {
	query := map[string]string{"league": strconv.FormatInt(c.leagueID, 10)}

	var rows []tierModel
	if err := c.getJSON(ctx, "/tiers", query, &rows); err != nil {
		return nil, fmt.Errorf("fetch tiers: %w", err)
	}

	out := make([]Tier, 0, len(rows))
	for _, row := range rows {
		out = append(out, Tier{
			ID:       row.ID,
			Name:     strings.TrimSpace(row.Name),
			Color:    strings.TrimSpace(row.Color),
			Position: row.Position,
		})
	}

	return out, nil
}

func (c *Client) MatchByID(ctx context.Context, matchID int64) (match.Match, error) {
	if matchID <= 0 {
		return match.Match{}, fmt.Errorf("match id must be greater than zero")
	}

	var row matchModel
	path := fmt.Sprintf("/matches/%d", matchID)
	if err := c.getJSON(ctx, path, nil, &row); err != nil {
		return match.Match{}, fmt.Errorf("fetch match match_id=%d: %w", matchID, err)
	}

	return match.Match{
		ID:       row.ID,
		Season:   row.Season,
		Type:     match.Type(strings.TrimSpace(row.MatchType)),
		Tier:     strings.TrimSpace(row.Tier),
		Day:      row.Day,
		HomeTeam: strings.TrimSpace(row.HomeTeam),
		AwayTeam: strings.TrimSpace(row.AwayTeam),
	}, nil
}

func (c *Client) Trackers(ctx context.Context, memberDiscordID int64) ([]TrackerLink, error) {
	if memberDiscordID <= 0 {
		return nil, fmt.Errorf("member discord id must be greater than zero")
	}

	query := map[string]string{"discord_id": strconv.FormatInt(memberDiscordID, 10)}

	var rows []TrackerLink
	if err := c.getJSON(ctx, "/tracker-links", query, &rows); err != nil {
		return nil, fmt.Errorf("fetch tracker links discord_id=%d: %w", memberDiscordID, err)
	}

	return rows, nil
}

func (c *Client) SubmitTrade(ctx context.Context, req TradeRequest) (TransactionResponse, error) {
	if len(req.Items) == 0 {
		return TransactionResponse{}, fmt.Errorf("trade must carry at least one item")
	}

	var resp TransactionResponse
	if err := c.postJSON(ctx, "/transactions/trade", req, &resp); err != nil {
		return TransactionResponse{}, fmt.Errorf("submit trade: %w", err)
	}

	return resp, nil
}

func (c *Client) SignPlayer(ctx context.Context, req TransactionRequest) (TransactionResponse, error) {
	return c.submitTransaction(ctx, "/transactions/sign", req)
}

func (c *Client) CutPlayer(ctx context.Context, req TransactionRequest) (TransactionResponse, error) {
	return c.submitTransaction(ctx, "/transactions/cut", req)
}

func (c *Client) ResignPlayer(ctx context.Context, req TransactionRequest) (TransactionResponse, error) {
	return c.submitTransaction(ctx, "/transactions/resign", req)
}

func (c *Client) SubstitutePlayer(ctx context.Context, req TransactionRequest) (TransactionResponse, error) {
	return c.submitTransaction(ctx, "/transactions/substitution", req)
}

func (c *Client) submitTransaction(ctx context.Context, path string, req TransactionRequest) (TransactionResponse, error) {
	if req.PlayerDiscordID <= 0 {
		return TransactionResponse{}, fmt.Errorf("player discord id must be greater than zero")
	}

	var resp TransactionResponse
	if err := c.postJSON(ctx, path, req, &resp); err != nil {
		return TransactionResponse{}, fmt.Errorf("submit transaction %s: %w", strings.TrimPrefix(path, "/transactions/"), err)
	}

	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "league api circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("league api is temporarily unavailable: %w", err)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	// GETs are read-mostly reference data; concurrent identical lookups
	// collapse into one request.
	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, http.MethodGet, fullURL, nil)
		c.recordOutcome(reqErr)
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode league api payload: %w", err)
	}

	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "league api circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("league api is temporarily unavailable: %w", err)
		}
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode league api payload: %w", err)
	}

	// Writes are never retried or deduplicated; the league API owns the
	// transaction ledger and repeating a submission would double-apply it.
	raw, reqErr := c.executeOnce(ctx, http.MethodPost, c.baseURL+path, body)
	c.recordOutcome(reqErr)
	if reqErr != nil {
		return reqErr
	}

	if target == nil || len(raw) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode league api payload: %w", err)
	}

	return nil
}

func (c *Client) recordOutcome(err error) {
	if !c.circuitEnabled {
		return
	}
	if err != nil && stderrors.Is(err, errLeagueAPITransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func (c *Client) executeRequest(ctx context.Context, method, fullURL string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err := c.executeOnce(ctx, method, fullURL, body)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !stderrors.Is(err, errLeagueAPITransient) {
			return nil, err
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "league api request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) executeOnce(ctx context.Context, method, fullURL string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %s", errLeagueAPITransient, sanitizeSensitiveText(err.Error(), c.apiKey))
	}

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errLeagueAPITransient, readErr)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	if isRetryableStatus(resp.StatusCode) {
		return nil, fmt.Errorf("%w: status=%d body=%s", errLeagueAPITransient, resp.StatusCode, abbreviateBody(raw))
	}

	return nil, &APIError{Status: resp.StatusCode, Reason: extractReason(raw)}
}

func extractReason(raw []byte) string {
	var body struct {
		Detail  string `json:"detail"`
		Reason  string `json:"reason"`
		Message string `json:"message"`
	}
	if err := sonic.Unmarshal(raw, &body); err == nil {
		if reason := firstNonEmpty(body.Detail, body.Reason, body.Message); reason != "" {
			return reason
		}
	}

	return abbreviateBody(raw)
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return status >= 500 && status != http.StatusNotImplemented
	}
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyHeaderRegex.ReplaceAllString(value, "Api-Key REDACTED")
}

func abbreviateBody(raw []byte) string {
	const maxLen = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > maxLen {
		return body[:maxLen] + "..."
	}
	return body
}

func mapTeams(rows []teamModel) []franchise.Team {
	out := make([]franchise.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, franchise.Team{
			ID:          row.ID,
			Name:        strings.TrimSpace(row.Name),
			Tier:        strings.TrimSpace(row.Tier),
			FranchiseID: row.FranchiseID,
		})
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
