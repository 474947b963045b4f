package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/voxqa/qacoach/internal/leveling"
)

const defaultTimeout = 10 * time.Second

// Client talks to the QA backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a backend client. A nil httpClient gets a default
// with a sane timeout.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// AgentAchievements fetches the server's recorded achievements for an
// agent.
func (c *Client) AgentAchievements(ctx context.Context, agentID string) ([]AchievementRecord, error) {
	var records []AchievementRecord
	err := c.do(ctx, http.MethodGet, "/achievements/agent/"+url.PathEscape(agentID), nil, &records)
	if err != nil {
		return nil, fmt.Errorf("fetching achievements for agent %s: %w", agentID, err)
	}
	return records, nil
}

// CheckAchievements asks the server to derive and record any
// achievements it can compute on its own.
func (c *Client) CheckAchievements(ctx context.Context, agentID string) (*CheckResult, error) {
	var result CheckResult
	err := c.do(ctx, http.MethodPost, "/achievements/check/"+url.PathEscape(agentID), nil, &result)
	if err != nil {
		return nil, fmt.Errorf("checking achievements for agent %s: %w", agentID, err)
	}
	return &result, nil
}

// UnlockAchievement records an achievement server-side. The endpoint is
// idempotent from the caller's perspective: a duplicate responds with a
// conflict that IsDuplicateConflict recognizes.
func (c *Client) UnlockAchievement(ctx context.Context, agentID string, req UnlockRequest) (*AchievementRecord, error) {
	var record AchievementRecord
	err := c.do(ctx, http.MethodPost, "/achievements/unlock/"+url.PathEscape(agentID), req, &record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Leaderboard fetches the achievements leaderboard.
func (c *Client) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := c.do(ctx, http.MethodGet, "/achievements/leaderboard", nil, &entries)
	if err != nil {
		return nil, fmt.Errorf("fetching leaderboard: %w", err)
	}
	return entries, nil
}

// AgentGamification fetches an agent's gamification profile. A missing
// profile or an unreachable backend yields the default level-1 profile
// rather than an error, so the rest of the dashboard keeps rendering.
func (c *Client) AgentGamification(ctx context.Context, agentID string) GamificationProfile {
	var profile GamificationProfile
	err := c.do(ctx, http.MethodGet, "/gamification/agent/"+url.PathEscape(agentID), nil, &profile)
	if err != nil {
		c.logger.Warn("gamification profile unavailable, using default",
			zap.String("agent_id", agentID),
			zap.Error(err),
		)
		return DefaultProfile(agentID)
	}

	decorateProfile(&profile)
	return profile
}

// DefaultProfile is the safe fallback when the gamification profile
// cannot be fetched: level 1, zero XP.
func DefaultProfile(agentID string) GamificationProfile {
	profile := GamificationProfile{
		AgentID:      agentID,
		CurrentLevel: 1,
		XPForNext:    leveling.XPRequired(2),
	}
	decorateProfile(&profile)
	return profile
}

func decorateProfile(profile *GamificationProfile) {
	def := leveling.ByLevel(profile.CurrentLevel)
	profile.LevelName = def.Name
	profile.LevelColor = def.Color
	profile.LevelIcon = def.Icon
	if profile.XPForNext == 0 {
		// At the top level the next level defaults to the top level
		// itself, so the requirement shown is the top threshold.
		next := profile.CurrentLevel + 1
		if next > len(leveling.Levels) {
			next = len(leveling.Levels)
		}
		profile.XPForNext = leveling.XPRequired(next)
	}
	if profile.LevelProgress == 0 {
		profile.LevelProgress = leveling.ProgressToNext(profile.CurrentXP, profile.CurrentLevel)
	}
}

// do performs a JSON round trip. Non-2xx responses become StatusError
// with the backend's detail message when present.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// readDetail extracts the backend's {"detail": "..."} error message,
// falling back to the raw body.
func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Detail != "" {
		return payload.Detail
	}
	return string(bytes.TrimSpace(raw))
}
