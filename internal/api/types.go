// Package api is the typed client for the QA backend's gamification
// surface: achievement records, unlock/check calls, the agent
// gamification profile, and the leaderboard.
package api

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// AchievementRecord is a server-side achievement row. The server is the
// source of truth; clients only read these and create new ones through
// the unlock endpoint.
type AchievementRecord struct {
	ID                     int64     `json:"id"`
	AgentID                string    `json:"agent_id"`
	AchievementType        string    `json:"achievement_type"`
	AchievementName        string    `json:"achievement_name"`
	Description            string    `json:"description"`
	XPReward               int       `json:"xp_reward"`
	AchievementTriggeredBy *int64    `json:"achievement_triggered_by"`
	UnlockedAt             time.Time `json:"unlocked_at"`
}

// UnlockRequest is the body of POST /achievements/unlock/{agentId}.
type UnlockRequest struct {
	AchievementType        string `json:"achievement_type"`
	AchievementName        string `json:"achievement_name"`
	Description            string `json:"description"`
	XPReward               int    `json:"xp_reward"`
	AchievementTriggeredBy *int64 `json:"achievement_triggered_by,omitempty"`
}

// CheckResult is the response of POST /achievements/check/{agentId}.
type CheckResult struct {
	AchievementsUnlocked []AchievementRecord `json:"achievements_unlocked"`
	TotalXPEarned        int                 `json:"total_xp_earned"`
}

// GamificationProfile is an agent's level/XP state, decorated with
// display fields for the current level.
type GamificationProfile struct {
	AgentID       string  `json:"agent_id"`
	CurrentLevel  int     `json:"current_level"`
	CurrentXP     int     `json:"current_xp"`
	TotalXPEarned int     `json:"total_xp_earned"`
	TotalXPLost   int     `json:"total_xp_lost"`
	LevelProgress float64 `json:"level_progress"`
	XPForNext     int     `json:"xp_for_next_level"`
	LevelName     string  `json:"level_name"`
	LevelColor    string  `json:"level_color"`
	LevelIcon     string  `json:"level_icon"`
}

// LeaderboardEntry is one row of the achievements leaderboard.
type LeaderboardEntry struct {
	AgentID           string `json:"agent_id"`
	AgentName         string `json:"agent_name"`
	TotalAchievements int    `json:"total_achievements"`
	TotalXP           int    `json:"total_xp"`
}

// duplicateMarker is the backend's message fragment for an unlock that
// already exists. Part of the integration contract.
const duplicateMarker = "já desbloqueada"

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
}

// IsDuplicateConflict reports whether err means the achievement is
// already unlocked server-side. Callers must treat this as success:
// that tolerance is what makes unlock retry-safe across sessions.
func IsDuplicateConflict(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == 400 || strings.Contains(statusErr.Detail, duplicateMarker)
}
