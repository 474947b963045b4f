package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/voxqa/qacoach/internal/api"
)

func newTestServer(t *testing.T) (*httptest.Server, *api.Client) {
	t.Helper()
	store := newTestStore(t)
	handler := NewHandler(store, zap.NewNop())
	ts := httptest.NewServer(NewRouter(handler, zap.NewNop()))
	t.Cleanup(ts.Close)
	return ts, api.NewClient(ts.URL, ts.Client(), zap.NewNop())
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnlockRoundTrip(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	record, err := client.UnlockAchievement(ctx, "agent-1", api.UnlockRequest{
		AchievementType: "perfeccionista",
	})
	require.NoError(t, err)
	assert.Equal(t, "agent-1", record.AgentID)
	assert.Equal(t, "Perfeccionista", record.AchievementName)
	assert.Equal(t, 100, record.XPReward)

	records, err := client.AgentAchievements(ctx, "agent-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "perfeccionista", records[0].AchievementType)
}

func TestDuplicateUnlockReturnsContractError(t *testing.T) {
	ts, client := newTestServer(t)
	ctx := context.Background()

	_, err := client.UnlockAchievement(ctx, "agent-1", api.UnlockRequest{
		AchievementType: "perfeccionista",
	})
	require.NoError(t, err)

	_, err = client.UnlockAchievement(ctx, "agent-1", api.UnlockRequest{
		AchievementType: "perfeccionista",
	})
	require.Error(t, err)
	assert.True(t, api.IsDuplicateConflict(err))

	// The raw response body carries the detail envelope.
	resp, err := http.Post(
		ts.URL+"/achievements/unlock/agent-1",
		"application/json",
		strings.NewReader(`{"achievement_type":"perfeccionista"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["detail"], "já desbloqueada")
}

func TestUnlockValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(
		ts.URL+"/achievements/unlock/agent-1",
		"application/json",
		strings.NewReader(`{not json`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(
		ts.URL+"/achievements/unlock/agent-1",
		"application/json",
		strings.NewReader(`{"achievement_type":"no_such_type"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGamificationProfileLifecycle(t *testing.T) {
	ts, client := newTestServer(t)
	ctx := context.Background()

	// Unknown agent: raw endpoint 404s, the client masks it with the
	// base profile.
	resp, err := http.Get(ts.URL + "/gamification/agent/nobody")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	profile := client.AgentGamification(ctx, "nobody")
	assert.Equal(t, 1, profile.CurrentLevel)
	assert.Equal(t, 0, profile.CurrentXP)

	_, err = client.UnlockAchievement(ctx, "agent-1", api.UnlockRequest{
		AchievementType: "campeao",
	})
	require.NoError(t, err)

	profile = client.AgentGamification(ctx, "agent-1")
	assert.Equal(t, 1000, profile.CurrentXP)
	assert.Equal(t, 2, profile.CurrentLevel)
	assert.Equal(t, "Prata", profile.LevelName)
}

func TestCheckEndpointReportsRecentUnlocks(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	_, err := client.UnlockAchievement(ctx, "agent-1", api.UnlockRequest{
		AchievementType: "primeira_ligacao",
	})
	require.NoError(t, err)

	result, err := client.CheckAchievements(ctx, "agent-1")
	require.NoError(t, err)
	require.Len(t, result.AchievementsUnlocked, 1)
	assert.Equal(t, 25, result.TotalXPEarned)

	result, err = client.CheckAchievements(ctx, "agent-1")
	require.NoError(t, err)
	assert.Empty(t, result.AchievementsUnlocked)
}

func TestLeaderboardEndpoint(t *testing.T) {
	_, client := newTestServer(t)
	ctx := context.Background()

	for _, typ := range []string{"primeira_ligacao", "dedicacao"} {
		_, err := client.UnlockAchievement(ctx, "agent-1", api.UnlockRequest{AchievementType: typ})
		require.NoError(t, err)
	}
	_, err := client.UnlockAchievement(ctx, "agent-2", api.UnlockRequest{AchievementType: "mentor"})
	require.NoError(t, err)

	entries, err := client.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "agent-1", entries[0].AgentID)
	assert.Equal(t, 2, entries[0].TotalAchievements)
}
