package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/voxqa/qacoach/internal/api"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestUnlockCreatesRecordAndCreditsXP(t *testing.T) {
	store := newTestStore(t)

	row, err := store.Unlock("agent-1", api.UnlockRequest{AchievementType: "primeira_ligacao"})
	require.NoError(t, err)

	assert.Equal(t, "primeira_ligacao", row.AchievementType)
	assert.Equal(t, "Primeira Ligação", row.AchievementName)
	assert.Equal(t, 25, row.XPReward)
	assert.False(t, row.UnlockedAt.IsZero())

	profile, err := store.Profile("agent-1")
	require.NoError(t, err)
	assert.Equal(t, 25, profile.CurrentXP)
	assert.Equal(t, 25, profile.TotalXPEarned)
	assert.Equal(t, 1, profile.CurrentLevel)
}

func TestUnlockIgnoresClientSuppliedReward(t *testing.T) {
	store := newTestStore(t)

	row, err := store.Unlock("agent-1", api.UnlockRequest{
		AchievementType: "primeira_ligacao",
		AchievementName: "forged",
		XPReward:        99999,
	})
	require.NoError(t, err)

	assert.Equal(t, "Primeira Ligação", row.AchievementName)
	assert.Equal(t, 25, row.XPReward)
}

func TestUnlockTwiceFails(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Unlock("agent-1", api.UnlockRequest{AchievementType: "primeira_ligacao"})
	require.NoError(t, err)

	_, err = store.Unlock("agent-1", api.UnlockRequest{AchievementType: "primeira_ligacao"})
	assert.ErrorIs(t, err, ErrAlreadyUnlocked)

	// XP must not be credited twice.
	profile, err := store.Profile("agent-1")
	require.NoError(t, err)
	assert.Equal(t, 25, profile.CurrentXP)
}

func TestUnlockUnknownTypeRejected(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Unlock("agent-1", api.UnlockRequest{AchievementType: "dedicacao_inicial"})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestXPAccumulationCrossesLevels(t *testing.T) {
	store := newTestStore(t)

	// campeao alone is 1000 XP, exactly the Prata threshold.
	_, err := store.Unlock("agent-1", api.UnlockRequest{AchievementType: "campeao"})
	require.NoError(t, err)

	profile, err := store.Profile("agent-1")
	require.NoError(t, err)
	assert.Equal(t, 1000, profile.CurrentXP)
	assert.Equal(t, 2, profile.CurrentLevel)
}

func TestAchievementsForAgentScopedByAgent(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Unlock("agent-1", api.UnlockRequest{AchievementType: "primeira_ligacao"})
	require.NoError(t, err)
	_, err = store.Unlock("agent-2", api.UnlockRequest{AchievementType: "primeira_ligacao"})
	require.NoError(t, err)
	_, err = store.Unlock("agent-2", api.UnlockRequest{AchievementType: "veterano"})
	require.NoError(t, err)

	rows, err := store.AchievementsForAgent("agent-2")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "agent-2", row.AgentID)
	}
}

func TestCheckReturnsNewAchievementsOnce(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Unlock("agent-1", api.UnlockRequest{AchievementType: "primeira_ligacao"})
	require.NoError(t, err)

	rows, totalXP, err := store.Check("agent-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 25, totalXP)

	rows, totalXP, err = store.Check("agent-1")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 0, totalXP)
}

func TestCheckUnknownAgentIsEmpty(t *testing.T) {
	store := newTestStore(t)

	rows, totalXP, err := store.Check("nobody")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 0, totalXP)
}

func TestProfileNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Profile("nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestLeaderboardRanksByCountThenXP(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Unlock("agent-1", api.UnlockRequest{AchievementType: "campeao"})
	require.NoError(t, err)

	for _, typ := range []string{"primeira_ligacao", "dedicacao"} {
		_, err := store.Unlock("agent-2", api.UnlockRequest{AchievementType: typ})
		require.NoError(t, err)
	}

	entries, err := store.Leaderboard(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "agent-2", entries[0].AgentID)
	assert.Equal(t, 2, entries[0].TotalAchievements)
	assert.Equal(t, 125, entries[0].TotalXP)
	assert.Equal(t, "agent-1", entries[1].AgentID)
	assert.Equal(t, 1000, entries[1].TotalXP)
}
