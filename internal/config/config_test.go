package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, time.Second, cfg.SyncDebounce())
	assert.Equal(t, 4*time.Second, cfg.CelebrationDisplay())
	assert.Equal(t, 500*time.Millisecond, cfg.CelebrationPause())
}

func TestLoadOverlaysOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"backend_url: http://qa.internal:9000\nagent_id: agent-7\nsync_debounce_ms: 250\n",
	), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://qa.internal:9000", cfg.BackendURL)
	assert.Equal(t, "agent-7", cfg.AgentID)
	assert.Equal(t, 250*time.Millisecond, cfg.SyncDebounce())
	// Untouched keys keep their defaults.
	assert.Equal(t, 4*time.Second, cfg.CelebrationDisplay())
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend_url: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"agent_id": "agent-1",
		"current_level": 2,
		"current_xp": 1200,
		"calls": [
			{"id": "c1", "score": 95, "call_date": "2024-03-01T10:00:00Z"},
			{"id": "c2", "score": 100, "created_at": "2024-03-02T10:00:00Z"}
		],
		"criteria": [
			{"nome": "Escuta Ativa", "valor": 0.8}
		]
	}`), 0o644))

	data, err := LoadSnapshot(path)
	require.NoError(t, err)

	assert.Equal(t, "agent-1", data.AgentID)
	assert.Equal(t, 2, data.CurrentLevel)
	assert.Equal(t, 1200, data.CurrentXP)
	require.Len(t, data.Calls, 2)
	assert.Equal(t, 95.0, data.Calls[0].Score)
	assert.False(t, data.Calls[0].CallDate.IsZero())
	assert.True(t, data.Calls[1].CallDate.IsZero())
	require.Len(t, data.Criteria, 1)
}

func TestLoadSnapshotDefaultsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"agent_id": "agent-1"}`), 0o644))

	data, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, 1, data.CurrentLevel)
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
