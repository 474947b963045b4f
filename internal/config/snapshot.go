package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/voxqa/qacoach/internal/achievements"
	"github.com/voxqa/qacoach/internal/criteria"
)

// snapshotFile is the on-disk JSON shape of an agent data snapshot, as
// exported by the QA dashboard.
type snapshotFile struct {
	AgentID       string            `json:"agent_id"`
	CurrentLevel  int               `json:"current_level"`
	CurrentXP     int               `json:"current_xp"`
	TotalXPEarned int               `json:"total_xp_earned"`
	Calls         []snapshotCall    `json:"calls"`
	Criteria      []criteria.Record `json:"criteria"`
	Summary       map[string]any    `json:"summary"`
}

type snapshotCall struct {
	ID        string    `json:"id"`
	Score     float64   `json:"score"`
	CallDate  time.Time `json:"call_date"`
	CreatedAt time.Time `json:"created_at"`
}

// LoadSnapshot reads an agent data snapshot from a JSON file.
func LoadSnapshot(path string) (achievements.AgentData, error) {
	var data achievements.AgentData

	raw, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("reading snapshot: %w", err)
	}

	var file snapshotFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return data, fmt.Errorf("parsing snapshot: %w", err)
	}

	data = achievements.AgentData{
		AgentID:       file.AgentID,
		CurrentLevel:  file.CurrentLevel,
		CurrentXP:     file.CurrentXP,
		TotalXPEarned: file.TotalXPEarned,
		Criteria:      file.Criteria,
		Summary:       file.Summary,
	}
	if data.CurrentLevel == 0 {
		data.CurrentLevel = 1
	}
	for _, call := range file.Calls {
		data.Calls = append(data.Calls, achievements.CallRecord{
			ID:        call.ID,
			Score:     call.Score,
			CallDate:  call.CallDate,
			CreatedAt: call.CreatedAt,
		})
	}
	return data, nil
}
