// Package server is the reference gamification backend: a small
// sqlite-backed HTTP service implementing the achievement and
// gamification endpoints the client syncs against.
package server

import (
	"time"
)

// AgentAchievement is one unlocked achievement row. The unique index on
// (agent_id, achievement_type) is what makes unlocks idempotent at the
// storage level.
type AgentAchievement struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	AgentID                string `gorm:"index;uniqueIndex:idx_agent_achievement"`
	AchievementType        string `gorm:"uniqueIndex:idx_agent_achievement"`
	AchievementName        string
	Description            string
	XPReward               int
	AchievementTriggeredBy *int64
	UnlockedAt             time.Time
}

// AgentProfile is an agent's accumulated level/XP state.
type AgentProfile struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	AgentID       string `gorm:"uniqueIndex"`
	AgentName     string
	CurrentLevel  int
	CurrentXP     int
	TotalXPEarned int
	TotalXPLost   int
	LastCheckedAt time.Time
}
