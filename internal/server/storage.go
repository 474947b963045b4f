package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/voxqa/qacoach/internal/achievements"
	"github.com/voxqa/qacoach/internal/api"
	"github.com/voxqa/qacoach/internal/leveling"
)

var (
	// ErrAlreadyUnlocked means the agent already holds this achievement.
	ErrAlreadyUnlocked = errors.New("conquista já desbloqueada")
	// ErrUnknownType means the achievement type is not in the catalog.
	ErrUnknownType = errors.New("tipo de conquista desconhecido")
	// ErrProfileNotFound means no gamification profile exists yet.
	ErrProfileNotFound = errors.New("perfil de gamificação não encontrado")
)

// Store persists achievements and profiles in sqlite via gorm.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore opens (or creates) the database at dbFilePath and migrates
// the schema. Use ":memory:" for an ephemeral store.
func NewStore(dbFilePath string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.AutoMigrate(&AgentAchievement{}, &AgentProfile{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AchievementsForAgent returns the agent's unlocked achievements,
// oldest first.
func (s *Store) AchievementsForAgent(agentID string) ([]AgentAchievement, error) {
	var rows []AgentAchievement
	result := s.db.Where("agent_id = ?", agentID).Order("unlocked_at asc").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

// Unlock records an achievement for the agent and credits its XP to the
// agent's profile. The type must exist in the catalog, and unlocking
// twice returns ErrAlreadyUnlocked.
func (s *Store) Unlock(agentID string, req api.UnlockRequest) (*AgentAchievement, error) {
	config, ok := achievements.TypeConfigs[req.AchievementType]
	if !ok {
		return nil, ErrUnknownType
	}

	var row AgentAchievement
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&AgentAchievement{}).
			Where("agent_id = ? AND achievement_type = ?", agentID, req.AchievementType).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyUnlocked
		}

		// Reward and display fields come from the server catalog, not
		// the request: the client proposes the unlock, the server
		// decides what it is worth.
		row = AgentAchievement{
			AgentID:                agentID,
			AchievementType:        req.AchievementType,
			AchievementName:        config.Name,
			Description:            config.Description,
			XPReward:               config.XPReward,
			AchievementTriggeredBy: req.AchievementTriggeredBy,
			UnlockedAt:             time.Now().UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return creditXP(tx, agentID, config.XPReward)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("achievement unlocked",
		zap.String("agent_id", agentID),
		zap.String("achievement_type", req.AchievementType),
		zap.Int("xp_reward", config.XPReward))
	return &row, nil
}

// creditXP adds XP to the agent's profile, creating it at the base
// level when absent, and recomputes the level from total XP.
func creditXP(tx *gorm.DB, agentID string, xp int) error {
	var profile AgentProfile
	err := tx.Where("agent_id = ?", agentID).First(&profile).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		profile = AgentProfile{AgentID: agentID, CurrentLevel: 1}
	case err != nil:
		return err
	}

	profile.CurrentXP += xp
	profile.TotalXPEarned += xp
	profile.CurrentLevel = leveling.ForXP(profile.CurrentXP).Level
	return tx.Save(&profile).Error
}

// Profile returns the agent's gamification profile.
func (s *Store) Profile(agentID string) (*AgentProfile, error) {
	var profile AgentProfile
	err := s.db.Where("agent_id = ?", agentID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Check re-derives the agent's level from accumulated XP and persists
// any correction. It never grants achievements: unlocks happen through
// Unlock only. Returns achievements recorded since the previous check
// so a freshly-synced client can surface unlocks made elsewhere.
func (s *Store) Check(agentID string) ([]AgentAchievement, int, error) {
	profile, err := s.Profile(agentID)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return nil, 0, err
	}

	var since time.Time
	now := time.Now().UTC()
	if profile != nil {
		since = profile.LastCheckedAt
		profile.CurrentLevel = leveling.ForXP(profile.CurrentXP).Level
		profile.LastCheckedAt = now
		if err := s.db.Save(profile).Error; err != nil {
			return nil, 0, err
		}
	}

	var recent []AgentAchievement
	result := s.db.Where("agent_id = ? AND created_at > ?", agentID, since).
		Order("created_at asc").Find(&recent)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	total := 0
	for _, row := range recent {
		total += row.XPReward
	}
	return recent, total, nil
}

// leaderboardRow is the aggregate projection behind the leaderboard.
type leaderboardRow struct {
	AgentID           string
	AgentName         string
	TotalAchievements int
	TotalXP           int
}

// Leaderboard ranks agents by achievement count, then XP.
func (s *Store) Leaderboard(limit int) ([]api.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []leaderboardRow
	result := s.db.Model(&AgentAchievement{}).
		Select("agent_id, count(*) as total_achievements, sum(xp_reward) as total_xp").
		Group("agent_id").
		Order("total_achievements desc, total_xp desc").
		Limit(limit).
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]api.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		name := row.AgentName
		if name == "" {
			if profile, err := s.Profile(row.AgentID); err == nil {
				name = profile.AgentName
			}
		}
		entries = append(entries, api.LeaderboardEntry{
			AgentID:           row.AgentID,
			AgentName:         name,
			TotalAchievements: row.TotalAchievements,
			TotalXP:           row.TotalXP,
		})
	}
	return entries, nil
}
