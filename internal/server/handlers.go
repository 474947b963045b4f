package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/voxqa/qacoach/internal/api"
)

// Handler exposes the Store over HTTP.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler wires a handler to its store.
func NewHandler(store *Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) agentAchievements(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("agentId")

	rows, err := h.store.AchievementsForAgent(agentID)
	if err != nil {
		h.logger.Error("listing achievements failed", zap.String("agent_id", agentID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	records := make([]api.AchievementRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(row))
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) unlockAchievement(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("agentId")

	var req api.UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}
	if req.AchievementType == "" {
		writeError(w, http.StatusBadRequest, "achievement_type é obrigatório")
		return
	}

	row, err := h.store.Unlock(agentID, req)
	switch {
	case errors.Is(err, ErrAlreadyUnlocked):
		writeError(w, http.StatusBadRequest, "Conquista já desbloqueada")
		return
	case errors.Is(err, ErrUnknownType):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("unlock failed",
			zap.String("agent_id", agentID),
			zap.String("achievement_type", req.AchievementType),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toRecord(*row))
}

func (h *Handler) checkAchievements(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("agentId")

	rows, totalXP, err := h.store.Check(agentID)
	if err != nil {
		h.logger.Error("achievement check failed", zap.String("agent_id", agentID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := api.CheckResult{
		AchievementsUnlocked: make([]api.AchievementRecord, 0, len(rows)),
		TotalXPEarned:        totalXP,
	}
	for _, row := range rows {
		result.AchievementsUnlocked = append(result.AchievementsUnlocked, toRecord(row))
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) agentGamification(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("agentId")

	profile, err := h.store.Profile(agentID)
	if errors.Is(err, ErrProfileNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("loading profile failed", zap.String("agent_id", agentID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, api.GamificationProfile{
		AgentID:       profile.AgentID,
		CurrentLevel:  profile.CurrentLevel,
		CurrentXP:     profile.CurrentXP,
		TotalXPEarned: profile.TotalXPEarned,
		TotalXPLost:   profile.TotalXPLost,
	})
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.Leaderboard(0)
	if err != nil {
		h.logger.Error("leaderboard failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func toRecord(row AgentAchievement) api.AchievementRecord {
	return api.AchievementRecord{
		ID:                     int64(row.ID),
		AgentID:                row.AgentID,
		AchievementType:        row.AchievementType,
		AchievementName:        row.AchievementName,
		Description:            row.Description,
		XPReward:               row.XPReward,
		AchievementTriggeredBy: row.AchievementTriggeredBy,
		UnlockedAt:             row.UnlockedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError mirrors the error envelope the client expects: a single
// "detail" field.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
