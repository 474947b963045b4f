package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// NewRouter builds the HTTP surface of the reference backend.
func NewRouter(handler *Handler, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handler.healthz)
	mux.HandleFunc("GET /achievements/agent/{agentId}", handler.agentAchievements)
	mux.HandleFunc("POST /achievements/unlock/{agentId}", handler.unlockAchievement)
	mux.HandleFunc("POST /achievements/check/{agentId}", handler.checkAchievements)
	mux.HandleFunc("GET /achievements/leaderboard", handler.leaderboard)
	mux.HandleFunc("GET /gamification/agent/{agentId}", handler.agentGamification)

	return withRequestLogging(logger, mux)
}

func withRequestLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.RequestURI()),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
