// Package reconcile pushes locally-evaluated achievement unlocks to the
// QA backend and confirms them exactly once per session. The backend
// remains the source of truth; this layer only proposes unlocks it can
// prove from the agent's call data and tolerates the server already
// knowing about them.
package reconcile

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/voxqa/qacoach/internal/achievements"
	"github.com/voxqa/qacoach/internal/api"
	"github.com/voxqa/qacoach/pkg/debounce"
)

// DefaultDebounce is how long a burst of agent-data updates is allowed
// to settle before a reconciliation pass runs.
const DefaultDebounce = 1000 * time.Millisecond

// Backend is the slice of the API client the reconciler needs.
type Backend interface {
	UnlockAchievement(ctx context.Context, agentID string, req api.UnlockRequest) (*api.AchievementRecord, error)
	CheckAchievements(ctx context.Context, agentID string) (*api.CheckResult, error)
}

// Result reports what one reconciliation pass did.
type Result struct {
	// Skipped is true when the pass short-circuited because the agent
	// data fingerprint had not changed.
	Skipped bool
	// Unlocked holds the records the server created for achievements
	// this pass pushed.
	Unlocked []api.AchievementRecord
	// Duplicates counts unlocks the server already knew about.
	Duplicates int
	// SkippedUnmapped counts local achievements with no usable server
	// mapping.
	SkippedUnmapped int
	// ServerUnlocked holds achievements the server's own check endpoint
	// awarded during the trailing check call.
	ServerUnlocked []api.AchievementRecord
}

// NewlyConfirmed returns everything worth celebrating from this pass:
// unlocks this client pushed plus unlocks the server awarded on check.
func (r *Result) NewlyConfirmed() []api.AchievementRecord {
	out := make([]api.AchievementRecord, 0, len(r.Unlocked)+len(r.ServerUnlocked))
	out = append(out, r.Unlocked...)
	out = append(out, r.ServerUnlocked...)
	return out
}

// Reconciler drives the local-to-server achievement sync for one agent.
type Reconciler struct {
	backend Backend
	session *Session
	logger  *zap.Logger

	mu       sync.Mutex
	pending  *achievements.AgentData
	debounce *debounce.Debouncer
	onResult func(*Result)

	// passMu serializes reconciliation passes: two passes for the same
	// session must never run concurrently, even when a debounced flush
	// fires while an earlier pass is still in network I/O.
	passMu sync.Mutex
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithDebounce overrides the settle window for Trigger.
func WithDebounce(d time.Duration) Option {
	return func(r *Reconciler) {
		r.debounce = debounce.New(d, r.flush)
	}
}

// WithResultHandler installs a callback invoked after every debounced
// pass that was not skipped. Used to feed the celebration queue.
func WithResultHandler(fn func(*Result)) Option {
	return func(r *Reconciler) {
		r.onResult = fn
	}
}

// New creates a reconciler for the session's agent.
func New(backend Backend, session *Session, logger *zap.Logger, opts ...Option) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reconciler{
		backend: backend,
		session: session,
		logger:  logger,
	}
	r.debounce = debounce.New(DefaultDebounce, r.flush)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Trigger schedules a debounced reconciliation pass with the given
// snapshot. Rapid successive calls coalesce into one pass over the
// latest snapshot.
func (r *Reconciler) Trigger(data achievements.AgentData) {
	r.mu.Lock()
	r.pending = &data
	r.mu.Unlock()
	r.debounce.Trigger()
}

// Close cancels any pending debounced pass and clears the session.
func (r *Reconciler) Close() {
	r.debounce.Stop()
	r.session.Reset()
}

func (r *Reconciler) flush() {
	r.mu.Lock()
	data := r.pending
	r.pending = nil
	r.mu.Unlock()
	if data == nil {
		return
	}

	result := r.Reconcile(context.Background(), *data)
	if !result.Skipped && r.onResult != nil {
		r.onResult(result)
	}
}

// Reconcile runs one synchronous pass: evaluate the local catalog
// against the snapshot, push every unlocked achievement not yet
// confirmed this session, then ask the server to run its own checks.
// Passes for the same session never overlap: a pass started while
// another is in flight blocks until the first finishes.
//
// Duplicate-unlock responses count as confirmation. Achievements whose
// id has no server mapping, or whose mapped type has no config, are
// logged and confirmed so they are not retried every pass. Transient
// errors leave the achievement unconfirmed and reopen the fingerprint
// gate so the next trigger retries; every failure is absorbed into the
// retry state, so there is no error to return.
func (r *Reconciler) Reconcile(ctx context.Context, data achievements.AgentData) *Result {
	r.passMu.Lock()
	defer r.passMu.Unlock()

	fingerprint := Fingerprint(data)
	if !r.session.ShouldProcess(fingerprint) {
		return &Result{Skipped: true}
	}

	result := &Result{}
	retry := false

	now := time.Now()
	for _, view := range achievements.Unlocked(achievements.Evaluate(data, now)) {
		id := view.Definition.ID
		if r.session.IsSynced(id) {
			continue
		}

		serverType, ok := achievements.ServerTypeByID[id]
		if !ok {
			r.logger.Warn("achievement has no server type mapping",
				zap.String("achievement_id", id))
			r.session.MarkSynced(id)
			result.SkippedUnmapped++
			continue
		}
		config, ok := achievements.TypeConfigs[serverType]
		if !ok {
			r.logger.Warn("server achievement type has no config",
				zap.String("achievement_id", id),
				zap.String("achievement_type", serverType))
			r.session.MarkSynced(id)
			result.SkippedUnmapped++
			continue
		}

		record, err := r.backend.UnlockAchievement(ctx, r.session.AgentID(), api.UnlockRequest{
			AchievementType: serverType,
			AchievementName: config.Name,
			Description:     config.Description,
			XPReward:        config.XPReward,
		})
		switch {
		case err == nil:
			r.session.MarkSynced(id)
			result.Unlocked = append(result.Unlocked, *record)
			r.logger.Info("achievement unlocked",
				zap.String("achievement_id", id),
				zap.String("achievement_type", serverType),
				zap.Int("xp_reward", config.XPReward))
		case api.IsDuplicateConflict(err):
			r.session.MarkSynced(id)
			result.Duplicates++
			r.logger.Debug("achievement already unlocked on server",
				zap.String("achievement_id", id),
				zap.String("achievement_type", serverType))
		default:
			retry = true
			r.logger.Warn("achievement unlock failed",
				zap.String("achievement_id", id),
				zap.String("achievement_type", serverType),
				zap.Error(err))
		}
	}

	check, err := r.backend.CheckAchievements(ctx, r.session.AgentID())
	if err != nil {
		retry = true
		r.logger.Warn("server achievement check failed", zap.Error(err))
	} else if check != nil {
		result.ServerUnlocked = check.AchievementsUnlocked
	}

	if retry {
		// Reopen the gate so an unchanged snapshot still retries the
		// failed calls on the next trigger.
		r.session.ClearFingerprint()
	}
	return result
}
