package reconcile

import (
	"fmt"
	"sync"

	"github.com/voxqa/qacoach/internal/achievements"
)

// Session is the per-agent reconciliation memory: which local
// achievements this session already attempted or confirmed, and a
// fingerprint of the last agent-data snapshot it processed. It lives as
// long as whoever owns the agent's lifecycle keeps it; Reset clears it
// on teardown.
type Session struct {
	agentID string

	mu              sync.Mutex
	synced          map[string]struct{}
	lastFingerprint string
}

// NewSession creates an empty session for an agent.
func NewSession(agentID string) *Session {
	return &Session{
		agentID: agentID,
		synced:  make(map[string]struct{}),
	}
}

// AgentID returns the agent this session belongs to.
func (s *Session) AgentID() string {
	return s.agentID
}

// Fingerprint summarizes the parts of the agent data that matter for
// re-evaluation: call count, level and XP. Cheap to compare, cheap to
// compute.
func Fingerprint(data achievements.AgentData) string {
	return fmt.Sprintf("calls=%d level=%d xp=%d", len(data.Calls), data.CurrentLevel, data.CurrentXP)
}

// ShouldProcess reports whether the given fingerprint differs from the
// last processed one, recording it when it does. Identical data is a
// no-op: this is what keeps repeated passes from re-issuing requests.
func (s *Session) ShouldProcess(fingerprint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastFingerprint == fingerprint {
		return false
	}
	s.lastFingerprint = fingerprint
	return true
}

// MarkSynced records a local achievement id as attempted-or-confirmed
// for the rest of the session.
func (s *Session) MarkSynced(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synced[id] = struct{}{}
}

// IsSynced reports whether the id was already confirmed this session.
func (s *Session) IsSynced(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.synced[id]
	return ok
}

// SyncedCount returns how many achievements were confirmed this
// session.
func (s *Session) SyncedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.synced)
}

// ClearFingerprint forgets the last processed fingerprint so the next
// pass runs even on identical data. Used after transient failures.
func (s *Session) ClearFingerprint() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFingerprint = ""
}

// Reset clears the session memory. Used on teardown so a remount starts
// from a clean slate.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.synced = make(map[string]struct{})
	s.lastFingerprint = ""
}
