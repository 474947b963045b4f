// Package celebration sequences achievement and level-up announcements
// so they are shown one at a time: a single active slot, a FIFO of
// pending events, an auto-dismiss timer, and a short pause between
// consecutive events.
package celebration

import (
	"sync"
	"time"

	"github.com/voxqa/qacoach/internal/api"
	"github.com/voxqa/qacoach/internal/leveling"
)

const (
	// DefaultDisplayDuration is how long an event stays on screen
	// before it auto-dismisses.
	DefaultDisplayDuration = 4000 * time.Millisecond
	// DefaultPause separates two consecutive events.
	DefaultPause = 500 * time.Millisecond
)

// Kind distinguishes celebration event types.
type Kind string

const (
	KindAchievement Kind = "achievement"
	KindLevelUp     Kind = "level_up"
)

// Event is one celebration to display.
type Event struct {
	Kind       Kind
	Title      string
	Subtitle   string
	Icon       string
	Color      string
	XP         int
	OccurredAt time.Time
}

// AchievementEvent builds a celebration from a confirmed server record.
func AchievementEvent(record api.AchievementRecord) Event {
	return Event{
		Kind:       KindAchievement,
		Title:      record.AchievementName,
		Subtitle:   record.Description,
		Icon:       "🏆",
		Color:      "#FFD700",
		XP:         record.XPReward,
		OccurredAt: record.UnlockedAt,
	}
}

// LevelUpEvent builds a celebration from a detected level-up.
func LevelUpEvent(up leveling.LevelUp) Event {
	def := leveling.ByLevel(up.NewLevel)
	return Event{
		Kind:       KindLevelUp,
		Title:      up.NewName,
		Subtitle:   "Novo nível alcançado",
		Icon:       def.Icon,
		Color:      up.Color,
		XP:         up.XPGained,
		OccurredAt: time.Now(),
	}
}

type state int

const (
	stateIdle state = iota
	stateShowing
	statePausing
)

// Queue holds at most one active celebration and a FIFO of pending
// ones. All methods are safe for concurrent use. Timer callbacks run on
// their own goroutines; OnShow/OnDismiss are invoked without the queue
// lock held, so they may call back into the queue.
type Queue struct {
	displayFor time.Duration
	pause      time.Duration
	onShow     func(Event)
	onDismiss  func(Event)

	mu      sync.Mutex
	state   state
	current *Event
	pending []Event
	timer   *time.Timer
	stopped bool
}

// Option configures a Queue.
type Option func(*Queue)

// WithDisplayDuration overrides the auto-dismiss delay.
func WithDisplayDuration(d time.Duration) Option {
	return func(q *Queue) { q.displayFor = d }
}

// WithPause overrides the gap between consecutive events.
func WithPause(d time.Duration) Option {
	return func(q *Queue) { q.pause = d }
}

// WithHandlers installs display callbacks. Either may be nil.
func WithHandlers(onShow, onDismiss func(Event)) Option {
	return func(q *Queue) {
		q.onShow = onShow
		q.onDismiss = onDismiss
	}
}

// NewQueue creates an empty queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		displayFor: DefaultDisplayDuration,
		pause:      DefaultPause,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue adds events in order. When the queue is idle the first event
// shows immediately; the rest wait their turn.
func (q *Queue) Enqueue(events ...Event) {
	q.mu.Lock()
	if q.stopped || len(events) == 0 {
		q.mu.Unlock()
		return
	}
	q.pending = append(q.pending, events...)
	var show *Event
	if q.state == stateIdle {
		show = q.takeNextLocked()
	}
	q.mu.Unlock()

	if show != nil && q.onShow != nil {
		q.onShow(*show)
	}
}

// Current returns a copy of the active event, if any.
func (q *Queue) Current() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.current == nil {
		return Event{}, false
	}
	return *q.current, true
}

// PendingCount returns how many events are waiting behind the active
// one.
func (q *Queue) PendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// DismissCurrent ends the active event early. A no-op when nothing is
// showing.
func (q *Queue) DismissCurrent() {
	q.dismiss()
}

// Stop cancels all timers and drops pending events. The queue accepts
// nothing after Stop.
func (q *Queue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopped = true
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.current = nil
	q.pending = nil
	q.state = stateIdle
}

// takeNextLocked pops the pending head into the active slot and arms
// the auto-dismiss timer. Caller holds the lock and the pending list is
// non-empty.
func (q *Queue) takeNextLocked() *Event {
	next := q.pending[0]
	q.pending = q.pending[1:]
	q.current = &next
	q.state = stateShowing
	q.timer = time.AfterFunc(q.displayFor, q.dismiss)
	return &next
}

func (q *Queue) dismiss() {
	q.mu.Lock()
	if q.stopped || q.state != stateShowing || q.current == nil {
		q.mu.Unlock()
		return
	}
	if q.timer != nil {
		q.timer.Stop()
	}
	dismissed := *q.current
	q.current = nil
	if len(q.pending) > 0 {
		q.state = statePausing
		q.timer = time.AfterFunc(q.pause, q.advance)
	} else {
		q.state = stateIdle
		q.timer = nil
	}
	q.mu.Unlock()

	if q.onDismiss != nil {
		q.onDismiss(dismissed)
	}
}

func (q *Queue) advance() {
	q.mu.Lock()
	if q.stopped || q.state != statePausing {
		q.mu.Unlock()
		return
	}
	if len(q.pending) == 0 {
		q.state = stateIdle
		q.timer = nil
		q.mu.Unlock()
		return
	}
	show := q.takeNextLocked()
	q.mu.Unlock()

	if q.onShow != nil {
		q.onShow(*show)
	}
}
