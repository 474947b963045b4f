package celebration

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxqa/qacoach/internal/api"
	"github.com/voxqa/qacoach/internal/leveling"
)

type recorder struct {
	mu        sync.Mutex
	shown     []string
	dismissed []string
}

func (r *recorder) onShow(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, e.Title)
}

func (r *recorder) onDismiss(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dismissed = append(r.dismissed, e.Title)
}

func (r *recorder) shownTitles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.shown...)
}

func (r *recorder) dismissedTitles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.dismissed...)
}

func event(title string) Event {
	return Event{Kind: KindAchievement, Title: title}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never met")
}

func TestFirstEventShowsImmediately(t *testing.T) {
	rec := &recorder{}
	q := NewQueue(WithHandlers(rec.onShow, rec.onDismiss))
	defer q.Stop()

	q.Enqueue(event("A"))

	current, ok := q.Current()
	require.True(t, ok)
	assert.Equal(t, "A", current.Title)
	assert.Equal(t, []string{"A"}, rec.shownTitles())
	assert.Equal(t, 0, q.PendingCount())
}

func TestBatchShowsHeadAndQueuesRest(t *testing.T) {
	rec := &recorder{}
	q := NewQueue(WithHandlers(rec.onShow, rec.onDismiss))
	defer q.Stop()

	q.Enqueue(event("A"), event("B"), event("C"))

	current, ok := q.Current()
	require.True(t, ok)
	assert.Equal(t, "A", current.Title)
	assert.Equal(t, 2, q.PendingCount())
	assert.Equal(t, []string{"A"}, rec.shownTitles())
}

func TestEventsPlayInOrder(t *testing.T) {
	rec := &recorder{}
	q := NewQueue(
		WithDisplayDuration(10*time.Millisecond),
		WithPause(5*time.Millisecond),
		WithHandlers(rec.onShow, rec.onDismiss))
	defer q.Stop()

	q.Enqueue(event("A"), event("B"), event("C"))

	waitFor(t, func() bool { return len(rec.dismissedTitles()) == 3 })
	assert.Equal(t, []string{"A", "B", "C"}, rec.shownTitles())
	assert.Equal(t, []string{"A", "B", "C"}, rec.dismissedTitles())

	_, ok := q.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, q.PendingCount())
}

func TestManualDismissAdvancesAfterPause(t *testing.T) {
	rec := &recorder{}
	q := NewQueue(
		WithDisplayDuration(time.Hour),
		WithPause(5*time.Millisecond),
		WithHandlers(rec.onShow, rec.onDismiss))
	defer q.Stop()

	q.Enqueue(event("A"), event("B"))
	q.DismissCurrent()

	// B must not show before the pause elapses.
	_, showing := q.Current()
	assert.False(t, showing)

	waitFor(t, func() bool {
		current, ok := q.Current()
		return ok && current.Title == "B"
	})
	assert.Equal(t, []string{"A", "B"}, rec.shownTitles())
}

func TestDismissWithoutCurrentIsNoop(t *testing.T) {
	rec := &recorder{}
	q := NewQueue(WithHandlers(rec.onShow, rec.onDismiss))
	defer q.Stop()

	q.DismissCurrent()
	assert.Empty(t, rec.dismissedTitles())
}

func TestEnqueueWhileShowingWaits(t *testing.T) {
	rec := &recorder{}
	q := NewQueue(
		WithDisplayDuration(time.Hour),
		WithHandlers(rec.onShow, rec.onDismiss))
	defer q.Stop()

	q.Enqueue(event("A"))
	q.Enqueue(event("B"))

	current, ok := q.Current()
	require.True(t, ok)
	assert.Equal(t, "A", current.Title)
	assert.Equal(t, 1, q.PendingCount())
	assert.Equal(t, []string{"A"}, rec.shownTitles())
}

func TestStopDropsEverything(t *testing.T) {
	rec := &recorder{}
	q := NewQueue(
		WithDisplayDuration(10*time.Millisecond),
		WithPause(5*time.Millisecond),
		WithHandlers(rec.onShow, rec.onDismiss))

	q.Enqueue(event("A"), event("B"))
	q.Stop()

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, []string{"A"}, rec.shownTitles())
	assert.Empty(t, rec.dismissedTitles())
	assert.Equal(t, 0, q.PendingCount())

	q.Enqueue(event("C"))
	_, ok := q.Current()
	assert.False(t, ok)
}

func TestAchievementEventCarriesRecordFields(t *testing.T) {
	unlocked := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	e := AchievementEvent(api.AchievementRecord{
		AchievementName: "Perfeccionista",
		Description:     "Alcance 100% de conformidade em uma avaliação",
		XPReward:        100,
		UnlockedAt:      unlocked,
	})

	assert.Equal(t, KindAchievement, e.Kind)
	assert.Equal(t, "Perfeccionista", e.Title)
	assert.Equal(t, 100, e.XP)
	assert.Equal(t, unlocked, e.OccurredAt)
}

func TestLevelUpEventUsesLevelStyling(t *testing.T) {
	e := LevelUpEvent(leveling.LevelUp{
		PreviousLevel: 2,
		NewLevel:      3,
		NewName:       "Ouro",
		XPGained:      500,
		Color:         "#FFD700",
	})

	assert.Equal(t, KindLevelUp, e.Kind)
	assert.Equal(t, "Ouro", e.Title)
	assert.Equal(t, "#FFD700", e.Color)
	assert.Equal(t, 500, e.XP)
	assert.NotEmpty(t, e.Icon)
}

func TestRenderIncludesTitleAndXP(t *testing.T) {
	out := Render(Event{
		Kind:  KindAchievement,
		Title: "Primeira Ligação",
		Icon:  "⚡",
		XP:    25,
	})
	assert.Contains(t, out, "Primeira Ligação")
	assert.Contains(t, out, "+25 XP")

	out = Render(Event{
		Kind:     KindLevelUp,
		Title:    "Prata",
		Subtitle: "Novo nível alcançado",
		Icon:     "🥈",
		XP:       1000,
	})
	assert.Contains(t, out, "Prata")
	assert.Contains(t, out, "1,000")
}
