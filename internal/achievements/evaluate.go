package achievements

import (
	"time"

	"github.com/samber/lo"
)

// UnlockView is the result of running one catalog definition against
// agent data. Ephemeral: recomputed whenever the data changes.
type UnlockView struct {
	Definition
	Unlocked   bool
	UnlockedAt *time.Time
}

// ServerAchievement is the slice of a server achievement record the
// evaluator needs for merging: which type it is and when it unlocked.
type ServerAchievement struct {
	Type       string
	UnlockedAt time.Time
}

// Evaluate runs every catalog predicate against the given data at the
// given instant. It never fails: missing call history simply evaluates
// as locked.
func Evaluate(data AgentData, now time.Time) []UnlockView {
	views := make([]UnlockView, 0, len(Catalog))
	for _, def := range Catalog {
		unlocked := def.Condition(data, now)
		view := UnlockView{Definition: def, Unlocked: unlocked}
		if unlocked {
			at := now
			view.UnlockedAt = &at
		}
		views = append(views, view)
	}
	return views
}

// Unlocked filters views down to the unlocked ones.
func Unlocked(views []UnlockView) []UnlockView {
	return lo.Filter(views, func(v UnlockView, _ int) bool {
		return v.Unlocked
	})
}

// TotalXP sums the XP rewards of the unlocked views.
func TotalXP(views []UnlockView) int {
	return lo.SumBy(Unlocked(views), func(v UnlockView) int {
		return v.XPReward
	})
}

// MergeWithServer combines local views with the server's recorded
// achievements. The server is authoritative once confirmed: a local
// view whose mapped type exists server-side is unlocked regardless of
// its predicate result. Server records with no local counterpart are
// appended as synthesized views so manually granted achievements still
// show up.
func MergeWithServer(local []UnlockView, server []ServerAchievement) []UnlockView {
	byType := lo.KeyBy(server, func(s ServerAchievement) string {
		return s.Type
	})

	merged := make([]UnlockView, 0, len(local)+len(server))
	claimed := make(map[string]struct{}, len(local))

	for _, view := range local {
		serverType, mapped := ServerTypeByID[view.ID]
		if mapped {
			if rec, ok := byType[serverType]; ok {
				at := rec.UnlockedAt
				view.Unlocked = true
				view.UnlockedAt = &at
				claimed[serverType] = struct{}{}
			}
		}
		merged = append(merged, view)
	}

	for _, rec := range server {
		if _, ok := claimed[rec.Type]; ok {
			continue
		}
		config, known := TypeConfigs[rec.Type]
		if !known {
			continue
		}
		at := rec.UnlockedAt
		merged = append(merged, UnlockView{
			Definition: Definition{
				ID:          rec.Type,
				Name:        config.Name,
				Description: config.Description,
				Icon:        config.Icon,
				Category:    CategorySpecial,
				XPReward:    config.XPReward,
			},
			Unlocked:   true,
			UnlockedAt: &at,
		})
	}

	return merged
}
