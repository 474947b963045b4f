// Package leveling implements the XP→level model: a fixed ascending
// threshold table plus progress and level-up detection.
package leveling

import (
	"go.uber.org/zap"
)

// Definition is one row of the level table.
type Definition struct {
	Level       int
	Name        string
	XPRequired  int
	Color       string
	BgColor     string
	BorderColor string
	Icon        string
}

// Levels is the static level table, ascending and strictly monotonic in
// XPRequired. The thresholds are total-XP figures and match the
// backend's progression.
var Levels = []Definition{
	{Level: 1, Name: "Bronze", XPRequired: 0, Color: "#CD7F32", BgColor: "from-amber-600 to-orange-700", BorderColor: "#B8860B", Icon: "🥉"},
	{Level: 2, Name: "Prata", XPRequired: 1000, Color: "#C0C0C0", BgColor: "from-gray-400 to-gray-600", BorderColor: "#A8A8A8", Icon: "🥈"},
	{Level: 3, Name: "Ouro", XPRequired: 5000, Color: "#FFD700", BgColor: "from-yellow-400 to-yellow-600", BorderColor: "#DAA520", Icon: "🥇"},
	{Level: 4, Name: "Platina", XPRequired: 10000, Color: "#E5E4E2", BgColor: "from-blue-400 to-indigo-600", BorderColor: "#B0C4DE", Icon: "💎"},
	{Level: 5, Name: "Diamante", XPRequired: 20000, Color: "#B9F2FF", BgColor: "from-purple-400 to-pink-600", BorderColor: "#87CEEB", Icon: "💠"},
	{Level: 6, Name: "Lendário", XPRequired: 50000, Color: "#FF6B6B", BgColor: "from-red-500 to-pink-600", BorderColor: "#FF4757", Icon: "⚡"},
}

// ForXP returns the highest level whose XPRequired is within xp.
func ForXP(xp int) Definition {
	current := Levels[0]
	for _, def := range Levels {
		if xp >= def.XPRequired {
			current = def
		}
	}
	return current
}

// ByLevel returns the definition for a level number, clamped to the
// table bounds.
func ByLevel(level int) Definition {
	if level <= 0 {
		return Levels[0]
	}
	if level > len(Levels) {
		return Levels[len(Levels)-1]
	}
	return Levels[level-1]
}

// XPRequired returns the total XP threshold for a level number.
func XPRequired(level int) int {
	return ByLevel(level).XPRequired
}

// ProgressToNext returns progress from the current level toward the
// next as a percentage in [0,100]. At or above the top level the next
// level defaults to the top itself, yielding 100.
func ProgressToNext(xp int, level int) float64 {
	current := ByLevel(level)
	if level >= len(Levels) {
		return 100
	}
	next := ByLevel(level + 1)

	span := next.XPRequired - current.XPRequired
	if span <= 0 {
		return 100
	}
	pct := float64(xp-current.XPRequired) / float64(span) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// LevelUp describes a confirmed level increase.
type LevelUp struct {
	PreviousLevel int
	PreviousName  string
	NewLevel      int
	NewName       string
	XPGained      int
	TotalXP       int
	Color         string
	BgColor       string
	BorderColor   string
}

// DetectLevelUp fires when the server reports a higher level than
// previously known AND the XP figure backs it. A level increase whose
// XP has not caught up yet is logged and suppressed so a premature
// celebration never fires; the event shows up on a later pass once XP
// and level agree.
func DetectLevelUp(logger *zap.Logger, previousLevel, newLevel, currentXP, xpGained int) *LevelUp {
	if newLevel <= previousLevel {
		return nil
	}
	if currentXP < XPRequired(newLevel) {
		logger.Warn("level increase not backed by xp yet",
			zap.Int("previous_level", previousLevel),
			zap.Int("new_level", newLevel),
			zap.Int("current_xp", currentXP),
			zap.Int("xp_required", XPRequired(newLevel)),
		)
		return nil
	}

	newDef := ByLevel(newLevel)
	prevDef := ByLevel(previousLevel)

	return &LevelUp{
		PreviousLevel: previousLevel,
		PreviousName:  prevDef.Name,
		NewLevel:      newLevel,
		NewName:       newDef.Name,
		XPGained:      xpGained,
		TotalXP:       currentXP,
		Color:         newDef.Color,
		BgColor:       newDef.BgColor,
		BorderColor:   newDef.BorderColor,
	}
}
