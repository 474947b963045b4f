// Package achievements holds the static achievement catalog and the
// local evaluator that runs it against an agent's call history.
package achievements

import (
	"time"

	"github.com/voxqa/qacoach/internal/criteria"
)

// Category groups achievements for display purposes.
type Category string

const (
	CategoryPerformance Category = "performance"
	CategoryStreak      Category = "streak"
	CategoryMilestone   Category = "milestone"
	CategorySpecial     Category = "special"
)

// CallRecord is a single evaluated call in an agent's history, oldest
// first.
type CallRecord struct {
	ID        string
	Score     float64
	CallDate  time.Time
	CreatedAt time.Time
}

// Time returns the call's effective timestamp: the call date when
// known, otherwise the record creation time.
func (c CallRecord) Time() time.Time {
	if !c.CallDate.IsZero() {
		return c.CallDate
	}
	return c.CreatedAt
}

// AgentData is the evaluator input. It is owned by the caller and never
// mutated here.
type AgentData struct {
	AgentID       string
	CurrentLevel  int
	CurrentXP     int
	TotalXPEarned int
	Calls         []CallRecord
	Criteria      []criteria.Record
	Summary       map[string]any
}

// Condition is a pure predicate over agent data. The evaluation instant
// is passed explicitly so time-sensitive predicates stay reproducible.
type Condition func(data AgentData, now time.Time) bool

// Definition is a single achievement in the static catalog. The catalog
// is the single source of truth for XP rewards and unlock predicates.
type Definition struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Category    Category
	XPReward    int
	Condition   Condition
}

// Catalog contains all local achievement definitions.
var Catalog = []Definition{
	{
		ID:          "first_call",
		Name:        "Primeira Ligação",
		Description: "Complete sua primeira ligação",
		Icon:        "⚡",
		Category:    CategoryMilestone,
		XPReward:    25,
		Condition: func(data AgentData, _ time.Time) bool {
			return len(data.Calls) >= 1
		},
	},
	{
		ID:          "calls_10",
		Name:        "Dedicação Inicial",
		Description: "Realize 10 ligações",
		Icon:        "📞",
		Category:    CategoryMilestone,
		XPReward:    50,
		Condition: func(data AgentData, _ time.Time) bool {
			return len(data.Calls) >= 10
		},
	},
	{
		ID:          "calls_50",
		Name:        "Dedicação",
		Description: "Realize mais de 50 ligações",
		Icon:        "⭐",
		Category:    CategoryMilestone,
		XPReward:    100,
		Condition: func(data AgentData, _ time.Time) bool {
			return len(data.Calls) >= 50
		},
	},
	{
		ID:          "calls_100",
		Name:        "Veterano",
		Description: "Realize mais de 100 ligações",
		Icon:        "🏆",
		Category:    CategoryMilestone,
		XPReward:    250,
		Condition: func(data AgentData, _ time.Time) bool {
			return len(data.Calls) >= 100
		},
	},
	{
		ID:          "perfect_call",
		Name:        "Ligação Perfeita",
		Description: "Realize uma ligação com 100% de conformidade",
		Icon:        "🎯",
		Category:    CategoryPerformance,
		XPReward:    100,
		Condition: func(data AgentData, _ time.Time) bool {
			for _, call := range data.Calls {
				if call.Score == 100 {
					return true
				}
			}
			return false
		},
	},
	{
		ID:          "high_performance",
		Name:        "Excelência em Performance",
		Description: "Mantenha média acima de 90% por 5 ligações consecutivas",
		Icon:        "⭐",
		Category:    CategoryPerformance,
		XPReward:    500,
		Condition: func(data AgentData, _ time.Time) bool {
			return meanOfLast(data.Calls, 5) >= 90 && len(data.Calls) >= 5
		},
	},
	{
		ID:          "consistency",
		Name:        "Mestre da Consistência",
		Description: "Mantenha média acima de 80% por 10 ligações consecutivas",
		Icon:        "🏅",
		Category:    CategoryPerformance,
		XPReward:    200,
		Condition: func(data AgentData, _ time.Time) bool {
			return meanOfLast(data.Calls, 10) >= 80 && len(data.Calls) >= 10
		},
	},
	{
		ID:          "streak_3",
		Name:        "Sequência de 3",
		Description: "Mantenha 3 ligações consecutivas acima de 85%",
		Icon:        "🔥",
		Category:    CategoryStreak,
		XPReward:    75,
		Condition: func(data AgentData, _ time.Time) bool {
			return lastAllAbove(data.Calls, 3, 85)
		},
	},
	{
		ID:          "streak_5",
		Name:        "Sequência de 5",
		Description: "Mantenha 5 ligações consecutivas acima de 80%",
		Icon:        "🔥",
		Category:    CategoryStreak,
		XPReward:    150,
		Condition: func(data AgentData, _ time.Time) bool {
			return lastAllAbove(data.Calls, 5, 80)
		},
	},
	{
		ID:          "perfect_week",
		Name:        "Semana Perfeita",
		Description: "5 ou mais ligações na última semana com média acima de 95%",
		Icon:        "📅",
		Category:    CategorySpecial,
		XPReward:    300,
		Condition: func(data AgentData, now time.Time) bool {
			cutoff := now.AddDate(0, 0, -7)
			var sum float64
			var count int
			for _, call := range data.Calls {
				if call.Time().After(cutoff) {
					sum += call.Score
					count++
				}
			}
			return count >= 5 && sum/float64(count) >= 95
		},
	},
	{
		ID:          "improvement",
		Name:        "Mestre da Melhoria",
		Description: "Melhore sua média em 20% comparado ao mês anterior",
		Icon:        "📈",
		Category:    CategorySpecial,
		XPReward:    200,
		// Reserved: month-over-month comparison needs historical data
		// the evaluator does not receive yet.
		Condition: func(AgentData, time.Time) bool {
			return false
		},
	},
}

// ByID returns the catalog definition with the given id, or nil.
func ByID(id string) *Definition {
	for i := range Catalog {
		if Catalog[i].ID == id {
			return &Catalog[i]
		}
	}
	return nil
}

// ByCategory returns all catalog definitions in a category.
func ByCategory(category Category) []Definition {
	var result []Definition
	for _, d := range Catalog {
		if d.Category == category {
			result = append(result, d)
		}
	}
	return result
}

func meanOfLast(calls []CallRecord, n int) float64 {
	if len(calls) < n || n == 0 {
		return 0
	}
	var sum float64
	for _, call := range calls[len(calls)-n:] {
		sum += call.Score
	}
	return sum / float64(n)
}

func lastAllAbove(calls []CallRecord, n int, threshold float64) bool {
	if len(calls) < n {
		return false
	}
	for _, call := range calls[len(calls)-n:] {
		if call.Score < threshold {
			return false
		}
	}
	return true
}
