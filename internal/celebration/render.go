package celebration

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	achievementBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("220")).
				Padding(0, 2)

	levelUpBorder = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().Bold(true)

	subtitleStyle = lipgloss.NewStyle().Faint(true)

	xpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Bold(true)
)

// Render formats an event as a terminal banner.
func Render(event Event) string {
	switch event.Kind {
	case KindLevelUp:
		return renderLevelUp(event)
	default:
		return renderAchievement(event)
	}
}

func renderAchievement(event Event) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s  Conquista desbloqueada!", event.Icon)))
	sb.WriteString("\n")
	sb.WriteString(titleStyle.Foreground(lipgloss.Color(event.Color)).Render(event.Title))
	if event.Subtitle != "" {
		sb.WriteString("\n")
		sb.WriteString(subtitleStyle.Render(event.Subtitle))
	}
	sb.WriteString("\n")
	sb.WriteString(xpStyle.Render(fmt.Sprintf("+%s XP", humanize.Comma(int64(event.XP)))))
	if !event.OccurredAt.IsZero() {
		sb.WriteString(subtitleStyle.Render("  " + humanize.Time(event.OccurredAt)))
	}

	return achievementBorder.Render(sb.String())
}

func renderLevelUp(event Event) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s  SUBIU DE NÍVEL!", event.Icon)))
	sb.WriteString("\n")
	sb.WriteString(titleStyle.Foreground(lipgloss.Color(event.Color)).Render(event.Title))
	sb.WriteString("\n")
	sb.WriteString(subtitleStyle.Render(event.Subtitle))
	if event.XP > 0 {
		sb.WriteString("\n")
		sb.WriteString(xpStyle.Render(fmt.Sprintf("+%s XP", humanize.Comma(int64(event.XP)))))
	}

	style := levelUpBorder
	if event.Color != "" {
		style = style.BorderForeground(lipgloss.Color(event.Color))
	}
	return style.Render(sb.String())
}
