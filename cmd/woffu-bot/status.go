package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/username/woffu-attendance-bot/internal/attendance"
)

var (
	primaryColor = lipgloss.Color("39")  // Blue
	mutedColor   = lipgloss.Color("241") // Gray
	successColor = lipgloss.Color("76")  // Green
	warningColor = lipgloss.Color("214") // Orange

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	labelStyle = lipgloss.NewStyle().Foreground(mutedColor).Width(12)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)
)

// renderStatus formats a status snapshot for the terminal
func renderStatus(status *attendance.Status, kind attendance.CheckKind) string {
	state := lipgloss.NewStyle().Foreground(warningColor).Render(status.State.String())
	if status.State.IsSignedIn {
		state = lipgloss.NewStyle().Foreground(successColor).Render(status.State.String())
	}

	day := lipgloss.NewStyle().Foreground(successColor).Render("working day")
	if status.DayOff {
		reason := status.Reason.String()
		if status.Holiday != nil && status.Holiday.Name != "" {
			reason = fmt.Sprintf("%s (%s)", reason, status.Holiday.Name)
		}
		day = lipgloss.NewStyle().Foreground(warningColor).Render("day off: " + reason)
	}

	rows := []string{
		titleStyle.Render("Woffu status"),
		labelStyle.Render("Date") + status.Date.Format("Mon 02 Jan 2006"),
		labelStyle.Render("Sign state") + state,
		labelStyle.Render("Today") + day,
		labelStyle.Render("Check-in") + kind.Kind.String(),
	}

	return boxStyle.Render(strings.Join(rows, "\n"))
}
