package render

import (
	"github.com/charmbracelet/lipgloss"

	"watchq/internal/tracker"
)

var (
	styleRed          = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleGreen        = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleYellow       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleCyan         = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleBrightYellow = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleBrightWhite  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

// rowStyle picks a row color from its state mix: held trumps everything,
// then fully-done, then running, then idle.
func rowStyle(counts map[tracker.JobStatus]int, total int) lipgloss.Style {
	switch {
	case counts[tracker.Held] > 0:
		return styleRed
	case counts[tracker.Completed] == total:
		return styleGreen
	case counts[tracker.Running] > 0:
		return styleCyan
	case counts[tracker.Idle] > 0:
		return styleYellow
	default:
		return styleBrightWhite
	}
}

// Progress bar segment order, glyphs, and colors. The order is fixed so the
// bar reads done→running→idle→trouble left to right.
var barOrder = []tracker.JobStatus{
	tracker.Completed,
	tracker.Running,
	tracker.Idle,
	tracker.Held,
	tracker.Suspended,
	tracker.Removed,
}

var barGlyphs = map[tracker.JobStatus]string{
	tracker.Completed: "#",
	tracker.Running:   "=",
	tracker.Idle:      "-",
	tracker.Held:      "!",
	tracker.Suspended: "!",
	tracker.Removed:   "!",
}

var barStyles = map[tracker.JobStatus]lipgloss.Style{
	tracker.Completed: styleGreen,
	tracker.Running:   styleCyan,
	tracker.Idle:      styleBrightYellow,
	tracker.Held:      styleRed,
	tracker.Suspended: styleRed,
	tracker.Removed:   styleRed,
}
