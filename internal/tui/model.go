package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"watchq/internal/exitcond"
	"watchq/internal/tracker"
	"watchq/internal/watch"
)

const maxDiagnostics = 5

// Model represents the Bubble Tea state: the live frame, a short tail of
// diagnostics, and the exit condition that ended the run, if any.
type Model struct {
	tracker *tracker.Tracker
	opts    watch.Options

	spin        spinner.Model
	frame       string
	diagnostics []string

	width  int
	height int

	lastUpdated time.Time
	exit        *exitcond.Condition
}

// New constructs a TUI model around an already-built tracker.
func New(t *tracker.Tracker, opts watch.Options) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	// The alt screen repaints wholesale, so the plain loop's refresh
	// bookkeeping and hint lines are not wanted in the frame.
	opts.Refresh = true
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}

	return &Model{
		tracker: t,
		opts:    opts,
		spin:    sp,
	}
}

// Run spins up the Bubble Tea program and returns the process exit code.
func Run(t *tracker.Tracker, opts watch.Options) (int, error) {
	m := New(t, opts)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	final, err := prog.Run()
	if err != nil {
		return 1, fmt.Errorf("tui exited with error: %w", err)
	}

	if fm, ok := final.(*Model); ok && fm.exit != nil {
		fmt.Printf("Exiting with code %d because of condition %q at %s\n",
			fm.exit.Code, fm.exit.Display, time.Now().Format("2006-01-02 15:04:05"))
		return fm.exit.Code, nil
	}
	return 0, nil
}

type tickMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, func() tea.Msg { return tickMsg(time.Now()) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuild(time.Now())

	case tickMsg:
		m.diagnostics = append(m.diagnostics, m.tracker.ProcessPendingEvents()...)
		if n := len(m.diagnostics); n > maxDiagnostics {
			m.diagnostics = m.diagnostics[n-maxDiagnostics:]
		}
		now := time.Time(msg)
		m.rebuild(now)
		m.lastUpdated = now

		if cond, ok := exitcond.FirstMet(m.opts.Conditions, m.tracker.JobStatuses()); ok {
			m.exit = &cond
			return m, tea.Quit
		}
		return m, tickCmd(m.opts.Interval)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	return m, cmd
}

func (m *Model) rebuild(now time.Time) {
	cols := m.width
	if cols <= 0 {
		cols = 80
	}
	// Leave room for the title and footer chrome.
	rows := 0
	if m.height > 4 {
		rows = m.height - 4 - len(m.diagnostics)
	}
	m.frame = watch.Frame(m.tracker, m.opts, cols, rows, now)
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	b.WriteString(titleStyle.Render("watchq"))
	b.WriteByte('\n')

	if m.frame != "" {
		b.WriteString(m.frame)
		b.WriteByte('\n')
	}

	if len(m.diagnostics) > 0 {
		diagStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		for _, d := range m.diagnostics {
			b.WriteString(diagStyle.Render(d))
			b.WriteByte('\n')
		}
	}

	help := m.spin.View() + " watching • q quit"
	if !m.lastUpdated.IsZero() {
		help += fmt.Sprintf(" • last update %s", m.lastUpdated.Format(time.Kitchen))
	}
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	b.WriteString(helpStyle.Render(help))

	return b.String()
}
