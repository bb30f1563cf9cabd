package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/mdsite/internal/styles"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(styles.Magenta))
)

// DashboardData holds the state of the watch loop after a build
type DashboardData struct {
	ContentDir string
	PublicDir  string
	Interval   time.Duration
	BuildID    string
	BuiltAt    time.Time
	Pages      int
	Rendered   int
	Skipped    int
	Removed    int
	Errors     []string
	LogLines   []string
}

// DashboardMsg is sent after every build
type DashboardMsg struct {
	Data *DashboardData
	Err  error
}

type dashboardModel struct {
	spinner spinner.Model
	data    *DashboardData
	err     error
	ready   bool
}

// InitDashboardModel creates a new watch dashboard model
func InitDashboardModel() dashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return dashboardModel{spinner: s}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case DashboardMsg:
		m.ready = true
		m.err = msg.Err
		if msg.Data != nil {
			m.data = msg.Data
		}
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("mdsite watch"))
	b.WriteString("\n\n")

	if !m.ready || m.data == nil {
		b.WriteString(fmt.Sprintf("%s Building...\n", m.spinner.View()))
		return b.String()
	}

	b.WriteString(labelStyle.Render("Site"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Content:  %s\n", valueStyle.Render(m.data.ContentDir)))
	b.WriteString(fmt.Sprintf("  Public:   %s\n", valueStyle.Render(m.data.PublicDir)))
	b.WriteString(fmt.Sprintf("  Pages:    %s tracked\n", valueStyle.Render(fmt.Sprintf("%d", m.data.Pages))))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Last Build"))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString("  " + styles.ErrorStyle.Render("✗ "+m.err.Error()) + "\n")
	} else if m.data.BuiltAt.IsZero() {
		b.WriteString(fmt.Sprintf("  %s\n", styles.DimStyle.Render("No build completed yet")))
	} else {
		since := time.Since(m.data.BuiltAt).Round(time.Second)
		b.WriteString(fmt.Sprintf("  Build:    %s\n", styles.HighlightStyle.Render(m.data.BuildID)))
		b.WriteString(fmt.Sprintf("  Built:    %s ago\n", valueStyle.Render(since.String())))
		b.WriteString(fmt.Sprintf("  Rendered: %s  Skipped: %s  Removed: %s\n",
			valueStyle.Render(fmt.Sprintf("%d", m.data.Rendered)),
			valueStyle.Render(fmt.Sprintf("%d", m.data.Skipped)),
			valueStyle.Render(fmt.Sprintf("%d", m.data.Removed))))
		if len(m.data.Errors) == 0 {
			b.WriteString("  " + styles.SuccessStyle.Render("● No errors") + "\n")
		}
		for _, e := range m.data.Errors {
			b.WriteString("  " + styles.ErrorStyle.Render("✗ "+e) + "\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Recent Logs"))
	b.WriteString("\n")
	if len(m.data.LogLines) > 0 {
		for _, line := range m.data.LogLines {
			b.WriteString("  " + line + "\n")
		}
	} else {
		b.WriteString(styles.DimStyle.Render("  No logs available"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("q quit • rebuild every %v", m.data.Interval)))
	b.WriteString("\n")

	return b.String()
}
