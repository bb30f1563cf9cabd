package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDashboardView(t *testing.T) {
	tests := []struct {
		name     string
		msg      tea.Msg
		contains []string
		excludes []string
	}{
		{
			name:     "before the first build",
			msg:      nil,
			contains: []string{"mdsite watch", "Building..."},
			excludes: []string{"Last Build"},
		},
		{
			name: "after a build",
			msg: DashboardMsg{Data: &DashboardData{
				ContentDir: "content",
				PublicDir:  "public",
				Interval:   2 * time.Second,
				BuildID:    "build-1",
				BuiltAt:    time.Now(),
				Pages:      3,
				Rendered:   2,
				Skipped:    1,
				Errors:     []string{"broken.md: unclosed delimiter"},
				LogLines:   []string{"2025-01-01 10:00:00 INFO build completed"},
			}},
			contains: []string{
				"content",
				"3 tracked",
				"build-1",
				"✗ broken.md: unclosed delimiter",
				"INFO build completed",
				"rebuild every 2s",
			},
			excludes: []string{"Building...", "No errors"},
		},
		{
			name:     "no build yet",
			msg:      DashboardMsg{Data: &DashboardData{ContentDir: "content"}},
			contains: []string{"No build completed yet", "No logs available"},
		},
		{
			name:     "build failed",
			msg:      DashboardMsg{Data: &DashboardData{ContentDir: "content"}, Err: errors.New("scan failed")},
			contains: []string{"✗ scan failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m tea.Model = InitDashboardModel()
			if tt.msg != nil {
				m, _ = m.Update(tt.msg)
			}
			view := m.View()

			for _, want := range tt.contains {
				if !strings.Contains(view, want) {
					t.Errorf("Expected view to contain %q, got:\n%s", want, view)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(view, unwanted) {
					t.Errorf("Expected view not to contain %q, got:\n%s", unwanted, view)
				}
			}
		})
	}
}

func TestDashboardKeepsDataOnError(t *testing.T) {
	var m tea.Model = InitDashboardModel()
	m, _ = m.Update(DashboardMsg{Data: &DashboardData{ContentDir: "content", Pages: 4}})
	m, _ = m.Update(DashboardMsg{Err: errors.New("scan failed")})

	view := m.View()
	if !strings.Contains(view, "4 tracked") || !strings.Contains(view, "scan failed") {
		t.Errorf("Expected previous data with the new error, got:\n%s", view)
	}
}

func TestDashboardQuit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := InitDashboardModel().Update(key)
		if cmd == nil {
			t.Fatalf("Expected a quit command for %q", key.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("Expected tea.QuitMsg for %q", key.String())
		}
	}
}
