package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/logger"
	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/state"
	"github.com/gerunddev/mdsite/internal/tui"
)

func TestWatchLoop(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &config.Config{
		ContentDir: filepath.Join(tmpDir, "content"),
		PublicDir:  filepath.Join(tmpDir, "public"),
		Interval:   10 * time.Millisecond,
	}
	if err := os.MkdirAll(cfg.ContentDir, 0755); err != nil {
		t.Fatalf("Failed to create content dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.ContentDir, "index.md"), []byte("# Home"), 0644); err != nil {
		t.Fatalf("Failed to write page: %v", err)
	}

	st := state.NewState()
	statePath := filepath.Join(tmpDir, "manifest.json")
	builder := site.NewBuilder(cfg, st)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		watchLoop(builder, st, statePath, cfg.Interval, logger.Discard(), stop, nil)
	}()

	// A page added while watching is picked up by a later tick
	time.Sleep(30 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(cfg.ContentDir, "about.md"), []byte("# About"), 0644); err != nil {
		t.Fatalf("Failed to write page: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(filepath.Join(cfg.PublicDir, "about.html")); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	close(stop)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not stop")
	}

	for _, page := range []string{"index.html", "about.html"} {
		if _, err := os.Stat(filepath.Join(cfg.PublicDir, page)); err != nil {
			t.Errorf("Expected %s to be built: %v", page, err)
		}
	}

	loaded, err := state.Load(statePath)
	if err != nil {
		t.Fatalf("Failed to load manifest: %v", err)
	}
	if len(loaded.Files) != 2 {
		t.Errorf("Expected 2 tracked pages, got %d", len(loaded.Files))
	}
}

func TestWatchLoopReportsBuilds(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &config.Config{
		ContentDir: filepath.Join(tmpDir, "content"),
		PublicDir:  filepath.Join(tmpDir, "public"),
		Interval:   time.Hour,
	}
	if err := os.MkdirAll(cfg.ContentDir, 0755); err != nil {
		t.Fatalf("Failed to create content dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.ContentDir, "index.md"), []byte("# Home"), 0644); err != nil {
		t.Fatalf("Failed to write page: %v", err)
	}

	st := state.NewState()
	builder := site.NewBuilder(cfg, st)

	reports := make(chan *tui.DashboardData, 1)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		watchLoop(builder, st, filepath.Join(tmpDir, "manifest.json"), cfg.Interval, logger.Discard(), stop, func(result *site.Result, err error) {
			if err != nil {
				t.Errorf("Build failed: %v", err)
			}
			reports <- dashboardData(cfg, st, result)
		})
	}()

	var data *tui.DashboardData
	select {
	case data = <-reports:
	case <-time.After(2 * time.Second):
		t.Fatal("first build was not reported")
	}
	close(stop)
	<-done

	if data.Rendered != 1 || data.Pages != 1 {
		t.Errorf("Expected 1 rendered and tracked page, got rendered=%d pages=%d", data.Rendered, data.Pages)
	}
	if data.BuildID == "" || data.BuiltAt.IsZero() {
		t.Errorf("Expected the build to be recorded, got %+v", data)
	}
	if data.ContentDir != cfg.ContentDir {
		t.Errorf("ContentDir = %q, want %q", data.ContentDir, cfg.ContentDir)
	}
}
