package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/logger"
	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/state"
	"github.com/gerunddev/mdsite/internal/styles"
	"github.com/gerunddev/mdsite/internal/tui"
)

// Watch rebuilds the site on an interval until interrupted
func Watch(args []string) {
	cfg := loadConfig()

	if arg := flagValue(args, "--interval"); arg != "" {
		interval, err := time.ParseDuration(arg)
		if err != nil || interval <= 0 {
			fail("Invalid interval: %s", arg)
		}
		cfg.Interval = interval
	}

	dashboard := hasFlag(args, "--dashboard")
	verbose := hasFlag(args, "--verbose", "-v")

	var log *logger.Logger
	var cleanup func()
	if dashboard {
		// The dashboard owns the terminal
		log, cleanup = dashboardLogger(cfg, verbose)
	} else {
		log, cleanup = setupLogger(cfg, verbose)
	}
	defer cleanup()

	st, err := state.Load(config.StateFilePath())
	if err != nil {
		log.StateError("load", err)
		st = state.NewState()
	}

	builder := site.NewBuilder(cfg, st)
	builder.SetLogger(log)

	if dashboard {
		runDashboard(cfg, builder, st, log)
		return
	}

	fmt.Println(styles.TitleStyle.Render("Watching " + cfg.ContentDir))
	fmt.Println(styles.DimStyle.Render(fmt.Sprintf("  Rebuilding every %v, press Ctrl+C to stop", cfg.Interval)))

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	stopChan := make(chan struct{})
	doneChan := make(chan struct{})

	go func() {
		defer close(doneChan)
		watchLoop(builder, st, config.StateFilePath(), cfg.Interval, log, stopChan, nil)
	}()

	<-signals
	close(stopChan)
	<-doneChan
	log.Info("watch stopped")
}

// runDashboard runs the watch loop behind a live dashboard until the user quits
func runDashboard(cfg *config.Config, builder *site.Builder, st *state.State, log *logger.Logger) {
	p := tea.NewProgram(tui.InitDashboardModel(), tea.WithInput(os.Stdin))

	stopChan := make(chan struct{})
	doneChan := make(chan struct{})

	go func() {
		defer close(doneChan)
		watchLoop(builder, st, config.StateFilePath(), cfg.Interval, log, stopChan, func(result *site.Result, err error) {
			p.Send(tui.DashboardMsg{Data: dashboardData(cfg, st, result), Err: err})
		})
	}()

	_, err := p.Run()

	// Stop the build loop gracefully
	close(stopChan)
	<-doneChan
	if err != nil {
		fail("Dashboard error: %v", err)
	}
	log.Info("watch stopped")
}

// dashboardData collects the manifest, the last result and the log tail for the dashboard
func dashboardData(cfg *config.Config, st *state.State, result *site.Result) *tui.DashboardData {
	data := &tui.DashboardData{
		ContentDir: cfg.ContentDir,
		PublicDir:  cfg.PublicDir,
		Interval:   cfg.Interval,
		BuildID:    st.BuildID,
		BuiltAt:    st.BuiltAt,
		Pages:      len(st.Files),
	}

	if result != nil {
		data.Rendered = result.Rendered
		data.Skipped = result.Skipped
		data.Removed = len(result.Removed)
		for _, err := range result.Errors {
			data.Errors = append(data.Errors, err.Error())
		}
	}

	if cfg.LogFile != "" {
		data.LogLines, _, _ = ParseLogFile(cfg.LogFile, 10)
	}
	return data
}

// watchLoop builds once, then again on every tick, saving the manifest after each build.
// report, when set, receives the outcome of every build.
func watchLoop(builder *site.Builder, st *state.State, statePath string, interval time.Duration, log *logger.Logger, stop <-chan struct{}, report func(*site.Result, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	build := func() {
		result, err := builder.Build(false)
		if report != nil {
			defer report(result, err)
		}
		if err != nil {
			log.Error("build failed", "error", err)
			return
		}
		if err := st.Save(statePath); err != nil {
			log.StateError("save", err)
		}
		for _, err := range result.Errors {
			log.Warn("page not built", "error", err)
		}
	}

	build()
	for {
		select {
		case <-ticker.C:
			build()
		case <-stop:
			// Save final state
			if err := st.Save(statePath); err != nil {
				log.StateError("save", err)
			}
			return
		}
	}
}
