package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/logger"
	"github.com/gerunddev/mdsite/internal/styles"
)

// ParseLogFile reads the last N lines from the log file and extracts build info
func ParseLogFile(logPath string, maxLines int) ([]string, time.Time, int) {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return []string{"Unable to read log file"}, time.Time{}, 0
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	// Get last N lines
	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	recentLines := lines[startIdx:]

	var lastBuild time.Time
	pagesRendered := 0

	// Look for most recent "build completed" line
	for i := len(recentLines) - 1; i >= 0; i-- {
		line := recentLines[i]
		if strings.Contains(line, "build completed") {
			// Format: 2025-11-27 14:11:57 INFO build completed
			if len(line) > 19 {
				timeStr := line[:19]
				if t, err := time.Parse(time.DateTime, timeStr); err == nil {
					lastBuild = t
				}
			}

			if idx := strings.Index(line, "pages_rendered="); idx != -1 {
				_, _ = fmt.Sscanf(line[idx:], "pages_rendered=%d", &pagesRendered) //nolint:errcheck // best effort parsing
			}
			break
		}
	}

	return recentLines, lastBuild, pagesRendered
}

// loadConfig loads the configuration or exits
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fail("Error loading config: %v", err)
	}
	return cfg
}

// setupLogger logs to stderr, and to the configured log file as well when one is set
func setupLogger(cfg *config.Config, verbose bool) (*logger.Logger, func()) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}

	if cfg.LogFile == "" {
		return logger.NewWithLevel(os.Stderr, level), func() {}
	}

	l, cleanup, err := logger.NewFileLogger(cfg.LogFile, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.WarningStyle.Render("Warning: cannot open log file: "+err.Error()))
		return logger.NewWithLevel(os.Stderr, level), func() {}
	}
	l.SetLevel(level)
	return l, cleanup
}

// dashboardLogger logs only to the configured log file, or nowhere when none is set
func dashboardLogger(cfg *config.Config, verbose bool) (*logger.Logger, func()) {
	if cfg.LogFile == "" {
		return logger.Discard(), func() {}
	}

	l, cleanup, err := logger.NewFileLogger(cfg.LogFile)
	if err != nil {
		return logger.Discard(), func() {}
	}
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l, cleanup
}

// hasFlag reports whether name is among args
func hasFlag(args []string, names ...string) bool {
	for _, arg := range args {
		for _, name := range names {
			if arg == name {
				return true
			}
		}
	}
	return false
}

// flagValue returns the argument following name
func flagValue(args []string, name string) string {
	for i, arg := range args {
		if arg == name && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// positional returns the arguments that are neither flags nor flag values
func positional(args []string, valueFlags ...string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			for _, f := range valueFlags {
				if arg == f {
					i++
					break
				}
			}
			continue
		}
		out = append(out, arg)
	}
	return out
}

func fail(format string, args ...any) {
	fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
	os.Exit(1)
}
