package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gerunddev/mdsite/convert"
	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/diff"
	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/state"
	"github.com/gerunddev/mdsite/internal/styles"
)

// Render converts one markdown file and prints the HTML fragment to stdout
func Render(args []string) {
	files := positional(args)
	if len(files) == 0 {
		fail("No input file specified")
	}

	data, err := os.ReadFile(files[0])
	if err != nil {
		fail("Failed to read %s: %v", files[0], err)
	}

	_, body, err := convert.ExtractFrontMatter(string(data))
	if err != nil {
		fail("%s: %v", files[0], err)
	}

	converter := convert.NewConverter(convert.Options{EscapeText: hasFlag(args, "--escape")})
	html, err := converter.HTML(body)
	if err != nil {
		fail("%s: %v", files[0], err)
	}
	fmt.Println(html)
}

// Build renders the whole site once
func Build(args []string) {
	cfg := loadConfig()
	log, cleanup := setupLogger(cfg, hasFlag(args, "--verbose", "-v"))
	defer cleanup()
	log.ConfigLoaded(cfg.ContentDir, cfg.PublicDir, cfg.Interval)

	st, err := state.Load(config.StateFilePath())
	if err != nil {
		log.StateError("load", err)
		st = state.NewState()
	}

	builder := site.NewBuilder(cfg, st)
	builder.SetLogger(log)

	result, err := builder.Build(hasFlag(args, "--force", "-f"))
	if err != nil {
		cleanup()
		fail("Build failed: %v", err)
	}

	if err := st.Save(config.StateFilePath()); err != nil {
		log.StateError("save", err)
	}

	printResult(result)
	if len(result.Errors) > 0 {
		cleanup()
		os.Exit(1)
	}
}

// Compare prints the difference between mdsite and a CommonMark renderer for one file
func Compare(args []string) {
	files := positional(args)
	if len(files) == 0 {
		fail("No input file specified")
	}

	data, err := os.ReadFile(files[0])
	if err != nil {
		fail("Failed to read %s: %v", files[0], err)
	}
	_, body, err := convert.ExtractFrontMatter(string(data))
	if err != nil {
		fail("%s: %v", files[0], err)
	}

	c, err := diff.Compare(filepath.Base(files[0]), body, convert.NewConverter(convert.Options{}))
	if err != nil {
		fail("%v", err)
	}

	if c.Identical() {
		fmt.Println(styles.SuccessStyle.Render("✓ Output matches the CommonMark reference"))
		return
	}
	fmt.Print(c.Render())
}

// Init writes a default configuration file into the working directory
func Init() {
	path := config.LocalConfigFile
	if _, err := os.Stat(path); err == nil {
		fmt.Println(styles.DimStyle.Render("Config already exists: " + path))
		return
	}

	if err := config.DefaultConfig().SaveTo(path); err != nil {
		fail("Failed to write config: %v", err)
	}
	fmt.Println(styles.SuccessStyle.Render("✓ Wrote " + path))
}

// Status shows the last build recorded in the manifest and log
func Status() {
	cfg := loadConfig()

	st, err := state.Load(config.StateFilePath())
	if err != nil {
		fail("Error loading state: %v", err)
	}

	fmt.Println(styles.TitleStyle.Render("mdsite status"))
	fmt.Printf("  Content:  %s\n", cfg.ContentDir)
	fmt.Printf("  Public:   %s\n", cfg.PublicDir)
	fmt.Printf("  Pages:    %d tracked\n", len(st.Files))

	if st.BuildID == "" {
		fmt.Println(styles.DimStyle.Render("  No build recorded yet"))
		return
	}
	fmt.Printf("  Build:    %s\n", styles.HighlightStyle.Render(st.BuildID))
	fmt.Printf("  Built at: %s\n", st.BuiltAt.Format(time.DateTime))

	if cfg.LogFile != "" {
		_, lastBuild, rendered := ParseLogFile(cfg.LogFile, 200)
		if !lastBuild.IsZero() {
			fmt.Printf("  Last log: %s (%d pages rendered)\n", lastBuild.Format(time.DateTime), rendered)
		}
	}
}

func printResult(result *site.Result) {
	if len(result.Errors) == 0 {
		fmt.Println(styles.SuccessStyle.Render("✓ " + result.String()))
		return
	}
	fmt.Println(styles.WarningStyle.Render("! " + result.String()))
	for _, err := range result.Errors {
		fmt.Println(styles.ErrorStyle.Render("  ✗ " + err.Error()))
	}
}
