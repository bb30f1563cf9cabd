package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/mdsite/internal/commands"
	"github.com/gerunddev/mdsite/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "render":
		commands.Render(os.Args[2:])
	case "build":
		commands.Build(os.Args[2:])
	case "watch":
		commands.Watch(os.Args[2:])
	case "compare", "diff":
		commands.Compare(os.Args[2:])
	case "status":
		commands.Status()
	case "init":
		commands.Init()
	case "version", "-v", "--version":
		fmt.Printf("mdsite v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`mdsite - Build static HTML pages from markdown

Usage:
  mdsite <command> [options]

Commands:
  render      Convert one markdown file and print the HTML (--escape to escape text)
  build       Build the site (--force to rebuild unchanged pages, --verbose)
  watch       Rebuild the site on an interval (--interval 2s, --dashboard for a live view)
  compare     Diff the output for one file against a CommonMark renderer
  status      Show the last recorded build
  init        Write a default config file
  version     Show version information
  help        Show this help message

Examples:
  mdsite render content/index.md
  mdsite build
  mdsite build --force
  mdsite watch --interval 5s
  mdsite watch --dashboard
  mdsite compare content/index.md

Configuration:
  Config file: %s
  State file:  %s
`, config.ConfigPath(), config.StateFilePath())
	fmt.Print(usage)
}
