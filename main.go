package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"timecapsule/internal/cli"
	"timecapsule/internal/config"
	"timecapsule/internal/logs"
	"timecapsule/internal/records"
	"timecapsule/internal/service"
	"timecapsule/internal/tui"
)

func main() {
	os.Exit(run())
}

// run returns the exit code so the log file is closed before main exits.
func run() int {
	// Parse CLI flags
	dataDirFlag := flag.String("data-dir", "", "Data directory")
	datesFileFlag := flag.String("dates-file", "", "Events file")
	categoriesFileFlag := flag.String("categories-file", "", "Categories file")
	startEmpty := flag.Bool("start-empty", false, "Move corrupt data files aside and start empty")
	flag.Parse()

	cfg, err := config.Load(config.CLIFlags{
		DataDir:        *dataDirFlag,
		DatesFile:      *datesFileFlag,
		CategoriesFile: *categoriesFileFlag,
	})
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure config file exists
	if err := config.EnsureConfigFile(); err != nil {
		log.Printf("Warning: could not create config file: %v", err)
	}

	if err := cfg.EnsureDataDir(); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Reinitialize logger
	if err := logs.Initialize(cfg.DataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize logger: %v\n", err)
	}
	defer logs.Close()

	opts := service.Options{
		DatesFile:      cfg.DatesFile,
		CategoriesFile: cfg.CategoriesFile,
		SortMode:       cfg.SortModeValue(),
	}
	if *startEmpty {
		opts.OnCorrupt = service.CorruptStartEmpty
	}

	svc, err := service.Open(opts)
	if errors.Is(err, records.ErrCorrupt) && !*startEmpty && askStartEmpty(err) {
		opts.OnCorrupt = service.CorruptStartEmpty
		svc, err = service.Open(opts)
	}
	if err != nil {
		logs.Logger.Printf("Failed to open data: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, records.ErrCorrupt) {
			fmt.Fprintln(os.Stderr, "Fix the file by hand, or rerun with --start-empty to move it aside.")
		}
		return 1
	}
	for _, moved := range svc.Recovered() {
		fmt.Fprintf(os.Stderr, "Moved unreadable data to %s\n", moved)
	}

	// Check for CLI subcommands
	if args := flag.Args(); len(args) > 0 {
		return cli.Run(args, svc, cfg)
	}

	// TUI mode
	logs.Logger.Println("Starting app in TUI mode")
	p := tea.NewProgram(tui.NewAppModel(cfg, svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
		return 1
	}
	return 0
}

// askStartEmpty offers the start-empty recovery on an interactive terminal.
func askStartEmpty(cause error) bool {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false
	}
	fmt.Fprintf(os.Stderr, "%v\nMove the unreadable file aside and start with empty data? [y/N]: ", cause)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
