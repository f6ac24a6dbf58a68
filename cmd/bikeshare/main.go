// Package main is the entry point for the bike share explorer.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgkapitany/pdsnd-github/internal/app"
	"github.com/mgkapitany/pdsnd-github/internal/config"
	"github.com/mgkapitany/pdsnd-github/internal/logger"
	"github.com/mgkapitany/pdsnd-github/internal/services"
	"github.com/mgkapitany/pdsnd-github/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := logger.Init(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logFile.Close()

	logger.Info("starting", "version", version.GetVersion(), "data_dir", cfg.DataDir)

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Inline mode: printed reports stay in the terminal scrollback.
	p := tea.NewProgram(model)

	go func() {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		logger.Info("received signal, quitting", "signal", sig.String())
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`bikeshare - explore US bike share trip data

Usage:
  bikeshare [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

The program is interactive: choose a city (Chicago, New York City or
Washington), optionally filter by month and weekday, then pick the
statistics to display.

Keyboard Shortcuts:
  Enter           Submit an answer
  Ctrl+C          Interrupt (press twice to quit)

Environment Variables:
  DATA_DIR             Directory holding the city CSV files (default: .)
  CITIES_FILE          YAML file replacing the built-in city table
  PAGE_SIZE            Rows per raw data page (default: 5)
  LOG_FILE             Log file path (default: $TMPDIR/bikeshare.log)
  LOG_LEVEL            debug, info, warn or error (default: info)
  WATCH_DATA           Report changes to the loaded file (default: true)
  DESKTOP_NOTIFY       Desktop notification after slow loads (default: false)
  SLOW_LOAD_THRESHOLD  Load time that triggers a notification (default: 3s)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/bikeshare/.env
  - ~/.bikeshare/.env`)
}
