package main

import (
	"context"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"checkin-server-go/attendance"
	"checkin-server-go/config"
	"checkin-server-go/db"
	"checkin-server-go/i18n"
	"checkin-server-go/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// keep storage and container logs off the alternate screen
	if f, err := tea.LogToFile("checkin-tui.log", "checkin"); err == nil {
		defer f.Close()
	}

	store, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer store.Close()

	locale := i18n.Match(cfg.Locale)
	board := attendance.NewBoard(store, attendance.Options{Location: loc, Locale: locale})
	board.Load(ctx)

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	app := tui.New(ctx, board, i18n.Printer(locale), tui.Options{
		CSVQuote:  cfg.Export.CSVQuote,
		ExportDir: cwd,
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		log.Printf("tui: %v", err)
		_ = store.Close()
		os.Exit(1)
	}
}
