package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkin-server-go/attendance"
	"checkin-server-go/config"
	"checkin-server-go/db"
	"checkin-server-go/handlers"
	"checkin-server-go/i18n"
	"checkin-server-go/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing storage: %v", err)
		}
	}()

	locale := i18n.Match(cfg.Locale)
	opts := attendance.Options{Location: loc, Locale: locale}

	list := attendance.NewChecklist(store, opts)
	list.Load(ctx)
	board := attendance.NewBoard(store, opts)
	board.Load(ctx)
	log.Printf("Loaded %d list entries and %d tabs (active %q)", list.Len(), len(board.Tabs()), board.Active())

	if cfg.Demo.Seed {
		checkAndSeedData(ctx, board)
	}

	// Create API Handler (injecting the containers)
	apiHandler := handlers.NewAPIHandler(list, board, i18n.Printer(locale))
	apiHandler.CSVQuote = cfg.Export.CSVQuote
	apiHandler.PublicBaseURL = cfg.Server.PublicBaseURL

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handlers.NewRouter(apiHandler, cfg.Debug),
	}
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to run server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
	log.Println("Server stopped")
}

// checkAndSeedData adds a sample tab when the board has none.
func checkAndSeedData(ctx context.Context, board *attendance.Board) {
	if len(board.Tabs()) > 0 {
		log.Printf("Found %d existing tabs. Skipping demo data.", len(board.Tabs()))
		return
	}
	log.Println("No tabs found. Adding demo data...")

	if _, err := board.AddTab(ctx, "範例課程"); err != nil {
		log.Printf("Error adding demo tab: %v", err)
		return
	}
	demo := []models.EntryForm{
		{ClassYear: "資工三", Name: "王小明", StudentID: "B10901001"},
		{ClassYear: "資工三", Name: "陳小華", StudentID: "B10901002"},
		{ClassYear: "電機二", Name: "林小美", StudentID: "B11002003"},
	}
	for _, form := range demo {
		if _, err := board.Submit(ctx, form); err != nil {
			log.Printf("Error adding demo entry %s: %v", form.StudentID, err)
		}
	}
	log.Println("Demo data added.")
}
