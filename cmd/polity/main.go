// Command polity runs a political campaign game: it generates or restores a country's
// parties and politicians, advances the campaign day by day, and serves it over HTTP.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/polity/internal/api"
	"github.com/talgya/polity/internal/catalog"
	"github.com/talgya/polity/internal/config"
	"github.com/talgya/polity/internal/engine"
	"github.com/talgya/polity/internal/finance"
	"github.com/talgya/polity/internal/persistence"
)

func main() {
	cfg, err := config.Load(os.Getenv("POLITY_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	slog.Info("Polity campaign simulation", "country", cfg.Country, "election", cfg.Game.ElectionLevel)

	cat, err := catalog.Load(cfg.CatalogDir)
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	// ── Database ──────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Load or Generate Game ────────────────────────────────────────
	setup := engine.Setup{
		Catalog: cat,
		Game:    cfg.Game,
		Country: cfg.Country,
		Seed:    cfg.Seed,
	}

	var game *engine.Game
	if db.HasWorldState() {
		slog.Info("found saved game, loading...")
		w, err := db.LoadWorld()
		if err != nil {
			slog.Error("failed to load game", "error", err)
			os.Exit(1)
		}
		game, err = engine.Restore(setup, w)
		if err != nil {
			slog.Error("failed to restore game", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Info("no saved game found, generating new country...")
		game, err = engine.NewGame(setup)
		if err != nil {
			slog.Error("failed to generate game", "error", err)
			os.Exit(1)
		}
		w := game.Checkpoint()
		if err := db.SaveWorld(w); err != nil {
			slog.Error("initial save failed", "error", err)
		} else {
			game.Committed(w)
		}
	}

	clock := engine.NewClock()
	clock.Day = game.Day()

	// Auto-save every game day.
	clock.OnDay = func(day int) {
		game.TickDay(day)
		w := game.Checkpoint()
		if err := db.SaveWorld(w); err != nil {
			slog.Error("daily save failed", "error", err)
		} else {
			game.Committed(w)
		}
	}
	clock.OnWeek = func(day int) { game.TickWeek(day) }
	clock.OnMonth = func(day int) { game.TickMonth(day) }

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("POLITY_ADMIN_KEY not set, admin POST endpoints will be disabled")
	}
	if cfg.Port > 0 {
		srv := &api.Server{
			Game:     game,
			Clock:    clock,
			DB:       db,
			Port:     cfg.Port,
			AdminKey: cfg.AdminKey,
		}
		srv.Start()
	}

	// ── Start ─────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := game.Status()
	fmt.Printf("\n%s: %s politicians across %d parties, %s election on %s law.\n",
		cfg.Country, humanize.Comma(int64(st.Actors)), st.Parties, st.Election, st.Law)
	if cfg.Port > 0 {
		fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Port)
	}
	if st.Day > 0 {
		fmt.Printf("Resuming from day %d (%s)\n", st.Day, st.Date)
	}
	fmt.Println("Starting campaign... (Ctrl+C to stop)")

	clock.Run(ctx)

	// Final save on shutdown.
	slog.Info("final save...")
	w := game.Checkpoint()
	if err := db.SaveWorld(w); err != nil {
		slog.Error("final save failed", "error", err)
	} else {
		game.Committed(w)
	}

	st = game.Status()
	fmt.Printf("Campaign stopped on %s after %s days. %s raised in total. Game saved.\n",
		st.Date, humanize.Comma(int64(st.Day)), finance.Money(st.TotalRaised))
}
