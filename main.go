package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gauntlet/adapters/arena"
	"gauntlet/adapters/postgres"
	"gauntlet/app"
	"gauntlet/domain/scoring"
	"gauntlet/internal"
	"gauntlet/internal/config"
	"gauntlet/internal/errors"
	"gauntlet/ui"
)

func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	if cfg.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	if err := postgres.Migrate(db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.DefaultLogger

	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	gin.SetMode(cfg.Server.GinMode)

	repo := postgres.NewTournamentRepository(db)
	budget := app.NewBudget(cfg.Budget.TotalUnits)
	scorer := scoring.NewEngine(scoring.DefaultTable())

	// Without a live review panel, escalations resolve heuristically.
	service := app.NewTournamentService(repo, arena.NewHeuristicAdjudicator(), scorer, budget, cfg.Budget.RoundCost, logger)

	ops := ui.NewApp(repo, logger)
	go func() {
		if err := ops.Start(":" + cfg.Server.OpsPort); err != nil {
			log.Fatalf("Ops server failed: %v", err)
		}
	}()

	server := ui.NewServer(service, budget, ui.ServerOptions{
		RoundTimeout: cfg.Server.SubmissionTimeout,
		MaxInFlight:  cfg.Budget.MaxConcurrent,
	}, logger)
	if err := server.Start(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
