// Command api starts the submission API only, backed by in-memory storage.
// Useful for local development without Postgres.
package main

import (
	"log"
	"os"

	"gauntlet/adapters/arena"
	"gauntlet/app"
	"gauntlet/domain/scoring"
	"gauntlet/internal"
	"gauntlet/internal/testkit"
	"gauntlet/ui"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger := internal.DefaultLogger
	kit := testkit.NewTestKit()
	budget := app.NewBudget(0)
	scorer := scoring.NewEngine(scoring.DefaultTable())
	service := app.NewTournamentService(kit.Repository(), arena.NewHeuristicAdjudicator(), scorer, budget, 1, logger)

	server := ui.NewServer(service, budget, ui.ServerOptions{}, logger)
	if err := server.Start(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
