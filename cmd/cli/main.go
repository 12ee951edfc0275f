// Command cli exercises the engine end to end with scripted parties and
// in-memory storage: single demo tournaments, parallel batches, and
// scoreboard export.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gauntlet/adapters/arena"
	"gauntlet/adapters/report"
	"gauntlet/app"
	"gauntlet/domain/core"
	"gauntlet/domain/exchange"
	"gauntlet/domain/hypothesis"
	"gauntlet/domain/scoring"
	"gauntlet/internal"
	"gauntlet/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gauntlet-cli",
		Short: "Run adversarial tournaments against fixture hypotheses",
	}

	rootCmd.AddCommand(
		newDemoCmd(),
		newBatchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newDemoCmd() *cobra.Command {
	var fixture string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Play one scripted tournament and print the transcript",
		Long: `Play one tournament against a fixture hypothesis with scripted parties.

The "heat" fixture is dimensionally sound and survives to oversight sign-off;
the "drag" fixture carries a bad drag-coefficient unit and gets discarded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), fixture)
		},
	}

	cmd.Flags().StringVar(&fixture, "fixture", "heat", "Fixture hypothesis: heat or drag")

	return cmd
}

func newBatchCmd() *cobra.Command {
	var xlsxPath string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run all fixture tournaments in parallel and print the summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), concurrency, xlsxPath)
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write the scoreboard workbook to this path")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Maximum tournaments in flight")

	return cmd
}

func fixtureFor(name string) (hypothesis.Hypothesis, string, error) {
	switch name {
	case "heat":
		h := testkit.HeatTransferHypothesis()
		return h, "Q = h * A * dT", nil
	case "drag":
		h := testkit.DragForceHypothesis()
		return h, "F = Cd * rho * v^2 * A", nil
	default:
		return hypothesis.Hypothesis{}, "", fmt.Errorf("unknown fixture %q (want heat or drag)", name)
	}
}

func newKit() (*testkit.TestKit, *app.TournamentService) {
	logger := internal.DefaultLogger
	kit := testkit.NewTestKit()
	scorer := scoring.NewEngine(scoring.DefaultTable())
	service := app.NewTournamentService(kit.Repository(), arena.NewHeuristicAdjudicator(), scorer, app.NewBudget(0), 1, logger)
	return kit, service
}

func runDemo(ctx context.Context, fixture string) error {
	h, equation, err := fixtureFor(fixture)
	if err != nil {
		return err
	}

	kit, service := newKit()
	challenger := testkit.NewScriptedChallenger(
		testkit.DimensionalCritique("the right-hand side does not reduce to a power", equation, exchange.SeverityModerate),
	)
	defender := testkit.NewScriptedDefender(
		testkit.RefutationWithCalculation(equation, "both sides reduce to watts"),
	)

	runner := app.NewRunner(service, challenger, defender, 1, internal.DefaultLogger)
	term, err := runner.Run(ctx, h)
	if err != nil {
		return err
	}

	t, err := kit.Repository().GetByHypothesis(ctx, h.ID)
	if err != nil {
		return err
	}
	fmt.Print(report.Transcript(t))
	fmt.Printf("\nResult: %s after %d rounds (%s)\n", term.Outcome, term.RoundCount, term.Reason)
	return nil
}

func runBatch(ctx context.Context, concurrency int, xlsxPath string) error {
	kit, service := newKit()

	heat := testkit.HeatTransferHypothesis()
	drag := testkit.DragForceHypothesis()

	challenger := testkit.EquationChallenger{
		Equations: map[core.HypothesisID]string{
			heat.ID: "Q = h * A * dT",
			drag.ID: "F = Cd * rho * v^2 * A",
		},
	}

	runner := app.NewRunner(service, challenger, testkit.RederivingDefender{}, concurrency, internal.DefaultLogger)
	if _, err := runner.RunAll(ctx, []hypothesis.Hypothesis{heat, drag}); err != nil {
		return err
	}

	ts, err := kit.Repository().List(ctx, "", 100)
	if err != nil {
		return err
	}

	summary := report.Summarize(ts)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return err
	}

	if xlsxPath != "" {
		f, err := report.Scoreboard(ts)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := f.SaveAs(xlsxPath); err != nil {
			return err
		}
		fmt.Printf("Scoreboard written to %s\n", xlsxPath)
	}
	return nil
}
