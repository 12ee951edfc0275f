package report

import (
	"strings"
	"testing"

	"gauntlet/domain/exchange"
	"gauntlet/domain/routing"
	"gauntlet/domain/scoring"
	"gauntlet/domain/tournament"
)

func TestTranscriptRendersRounds(t *testing.T) {
	tour := summaryTournament(tournament.StateDiscarded,
		summaryRound(1, exchange.Valid(exchange.SeverityMajor, false, "unit imbalance on the left side"), 10, 0),
	)
	tour.StateReason = "defect at generation"
	tour.Scores = map[scoring.Role]int{scoring.RoleChallenger: 10, scoring.RoleDefender: 0}
	r := &tour.Rounds[0].Round
	r.Critique.Description = "the convective term is dimensionally wrong"
	r.Critique.CitedEquations = []string{"Q = h * A * dT"}
	r.Defense.Kind = exchange.DefenseRefutation
	r.Defense.Evidence = "re-derived from declared parameters"
	r.Decision = routing.Decision{Kind: routing.Reject, TargetStage: 1}

	md := Transcript(tour)

	for _, want := range []string{
		"# Tournament Transcript",
		"radiative cooling of a thin plate",
		"**State:** discarded (defect at generation)",
		"- Challenger: 10",
		"## Round 1 (stage 2)",
		"the convective term is dimensionally wrong",
		"Cited equations: `Q = h * A * dT`",
		"### Defender (refutation)",
		"- Outcome: valid/major",
		"- Rationale: unit imbalance on the left side",
		"- challenger: +10 (",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("transcript missing %q:\n%s", want, md)
		}
	}
}

func TestTranscriptHTMLEscapesNothingStructural(t *testing.T) {
	tour := summaryTournament(tournament.StatePassed)
	out := string(TranscriptHTML(tour))
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "Tournament Transcript") {
		t.Errorf("expected rendered heading, got:\n%s", out)
	}
}
