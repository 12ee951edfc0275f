package report

import (
	"testing"

	"gauntlet/domain/core"
	"gauntlet/domain/exchange"
	"gauntlet/domain/hypothesis"
	"gauntlet/domain/scoring"
	"gauntlet/domain/tournament"
)

func summaryTournament(state tournament.State, rounds ...tournament.CommittedRound) *tournament.Tournament {
	return &tournament.Tournament{
		ID: core.NewTournamentID(),
		Hypothesis: hypothesis.Hypothesis{
			ID:    core.NewHypothesisID(),
			Claim: "radiative cooling of a thin plate",
			Stage: hypothesis.StageAnalytical,
		},
		Rounds: rounds,
		State:  state,
	}
}

func summaryRound(number int, outcome exchange.Outcome, challengerDelta, defenderDelta int) tournament.CommittedRound {
	return tournament.CommittedRound{
		Round: tournament.Round{
			Number:  number,
			Outcome: outcome,
			Events: []scoring.ScoreEvent{
				{Role: scoring.RoleChallenger, Delta: challengerDelta, Round: number},
				{Role: scoring.RoleDefender, Delta: defenderDelta, Round: number},
			},
		},
		Stage: int(hypothesis.StageAnalytical),
	}
}

func TestSummarizeCountsAndPrecision(t *testing.T) {
	ts := []*tournament.Tournament{
		summaryTournament(tournament.StatePassed,
			summaryRound(1, exchange.FalseAlarm(""), -4, 6),
			summaryRound(2, exchange.FalseAlarm(""), -4, 6),
		),
		summaryTournament(tournament.StateDiscarded,
			summaryRound(1, exchange.Valid(exchange.SeverityMajor, false, ""), 10, 0),
			summaryRound(2, exchange.Fabrication(true, ""), -8, 10),
		),
		summaryTournament(tournament.StateActive,
			summaryRound(1, exchange.Valid(exchange.SeverityMinor, false, ""), 2, 0),
		),
		summaryTournament(tournament.StateActive),
	}

	s := Summarize(ts)

	if s.Tournaments != 4 || s.Rounds != 5 {
		t.Errorf("counted %d tournaments, %d rounds, want 4 and 5", s.Tournaments, s.Rounds)
	}
	if s.Passed != 1 || s.Discarded != 1 || s.Active != 2 {
		t.Errorf("states = %d/%d/%d passed/discarded/active, want 1/1/2", s.Passed, s.Discarded, s.Active)
	}

	wantOutcomes := map[string]int{
		"false_alarm": 2,
		"valid/major": 1,
		"valid/minor": 1,
		"fabrication": 1,
	}
	for cat, n := range wantOutcomes {
		if s.Outcomes[cat] != n {
			t.Errorf("outcome %s counted %d times, want %d", cat, s.Outcomes[cat], n)
		}
	}

	// 2 valid, 2 false alarms, fabrication excluded from the denominator.
	if s.ChallengerPrecision != 0.5 {
		t.Errorf("precision = %g, want 0.5", s.ChallengerPrecision)
	}
}

func TestSummarizeDeltaStats(t *testing.T) {
	ts := []*tournament.Tournament{
		summaryTournament(tournament.StatePassed,
			summaryRound(1, exchange.FalseAlarm(""), -4, 6),
			summaryRound(2, exchange.Valid(exchange.SeverityMajor, false, ""), 10, 0),
			summaryRound(3, exchange.Valid(exchange.SeverityModerate, false, ""), 4, 0),
		),
	}

	s := Summarize(ts)

	ch := s.Deltas[scoring.RoleChallenger]
	if ch.Count != 3 || ch.Total != 10 {
		t.Errorf("challenger count/total = %d/%d, want 3/10", ch.Count, ch.Total)
	}
	if ch.Min != -4 || ch.Max != 10 || ch.Median != 4 {
		t.Errorf("challenger min/max/median = %g/%g/%g, want -4/10/4", ch.Min, ch.Max, ch.Median)
	}

	def := s.Deltas[scoring.RoleDefender]
	if def.Count != 3 || def.Total != 6 {
		t.Errorf("defender count/total = %d/%d, want 3/6", def.Count, def.Total)
	}
	if def.Min != 0 || def.Max != 6 || def.Median != 0 {
		t.Errorf("defender min/max/median = %g/%g/%g, want 0/6/0", def.Min, def.Max, def.Median)
	}
}

func TestSummarizeEmptyBatch(t *testing.T) {
	s := Summarize(nil)
	if s.Tournaments != 0 || s.Rounds != 0 {
		t.Errorf("empty batch summarized as %+v", s)
	}
	if s.ChallengerPrecision != 0 {
		t.Errorf("precision = %g on empty batch, want 0", s.ChallengerPrecision)
	}
	for role, d := range s.Deltas {
		if d.Count != 0 {
			t.Errorf("role %s has %d deltas on empty batch", role, d.Count)
		}
	}
}
