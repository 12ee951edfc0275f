package report

import (
	"github.com/montanaflynn/stats"

	"gauntlet/domain/exchange"
	"gauntlet/domain/scoring"
	"gauntlet/domain/tournament"
)

// DeltaStats summarizes the per-round score deltas earned by one role
// across a set of tournaments.
type DeltaStats struct {
	Count  int     `json:"count"`
	Total  int     `json:"total"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary aggregates outcome counts and score distributions over a batch
// of tournaments. ChallengerPrecision is the share of critiques that held
// up: valid / (valid + false alarms). Fabrications are excluded from the
// denominator since they measure dishonesty, not accuracy.
type Summary struct {
	Tournaments         int                         `json:"tournaments"`
	Rounds              int                         `json:"rounds"`
	Passed              int                         `json:"passed"`
	Discarded           int                         `json:"discarded"`
	Active              int                         `json:"active"`
	Outcomes            map[string]int              `json:"outcomes"`
	ChallengerPrecision float64                     `json:"challenger_precision"`
	Deltas              map[scoring.Role]DeltaStats `json:"deltas"`
}

// Summarize walks every round of every tournament once and computes the
// batch summary. Tournaments with no rounds contribute to the state
// counts only.
func Summarize(tournaments []*tournament.Tournament) Summary {
	s := Summary{
		Outcomes: make(map[string]int),
		Deltas:   make(map[scoring.Role]DeltaStats),
	}
	deltas := map[scoring.Role][]float64{
		scoring.RoleChallenger: nil,
		scoring.RoleDefender:   nil,
	}

	var valid, falseAlarms int
	for _, t := range tournaments {
		s.Tournaments++
		switch t.State {
		case tournament.StatePassed:
			s.Passed++
		case tournament.StateDiscarded:
			s.Discarded++
		default:
			s.Active++
		}
		for _, r := range t.Rounds {
			s.Rounds++
			s.Outcomes[r.Outcome.Category()]++
			switch r.Outcome.Kind {
			case exchange.OutcomeValid:
				valid++
			case exchange.OutcomeFalseAlarm:
				falseAlarms++
			}
			for _, ev := range r.Events {
				deltas[ev.Role] = append(deltas[ev.Role], float64(ev.Delta))
			}
		}
	}

	if valid+falseAlarms > 0 {
		s.ChallengerPrecision = float64(valid) / float64(valid+falseAlarms)
	}
	for role, xs := range deltas {
		s.Deltas[role] = deltaStats(xs)
	}
	return s
}

func deltaStats(xs []float64) DeltaStats {
	if len(xs) == 0 {
		return DeltaStats{}
	}
	mean, _ := stats.Mean(xs)
	median, _ := stats.Median(xs)
	p90, _ := stats.Percentile(xs, 90)
	min, _ := stats.Min(xs)
	max, _ := stats.Max(xs)
	sum, _ := stats.Sum(xs)
	return DeltaStats{
		Count:  len(xs),
		Total:  int(sum),
		Mean:   mean,
		Median: median,
		P90:    p90,
		Min:    min,
		Max:    max,
	}
}
