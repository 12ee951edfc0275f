// Package oversight performs cross-tournament meta-analysis: parameter
// outlier detection and systematic defect patterns. Its output is advisory
// material for the human adjudicator; it never routes a hypothesis itself.
package oversight

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"gauntlet/domain/core"
	"gauntlet/domain/exchange"
	"gauntlet/domain/routing"
	"gauntlet/domain/tournament"
)

// defaultSigmaThreshold flags a parameter value this many standard
// deviations away from the population mean.
const defaultSigmaThreshold = 3.0

// systemicShare is the fraction of tournaments sharing a defect category
// above which the pattern is reported as systematic.
const systemicShare = 0.3

// ParameterOutlier is one parameter value that sits outside the population
// of same-named parameters across active hypotheses.
type ParameterOutlier struct {
	HypothesisID core.HypothesisID `json:"hypothesis_id"`
	Parameter    string            `json:"parameter"`
	Value        float64           `json:"value"`
	Mean         float64           `json:"mean"`
	StdDev       float64           `json:"std_dev"`
	Sigma        float64           `json:"sigma"`
}

// DefectPattern is an outcome category shared by a large share of
// tournaments, suggesting a systematic upstream error rather than
// independent flaws.
type DefectPattern struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"`
}

// Hint is a suggested root cause for the adjudicator, with the evidence
// that produced it.
type Hint struct {
	HypothesisID core.HypothesisID `json:"hypothesis_id"`
	Cause        routing.RootCause `json:"cause"`
	Evidence     string            `json:"evidence"`
}

// Analyzer holds the detection thresholds.
type Analyzer struct {
	sigmaThreshold float64
}

// NewAnalyzer creates an analyzer with the default thresholds.
func NewAnalyzer() *Analyzer {
	return &Analyzer{sigmaThreshold: defaultSigmaThreshold}
}

// ParameterOutliers compares every hypothesis parameter against the
// population of same-named parameters across the given tournaments. A
// population needs at least three samples before deviation is meaningful.
func (a *Analyzer) ParameterOutliers(ts []*tournament.Tournament) []ParameterOutlier {
	type sample struct {
		id    core.HypothesisID
		value float64
	}
	populations := make(map[string][]sample)
	for _, t := range ts {
		for name, q := range t.Hypothesis.Parameters {
			populations[name] = append(populations[name], sample{id: t.Hypothesis.ID, value: q.Value})
		}
	}

	var outliers []ParameterOutlier
	for name, samples := range populations {
		if len(samples) < 3 {
			continue
		}
		values := make([]float64, len(samples))
		for i, s := range samples {
			values[i] = s.value
		}
		mean := stat.Mean(values, nil)
		sd := stat.StdDev(values, nil)
		if sd == 0 {
			continue
		}
		for _, s := range samples {
			sigma := (s.value - mean) / sd
			if sigma < 0 {
				sigma = -sigma
			}
			if sigma > a.sigmaThreshold {
				outliers = append(outliers, ParameterOutlier{
					HypothesisID: s.id,
					Parameter:    name,
					Value:        s.value,
					Mean:         mean,
					StdDev:       sd,
					Sigma:        sigma,
				})
			}
		}
	}
	return outliers
}

// DefectPatterns counts valid-defect outcome categories across tournaments
// and reports those shared widely enough to look systematic.
func (a *Analyzer) DefectPatterns(ts []*tournament.Tournament) []DefectPattern {
	if len(ts) == 0 {
		return nil
	}
	affected := make(map[string]map[core.TournamentID]bool)
	for _, t := range ts {
		for _, r := range t.Rounds {
			if r.Outcome.Kind != exchange.OutcomeValid {
				continue
			}
			cat := r.Outcome.Category()
			if affected[cat] == nil {
				affected[cat] = make(map[core.TournamentID]bool)
			}
			affected[cat][t.ID] = true
		}
	}

	var patterns []DefectPattern
	for cat, tournaments := range affected {
		share := float64(len(tournaments)) / float64(len(ts))
		if share > systemicShare {
			patterns = append(patterns, DefectPattern{
				Category: cat,
				Count:    len(tournaments),
				Share:    share,
			})
		}
	}
	return patterns
}

// Hints converts the analysis into root-cause suggestions: outlier
// parameters point at flawed generation, widely shared analytical defects at
// a missed constraint upstream.
func (a *Analyzer) Hints(ts []*tournament.Tournament) []Hint {
	var hints []Hint
	for _, o := range a.ParameterOutliers(ts) {
		hints = append(hints, Hint{
			HypothesisID: o.HypothesisID,
			Cause:        routing.CauseFlawedGeneration,
			Evidence: fmt.Sprintf("parameter %s=%g is %.1f sigma from the population mean %g",
				o.Parameter, o.Value, o.Sigma, o.Mean),
		})
	}
	for _, p := range a.DefectPatterns(ts) {
		for _, t := range ts {
			if !hasCategory(t, p.Category) {
				continue
			}
			hints = append(hints, Hint{
				HypothesisID: t.Hypothesis.ID,
				Cause:        routing.CauseMissedConstraint,
				Evidence: fmt.Sprintf("defect category %s affects %d of %d tournaments",
					p.Category, p.Count, len(ts)),
			})
		}
	}
	return hints
}

func hasCategory(t *tournament.Tournament, category string) bool {
	for _, r := range t.Rounds {
		if r.Outcome.Kind == exchange.OutcomeValid && r.Outcome.Category() == category {
			return true
		}
	}
	return false
}
