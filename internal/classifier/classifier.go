// Package classifier decides what a (critique, defense) exchange amounts
// to: a genuine defect, a false alarm, a fabrication, or an undecidable
// dispute. Classification is a pure function of the hypothesis and the
// exchange; it performs no I/O and calls no external model.
package classifier

import (
	"fmt"
	"strings"

	"gauntlet/domain/core"
	"gauntlet/domain/exchange"
	"gauntlet/domain/hypothesis"
)

// Classifier re-derives whatever checks it can from the cited material.
type Classifier struct{}

// New creates a classifier.
func New() *Classifier {
	return &Classifier{}
}

// Classify labels one exchange. It fails with a malformed-input error when
// the critique does not reference the hypothesis's current revision or the
// defense does not answer the critique; every other mismatch is a
// classification, not an error.
func (c *Classifier) Classify(h hypothesis.Hypothesis, crit exchange.Critique, def exchange.Defense) (exchange.Outcome, error) {
	if crit.HypothesisID != h.ID {
		return exchange.Outcome{}, core.NewMalformedInputError(
			fmt.Sprintf("critique targets hypothesis %s, round hypothesis is %s", crit.HypothesisID, h.ID))
	}
	if crit.Revision != h.Revision {
		return exchange.Outcome{}, core.ErrUnknownRevision
	}
	if def.CritiqueID != crit.ID {
		return exchange.Outcome{}, core.ErrDetachedDefense
	}
	if !def.Kind.Valid() {
		return exchange.Outcome{}, core.NewMalformedInputError("unknown defense kind " + string(def.Kind))
	}

	if fabricated, name := c.fabricatedCitation(h, crit); fabricated {
		caught := def.Kind == exchange.DefenseRefutation
		return exchange.Fabrication(caught,
			fmt.Sprintf("cited parameter %q does not appear in the hypothesis and has no derivation path", name)), nil
	}

	switch def.Kind {
	case exchange.DefenseAcknowledgment:
		return exchange.Valid(c.severity(crit), true, "defender conceded the defect"), nil

	case exchange.DefenseRepair:
		// Proposing a repair concedes the defect exists; whether the repair
		// is accepted is the router's business, not the classifier's.
		return exchange.Valid(c.severity(crit), true, "defender conceded the defect via repair"), nil

	default: // refutation
		return c.classifyRefutation(h, crit, def), nil
	}
}

// classifyRefutation settles a contested critique by re-deriving whatever
// checkable claim either side put forward.
func (c *Classifier) classifyRefutation(h hypothesis.Hypothesis, crit exchange.Critique, def exchange.Defense) exchange.Outcome {
	// A defense backed by a dimensional calculation the classifier can
	// reproduce is the strongest evidence available.
	if def.Calculation != nil {
		consistent, err := CheckEquation(def.Calculation.Equation, h.Parameters)
		switch {
		case err != nil:
			return exchange.Ambiguous("defense calculation could not be re-derived: " + err.Error())
		case consistent:
			return exchange.FalseAlarm("re-derived defense calculation is dimensionally consistent")
		default:
			// The defender's own calculation exposes the defect.
			return exchange.Valid(c.severity(crit), false, "defense calculation confirms the dimensional mismatch")
		}
	}

	// No calculation from the defender: try the critique's cited equations.
	for _, eq := range crit.CitedEquations {
		if !strings.Contains(eq, "=") {
			continue
		}
		consistent, err := CheckEquation(eq, h.Parameters)
		if err != nil {
			continue
		}
		if !consistent {
			return exchange.Valid(c.severity(crit), false, "cited equation is dimensionally inconsistent: "+eq)
		}
		return exchange.FalseAlarm("cited equation checks out dimensionally: " + eq)
	}

	// Last resort: physical-bounds screening of the cited parameters.
	if violations := ScreenBounds(h.Parameters, crit.CitedParameters); len(violations) > 0 {
		return exchange.Valid(c.severity(crit), false, strings.Join(violations, "; "))
	}

	// Both sides internally consistent, nothing checkable either way.
	return exchange.Ambiguous("refutation offers no re-derivable check")
}

// fabricatedCitation reports the first cited parameter that neither appears
// in the hypothesis parameters nor has a derivation path from them. A plain
// mention in the claim text counts as grounding; a compound citation (an
// expression over known parameters, e.g. "m*c^2") counts as derivable.
func (c *Classifier) fabricatedCitation(h hypothesis.Hypothesis, crit exchange.Critique) (bool, string) {
	for _, name := range crit.CitedParameters {
		if h.HasParameter(name) {
			continue
		}
		if strings.Contains(h.Claim, name) {
			continue
		}
		if isDerivable(name, h.Parameters) {
			continue
		}
		return true, name
	}
	return false, ""
}

// isDerivable treats a compound citation as grounded when every identifier
// in it resolves to an existing parameter.
func isDerivable(name string, params map[string]hypothesis.Quantity) bool {
	if !strings.ContainsAny(name, "*/^") {
		return false
	}
	_, err := termDimension(name, params)
	return err == nil
}

// severity resolves the critique's hint, defaulting to moderate when the
// hint is absent or unrecognized.
func (c *Classifier) severity(crit exchange.Critique) exchange.Severity {
	if crit.SeverityHint.Valid() {
		return crit.SeverityHint
	}
	return exchange.SeverityModerate
}
