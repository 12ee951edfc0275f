package classifier

import (
	"strings"

	"gauntlet/domain/hypothesis"
)

// RepairPreservesConsistency decides whether a proposed patch keeps every
// previously passed check intact. The patch is applied to a scratch copy;
// each equation that held before must still hold under the patched
// parameters, no patched parameter may fail bounds screening, and the patch
// must not remove a parameter an equation still depends on.
//
// passedEquations is the set of equations that checked out dimensionally in
// earlier rounds of the tournament.
func RepairPreservesConsistency(h hypothesis.Hypothesis, patch hypothesis.Patch, passedEquations []string) bool {
	if patch.IsEmpty() {
		return false
	}
	repaired := patch.Apply(h)

	for _, eq := range passedEquations {
		if !strings.Contains(eq, "=") {
			continue
		}
		consistent, err := CheckEquation(eq, repaired.Parameters)
		if err != nil || !consistent {
			return false
		}
	}

	names := make([]string, 0, len(repaired.Parameters))
	for name := range repaired.Parameters {
		names = append(names, name)
	}
	return len(ScreenBounds(repaired.Parameters, names)) == 0
}
