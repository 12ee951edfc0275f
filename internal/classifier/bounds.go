package classifier

import (
	"fmt"
	"strings"

	"gauntlet/domain/hypothesis"
)

// ScreenBounds runs quick physical sanity checks over the named parameters
// and returns one message per violation. These are the defects a critique
// can legitimately claim and the classifier can confirm without conceding
// defenses: negative absolute temperatures, non-positive geometry, and
// dimensionless coefficients outside [0, 1].
func ScreenBounds(params map[string]hypothesis.Quantity, names []string) []string {
	var violations []string
	for _, name := range names {
		q, ok := params[name]
		if !ok {
			continue
		}
		dim, err := ParseUnit(q.Unit)
		if err != nil {
			continue
		}
		switch dim {
		case baseUnits["K"]:
			if q.Value < 0 {
				violations = append(violations, fmt.Sprintf("negative absolute temperature: %s=%g K", name, q.Value))
			}
		case baseUnits["m"], baseUnits["m"].pow(2), baseUnits["m"].pow(3), baseUnits["kg"]:
			if q.Value <= 0 {
				violations = append(violations, fmt.Sprintf("non-positive physical dimension: %s=%g %s", name, q.Value, q.Unit))
			}
		case Dimensionless:
			if isFractionName(name) && (q.Value < 0 || q.Value > 1) {
				violations = append(violations, fmt.Sprintf("coefficient outside [0,1]: %s=%g", name, q.Value))
			}
		}
	}
	return violations
}

// isFractionName flags dimensionless parameters conventionally bounded to
// [0,1]: emissivities, absorptivities, efficiencies.
func isFractionName(name string) bool {
	switch name {
	case "ε", "α", "η", "emissivity", "absorptivity", "efficiency", "eta":
		return true
	}
	return strings.HasPrefix(strings.ToLower(name), "eff")
}
