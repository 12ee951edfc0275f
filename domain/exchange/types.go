package exchange

import (
	"gauntlet/domain/core"
	"gauntlet/domain/hypothesis"
)

// Severity grades a claimed defect
type Severity string

const (
	SeverityMajor    Severity = "major"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// Valid reports whether the severity is one of the recognized grades.
func (s Severity) Valid() bool {
	switch s {
	case SeverityMajor, SeverityModerate, SeverityMinor:
		return true
	}
	return false
}

// Critique is the challenger's claimed defect against a specific hypothesis
// revision. Immutable once submitted.
type Critique struct {
	ID              core.CritiqueID   `json:"id"`
	HypothesisID    core.HypothesisID `json:"hypothesis_id"`
	Revision        int               `json:"revision"`
	Description     string            `json:"description"`
	SeverityHint    Severity          `json:"severity_hint,omitempty"`
	CitedEquations  []string          `json:"cited_equations,omitempty"`
	CitedParameters []string          `json:"cited_parameters,omitempty"`
	SubmittedAt     core.Timestamp    `json:"submitted_at"`
}

// DefenseKind distinguishes how the defender answers a critique.
type DefenseKind string

const (
	DefenseRefutation     DefenseKind = "refutation"
	DefenseRepair         DefenseKind = "repair"
	DefenseAcknowledgment DefenseKind = "acknowledgment"
)

// Valid reports whether the kind is one of the recognized defense forms.
func (k DefenseKind) Valid() bool {
	switch k {
	case DefenseRefutation, DefenseRepair, DefenseAcknowledgment:
		return true
	}
	return false
}

// DimensionalClaim is a structured calculation attached to a defense: an
// equation over the hypothesis parameters whose dimensional consistency the
// classifier re-derives on its own. A refutation backed by a claim that
// checks out turns the critique into a false alarm.
type DimensionalClaim struct {
	Equation string `json:"equation"` // e.g. "Q = h * A * dT"
}

// Defense is the defender's answer to one critique. Immutable once
// submitted.
type Defense struct {
	ID          core.DefenseID    `json:"id"`
	CritiqueID  core.CritiqueID   `json:"critique_id"`
	Kind        DefenseKind       `json:"kind"`
	Patch       *hypothesis.Patch `json:"patch,omitempty"`
	Evidence    string            `json:"evidence,omitempty"`
	Calculation *DimensionalClaim `json:"calculation,omitempty"`
	SubmittedAt core.Timestamp    `json:"submitted_at"`
}

// ProposesRepair reports whether the defense carries a non-empty patch.
func (d Defense) ProposesRepair() bool {
	return d.Kind == DefenseRepair && d.Patch != nil && !d.Patch.IsEmpty()
}

// OutcomeKind classifies a (critique, defense) exchange.
type OutcomeKind string

const (
	OutcomeValid       OutcomeKind = "valid"
	OutcomeFalseAlarm  OutcomeKind = "false_alarm"
	OutcomeFabrication OutcomeKind = "fabrication"
	OutcomeAmbiguous   OutcomeKind = "ambiguous"
)

// Outcome is the classifier's verdict on one exchange. Severity is set only
// for valid outcomes. Acknowledged records whether the defender conceded the
// defect; CaughtByDefender records whether a fabrication was exposed by the
// defense rather than by the classifier alone.
type Outcome struct {
	Kind             OutcomeKind `json:"kind"`
	Severity         Severity    `json:"severity,omitempty"`
	Acknowledged     bool        `json:"acknowledged,omitempty"`
	CaughtByDefender bool        `json:"caught_by_defender,omitempty"`
	Rationale        string      `json:"rationale,omitempty"`
}

// Category is the outcome identity used for stalemate detection: two rounds
// are "the same" when kind and severity both match.
func (o Outcome) Category() string {
	if o.Kind == OutcomeValid {
		return string(o.Kind) + "/" + string(o.Severity)
	}
	return string(o.Kind)
}

// Convenience constructors

func Valid(severity Severity, acknowledged bool, rationale string) Outcome {
	return Outcome{Kind: OutcomeValid, Severity: severity, Acknowledged: acknowledged, Rationale: rationale}
}

func FalseAlarm(rationale string) Outcome {
	return Outcome{Kind: OutcomeFalseAlarm, Rationale: rationale}
}

func Fabrication(caughtByDefender bool, rationale string) Outcome {
	return Outcome{Kind: OutcomeFabrication, CaughtByDefender: caughtByDefender, Rationale: rationale}
}

func Ambiguous(rationale string) Outcome {
	return Outcome{Kind: OutcomeAmbiguous, Rationale: rationale}
}
