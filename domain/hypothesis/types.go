package hypothesis

import (
	"fmt"

	"gauntlet/domain/core"
)

// Stage is one of the four ordered pipeline phases a hypothesis passes
// through. Stages are numbered 1..4; the checkpoint between two stages is
// where an adversarial exchange is evaluated and routed.
type Stage int

const (
	StageGeneration Stage = iota + 1 // divergent generation
	StageAnalytical                  // symbolic constraint checking
	StageSimulation                  // numerical validation
	StageOversight                   // human / meta review
)

// MinStage and MaxStage bound the valid stage range.
const (
	MinStage = StageGeneration
	MaxStage = StageOversight
)

var stageNames = map[Stage]string{
	StageGeneration: "generation",
	StageAnalytical: "analytical",
	StageSimulation: "simulation",
	StageOversight:  "oversight",
}

// Valid reports whether the stage is inside the pipeline range.
func (s Stage) Valid() bool {
	return s >= MinStage && s <= MaxStage
}

// Next returns the following stage. Calling Next on the last stage is a
// programming error; callers gate on s < MaxStage.
func (s Stage) Next() Stage {
	return s + 1
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ParseStage converts a stage number into a Stage, rejecting values outside
// the pipeline range.
func ParseStage(n int) (Stage, error) {
	s := Stage(n)
	if !s.Valid() {
		return 0, core.NewInvalidStageError(n)
	}
	return s, nil
}

// Quantity is a named parameter value with its unit, e.g. {700, "K"}.
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Hypothesis is the unit of work flowing through the pipeline. It is owned
// exclusively by the tournament ledger for the duration of a tournament;
// Stage and Revision are mutated only through routing decisions.
type Hypothesis struct {
	ID             core.HypothesisID   `json:"id"`
	Claim          string              `json:"claim"`
	Parameters     map[string]Quantity `json:"parameters"`
	Stage          Stage               `json:"stage"`
	Revision       int                 `json:"revision"`
	SafetyCritical bool                `json:"safety_critical,omitempty"`
}

// HasParameter reports whether the hypothesis declares the named parameter.
func (h Hypothesis) HasParameter(name string) bool {
	_, ok := h.Parameters[name]
	return ok
}

// Clone returns a deep copy; the parameter map is never shared.
func (h Hypothesis) Clone() Hypothesis {
	params := make(map[string]Quantity, len(h.Parameters))
	for k, v := range h.Parameters {
		params[k] = v
	}
	c := h
	c.Parameters = params
	return c
}

// Validate checks structural invariants on an incoming hypothesis record.
func (h Hypothesis) Validate() error {
	if h.ID.String() == "" {
		return core.NewMalformedInputError("hypothesis id is empty")
	}
	if h.Claim == "" {
		return core.NewMalformedInputError("hypothesis claim is empty")
	}
	if !h.Stage.Valid() {
		return core.NewInvalidStageError(int(h.Stage))
	}
	if h.Revision < 0 {
		return core.NewMalformedInputError("hypothesis revision is negative")
	}
	return nil
}

// Patch is a proposed repair: a claim replacement and/or parameter delta.
// Applying a patch is the only operation that increments the revision.
type Patch struct {
	Claim      *string             `json:"claim,omitempty"`
	Parameters map[string]Quantity `json:"parameters,omitempty"`
	Remove     []string            `json:"remove,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Claim == nil && len(p.Parameters) == 0 && len(p.Remove) == 0
}

// Apply returns a repaired copy of h with the revision incremented. The
// receiver hypothesis is never mutated.
func (p Patch) Apply(h Hypothesis) Hypothesis {
	repaired := h.Clone()
	if p.Claim != nil {
		repaired.Claim = *p.Claim
	}
	for name, q := range p.Parameters {
		repaired.Parameters[name] = q
	}
	for _, name := range p.Remove {
		delete(repaired.Parameters, name)
	}
	repaired.Revision++
	return repaired
}
