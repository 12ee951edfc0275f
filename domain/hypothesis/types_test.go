package hypothesis

import (
	"testing"

	"gauntlet/domain/core"
)

func TestStageProgression(t *testing.T) {
	order := []Stage{StageGeneration, StageAnalytical, StageSimulation, StageOversight}
	for i, s := range order {
		if !s.Valid() {
			t.Errorf("stage %d should be valid", int(s))
		}
		if i < len(order)-1 && s.Next() != order[i+1] {
			t.Errorf("Next(%s) = %s, want %s", s, s.Next(), order[i+1])
		}
	}
	if Stage(0).Valid() || Stage(5).Valid() {
		t.Error("stages outside 1..4 must be invalid")
	}
}

func TestParseStage(t *testing.T) {
	if _, err := ParseStage(0); err == nil {
		t.Error("expected error for stage 0")
	}
	s, err := ParseStage(3)
	if err != nil {
		t.Fatalf("ParseStage(3) failed: %v", err)
	}
	if s != StageSimulation {
		t.Errorf("ParseStage(3) = %s, want simulation", s)
	}
}

func TestPatchApply(t *testing.T) {
	h := Hypothesis{
		ID:    core.NewHypothesisID(),
		Claim: "original claim",
		Parameters: map[string]Quantity{
			"T": {Value: 300, Unit: "K"},
			"m": {Value: 2, Unit: "kg"},
		},
		Stage: StageAnalytical,
	}

	newClaim := "repaired claim"
	patch := Patch{
		Claim:      &newClaim,
		Parameters: map[string]Quantity{"T": {Value: 310, Unit: "K"}},
		Remove:     []string{"m"},
	}

	repaired := patch.Apply(h)

	if repaired.Revision != 1 {
		t.Errorf("revision = %d, want 1", repaired.Revision)
	}
	if repaired.Claim != newClaim {
		t.Errorf("claim = %q", repaired.Claim)
	}
	if repaired.Parameters["T"].Value != 310 {
		t.Errorf("T not patched: %v", repaired.Parameters["T"])
	}
	if repaired.HasParameter("m") {
		t.Error("m should have been removed")
	}

	// Original untouched.
	if h.Revision != 0 || h.Claim != "original claim" || !h.HasParameter("m") {
		t.Errorf("original hypothesis mutated: %+v", h)
	}
}

func TestPatchIsEmpty(t *testing.T) {
	if !(Patch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	claim := "x"
	if (Patch{Claim: &claim}).IsEmpty() {
		t.Error("claim patch is not empty")
	}
	if (Patch{Remove: []string{"a"}}).IsEmpty() {
		t.Error("removal patch is not empty")
	}
}

func TestHypothesisValidate(t *testing.T) {
	valid := Hypothesis{ID: core.NewHypothesisID(), Claim: "c", Stage: StageGeneration}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid hypothesis rejected: %v", err)
	}

	tests := []struct {
		name string
		h    Hypothesis
	}{
		{"empty id", Hypothesis{Claim: "c", Stage: StageGeneration}},
		{"empty claim", Hypothesis{ID: core.NewHypothesisID(), Stage: StageGeneration}},
		{"bad stage", Hypothesis{ID: core.NewHypothesisID(), Claim: "c", Stage: 9}},
		{"negative revision", Hypothesis{ID: core.NewHypothesisID(), Claim: "c", Stage: StageGeneration, Revision: -1}},
	}
	for _, test := range tests {
		if err := test.h.Validate(); err == nil {
			t.Errorf("%s: expected validation error", test.name)
		}
	}
}

func TestCloneIsolation(t *testing.T) {
	h := Hypothesis{
		ID:         core.NewHypothesisID(),
		Claim:      "c",
		Parameters: map[string]Quantity{"x": {Value: 1, Unit: "m"}},
		Stage:      StageGeneration,
	}
	c := h.Clone()
	c.Parameters["x"] = Quantity{Value: 2, Unit: "m"}
	if h.Parameters["x"].Value != 1 {
		t.Error("clone shares the parameter map")
	}
}
