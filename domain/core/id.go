package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	HypothesisID ID
	TournamentID ID
	CritiqueID   ID
	DefenseID    ID
)

// Typed constructors
func NewHypothesisID() HypothesisID { return HypothesisID(NewID()) }
func NewTournamentID() TournamentID { return TournamentID(NewID()) }
func NewCritiqueID() CritiqueID     { return CritiqueID(NewID()) }
func NewDefenseID() DefenseID       { return DefenseID(NewID()) }

// String conversions for domain IDs
func (id HypothesisID) String() string { return ID(id).String() }
func (id TournamentID) String() string { return ID(id).String() }
func (id CritiqueID) String() string   { return ID(id).String() }
func (id DefenseID) String() string    { return ID(id).String() }

// Emptiness checks for domain IDs
func (id HypothesisID) IsZero() bool { return ID(id).IsEmpty() }
func (id TournamentID) IsZero() bool { return ID(id).IsEmpty() }
func (id CritiqueID) IsZero() bool   { return ID(id).IsEmpty() }
func (id DefenseID) IsZero() bool    { return ID(id).IsEmpty() }

// ParseHypothesisID parses a string into HypothesisID
func ParseHypothesisID(s string) (HypothesisID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("hypothesis ID cannot be empty")
	}
	return HypothesisID(s), nil
}

// ParseTournamentID parses a string into TournamentID
func ParseTournamentID(s string) (TournamentID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("tournament ID cannot be empty")
	}
	return TournamentID(s), nil
}

// ParseCritiqueID parses a string into CritiqueID
func ParseCritiqueID(s string) (CritiqueID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("critique ID cannot be empty")
	}
	return CritiqueID(s), nil
}
