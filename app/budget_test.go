package app

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"gauntlet/domain/core"
)

func TestBudgetSpend(t *testing.T) {
	b := NewBudget(10)

	if err := b.Spend(4); err != nil {
		t.Fatalf("Spend failed: %v", err)
	}
	if err := b.Spend(6); err != nil {
		t.Fatalf("Spend failed: %v", err)
	}
	if got := b.Remaining(); got != 0 {
		t.Errorf("remaining = %d, want 0", got)
	}
	if err := b.Spend(1); !errors.Is(err, core.ErrBudgetExhausted) {
		t.Errorf("expected ErrBudgetExhausted, got %v", err)
	}
}

func TestBudgetDisabled(t *testing.T) {
	b := NewBudget(0)
	for i := 0; i < 100; i++ {
		if err := b.Spend(1000); err != nil {
			t.Fatalf("disabled budget must never fail: %v", err)
		}
	}
	if got := b.Remaining(); got != -1 {
		t.Errorf("remaining = %d, want -1 for disabled budget", got)
	}
}

// TestBudgetConcurrentSpend hammers the CAS loop: the number of successful
// unit spends must be exactly the budget, no double-grants, no lost units.
func TestBudgetConcurrentSpend(t *testing.T) {
	const total = 1000
	const workers = 16
	const attempts = 200

	b := NewBudget(total)

	var granted atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < attempts; i++ {
				if err := b.Spend(1); err == nil {
					granted.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	if got := granted.Load(); got != total {
		t.Errorf("granted %d units, want exactly %d", got, total)
	}
	if got := b.Remaining(); got != 0 {
		t.Errorf("remaining = %d, want 0", got)
	}
}
