package editor

import "testing"

func TestRateForSlotFirstBatch(t *testing.T) {
	// Batch 1, first source: each slot starts its own sequence.
	want := []int{2, 15, 25, 35}
	for slot, rate := range want {
		if got := RateForSlot(slot, 0, 1); got != rate {
			t.Fatalf("slot %d: got %d, want %d", slot, got, rate)
		}
	}
}

func TestRateForSlotAdvancesWithOccurrence(t *testing.T) {
	if got := RateForSlot(0, 1, 1); got != 5 {
		t.Fatalf("second source slot 0: got %d, want 5", got)
	}
	if got := RateForSlot(0, 10, 1); got != 2 {
		t.Fatalf("occurrence should wrap at 10: got %d, want 2", got)
	}
}

func TestRateForSlotAdvancesWithBatch(t *testing.T) {
	if got := RateForSlot(0, 0, 2); got != 5 {
		t.Fatalf("batch 2 slot 0: got %d, want 5", got)
	}
	// Batch counter 0 (unset) behaves like batch 1.
	if got := RateForSlot(0, 0, 0); got != 2 {
		t.Fatalf("batch 0 slot 0: got %d, want 2", got)
	}
}

func TestRateForProduct(t *testing.T) {
	// Products 0..3 are the four slots of the first source.
	want := []int{2, 15, 25, 35}
	for i, rate := range want {
		if got := RateForProduct(i, 1); got != rate {
			t.Fatalf("product %d: got %d, want %d", i, got, rate)
		}
	}
	// Product 4 is slot 0 of the second source.
	if got := RateForProduct(4, 1); got != 5 {
		t.Fatalf("product 4: got %d, want 5", got)
	}
}

func TestBatchCounterMonotonic(t *testing.T) {
	var c BatchCounter
	if c.Current() != 0 {
		t.Fatalf("fresh counter should read 0, got %d", c.Current())
	}
	if got := c.Next(); got != 1 {
		t.Fatalf("first batch number: got %d, want 1", got)
	}
	if got := c.Next(); got != 2 {
		t.Fatalf("second batch number: got %d, want 2", got)
	}
	if c.Current() != 2 {
		t.Fatalf("current should track last issued, got %d", c.Current())
	}
}
