package batch

import (
	"math/rand"
	"testing"
	"time"
)

func TestBudgetNeverOverspends(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := NewBudget(10*time.Second, 20*time.Second, 8, rng)
	total := b.Remaining()
	if total < 10*time.Second || total > 20*time.Second {
		t.Fatalf("drawn total %v outside [10s, 20s]", total)
	}

	spent := time.Duration(0)
	for i := 0; i < 8; i++ {
		d := b.Take(DelayNormal)
		if d < 0 {
			t.Fatalf("negative delay %v", d)
		}
		spent += d
	}
	// Thinking-time bonuses may exceed the budget itself but the budgeted
	// part must not.
	if b.Remaining() < 0 {
		t.Fatalf("budget went negative: %v", b.Remaining())
	}
}

func TestBudgetExhaustsAfterActions(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	b := NewBudget(time.Second, time.Second, 2, rng)
	b.Take(DelayNormal)
	b.Take(DelayNormal)
	for i := 0; i < 5; i++ {
		if d := b.Take(DelayCritical); d != 0 {
			t.Fatalf("exhausted budget returned %v", d)
		}
	}
}

func TestCategoryRanges(t *testing.T) {
	cases := []struct {
		cat    DelayCategory
		lo, hi float64
	}{
		{DelayCritical, 0.8, 2.0},
		{DelayTransition, 0.5, 1.5},
		{DelayWaiting, 0.2, 0.8},
		{DelayNormal, 0.6, 1.2},
		{DelayCategory("unknown"), 0.6, 1.2},
	}
	for _, c := range cases {
		lo, hi := categoryRange(c.cat)
		if lo != c.lo || hi != c.hi {
			t.Fatalf("%s: got (%v, %v), want (%v, %v)", c.cat, lo, hi, c.lo, c.hi)
		}
	}
}

func TestBudgetWaitingFasterThanCritical(t *testing.T) {
	// Averaged over many draws, waiting delays must come out shorter than
	// critical delays for the same share.
	var waiting, critical time.Duration
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		b := NewBudget(10*time.Second, 10*time.Second, 10, rng)
		waiting += b.Take(DelayWaiting)
		rng2 := rand.New(rand.NewSource(seed))
		b2 := NewBudget(10*time.Second, 10*time.Second, 10, rng2)
		critical += b2.Take(DelayCritical)
	}
	if waiting >= critical {
		t.Fatalf("waiting total %v should be below critical total %v", waiting, critical)
	}
}
