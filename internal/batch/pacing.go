// Package batch runs edit pipelines product after product until the
// staging group drains, the quota is met, or the run is cancelled.
package batch

import (
	"context"
	"math/rand"
	"time"
)

// DelayCategory weights an action's share of the pacing budget. Slower
// categories read as deliberation, faster ones as routine motion.
type DelayCategory string

const (
	// DelayCritical covers irreversible actions (delete, clone, save)
	DelayCritical DelayCategory = "critical"
	// DelayTransition covers tab switches and group changes
	DelayTransition DelayCategory = "transition"
	// DelayWaiting covers polls where the page is already doing the waiting
	DelayWaiting DelayCategory = "waiting"
	// DelayNormal covers everything else
	DelayNormal DelayCategory = "normal"
)

// categoryRange returns the multiplier band for a category.
func categoryRange(cat DelayCategory) (float64, float64) {
	switch cat {
	case DelayCritical:
		return 0.8, 2.0
	case DelayTransition:
		return 0.5, 1.5
	case DelayWaiting:
		return 0.2, 0.8
	default:
		return 0.6, 1.2
	}
}

// thinkChance is the probability of an extra 1-3s pause on any delay.
const thinkChance = 0.05

// Budget spreads a per-product pacing allowance across a known number of
// actions. Each Take consumes an even share scaled by the category band,
// never exceeding what remains; once the budget or the action count is
// spent, further delays are zero.
type Budget struct {
	remaining   time.Duration
	actionsLeft int
	rng         *rand.Rand
}

// NewBudget draws a total between min and max and splits it over actions.
func NewBudget(min, max time.Duration, actions int, rng *rand.Rand) *Budget {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	total := min
	if max > min {
		total = min + time.Duration(rng.Int63n(int64(max-min)))
	}
	if actions < 1 {
		actions = 1
	}
	return &Budget{remaining: total, actionsLeft: actions, rng: rng}
}

// Remaining reports the unspent part of the budget.
func (b *Budget) Remaining() time.Duration {
	return b.remaining
}

// Take consumes and returns the next delay for the given category.
func (b *Budget) Take(cat DelayCategory) time.Duration {
	if b.actionsLeft <= 0 || b.remaining <= 0 {
		return 0
	}
	share := b.remaining / time.Duration(b.actionsLeft)
	b.actionsLeft--

	lo, hi := categoryRange(cat)
	mult := lo + b.rng.Float64()*(hi-lo)
	d := time.Duration(float64(share) * mult)
	if d > b.remaining {
		d = b.remaining
	}
	b.remaining -= d

	if b.rng.Float64() < thinkChance {
		d += time.Second + time.Duration(b.rng.Int63n(int64(2*time.Second)))
	}
	return d
}

// Sleep takes a delay and sleeps it, honoring cancellation.
func (b *Budget) Sleep(ctx context.Context, cat DelayCategory) error {
	d := b.Take(cat)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
