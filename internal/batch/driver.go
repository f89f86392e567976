package batch

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/percenty/edit-agent/internal/editor"
	"github.com/percenty/edit-agent/internal/flow"
	"github.com/percenty/edit-agent/internal/group"
)

// Termination reasons reported at the end of a run.
const (
	ReasonStagingEmpty = "staging_empty"
	ReasonQuotaReached = "quota_reached"
	ReasonFailureQuota = "failure_quota"
	ReasonCancelled    = "cancelled"
	ReasonModalStuck   = "modal_stuck"
)

// Pipeline is one product-edit flow the driver can run in a loop.
type Pipeline interface {
	// Name labels the pipeline in logs and reports
	Name() string
	// Staging is the group the pipeline consumes products from
	Staging() string
	// Prepare runs once before the loop (recovery, batch bookkeeping)
	Prepare() error
	// ProcessOne edits the staging listing's current first product
	ProcessOne() (editor.Outcome, error)
}

// Recorder receives the outcome of every processed product.
type Recorder interface {
	RecordProduct(pipeline string, out editor.Outcome, err error)
}

// Result summarizes a finished run.
type Result struct {
	Succeeded         int    `json:"succeeded"`
	Failed            int    `json:"failed"`
	TerminationReason string `json:"termination_reason"`
}

// Driver loops a pipeline over the staging group.
type Driver struct {
	groups      *group.Helper
	rec         Recorder
	discard     string
	quota       int
	maxFailures int

	// pacing budget bounds per product
	budgetMin time.Duration
	budgetMax time.Duration
	rng       *rand.Rand
}

// DriverConfig carries the driver's tunables.
type DriverConfig struct {
	// Quota caps processed products; 0 means run until empty
	Quota int
	// MaxFailures stops the run after this many failed products; 0 means
	// no failure limit
	MaxFailures int
	// Discard is the group failed products are swept into
	Discard string
	// BudgetMin/BudgetMax bound the per-product pacing allowance
	BudgetMin time.Duration
	BudgetMax time.Duration
}

// NewDriver creates a driver over the given group helper.
func NewDriver(groups *group.Helper, rec Recorder, cfg DriverConfig) *Driver {
	if cfg.BudgetMin == 0 {
		cfg.BudgetMin = 5 * time.Second
	}
	if cfg.BudgetMax < cfg.BudgetMin {
		cfg.BudgetMax = cfg.BudgetMin
	}
	return &Driver{
		groups:      groups,
		rec:         rec,
		discard:     cfg.Discard,
		quota:       cfg.Quota,
		maxFailures: cfg.MaxFailures,
		budgetMin:   cfg.BudgetMin,
		budgetMax:   cfg.BudgetMax,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// perProductActions sizes the pacing budget split. Roughly the number of
// budgeted pauses a single product's edit takes.
const perProductActions = 8

// Run processes products until the staging group is empty, the quota is
// reached, the context is cancelled, or a stuck modal forces a stop.
// Cancellation is only observed between products; an in-flight edit
// always runs to completion or failure.
func (d *Driver) Run(ctx context.Context, p Pipeline) Result {
	var res Result

	if !d.waitListingReady(ctx, 30*time.Second) {
		log.Printf("[Batch] Listing banner never appeared, proceeding anyway")
	}

	if err := p.Prepare(); err != nil {
		log.Printf("[Batch] %s prepare failed: %v", p.Name(), err)
	}

	for {
		if ctx.Err() != nil {
			res.TerminationReason = ReasonCancelled
			break
		}
		if d.quota > 0 && res.Succeeded+res.Failed >= d.quota {
			res.TerminationReason = ReasonQuotaReached
			break
		}
		if d.maxFailures > 0 && res.Failed >= d.maxFailures {
			res.TerminationReason = ReasonFailureQuota
			break
		}

		if !d.groups.SelectGroupInListing(p.Staging()) {
			log.Printf("[Batch] Staging group %q not selectable", p.Staging())
			res.TerminationReason = ReasonStagingEmpty
			break
		}
		rows, err := d.groups.RowCount()
		if err != nil || rows == 0 {
			res.TerminationReason = ReasonStagingEmpty
			break
		}

		budget := NewBudget(d.budgetMin, d.budgetMax, perProductActions, d.rng)
		_ = budget.Sleep(ctx, DelayTransition)

		out, err := p.ProcessOne()
		if d.rec != nil {
			d.rec.RecordProduct(p.Name(), out, err)
		}

		if err != nil {
			res.Failed++
			log.Printf("[Batch] %s product failed (%s): %v", p.Name(), flow.CategoryOf(err), err)
			if flow.IsFatal(err) {
				res.TerminationReason = ReasonModalStuck
				break
			}
			d.sweepFailed(p.Staging())
		} else {
			res.Succeeded++
			log.Printf("[Batch] %s product done (%d ok, %d failed)", p.Name(), res.Succeeded, res.Failed)
		}

		_ = budget.Sleep(ctx, DelayNormal)
	}

	log.Printf("[Batch] %s run finished: %d ok, %d failed, reason=%s",
		p.Name(), res.Succeeded, res.Failed, res.TerminationReason)
	return res
}

// waitListingReady polls for the group screen's product-count banner.
func (d *Driver) waitListingReady(ctx context.Context, maxWait time.Duration) bool {
	deadline := time.Now().Add(maxWait)
	for time.Now().Before(deadline) && ctx.Err() == nil {
		if total, ok := d.groups.TotalCount(); ok {
			log.Printf("[Batch] Listing ready, %d products total", total)
			return true
		}
		time.Sleep(time.Second)
	}
	return false
}

// sweepFailed moves the staging listing's first row into the discard
// group so a persistently failing product cannot wedge the loop.
func (d *Driver) sweepFailed(staging string) {
	if d.discard == "" {
		return
	}
	if !d.groups.SelectGroupInListing(staging) {
		return
	}
	rows, err := d.groups.RowCount()
	if err != nil || rows == 0 {
		return
	}
	if !d.groups.MoveProductToGroup(d.discard, 0) {
		log.Printf("[Batch] Failed product could not be swept to %q", d.discard)
	}
}

// SinglePipeline adapts the single-original editor to the driver loop.
type SinglePipeline struct {
	Ed           *editor.SingleEditor
	StagingGroup string
}

func (s *SinglePipeline) Name() string    { return "single_original" }
func (s *SinglePipeline) Staging() string { return s.StagingGroup }
func (s *SinglePipeline) Prepare() error  { return nil }
func (s *SinglePipeline) ProcessOne() (editor.Outcome, error) {
	return s.Ed.RunOne()
}

// FanoutPipeline adapts the clone-fanout editor to the driver loop.
type FanoutPipeline struct {
	Ed           *editor.FanoutEditor
	StagingGroup string
}

func (f *FanoutPipeline) Name() string    { return "clone_fanout" }
func (f *FanoutPipeline) Staging() string { return f.StagingGroup }

// Prepare drains the wait group and opens a fresh batch number.
func (f *FanoutPipeline) Prepare() error {
	f.Ed.DrainWaitGroup()
	batch := f.Ed.BeginBatch()
	log.Printf("[Batch] Fan-out batch %d starting", batch)
	return nil
}

func (f *FanoutPipeline) ProcessOne() (editor.Outcome, error) {
	return f.Ed.RunOne()
}
