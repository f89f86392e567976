package editor

import (
	"fmt"
	"log"
	"time"

	"github.com/percenty/edit-agent/internal/flow"
	"github.com/percenty/edit-agent/internal/selector"
)

// cloneCount is how many copies each source product spawns. With the
// original that makes one sibling per marketplace shop group.
const cloneCount = SiblingSlots - 1

// cloneSettle is the wait after each clone click; the SaaS inserts the
// copy server-side and the listing only reflects it after a refresh.
const cloneSettle = 3 * time.Second

// AccountSuffixes holds the per-shop title suffixes loaded from the
// account table, indexed by sibling slot.
type AccountSuffixes [SiblingSlots]string

// listingOps is the slice of the group helper the fan-out flow drives.
type listingOps interface {
	SelectGroupInListing(name string) bool
	HasSelectAll() bool
	RowCount() (int, error)
	RowTitle(rowIndex int) (string, error)
	MoveProductToGroup(name string, rowIndex int) bool
	RefreshByReselect(target, neighbor string) bool
}

// FanoutEditor runs the clone-fanout flow: one product is isolated in the
// wait group, cloned three times, and each sibling is suffixed,
// discounted, re-thumbnailed, and routed to its shop group.
type FanoutEditor struct {
	*Editor
	listing  listingOps
	suffixes AccountSuffixes
	batches  *BatchCounter
	// typeOccurrence counts sources processed in the current batch
	typeOccurrence int
}

// NewFanoutEditor wires the fan-out flow over a shared editor core.
func NewFanoutEditor(e *Editor, suffixes AccountSuffixes, batches *BatchCounter) *FanoutEditor {
	return &FanoutEditor{Editor: e, listing: e.groups, suffixes: suffixes, batches: batches}
}

// DrainWaitGroup sweeps stranded products from the wait group into the
// discard group. Leftovers mean a prior run aborted mid-product and may
// include partially-edited clones; returning them to the source pool
// would fan them out again, so they are written off instead. A wait
// listing without the select-all control is treated as empty.
func (f *FanoutEditor) DrainWaitGroup() int {
	if !f.listing.SelectGroupInListing(f.groupNames.Wait3) {
		log.Printf("[Fanout] Wait group not selectable, assuming empty")
		return 0
	}
	if !f.listing.HasSelectAll() {
		log.Printf("[Fanout] Wait group shows no select-all control, treating as empty")
		return 0
	}
	drained := 0
	for {
		rows, err := f.listing.RowCount()
		if err != nil || rows == 0 {
			break
		}
		if !f.listing.MoveProductToGroup(f.groupNames.Discard, 0) {
			log.Printf("[Fanout] Drain move failed with %d rows left", rows)
			break
		}
		drained++
		f.listing.RefreshByReselect(f.groupNames.Wait3, f.groupNames.Neighbor)
	}
	if drained > 0 {
		log.Printf("[Fanout] Drained %d stranded products from wait group into %q", drained, f.groupNames.Discard)
	}
	return drained
}

// RunOne fans the first product of the fan-out staging listing out into
// four marketplace siblings. The caller must have the staging group
// selected and non-empty.
func (f *FanoutEditor) RunOne() (Outcome, error) {
	var out Outcome
	batch := f.batches.Current()
	if batch == 0 {
		batch = f.batches.Next()
	}
	occurrence := f.typeOccurrence
	f.typeOccurrence++

	if err := f.isolateInWaitGroup(); err != nil {
		return out, err
	}

	session := &Session{}

	// Pass 1: edit the original in place. The first two clone clicks come
	// before the account suffix lands so those copies keep the unsuffixed
	// title; the third comes after, once the suffix is saved.
	if err := f.openFirstProduct(); err != nil {
		return out, err
	}

	if f.openMemoModal() {
		if !f.saveMemoOnly() {
			log.Printf("[Fanout] Memo exposure save failed, continuing")
		}
	}

	if f.switchTab(selector.TabOption) {
		n, err := f.countOptions()
		if err != nil {
			log.Printf("[Fanout] %v", err)
		}
		session.OptionCount = n
		if f.isMultiOption() {
			if !f.refineOptions() {
				log.Printf("[Fanout] Option refinement failed, continuing")
			}
		}
	}

	if !f.cloneProduct() {
		return out, flow.New(flow.CategoryActionFailed, "clone 1 failed", nil)
	}
	time.Sleep(cloneSettle)

	if !f.switchTab(selector.TabBasic) {
		return out, flow.New(flow.CategoryActionFailed, "basic tab never activated", nil)
	}

	if !f.cloneProduct() {
		return out, flow.New(flow.CategoryActionFailed, "clone 2 failed", nil)
	}
	time.Sleep(cloneSettle)

	f.deleteWarningWords()
	// The original never carries a clone counter, so nothing is stripped.
	if !f.names.ApplyAccountSuffix(f.suffixes[0], false) {
		return out, flow.New(flow.CategoryActionFailed, "original title suffix failed", nil)
	}
	if title, err := f.names.CurrentTitle(); err == nil {
		out.Title = title
	}

	if !f.cloneProduct() {
		return out, flow.New(flow.CategoryActionFailed, "clone 3 failed", nil)
	}
	time.Sleep(cloneSettle)

	if f.switchTab(selector.TabPrice) {
		rate := RateForSlot(0, occurrence, batch)
		if !f.setDiscountRate(rate) {
			log.Printf("[Fanout] Original discount set failed, continuing")
		}
	}

	if f.switchTab(selector.TabThumbnail) {
		n, err := f.imgs.ThumbnailCount()
		if err != nil {
			log.Printf("[Fanout] %v", err)
		}
		session.ThumbnailCount = n
		// Blur whatever input still holds focus so its value saves.
		if err := f.keys.Tab(1); err != nil {
			log.Printf("[Fanout] Post-count blur failed: %v", err)
		}
	}

	closeResult, err := f.closeModal()
	out.NameConflicts += closeResult.NameConflicts
	if err != nil {
		return out, err
	}

	// The wait listing must now hold the original plus its clones.
	if !f.verifySiblings() {
		f.discardWaitGroup()
		return out, flow.New(flow.CategoryCountMismatch,
			fmt.Sprintf("expected %d siblings after cloning", SiblingSlots), nil)
	}

	// Pass 2: finish each sibling and route it out. Clones carry the
	// platform's " (N)" counter; the one row without it is the original.
	cloneSlot := 1
	for processed := 0; processed < SiblingSlots; processed++ {
		title, err := f.listing.RowTitle(0)
		if err != nil {
			return out, flow.New(flow.CategoryStaleReference, "wait listing row unreadable", err)
		}

		if !HasCloneTail(title) {
			// Original: already suffixed and discounted in pass 1.
			if !f.listing.MoveProductToGroup(f.groupNames.ShopA3, 0) {
				return out, flow.New(flow.CategoryCountMismatch, "original routing move unverified", nil)
			}
			log.Printf("[Fanout] Original routed to %q", f.groupNames.ShopA3)
		} else {
			if cloneSlot >= SiblingSlots {
				return out, flow.New(flow.CategoryCountMismatch, "more clone rows than slots", nil)
			}
			if err := f.finishClone(cloneSlot, occurrence, batch, session); err != nil {
				return out, err
			}
			cloneSlot++
		}

		f.listing.RefreshByReselect(f.groupNames.Wait3, f.groupNames.Neighbor)
	}

	out.Session = *session
	out.Destination = f.groupNames.ShopA3
	return out, nil
}

// finishClone opens the first wait-listing row (a clone), applies its
// slot's suffix, discount, and thumbnail rotation, and routes it to the
// slot's shop group.
func (f *FanoutEditor) finishClone(slot, occurrence, batch int, session *Session) error {
	if err := f.openFirstProduct(); err != nil {
		return err
	}

	if f.switchTab(selector.TabBasic) {
		if !f.names.ApplyAccountSuffix(f.suffixes[slot], true) {
			return flow.New(flow.CategoryActionFailed,
				fmt.Sprintf("clone %d title suffix failed", slot), nil)
		}
	} else {
		return flow.New(flow.CategoryActionFailed, "basic tab never activated", nil)
	}

	if f.switchTab(selector.TabPrice) {
		rate := RateForSlot(slot, occurrence, batch)
		if !f.setDiscountRate(rate) {
			log.Printf("[Fanout] Clone %d discount set failed, continuing", slot)
		}
	}

	// Rotating a different thumbnail to the front differentiates the
	// siblings' listing images across shops.
	if session.ThumbnailCount > slot && f.switchTab(selector.TabThumbnail) {
		if !f.imgs.MoveThumbnailToFront(slot) {
			log.Printf("[Fanout] Clone %d thumbnail rotation failed, continuing", slot)
		}
	}

	result, err := f.closeModal()
	if err != nil {
		return err
	}
	if result.NameConflicts > 0 && !result.ConflictResolved {
		return flow.New(flow.CategoryNameConflict, "clone title never accepted", nil)
	}

	dest := f.groupNames.ShopFor(slot)
	time.Sleep(time.Second)
	if !f.listing.MoveProductToGroup(dest, 0) {
		return flow.New(flow.CategoryCountMismatch,
			fmt.Sprintf("clone %d routing move unverified", slot), nil)
	}
	log.Printf("[Fanout] Clone %d routed to %q", slot, dest)
	return nil
}

// isolateInWaitGroup moves the staging listing's first row into the wait
// group and confirms the wait listing holds exactly that one product.
func (f *FanoutEditor) isolateInWaitGroup() error {
	if !f.listing.MoveProductToGroup(f.groupNames.Wait3, 0) {
		return flow.New(flow.CategoryActionFailed, "move to wait group failed", nil)
	}

	for attempt := 0; attempt < 3; attempt++ {
		if !f.listing.SelectGroupInListing(f.groupNames.Wait3) {
			return flow.New(flow.CategoryLocatorMissing, "wait group filter missing", nil)
		}
		rows, err := f.listing.RowCount()
		if err == nil && rows == 1 {
			return nil
		}
		log.Printf("[Fanout] Wait listing shows %d rows, refreshing (attempt %d)", rows, attempt+1)
		f.listing.RefreshByReselect(f.groupNames.Wait3, f.groupNames.Neighbor)
	}
	return flow.New(flow.CategoryCountMismatch, "wait listing never settled at one row", nil)
}

// verifySiblings polls the wait listing for the full sibling count,
// refreshing between reads while the server-side clones land.
func (f *FanoutEditor) verifySiblings() bool {
	for attempt := 0; attempt < 5; attempt++ {
		f.listing.RefreshByReselect(f.groupNames.Wait3, f.groupNames.Neighbor)
		rows, err := f.listing.RowCount()
		if err == nil && rows == SiblingSlots {
			return true
		}
		log.Printf("[Fanout] Wait listing shows %d/%d siblings (attempt %d)", rows, SiblingSlots, attempt+1)
		time.Sleep(2 * time.Second)
	}
	return false
}

// discardWaitGroup sweeps every wait-listing row into the discard group
// after a failed fan-out, so the next product starts from a clean slate.
func (f *FanoutEditor) discardWaitGroup() {
	for i := 0; i < SiblingSlots*2; i++ {
		rows, err := f.listing.RowCount()
		if err != nil || rows == 0 {
			return
		}
		if !f.listing.MoveProductToGroup(f.groupNames.Discard, 0) {
			log.Printf("[Fanout] Discard sweep stalled with %d rows left", rows)
			return
		}
		f.listing.RefreshByReselect(f.groupNames.Wait3, f.groupNames.Neighbor)
	}
}

// BeginBatch advances the batch counter and resets the per-batch source
// occurrence count. Called once per fan-out batch by the driver.
func (f *FanoutEditor) BeginBatch() int {
	f.typeOccurrence = 0
	return f.batches.Next()
}
