package editor

import (
	"fmt"
	"testing"
)

// fakeListing models the group listing as named slices of row titles.
type fakeListing struct {
	groups      map[string][]string
	current     string
	moves       []string
	noSelectAll bool
}

func newFakeListing(groups map[string][]string) *fakeListing {
	return &fakeListing{groups: groups}
}

func (f *fakeListing) SelectGroupInListing(name string) bool {
	f.current = name
	return true
}

func (f *fakeListing) HasSelectAll() bool {
	if f.noSelectAll {
		return false
	}
	return len(f.groups[f.current]) > 0
}

func (f *fakeListing) RowCount() (int, error) {
	return len(f.groups[f.current]), nil
}

func (f *fakeListing) RowTitle(rowIndex int) (string, error) {
	rows := f.groups[f.current]
	if rowIndex >= len(rows) {
		return "", fmt.Errorf("row %d out of range", rowIndex)
	}
	return rows[rowIndex], nil
}

func (f *fakeListing) MoveProductToGroup(name string, rowIndex int) bool {
	rows := f.groups[f.current]
	if rowIndex >= len(rows) {
		return false
	}
	title := rows[rowIndex]
	rest := make([]string, 0, len(rows)-1)
	rest = append(rest, rows[:rowIndex]...)
	rest = append(rest, rows[rowIndex+1:]...)
	f.groups[f.current] = rest
	f.groups[name] = append(f.groups[name], title)
	f.moves = append(f.moves, name)
	return true
}

func (f *fakeListing) RefreshByReselect(target, neighbor string) bool {
	f.current = target
	return true
}

func newTestFanout(listing listingOps) *FanoutEditor {
	return &FanoutEditor{
		Editor:  &Editor{groupNames: DefaultGroupNames()},
		listing: listing,
	}
}

func TestDrainWaitGroupSweepsResidueToDiscard(t *testing.T) {
	names := DefaultGroupNames()
	listing := newFakeListing(map[string][]string{
		names.Wait3:    {"상품 하나 (1)", "상품 하나 (2)"},
		names.Staging3: {"대기중 상품"},
	})
	f := newTestFanout(listing)

	if got := f.DrainWaitGroup(); got != 2 {
		t.Fatalf("drained %d rows, want 2", got)
	}
	if n := len(listing.groups[names.Wait3]); n != 0 {
		t.Fatalf("wait group still holds %d rows", n)
	}
	if n := len(listing.groups[names.Discard]); n != 2 {
		t.Fatalf("discard group holds %d rows, want 2", n)
	}
	// Residue never re-enters the source pool.
	if n := len(listing.groups[names.Staging3]); n != 1 {
		t.Fatalf("staging group holds %d rows, want 1", n)
	}
	for _, dest := range listing.moves {
		if dest != names.Discard {
			t.Fatalf("drain moved a row to %q", dest)
		}
	}
}

func TestDrainWaitGroupWithoutSelectAll(t *testing.T) {
	names := DefaultGroupNames()
	listing := newFakeListing(map[string][]string{
		names.Wait3: {"유령 상품"},
	})
	listing.noSelectAll = true
	f := newTestFanout(listing)

	if got := f.DrainWaitGroup(); got != 0 {
		t.Fatalf("drained %d rows from a listing without select-all", got)
	}
	if len(listing.moves) != 0 {
		t.Fatalf("unexpected moves: %v", listing.moves)
	}
}

func TestDiscardWaitGroupSweep(t *testing.T) {
	names := DefaultGroupNames()
	listing := newFakeListing(map[string][]string{
		names.Wait3: {"상품", "상품 (1)", "상품 (2)", "상품 (3)"},
	})
	listing.current = names.Wait3
	f := newTestFanout(listing)

	f.discardWaitGroup()
	if n := len(listing.groups[names.Wait3]); n != 0 {
		t.Fatalf("wait group still holds %d rows after sweep", n)
	}
	if n := len(listing.groups[names.Discard]); n != 4 {
		t.Fatalf("discard group holds %d rows, want 4", n)
	}
}
