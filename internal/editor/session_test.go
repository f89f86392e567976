package editor

import "testing"

func TestDestinationForBoundary(t *testing.T) {
	if DestinationFor(50, 50) != DestStagingNew {
		t.Fatal("total at the threshold should route to staging-new")
	}
	if DestinationFor(51, 50) != DestNeverDelete {
		t.Fatal("total above the threshold should route to never-delete")
	}
	if DestinationFor(0, 50) != DestStagingNew {
		t.Fatal("zero total should route to staging-new")
	}
}

func TestTotalContent(t *testing.T) {
	s := Session{DetailImageCount: 30, OptionCount: 21}
	if got := s.TotalContent(); got != 51 {
		t.Fatalf("got %d, want 51", got)
	}
}

func TestSuffixCursorRotation(t *testing.T) {
	var c SuffixCursor
	if got := c.Next(); got != "A" {
		t.Fatalf("first letter: got %q", got)
	}
	if got := c.Next(); got != "B" {
		t.Fatalf("second letter: got %q", got)
	}
	for i := 0; i < 24; i++ {
		c.Next()
	}
	if got := c.Next(); got != "A" {
		t.Fatalf("cursor should wrap after Z: got %q", got)
	}
}

func TestShopForSlots(t *testing.T) {
	g := DefaultGroupNames()
	want := []string{g.ShopA3, g.ShopB3, g.ShopC3, g.ShopD3}
	for slot, name := range want {
		if got := g.ShopFor(slot); got != name {
			t.Fatalf("slot %d: got %q, want %q", slot, got, name)
		}
	}
	if got := g.ShopFor(4); got != g.ShopA3 {
		t.Fatalf("slot 4 should wrap to shop A: got %q", got)
	}
}

func TestOrdinalsTable(t *testing.T) {
	g := DefaultGroupNames()
	ords := g.Ordinals()
	if ords[g.StagingNew] != 2 {
		t.Fatalf("staging-new ordinal: got %d", ords[g.StagingNew])
	}
	if ords[g.NeverDelete] != 3 {
		t.Fatalf("never-delete ordinal: got %d", ords[g.NeverDelete])
	}
}

func TestMemoMarker(t *testing.T) {
	if got := memoMarker("공급처 메모"); got != "공급처 메모-S" {
		t.Fatalf("got %q", got)
	}
	if got := memoMarker("메모  "); got != "메모-S" {
		t.Fatalf("trailing spaces should not survive: got %q", got)
	}
}
