package editor

// Session is the live state for exactly one product's edit. Created on
// product-open, populated during the edit, consumed during routing,
// discarded after. Sessions do not outlive a single product.
type Session struct {
	// SourceMemo is the original memo text captured before any mutation
	SourceMemo string
	// DetailImageCount is captured once, after any capping step
	DetailImageCount int
	// OptionCount is captured once at the options tab
	OptionCount int
	// ThumbnailCount is captured once at the thumbnail tab of the original
	ThumbnailCount int
}

// TotalContent is the routing input: post-cap image count plus options.
func (s *Session) TotalContent() int {
	return s.DetailImageCount + s.OptionCount
}

// DefaultContentTotalMax is the routing threshold between the staging-new
// and never-delete destinations.
const DefaultContentTotalMax = 50

// Destination names the routing outcome of a single-original edit.
type Destination int

const (
	// DestStagingNew routes content-light products onward
	DestStagingNew Destination = iota
	// DestNeverDelete quarantines content-heavy products
	DestNeverDelete
)

// DestinationFor decides routing from the total content count: at or below
// max goes to staging-new, above goes to never-delete.
func DestinationFor(total, max int) Destination {
	if total <= max {
		return DestStagingNew
	}
	return DestNeverDelete
}

// SuffixCursor rotates A..Z across the products of one batch. Shared
// across original and clones, advanced once per product.
type SuffixCursor struct {
	i int
}

// Next returns the current letter and advances the cursor.
func (c *SuffixCursor) Next() string {
	letter := string(rune('A' + c.i%26))
	c.i++
	return letter
}

// Position returns the cursor's current index (0..25 wrapping).
func (c *SuffixCursor) Position() int {
	return c.i % 26
}

// GroupNames maps the pipeline's group roles to their localized labels.
// The code treats every label as an opaque string.
type GroupNames struct {
	Staging     string // source pool for the single-original batch
	StagingNew  string // single-original destination, total <= max
	NeverDelete string // single-original destination, total > max
	Staging3    string // source pool for the clone-fanout batch
	Wait3       string // landing pad between open and cloning
	ShopA3      string // marketplace destination, original
	ShopB3      string // marketplace destination, clone 1
	ShopC3      string // marketplace destination, clone 2
	ShopD3      string // marketplace destination, clone 3
	Discard     string // failure sink
	Neighbor    string // toggle target for refresh-by-reselect
}

// DefaultGroupNames returns the labels the production account set uses.
func DefaultGroupNames() GroupNames {
	return GroupNames{
		Staging:     "수집상품",
		StagingNew:  "신규수집",
		NeverDelete: "삭제X",
		Staging3:    "수집3",
		Wait3:       "대기3",
		ShopA3:      "쇼핑몰A3",
		ShopB3:      "쇼핑몰B3",
		ShopC3:      "쇼핑몰C3",
		ShopD3:      "쇼핑몰D3",
		Discard:     "중복X",
		Neighbor:    "신규수집",
	}
}

// ShopFor returns the marketplace destination for a sibling slot.
func (g GroupNames) ShopFor(slot int) string {
	switch slot % SiblingSlots {
	case 0:
		return g.ShopA3
	case 1:
		return g.ShopB3
	case 2:
		return g.ShopC3
	default:
		return g.ShopD3
	}
}

// Ordinals returns the by-position fallback table for the row group
// dropdown, keyed by label.
func (g GroupNames) Ordinals() map[string]int {
	return map[string]int{
		g.StagingNew:  2,
		g.NeverDelete: 3,
	}
}
