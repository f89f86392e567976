// Package group drives the listing's group controls: the per-row group
// picker, the bulk-assignment modal, and the top-of-page group filter
// strip. Product rows are referenced by current-view index only; any
// mutation (move, clone, delete) invalidates previously held indices, so
// callers re-query "first row" rather than caching handles.
package group

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/percenty/edit-agent/internal/click"
	"github.com/percenty/edit-agent/internal/flow"
	"github.com/percenty/edit-agent/internal/keyboard"
	"github.com/percenty/edit-agent/internal/selector"
)

// moveRetries bounds the move-product verification loop.
const moveRetries = 3

// Helper operates the group controls of one browser session.
type Helper struct {
	ctx      context.Context
	clicker  *click.Clicker
	keys     *keyboard.Driver
	ordinals map[string]int
}

// NewHelper creates a group helper. ordinals maps group labels to their
// well-known position in the row dropdown and backs the by-ordinal
// fallback; it may be nil.
func NewHelper(ctx context.Context, clicker *click.Clicker, keys *keyboard.Driver, ordinals map[string]int) *Helper {
	return &Helper{ctx: ctx, clicker: clicker, keys: keys, ordinals: ordinals}
}

// SelectAllProducts toggles the header select-all checkbox. The checkbox's
// own DOM state lags, so verification polls the bulk "Assign Group" button
// instead: it becomes enabled iff any row is checked.
func (h *Helper) SelectAllProducts() bool {
	if !h.clicker.Click(selector.SelectAllCheckbox, 500*time.Millisecond) {
		return false
	}
	return h.waitBulkAssignEnabled(3 * time.Second)
}

// HasSelectAll reports whether the select-all checkbox is present. An
// empty listing renders no header checkbox.
func (h *Helper) HasSelectAll() bool {
	return h.clicker.Exists(selector.SelectAllCheckbox)
}

// SelectFirstProduct checks only the first row's checkbox.
func (h *Helper) SelectFirstProduct() bool {
	script := `
(function() {
	var rows = document.querySelectorAll('.ant-table-tbody tr input[type="checkbox"]');
	if (rows.length === 0) return false;
	rows[0].click();
	return true;
})();
`
	var clicked bool
	if err := chromedp.Run(h.ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		log.Printf("[Group] First-row checkbox click failed: %v", err)
		return false
	}
	if !clicked {
		log.Printf("[Group] No row checkbox found")
		return false
	}
	time.Sleep(300 * time.Millisecond)
	return h.waitBulkAssignEnabled(3 * time.Second)
}

// waitBulkAssignEnabled polls the bulk-assign button's disabled attribute.
func (h *Helper) waitBulkAssignEnabled(maxWait time.Duration) bool {
	script := `
(function() {
	var btns = document.querySelectorAll('button');
	for (var i = 0; i < btns.length; i++) {
		if (btns[i].textContent.indexOf('그룹 지정') !== -1) {
			return !btns[i].disabled;
		}
	}
	return false;
})();
`
	deadline := time.Now().Add(maxWait)
	for time.Now().Before(deadline) {
		var enabled bool
		if err := chromedp.Run(h.ctx, chromedp.Evaluate(script, &enabled)); err == nil && enabled {
			return true
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Printf("[Group] Bulk-assign button never enabled within %v", maxWait)
	return false
}

// OpenRowGroupDropdown opens the group picker on the given row.
func (h *Helper) OpenRowGroupDropdown(rowIndex int) bool {
	script := fmt.Sprintf(`
(function() {
	var cells = document.querySelectorAll('.ant-table-tbody tr .ant-select-selector');
	if (cells.length <= %d) return false;
	cells[%d].dispatchEvent(new MouseEvent('mousedown', {bubbles: true, cancelable: true}));
	return true;
})();
`, rowIndex, rowIndex)

	var opened bool
	if err := chromedp.Run(h.ctx, chromedp.Evaluate(script, &opened)); err != nil {
		log.Printf("[Group] Row dropdown open failed: %v", err)
		return false
	}
	if !opened {
		log.Printf("[Group] Row %d group dropdown not found", rowIndex)
		return false
	}
	time.Sleep(700 * time.Millisecond)
	return true
}

// SelectGroupByName picks an option in the currently open group dropdown:
// types into its embedded search box if one exists, otherwise scrolls the
// virtual list; then clicks the first option whose trimmed text matches
// name case-insensitively.
func (h *Helper) SelectGroupByName(name string) bool {
	searchScript := `
(function() {
	var search = document.querySelector('.ant-select-dropdown:not(.ant-select-dropdown-hidden) input[type="search"]');
	if (!search) return false;
	search.focus();
	return true;
})();
`
	var hasSearch bool
	if err := chromedp.Run(h.ctx, chromedp.Evaluate(searchScript, &hasSearch)); err != nil {
		log.Printf("[Group] Dropdown search probe failed: %v", err)
		return false
	}

	if hasSearch {
		if err := h.keys.Overwrite(name); err != nil {
			log.Printf("[Group] Typing group name failed: %v", err)
		}
		time.Sleep(700 * time.Millisecond)
	} else {
		h.scrollDropdownTo(name)
	}

	return h.clickDropdownOption(name)
}

// scrollDropdownTo scrolls the virtual list until an option matching name
// is rendered or the list stops growing.
func (h *Helper) scrollDropdownTo(name string) {
	script := fmt.Sprintf(`
(function() {
	var list = document.querySelector('.ant-select-dropdown:not(.ant-select-dropdown-hidden) .rc-virtual-list-holder');
	if (!list) return false;
	var want = %q.trim().toLowerCase();
	var options = document.querySelectorAll('.ant-select-dropdown:not(.ant-select-dropdown-hidden) .ant-select-item-option');
	for (var i = 0; i < options.length; i++) {
		if (options[i].textContent.trim().toLowerCase() === want) return true;
	}
	list.scrollTop += list.clientHeight;
	return false;
})();
`, name)

	for i := 0; i < 20; i++ {
		var found bool
		if err := chromedp.Run(h.ctx, chromedp.Evaluate(script, &found)); err != nil || found {
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// clickDropdownOption clicks the first rendered option matching name.
func (h *Helper) clickDropdownOption(name string) bool {
	script := fmt.Sprintf(`
(function() {
	var want = %q.trim().toLowerCase();
	var options = document.querySelectorAll('.ant-select-dropdown:not(.ant-select-dropdown-hidden) .ant-select-item-option');
	for (var i = 0; i < options.length; i++) {
		if (options[i].textContent.trim().toLowerCase() === want) {
			options[i].click();
			return true;
		}
	}
	return false;
})();
`, name)

	var clicked bool
	if err := chromedp.Run(h.ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		log.Printf("[Group] Dropdown option click failed: %v", err)
		return false
	}
	if !clicked {
		log.Printf("[Group] No dropdown option matched %q", name)
		return false
	}
	time.Sleep(time.Second)
	return true
}

// selectGroupByOrdinal clicks the n-th option (zero-based) in the open
// dropdown. Backs the second step of the move cascade when name matching
// fails against a re-rendered list.
func (h *Helper) selectGroupByOrdinal(ordinal int) bool {
	script := fmt.Sprintf(`
(function() {
	var options = document.querySelectorAll('.ant-select-dropdown:not(.ant-select-dropdown-hidden) .ant-select-item-option');
	if (options.length <= %d) return false;
	options[%d].click();
	return true;
})();
`, ordinal, ordinal)

	var clicked bool
	if err := chromedp.Run(h.ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		log.Printf("[Group] Ordinal option click failed: %v", err)
		return false
	}
	if clicked {
		time.Sleep(time.Second)
	}
	return clicked
}

// MoveProductToGroup moves the row at rowIndex into the named group through
// the three-step cascade: by-name via the row dropdown, by-ordinal via the
// row dropdown, then the bulk-assignment modal with a named radio. Success
// is verified by the row's title leaving the listing or its group cell
// showing the destination; unverified attempts retry with backoff.
func (h *Helper) MoveProductToGroup(name string, rowIndex int) bool {
	title, err := h.RowTitle(rowIndex)
	if err != nil {
		log.Printf("[Group] Could not read row %d title before move: %v", rowIndex, err)
	}
	hasTitle := err == nil && title != ""

	cfg := flow.DefaultRetryConfig()
	cfg.MaxAttempts = moveRetries
	err = flow.Retry(h.ctx, cfg, func() error {
		moved := false

		if h.OpenRowGroupDropdown(rowIndex) && h.SelectGroupByName(name) {
			moved = true
		}

		if !moved {
			ordinal, ok := h.ordinals[name]
			if ok && h.OpenRowGroupDropdown(rowIndex) && h.selectGroupByOrdinal(ordinal) {
				moved = true
			}
		}

		if !moved {
			if h.SelectFirstProduct() && h.assignViaBulkModal(name) {
				moved = true
			}
		}

		if !moved {
			return flow.New(flow.CategoryActionFailed,
				fmt.Sprintf("move cascade exhausted for %q", name), nil)
		}
		if !h.verifyMove(title, hasTitle, name) {
			return flow.New(flow.CategoryStaleReference,
				fmt.Sprintf("move to %q unverified", name), nil)
		}
		return nil
	})
	if err != nil {
		log.Printf("[Group] Move of row %d to %q failed: %v", rowIndex, name, err)
		return false
	}
	log.Printf("[Group] Moved row %d to %q", rowIndex, name)
	return true
}

// assignViaBulkModal opens the bulk group-assign modal, selects the named
// radio, and confirms.
func (h *Helper) assignViaBulkModal(name string) bool {
	if !h.clicker.Click(selector.BulkAssignButton, time.Second) {
		return false
	}

	script := fmt.Sprintf(`
(function() {
	var want = %q.trim().toLowerCase();
	var radios = document.querySelectorAll('.ant-modal .ant-radio-wrapper');
	for (var i = 0; i < radios.length; i++) {
		if (radios[i].textContent.trim().toLowerCase() === want) {
			radios[i].click();
			var ok = document.querySelector('.ant-modal .ant-btn-primary');
			if (ok) {
				setTimeout(function() { ok.click(); }, 300);
				return true;
			}
			return false;
		}
	}
	return false;
})();
`, name)

	var assigned bool
	if err := chromedp.Run(h.ctx, chromedp.Evaluate(script, &assigned)); err != nil {
		log.Printf("[Group] Bulk-assign modal script failed: %v", err)
		return false
	}
	if assigned {
		time.Sleep(1500 * time.Millisecond)
	}
	return assigned
}

// verifyMove confirms a move landed: the title is gone from the listing
// (the filter excludes the destination) or a row's group cell now shows
// the destination name. Without a title to anchor on there is nothing to
// match rows against, so the cascade's own click verification stands.
func (h *Helper) verifyMove(title string, hasTitle bool, groupName string) bool {
	if !hasTitle {
		log.Printf("[Group] No row title captured; skipping move verification")
		return true
	}
	script := fmt.Sprintf(`
(function() {
	var title = %q;
	var group = %q.trim().toLowerCase();
	var rows = document.querySelectorAll('.ant-table-tbody tr');
	var titlePresent = false;
	for (var i = 0; i < rows.length; i++) {
		var text = rows[i].textContent;
		if (text.indexOf(title) !== -1) {
			titlePresent = true;
			var cell = rows[i].querySelector('.ant-select-selection-item');
			if (cell && cell.textContent.trim().toLowerCase() === group) {
				return true;
			}
		}
	}
	return !titlePresent;
})();
`, title, groupName)

	var ok bool
	if err := chromedp.Run(h.ctx, chromedp.Evaluate(script, &ok)); err != nil {
		log.Printf("[Group] Move verification failed: %v", err)
		return false
	}
	return ok
}

// SelectGroupInListing chooses a group in the top-of-page filter strip.
// Selecting the same group twice yields the same filtered view.
func (h *Helper) SelectGroupInListing(name string) bool {
	script := fmt.Sprintf(`
(function() {
	var want = %q.trim().toLowerCase();
	var radios = document.querySelectorAll('.ant-radio-group label, .ant-radio-group .ant-radio-button-wrapper');
	for (var i = 0; i < radios.length; i++) {
		if (radios[i].textContent.trim().toLowerCase().indexOf(want) !== -1) {
			radios[i].click();
			return true;
		}
	}
	return false;
})();
`, name)

	var clicked bool
	if err := chromedp.Run(h.ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		log.Printf("[Group] Listing group select failed: %v", err)
		return false
	}
	if !clicked {
		log.Printf("[Group] Group %q not found in listing strip", name)
		return false
	}
	time.Sleep(1500 * time.Millisecond)
	return true
}

// RefreshByReselect re-renders the target group's listing by selecting a
// neighbor group and the target again. The SaaS has no native refresh
// action.
func (h *Helper) RefreshByReselect(target, neighbor string) bool {
	if !h.SelectGroupInListing(neighbor) {
		return false
	}
	return h.SelectGroupInListing(target)
}

// RowCount counts the currently rendered listing rows.
func (h *Helper) RowCount() (int, error) {
	var count int
	script := `document.querySelectorAll('.ant-table-tbody tr[data-row-key]').length`
	if err := chromedp.Run(h.ctx, chromedp.Evaluate(script, &count)); err != nil {
		return 0, fmt.Errorf("failed to count listing rows: %w", err)
	}
	return count, nil
}

// RowTitle reads the product title cell of the given row.
func (h *Helper) RowTitle(rowIndex int) (string, error) {
	script := fmt.Sprintf(`
(function() {
	var rows = document.querySelectorAll('.ant-table-tbody tr[data-row-key]');
	if (rows.length <= %d) return '';
	var cell = rows[%d].querySelector('a, .product-name, td:nth-child(3)');
	return cell ? cell.textContent.trim() : '';
})();
`, rowIndex, rowIndex)

	var title string
	if err := chromedp.Run(h.ctx, chromedp.Evaluate(script, &title)); err != nil {
		return "", fmt.Errorf("failed to read row %d title: %w", rowIndex, err)
	}
	return strings.TrimSpace(title), nil
}

// TotalCount reads the "총 N개 상품" banner. A missing or unparseable
// banner means the listing has not rendered yet.
func (h *Helper) TotalCount() (int, bool) {
	var text string
	script := `
(function() {
	var els = document.querySelectorAll('span, div');
	for (var i = 0; i < els.length; i++) {
		var t = els[i].textContent;
		if (t && t.indexOf('총') !== -1 && t.indexOf('개 상품') !== -1 && t.length < 40) {
			return t;
		}
	}
	return '';
})();
`
	if err := chromedp.Run(h.ctx, chromedp.Evaluate(script, &text)); err != nil {
		log.Printf("[Group] Total banner read failed: %v", err)
		return 0, false
	}
	return ParseTotal(text)
}
