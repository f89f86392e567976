// Package images manages the two image surfaces of the edit modal: the
// detail-image bulk-edit drawer and the thumbnail tab.
package images

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/percenty/edit-agent/internal/click"
	"github.com/percenty/edit-agent/internal/modal"
	"github.com/percenty/edit-agent/internal/selector"
)

// DefaultImageCap is the detail-image ceiling applied per product.
const DefaultImageCap = 30

// drawerTitlePhrase identifies the detail-image drawer once open.
const drawerTitlePhrase = "상세페이지 이미지"

// Manager operates the image panels of one browser session.
type Manager struct {
	ctx     context.Context
	clicker *click.Clicker
	modals  *modal.Supervisor
}

// NewManager creates an image panel manager.
func NewManager(ctx context.Context, clicker *click.Clicker, modals *modal.Supervisor) *Manager {
	return &Manager{ctx: ctx, clicker: clicker, modals: modals}
}

// OpenDrawer clicks the bulk-edit button on the detail tab and waits for
// the drawer whose title names the detail-page images.
func (m *Manager) OpenDrawer() bool {
	if !m.clicker.Click(selector.DetailBulkEditOpen, time.Second) {
		return false
	}

	script := fmt.Sprintf(`
(function() {
	var drawers = document.querySelectorAll('.ant-drawer-open .ant-drawer-title, .ant-drawer-open .ant-drawer-header');
	for (var i = 0; i < drawers.length; i++) {
		if (drawers[i].textContent.indexOf(%q) !== -1) return true;
	}
	return false;
})();
`, drawerTitlePhrase)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var open bool
		if err := chromedp.Run(m.ctx, chromedp.Evaluate(script, &open)); err == nil && open {
			return true
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Printf("[Images] Detail-image drawer never opened")
	return false
}

// CloseDrawer dismisses the drawer, ESC first with the close-button scan
// as fallback.
func (m *Manager) CloseDrawer() bool {
	return m.modals.ForceClose()
}

// Count reads the drawer's image-count banner, falling back to counting
// the DOM cards when the banner is missing.
func (m *Manager) Count() (int, error) {
	var text string
	bannerScript := `
(function() {
	var els = document.querySelectorAll('.ant-drawer-open span, .ant-drawer-open div');
	for (var i = 0; i < els.length; i++) {
		var t = els[i].textContent;
		if (t && t.indexOf('총') !== -1 && t.indexOf('개의 이미지') !== -1 && t.length < 30) {
			return t;
		}
	}
	return '';
})();
`
	if err := chromedp.Run(m.ctx, chromedp.Evaluate(bannerScript, &text)); err != nil {
		return 0, fmt.Errorf("failed to read image banner: %w", err)
	}
	if n, ok := ParseImageBanner(text); ok {
		return n, nil
	}

	var count int
	cardScript := `
(function() {
	var cards = document.querySelectorAll('.ant-drawer-open img');
	return cards.length;
})();
`
	if err := chromedp.Run(m.ctx, chromedp.Evaluate(cardScript, &count)); err != nil {
		return 0, fmt.Errorf("failed to count image cards: %w", err)
	}
	log.Printf("[Images] Banner unparseable, counted %d DOM cards", count)
	return count, nil
}

// DeleteIndex deletes the i-th image card. The delete control has no
// stable class; it is the text-equals "삭제" span inside the i-th container
// that also has an img descendant, revealed on hover.
func (m *Manager) DeleteIndex(i int) bool {
	script := fmt.Sprintf(`
(function() {
	var containers = [];
	var all = document.querySelectorAll('.ant-drawer-open div');
	for (var k = 0; k < all.length; k++) {
		var el = all[k];
		if (el.querySelector(':scope > img, :scope > * > img')) {
			var hasDelete = false;
			var spans = el.querySelectorAll('span');
			for (var s = 0; s < spans.length; s++) {
				if (spans[s].textContent.trim() === '삭제') { hasDelete = true; break; }
			}
			if (hasDelete) containers.push(el);
		}
	}
	if (containers.length <= %d) return false;
	var target = containers[%d];
	target.scrollIntoView({block: 'center'});
	target.dispatchEvent(new MouseEvent('mouseover', {bubbles: true}));
	var spans = target.querySelectorAll('span');
	for (var s = 0; s < spans.length; s++) {
		if (spans[s].textContent.trim() === '삭제') {
			spans[s].click();
			return true;
		}
	}
	return false;
})();
`, i, i)

	var deleted bool
	if err := chromedp.Run(m.ctx, chromedp.Evaluate(script, &deleted)); err != nil {
		log.Printf("[Images] Delete index %d failed: %v", i, err)
		return false
	}
	if deleted {
		time.Sleep(500 * time.Millisecond)
	}
	return deleted
}

// DeleteFirstN deletes the first n images. Deletion shifts indices, so
// each iteration deletes index 0.
func (m *Manager) DeleteFirstN(n int) int {
	deleted := 0
	for i := 0; i < n; i++ {
		if !m.DeleteIndex(0) {
			break
		}
		deleted++
	}
	return deleted
}

// DeleteLastN deletes the last n images, re-reading the count between
// deletes so a failed delete cannot loop on a stale index.
func (m *Manager) DeleteLastN(n int) int {
	deleted := 0
	for i := 0; i < n; i++ {
		count, err := m.Count()
		if err != nil || count == 0 {
			break
		}
		if !m.DeleteIndex(count - 1) {
			break
		}
		deleted++
	}
	return deleted
}

// Cap deletes the images beyond limit, trailing first. Idempotent: a
// second call with the same limit deletes nothing.
func (m *Manager) Cap(limit int) (int, error) {
	count, err := m.Count()
	if err != nil {
		return 0, err
	}
	excess := ExcessOver(count, limit)
	if excess == 0 {
		return count, nil
	}
	log.Printf("[Images] Capping %d images to %d (deleting %d)", count, limit, excess)
	m.DeleteLastN(excess)
	return m.Count()
}
