package images

import (
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"
)

// thumbCardSelector matches the thumbnail cards on the thumbnail tab.
const thumbCardSelector = `.ant-modal .ant-upload-list-item, .ant-modal [class*="thumbnail"] [draggable="true"]`

// ThumbnailCount reads the "총 N개의 썸네일" banner.
func (m *Manager) ThumbnailCount() (int, error) {
	var text string
	script := `
(function() {
	var els = document.querySelectorAll('.ant-modal span, .ant-modal div');
	for (var i = 0; i < els.length; i++) {
		var t = els[i].textContent;
		if (t && t.indexOf('총') !== -1 && t.indexOf('개의 썸네일') !== -1 && t.length < 30) {
			return t;
		}
	}
	return '';
})();
`
	if err := chromedp.Run(m.ctx, chromedp.Evaluate(script, &text)); err != nil {
		return 0, fmt.Errorf("failed to read thumbnail banner: %w", err)
	}
	n, ok := ParseThumbnailBanner(text)
	if !ok {
		return 0, fmt.Errorf("thumbnail banner not found or unparseable: %q", text)
	}
	return n, nil
}

// DeleteThumbnail hovers the i-th thumbnail card to reveal its delete icon,
// clicks it, and confirms in the ant confirm modal.
func (m *Manager) DeleteThumbnail(i int) bool {
	script := fmt.Sprintf(`
(function() {
	var cards = document.querySelectorAll(%q);
	if (cards.length <= %d) return false;
	var card = cards[%d];
	card.dispatchEvent(new MouseEvent('mouseover', {bubbles: true}));
	var del = card.querySelector('.anticon-delete, [aria-label="delete"]');
	if (!del) return false;
	del.click();
	return true;
})();
`, thumbCardSelector, i, i)

	var clicked bool
	if err := chromedp.Run(m.ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		log.Printf("[Images] Thumbnail delete %d failed: %v", i, err)
		return false
	}
	if !clicked {
		return false
	}
	time.Sleep(500 * time.Millisecond)

	confirm := `
(function() {
	var ok = document.querySelector('.ant-modal-confirm .ant-btn-primary, .ant-popover .ant-btn-primary');
	if (ok) { ok.click(); return true; }
	return false;
})();
`
	var confirmed bool
	if err := chromedp.Run(m.ctx, chromedp.Evaluate(confirm, &confirmed)); err != nil {
		log.Printf("[Images] Thumbnail delete confirm failed: %v", err)
		return false
	}
	time.Sleep(500 * time.Millisecond)
	return confirmed
}

// MoveThumbnailToFront drags the i-th thumbnail into the first position.
// Three strategies run in order, each on any failure of the previous:
// CDP press/move/release between the card centers, scripted HTML5 drag
// events with a stub DataTransfer, and a click-hold/move/release by
// geometric delta. Success is declared as soon as the post-move DOM shows
// a new first card. i == 0 is a no-op success.
func (m *Manager) MoveThumbnailToFront(i int) bool {
	if i == 0 {
		return true
	}

	before, err := m.firstThumbKey()
	if err != nil {
		log.Printf("[Images] Could not read first-thumb key: %v", err)
	}

	strategies := []func(int) error{
		m.dragByCDP,
		m.dragByHTML5Events,
		m.dragByOffset,
	}

	for n, strategy := range strategies {
		if err := strategy(i); err != nil {
			log.Printf("[Images] Drag strategy %d failed: %v", n+1, err)
			continue
		}
		time.Sleep(time.Second)
		after, err := m.firstThumbKey()
		if err == nil && after != before && after != "" {
			log.Printf("[Images] Thumbnail %d moved to front (strategy %d)", i, n+1)
			return true
		}
		log.Printf("[Images] Drag strategy %d ran but order unchanged", n+1)
	}
	return false
}

// firstThumbKey fingerprints the current first thumbnail card.
func (m *Manager) firstThumbKey() (string, error) {
	script := fmt.Sprintf(`
(function() {
	var cards = document.querySelectorAll(%q);
	if (cards.length === 0) return '';
	var img = cards[0].querySelector('img');
	return img ? (img.src || '') : cards[0].textContent.trim();
})();
`, thumbCardSelector)

	var key string
	if err := chromedp.Run(m.ctx, chromedp.Evaluate(script, &key)); err != nil {
		return "", err
	}
	return key, nil
}

// thumbCenter reads the viewport center of the i-th thumbnail card.
func (m *Manager) thumbCenter(i int) (int, int, error) {
	script := fmt.Sprintf(`
(function() {
	var cards = document.querySelectorAll(%q);
	if (cards.length <= %d) return null;
	var r = cards[%d].getBoundingClientRect();
	return {x: Math.round(r.left + r.width / 2), y: Math.round(r.top + r.height / 2)};
})();
`, thumbCardSelector, i, i)

	var pos *struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	if err := chromedp.Run(m.ctx, chromedp.Evaluate(script, &pos)); err != nil {
		return 0, 0, err
	}
	if pos == nil {
		return 0, 0, fmt.Errorf("thumbnail %d not found", i)
	}
	return pos.X, pos.Y, nil
}

// dragByCDP drags via raw CDP mouse events between the card centers.
func (m *Manager) dragByCDP(i int) error {
	sx, sy, err := m.thumbCenter(i)
	if err != nil {
		return err
	}
	tx, ty, err := m.thumbCenter(0)
	if err != nil {
		return err
	}
	return performDrag(m.ctx, sx, sy, tx, ty, 300*time.Millisecond, 100*time.Millisecond)
}

// dragByHTML5Events fires dragstart/dragover/drop/dragend with a stub
// DataTransfer on the source and target cards.
func (m *Manager) dragByHTML5Events(i int) error {
	script := fmt.Sprintf(`
(function() {
	var cards = document.querySelectorAll(%q);
	if (cards.length <= %d) return false;
	var source = cards[%d];
	var target = cards[0];
	var dt = {
		data: {},
		setData: function(k, v) { this.data[k] = v; },
		getData: function(k) { return this.data[k]; },
		effectAllowed: 'move',
		dropEffect: 'move'
	};
	function fire(el, type) {
		var ev = new Event(type, {bubbles: true, cancelable: true});
		ev.dataTransfer = dt;
		el.dispatchEvent(ev);
	}
	fire(source, 'dragstart');
	fire(target, 'dragenter');
	fire(target, 'dragover');
	fire(target, 'drop');
	fire(source, 'dragend');
	return true;
})();
`, thumbCardSelector, i, i)

	var fired bool
	if err := chromedp.Run(m.ctx, chromedp.Evaluate(script, &fired)); err != nil {
		return err
	}
	if !fired {
		return fmt.Errorf("html5 drag events could not be dispatched")
	}
	return nil
}

// dragByOffset presses on the source card, moves by the geometric delta to
// the first slot, and releases. The slow middle movement gives ant's sort
// listener time to register intermediate positions.
func (m *Manager) dragByOffset(i int) error {
	sx, sy, err := m.thumbCenter(i)
	if err != nil {
		return err
	}
	tx, ty, err := m.thumbCenter(0)
	if err != nil {
		return err
	}
	return performDrag(m.ctx, sx, sy, tx, ty, 600*time.Millisecond, 300*time.Millisecond)
}
