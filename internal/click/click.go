// Package click implements the hybrid clicker: a logical "click an element"
// is attempted through the descriptor's fallback order, DOM locator first,
// converted screen coordinates second. The SaaS renders many controls as
// nested ant-design wrappers where the visible label is not the click
// target; scripted clicks on the inner element succeed where a synthetic
// coordinate click hits a decoration. Other controls live in closed
// shadow-DOM subtrees where only a coordinate click works. Neither method
// alone is sufficient.
package click

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/percenty/edit-agent/internal/selector"
)

// staleRetries is how many times a missing element is re-probed before the
// method is abandoned. Ant re-renders churn elements for a beat after any
// state change.
const staleRetries = 2

// probeInterval is the sleep between stale-element re-probes.
const probeInterval = 500 * time.Millisecond

// Clicker executes logical clicks against one browser session.
type Clicker struct {
	ctx      context.Context
	registry *selector.Registry
	convert  ConvertFunc
}

// NewClicker creates a clicker bound to the given browser context.
func NewClicker(ctx context.Context, registry *selector.Registry) *Clicker {
	return &Clicker{ctx: ctx, registry: registry, convert: Convert}
}

// SetConvert overrides the coordinate conversion function.
func (c *Clicker) SetConvert(fn ConvertFunc) {
	c.convert = fn
}

// Click resolves name in the registry and clicks it through the fallback
// order. postDelay is always slept, success or not; it is both an anti-race
// guard and a human-pacing knob.
func (c *Clicker) Click(name string, postDelay time.Duration) bool {
	el, ok := c.registry.Get(name)
	if !ok {
		log.Printf("[Clicker] Unknown element %s", name)
		return false
	}
	return c.ClickElement(el, postDelay)
}

// ClickElement clicks a descriptor through its fallback order.
func (c *Clicker) ClickElement(el selector.Element, postDelay time.Duration) bool {
	ok := false
	for _, method := range el.Fallback {
		switch method {
		case selector.MethodDOM:
			ok = c.clickDOM(el)
		case selector.MethodCoordinates:
			ok = c.clickConverted(el.Coords.X, el.Coords.Y)
		}
		if ok {
			break
		}
	}

	if !ok {
		log.Printf("[Clicker] All methods failed for %s (fallback: %v)", el.Name, el.Fallback)
	}
	time.Sleep(postDelay)
	return ok
}

// ClickCoords clicks a reference-viewport position directly.
func (c *Clicker) ClickCoords(x, y int, postDelay time.Duration) bool {
	ok := c.clickConverted(x, y)
	time.Sleep(postDelay)
	return ok
}

// ClickWithFocus clicks the element and then forces focus+select on the
// resulting input so subsequent keystrokes edit it.
func (c *Clicker) ClickWithFocus(name string, postDelay time.Duration) bool {
	el, ok := c.registry.Get(name)
	if !ok {
		log.Printf("[Clicker] Unknown element %s", name)
		return false
	}
	if !c.ClickElement(el, postDelay) {
		return false
	}

	script := fmt.Sprintf(`
(function() {
	var el = %s;
	if (!el) return false;
	if (el.tagName !== 'INPUT' && el.tagName !== 'TEXTAREA') {
		var inner = el.querySelector('input, textarea');
		if (inner) el = inner;
	}
	el.focus();
	if (typeof el.select === 'function') el.select();
	return document.activeElement === el;
})();
`, selector.LocateJS(el))

	var focused bool
	if err := chromedp.Run(c.ctx, chromedp.Evaluate(script, &focused)); err != nil {
		log.Printf("[Clicker] Focus script failed for %s: %v", el.Name, err)
		return false
	}
	if !focused {
		log.Printf("[Clicker] Click landed but focus did not stick on %s", el.Name)
	}
	return true
}

// probe reports whether the element currently exists and is visible.
func (c *Clicker) probe(el selector.Element) (found, visible bool) {
	script := fmt.Sprintf(`
(function() {
	try {
		var el = %s;
		if (!el) return {found: false, visible: false};
		var r = el.getBoundingClientRect();
		var visible = el.offsetParent !== null || (r.width > 0 && r.height > 0);
		return {found: true, visible: visible};
	} catch (e) {
		return {found: false, visible: false};
	}
})();
`, selector.LocateJS(el))

	var result struct {
		Found   bool `json:"found"`
		Visible bool `json:"visible"`
	}
	if err := chromedp.Run(c.ctx, chromedp.Evaluate(script, &result)); err != nil {
		log.Printf("[Clicker] Probe failed for %s: %v", el.Name, err)
		return false, false
	}
	return result.Found, result.Visible
}

// clickDOM locates the element and clicks it in page context. The scripted
// element.click() bypasses overlay interception; the synthetic MouseEvent is
// the second chance for listeners that ignore the native method.
func (c *Clicker) clickDOM(el selector.Element) bool {
	if el.Locator == "" {
		return false
	}

	found := false
	for attempt := 0; attempt <= staleRetries; attempt++ {
		if f, _ := c.probe(el); f {
			found = true
			break
		}
		if attempt < staleRetries {
			time.Sleep(probeInterval)
		}
	}
	if !found {
		log.Printf("[Clicker] %s not present in DOM after %d probes", el.Name, staleRetries+1)
		return false
	}

	script := fmt.Sprintf(`
(function() {
	var el = %s;
	if (!el) return {success: false, reason: 'gone'};
	try {
		el.click();
		return {success: true, method: 'native'};
	} catch (e) {
		try {
			el.dispatchEvent(new MouseEvent('click', {bubbles: true, cancelable: true, view: window}));
			return {success: true, method: 'synthetic'};
		} catch (e2) {
			return {success: false, reason: e2.toString()};
		}
	}
})();
`, selector.LocateJS(el))

	var result struct {
		Success bool   `json:"success"`
		Method  string `json:"method"`
		Reason  string `json:"reason"`
	}
	if err := chromedp.Run(c.ctx, chromedp.Evaluate(script, &result)); err != nil {
		log.Printf("[Clicker] DOM click script failed for %s: %v", el.Name, err)
		return false
	}
	if !result.Success {
		log.Printf("[Clicker] DOM click rejected for %s: %s", el.Name, result.Reason)
		return false
	}
	log.Printf("[Clicker] DOM click ok for %s (%s)", el.Name, result.Method)
	return true
}

// clickConverted converts reference coordinates and clicks whatever element
// sits at the converted point.
func (c *Clicker) clickConverted(x, y int) bool {
	var size struct {
		W int `json:"w"`
		H int `json:"h"`
	}
	if err := chromedp.Run(c.ctx,
		chromedp.Evaluate(`({w: window.innerWidth, h: window.innerHeight})`, &size),
	); err != nil {
		log.Printf("[Clicker] Viewport read failed: %v", err)
		return false
	}

	relX, relY := c.convert(x, y, size.W, size.H)
	log.Printf("[Clicker] Coordinate click (%d,%d) -> (%d,%d) at %dx%d", x, y, relX, relY, size.W, size.H)

	script := fmt.Sprintf(`
(function() {
	try {
		var el = document.elementFromPoint(%d, %d);
		if (el) {
			el.click();
			return {success: true, tag: el.tagName};
		}
		return {success: false, reason: 'no-element'};
	} catch (e) {
		return {success: false, reason: e.toString()};
	}
})();
`, relX, relY)

	var result struct {
		Success bool   `json:"success"`
		Tag     string `json:"tag"`
		Reason  string `json:"reason"`
	}
	if err := chromedp.Run(c.ctx, chromedp.Evaluate(script, &result)); err != nil {
		log.Printf("[Clicker] Coordinate click script failed: %v", err)
		return false
	}
	if result.Success {
		log.Printf("[Clicker] Coordinate click hit <%s> at (%d,%d)", result.Tag, relX, relY)
		return true
	}

	// elementFromPoint came back empty; dispatch a synthetic click at the
	// same point on the body.
	fallback := fmt.Sprintf(`
(function() {
	try {
		document.body.dispatchEvent(new MouseEvent('click', {
			bubbles: true, cancelable: true, view: window,
			clientX: %d, clientY: %d
		}));
		return true;
	} catch (e) {
		return false;
	}
})();
`, relX, relY)

	var dispatched bool
	if err := chromedp.Run(c.ctx, chromedp.Evaluate(fallback, &dispatched)); err != nil {
		log.Printf("[Clicker] Synthetic body click failed: %v", err)
		return false
	}
	if dispatched {
		log.Printf("[Clicker] Synthetic body click dispatched at (%d,%d)", relX, relY)
	}
	return dispatched
}

// Exists probes whether a registered element is currently in the DOM.
func (c *Clicker) Exists(name string) bool {
	el, ok := c.registry.Get(name)
	if !ok {
		return false
	}
	found, _ := c.probe(el)
	return found
}

// ActiveIndicatorSet reports whether the element's active-state locator
// matches. Used to confirm tab switches.
func (c *Clicker) ActiveIndicatorSet(name string) bool {
	el, ok := c.registry.Get(name)
	if !ok || el.ActiveIndicator == "" {
		return false
	}
	probeEl := selector.Element{Name: el.Name + ":active", Locator: el.ActiveIndicator, Kind: selector.KindXPath}
	found, _ := c.probe(probeEl)
	return found
}
