// Package keyboard emits keystrokes through the driver's focused element.
// All input is driver-scoped: with multiple browsers open in parallel,
// OS-level input injection lands on whichever window holds OS focus and
// corrupts sibling workers. Every keystroke here travels over CDP and is
// scoped to this session's target window.
package keyboard

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// Driver sends keys into one browser session.
type Driver struct {
	ctx context.Context
}

// NewDriver creates a keyboard driver bound to the given browser context.
func NewDriver(ctx context.Context) *Driver {
	return &Driver{ctx: ctx}
}

// TypeText types text into the currently focused element.
func (d *Driver) TypeText(text string) error {
	if err := chromedp.Run(d.ctx, chromedp.KeyEvent(text)); err != nil {
		return fmt.Errorf("failed to type text: %w", err)
	}
	return nil
}

// SelectAll emits Ctrl+A.
func (d *Driver) SelectAll() error {
	return d.chord("a")
}

// Copy emits Ctrl+C.
func (d *Driver) Copy() error {
	return d.chord("c")
}

// Cut emits Ctrl+X.
func (d *Driver) Cut() error {
	return d.chord("x")
}

// Paste emits Ctrl+V.
func (d *Driver) Paste() error {
	return d.chord("v")
}

// chord emits Ctrl+key.
func (d *Driver) chord(key string) error {
	err := chromedp.Run(d.ctx,
		chromedp.KeyEvent(key, chromedp.KeyModifiers(input.ModifierCtrl)),
	)
	if err != nil {
		return fmt.Errorf("failed to send ctrl+%s: %w", key, err)
	}
	return nil
}

// Tab presses TAB n times with a short settle between presses.
func (d *Driver) Tab(n int) error {
	for i := 0; i < n; i++ {
		if err := chromedp.Run(d.ctx, chromedp.KeyEvent(kb.Tab)); err != nil {
			return fmt.Errorf("failed to press tab (%d/%d): %w", i+1, n, err)
		}
		time.Sleep(100 * time.Millisecond)
	}
	return nil
}

// Escape presses ESC.
func (d *Driver) Escape() error {
	if err := chromedp.Run(d.ctx, chromedp.KeyEvent(kb.Escape)); err != nil {
		return fmt.Errorf("failed to press escape: %w", err)
	}
	return nil
}

// Enter presses ENTER.
func (d *Driver) Enter() error {
	if err := chromedp.Run(d.ctx, chromedp.KeyEvent(kb.Enter)); err != nil {
		return fmt.Errorf("failed to press enter: %w", err)
	}
	return nil
}

// ClearActive empties the focused input. The scripted clear plus input event
// is the reliable path for ant-design controlled inputs; select-all +
// overwrite is the fallback when the script reports residual text.
func (d *Driver) ClearActive() error {
	script := `
(function() {
	var el = document.activeElement;
	if (!el || (el.tagName !== 'INPUT' && el.tagName !== 'TEXTAREA')) {
		return {cleared: false, reason: 'no-input-focused'};
	}
	el.value = '';
	el.dispatchEvent(new Event('input', {bubbles: true}));
	return {cleared: el.value === '', reason: ''};
})();
`
	var result struct {
		Cleared bool   `json:"cleared"`
		Reason  string `json:"reason"`
	}
	if err := chromedp.Run(d.ctx, chromedp.Evaluate(script, &result)); err != nil {
		return fmt.Errorf("failed to clear active element: %w", err)
	}
	if !result.Cleared {
		log.Printf("[Keyboard] Scripted clear incomplete (%s), selecting all instead", result.Reason)
		if err := d.SelectAll(); err != nil {
			return err
		}
	}
	return nil
}

// Overwrite clears the focused input and types text in its place.
func (d *Driver) Overwrite(text string) error {
	if err := d.ClearActive(); err != nil {
		return err
	}
	return d.TypeText(text)
}

// ActiveValue reads the focused input's current value.
func (d *Driver) ActiveValue() (string, error) {
	var value string
	script := `
(function() {
	var el = document.activeElement;
	if (!el) return '';
	return el.value || '';
})();
`
	if err := chromedp.Run(d.ctx, chromedp.Evaluate(script, &value)); err != nil {
		return "", fmt.Errorf("failed to read active element value: %w", err)
	}
	return value, nil
}
