package editor

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/percenty/edit-agent/internal/keyboard"
	"github.com/percenty/edit-agent/internal/selector"
)

// cloneTail matches the " (N)" counter the SaaS auto-appends on clone.
var cloneTail = regexp.MustCompile(`\s*\(\d+\)$`)

// StripCloneTail removes the platform's clone counter from a title.
func StripCloneTail(title string) string {
	return cloneTail.ReplaceAllString(title, "")
}

// HasCloneTail reports whether the title carries a clone counter.
func HasCloneTail(title string) bool {
	return cloneTail.MatchString(title)
}

// PrepareForSuffix strips a previous rotation letter so suffixes do not
// accumulate across clone iterations: a trailing A–Z that differs from the
// incoming suffix is removed.
func PrepareForSuffix(title, suffix string) string {
	trimmed := strings.TrimRight(title, " ")
	if trimmed == "" {
		return trimmed
	}
	last := trimmed[len(trimmed)-1]
	if last >= 'A' && last <= 'Z' && string(last) != suffix {
		return strings.TrimRight(trimmed[:len(trimmed)-1], " ")
	}
	return trimmed
}

// ComposeSuffixed appends suffix to title, optionally space-separated.
func ComposeSuffixed(title, suffix string, spaced bool) string {
	if spaced {
		return title + " " + suffix
	}
	return title + suffix
}

// titleInputJS builds the ordered probe for the modal's title field: the
// registry's descriptor first, then the textarea placed by the sales-name
// placeholder, then any ant input holding a plausible product name.
func titleInputJS(registryLocate string) string {
	return `
(function() {
	var el = ` + registryLocate + `;
	if (el) return el;
	var tas = document.querySelectorAll('.ant-modal textarea');
	for (var i = 0; i < tas.length; i++) {
		if ((tas[i].placeholder || '').indexOf('판매상품명') !== -1) return tas[i];
	}
	var ins = document.querySelectorAll('.ant-modal input.ant-input');
	for (var i = 0; i < ins.length; i++) {
		if (ins[i].value && ins[i].value.length > 5) return ins[i];
	}
	return null;
})()
`
}

// NameEditor reads and rewrites the product title field.
type NameEditor struct {
	ctx    context.Context
	keys   *keyboard.Driver
	locate string
}

// NewNameEditor creates a name editor bound to the given browser context.
// The title field's primary locator comes from the registry.
func NewNameEditor(ctx context.Context, keys *keyboard.Driver, registry *selector.Registry) *NameEditor {
	locate := titleInputJS(selector.LocateJS(registry.MustGet(selector.NameEditTextarea)))
	return &NameEditor{ctx: ctx, keys: keys, locate: strings.TrimSpace(locate)}
}

// CurrentTitle reads the title field's value.
func (n *NameEditor) CurrentTitle() (string, error) {
	script := fmt.Sprintf(`
(function() {
	var el = %s;
	return el ? (el.value || '') : '';
})();
`, n.locate)

	var value string
	if err := chromedp.Run(n.ctx, chromedp.Evaluate(script, &value)); err != nil {
		return "", fmt.Errorf("failed to read title: %w", err)
	}
	return value, nil
}

// SetTitle writes the title directly in page context and fires the input
// event so the controlled component picks it up, then blurs to trigger
// save.
func (n *NameEditor) SetTitle(title string) error {
	script := fmt.Sprintf(`
(function() {
	var el = %s;
	if (!el) return false;
	var setter = Object.getOwnPropertyDescriptor(window.HTMLInputElement.prototype, 'value') ||
	             Object.getOwnPropertyDescriptor(window.HTMLTextAreaElement.prototype, 'value');
	if (el.tagName === 'TEXTAREA') {
		setter = Object.getOwnPropertyDescriptor(window.HTMLTextAreaElement.prototype, 'value');
	} else {
		setter = Object.getOwnPropertyDescriptor(window.HTMLInputElement.prototype, 'value');
	}
	setter.set.call(el, %q);
	el.dispatchEvent(new Event('input', {bubbles: true}));
	el.dispatchEvent(new Event('change', {bubbles: true}));
	el.blur();
	return true;
})();
`, n.locate, title)

	var set bool
	if err := chromedp.Run(n.ctx, chromedp.Evaluate(script, &set)); err != nil {
		return fmt.Errorf("failed to set title: %w", err)
	}
	if !set {
		return fmt.Errorf("title input not found")
	}
	// Server-side save rides on the blur; give it a beat.
	time.Sleep(time.Second)
	return nil
}

// focusAndClear focuses the title field and empties it, reporting whether
// the field actually reads empty afterwards.
func (n *NameEditor) focusAndClear() (bool, error) {
	script := fmt.Sprintf(`
(function() {
	var el = %s;
	if (!el) return {found: false, empty: false};
	el.focus();
	var setter;
	if (el.tagName === 'TEXTAREA') {
		setter = Object.getOwnPropertyDescriptor(window.HTMLTextAreaElement.prototype, 'value');
	} else {
		setter = Object.getOwnPropertyDescriptor(window.HTMLInputElement.prototype, 'value');
	}
	setter.set.call(el, '');
	el.dispatchEvent(new Event('input', {bubbles: true}));
	return {found: true, empty: el.value === ''};
})();
`, n.locate)

	var result struct {
		Found bool `json:"found"`
		Empty bool `json:"empty"`
	}
	if err := chromedp.Run(n.ctx, chromedp.Evaluate(script, &result)); err != nil {
		return false, fmt.Errorf("failed to clear title: %w", err)
	}
	if !result.Found {
		return false, fmt.Errorf("title input not found")
	}
	return result.Empty, nil
}

// writeTitle types newValue into the cleared field and blurs via TAB. When
// the clear leaves residual text, the scripted set is used instead.
func (n *NameEditor) writeTitle(newValue string) error {
	empty, err := n.focusAndClear()
	if err != nil {
		return err
	}
	if !empty {
		log.Printf("[NameEditor] Residual text after clear, falling back to scripted set")
		return n.SetTitle(newValue)
	}

	if err := n.keys.TypeText(newValue); err != nil {
		return err
	}
	if err := n.keys.Tab(1); err != nil {
		return err
	}
	// Blur-save round trips to the server.
	time.Sleep(time.Second)
	return nil
}

// applyTitle writes newValue with one verification retry.
func (n *NameEditor) applyTitle(newValue string) bool {
	for attempt := 0; attempt < 2; attempt++ {
		if err := n.writeTitle(newValue); err != nil {
			log.Printf("[NameEditor] Title write failed: %v", err)
			continue
		}
		got, err := n.CurrentTitle()
		if err == nil && got == newValue {
			return true
		}
		log.Printf("[NameEditor] Title verify mismatch (got %q, want %q), retrying", got, newValue)
	}
	return false
}

// ApplySuffix appends the rotation letter to the current title. spaced
// controls whether a space separates title and letter (the fan-out flow
// spaces, the original-in-place flow does not).
func (n *NameEditor) ApplySuffix(suffix string, spaced bool) bool {
	current, err := n.CurrentTitle()
	if err != nil {
		log.Printf("[NameEditor] %v", err)
		return false
	}
	base := PrepareForSuffix(current, suffix)
	newValue := ComposeSuffixed(base, suffix, spaced)
	if newValue == current {
		return true
	}
	ok := n.applyTitle(newValue)
	if ok {
		log.Printf("[NameEditor] Title suffixed: %q", newValue)
	}
	return ok
}

// AccountSuffixedTitle computes the title after an account-suffix pass.
// With stripTail set the SaaS clone counter is removed first, so " (N)"
// never survives into the final title; anything else already saved into
// the title stays.
func AccountSuffixedTitle(current, suffix string, stripTail bool) string {
	base := current
	if stripTail {
		base = StripCloneTail(base)
	}
	return strings.TrimRight(base, " ") + " " + suffix
}

// ApplyAccountSuffix appends an account-configured suffix text. With
// stripTail set it first removes the SaaS clone counter so " (N)" never
// survives into the final title.
func (n *NameEditor) ApplyAccountSuffix(suffix string, stripTail bool) bool {
	if suffix == "" {
		return true
	}
	current, err := n.CurrentTitle()
	if err != nil {
		log.Printf("[NameEditor] %v", err)
		return false
	}
	newValue := AccountSuffixedTitle(current, suffix, stripTail)
	ok := n.applyTitle(newValue)
	if ok {
		log.Printf("[NameEditor] Account suffix applied: %q", newValue)
	}
	return ok
}
