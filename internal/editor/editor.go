// Package editor drives a single source product through its full edit
// sequence. Two pipelines share this core: the single-original flow
// (memo/HTML/image-cap/suffix then threshold routing) and the clone-fanout
// flow (one source becomes four marketplace siblings).
package editor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/percenty/edit-agent/internal/browser"
	"github.com/percenty/edit-agent/internal/click"
	"github.com/percenty/edit-agent/internal/flow"
	"github.com/percenty/edit-agent/internal/group"
	"github.com/percenty/edit-agent/internal/images"
	"github.com/percenty/edit-agent/internal/keyboard"
	"github.com/percenty/edit-agent/internal/modal"
	"github.com/percenty/edit-agent/internal/selector"
)

// modalOpenWait bounds the wait after clicking a product row. A failed
// open usually means the previous modal never closed, so the product is
// failed rather than blindly re-clicked.
const modalOpenWait = 5 * time.Second

// modalCloseWait bounds the wait for a modal to leave the screen.
const modalCloseWait = 10 * time.Second

// PageDumpFile receives the page source when a modal open fails.
const PageDumpFile = "modal_open_failure.html"

// Editor bundles the UI layers one product edit rides on.
type Editor struct {
	ctx      context.Context
	mgr      *browser.Manager
	registry *selector.Registry
	clicker  *click.Clicker
	keys     *keyboard.Driver
	modals   *modal.Supervisor
	imgs     *images.Manager
	groups   *group.Helper
	names    *NameEditor

	groupNames GroupNames
	imageCap   int
	contentMax int
}

// Config carries the editor's tunables.
type Config struct {
	GroupNames GroupNames
	// ImageCap is the detail-image ceiling (0 means the default 30)
	ImageCap int
	// ContentTotalMax is the routing threshold (0 means the default 50)
	ContentTotalMax int
	// DuplicatePhrase overrides the localized duplicate-name message
	DuplicatePhrase string
}

// New wires an editor against one browser session.
func New(mgr *browser.Manager, registry *selector.Registry, cfg Config) *Editor {
	ctx := mgr.Context()
	clicker := click.NewClicker(ctx, registry)
	keys := keyboard.NewDriver(ctx)
	modals := modal.NewSupervisor(ctx, keys)
	modals.SetDuplicatePhrase(cfg.DuplicatePhrase)

	if cfg.ImageCap == 0 {
		cfg.ImageCap = images.DefaultImageCap
	}
	if cfg.ContentTotalMax == 0 {
		cfg.ContentTotalMax = DefaultContentTotalMax
	}

	return &Editor{
		ctx:        ctx,
		mgr:        mgr,
		registry:   registry,
		clicker:    clicker,
		keys:       keys,
		modals:     modals,
		imgs:       images.NewManager(ctx, clicker, modals),
		groups:     group.NewHelper(ctx, clicker, keys, cfg.GroupNames.Ordinals()),
		names:      NewNameEditor(ctx, keys, registry),
		groupNames: cfg.GroupNames,
		imageCap:   cfg.ImageCap,
		contentMax: cfg.ContentTotalMax,
	}
}

// Groups exposes the group helper for the batch driver.
func (e *Editor) Groups() *group.Helper {
	return e.groups
}

// Modals exposes the modal supervisor, which the batch driver invokes to
// recover from a mid-product abort.
func (e *Editor) Modals() *modal.Supervisor {
	return e.modals
}

// openFirstProduct clicks the first listing row and confirms the edit
// modal opened. On timeout the page source is dumped for diagnosis and
// the product is failed without a retry.
func (e *Editor) openFirstProduct() error {
	e.modals.MarkOpening()
	if !e.clicker.Click(selector.FirstProductItem, time.Second) {
		return flow.New(flow.CategoryLocatorMissing, "first product row", nil)
	}
	if !e.modals.WaitOpen(modalOpenWait) {
		if err := e.mgr.DumpPageSource(PageDumpFile); err != nil {
			log.Printf("[Editor] Page dump failed: %v", err)
		}
		return flow.New(flow.CategoryActionFailed, "edit modal never opened", nil)
	}
	return nil
}

// switchTab clicks a modal tab and confirms via its active indicator.
func (e *Editor) switchTab(name string) bool {
	if !e.clicker.Click(name, time.Second) {
		return false
	}
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if e.clicker.ActiveIndicatorSet(name) {
			return true
		}
		time.Sleep(300 * time.Millisecond)
	}
	log.Printf("[Editor] Tab %s active indicator never set", name)
	return false
}

// openMemoModal opens the memo editor and ensures the "show memo in
// listing" checkbox is checked. Idempotent on the checkbox.
func (e *Editor) openMemoModal() bool {
	if !e.clicker.Click(selector.MemoModalOpen, time.Second) {
		return false
	}

	script := fmt.Sprintf(`
(function() {
	var ta = %s;
	if (!ta) return {ready: false};
	var mark = %s;
	if (mark) {
		var wrapper = mark.closest('label');
		var box = wrapper ? wrapper.querySelector('input[type="checkbox"]') : null;
		if (box && !box.checked) box.click();
		return {ready: true, checked: true};
	}
	return {ready: true, checked: false};
})();
`,
		selector.LocateJS(e.registry.MustGet(selector.MemoModalTextarea)),
		selector.LocateJS(e.registry.MustGet(selector.MemoModalCheckbox)))
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var result struct {
			Ready   bool `json:"ready"`
			Checked bool `json:"checked"`
		}
		if err := chromedp.Run(e.ctx, chromedp.Evaluate(script, &result)); err == nil && result.Ready {
			return true
		}
		time.Sleep(500 * time.Millisecond)
	}
	log.Printf("[Editor] Memo modal never became ready")
	return false
}

// readMemo reads the memo textarea's current content.
func (e *Editor) readMemo() (string, error) {
	var memo string
	script := fmt.Sprintf(`
(function() {
	var ta = %s;
	return ta ? ta.value : '';
})();
`, selector.LocateJS(e.registry.MustGet(selector.MemoModalTextarea)))
	if err := chromedp.Run(e.ctx, chromedp.Evaluate(script, &memo)); err != nil {
		return "", fmt.Errorf("failed to read memo: %w", err)
	}
	return memo, nil
}

// writeMemo overwrites the memo textarea and clicks save.
func (e *Editor) writeMemo(text string) bool {
	script := fmt.Sprintf(`
(function() {
	var ta = %s;
	if (!ta) return false;
	var setter = Object.getOwnPropertyDescriptor(window.HTMLTextAreaElement.prototype, 'value');
	setter.set.call(ta, %q);
	ta.dispatchEvent(new Event('input', {bubbles: true}));
	return true;
})();
`, selector.LocateJS(e.registry.MustGet(selector.MemoModalTextarea)), text)

	var written bool
	if err := chromedp.Run(e.ctx, chromedp.Evaluate(script, &written)); err != nil || !written {
		log.Printf("[Editor] Memo write failed: %v", err)
		return false
	}
	if !e.clicker.Click(selector.MemoModalSave, time.Second) {
		return false
	}
	return true
}

// saveMemoOnly closes the memo modal via its save button without changing
// the text. The fan-out flow only needs the listing-exposure checkbox.
func (e *Editor) saveMemoOnly() bool {
	return e.clicker.Click(selector.MemoModalSave, time.Second)
}

// injectHTMLSource opens the detail tab's HTML editor and replaces its
// content.
func (e *Editor) injectHTMLSource(content string) bool {
	if !e.clicker.Click(selector.HTMLSourceOpen, time.Second) {
		return false
	}

	script := fmt.Sprintf(`
(function() {
	var ta = %s;
	if (!ta) return false;
	var setter = Object.getOwnPropertyDescriptor(window.HTMLTextAreaElement.prototype, 'value');
	setter.set.call(ta, %q);
	ta.dispatchEvent(new Event('input', {bubbles: true}));
	return true;
})();
`, selector.LocateJS(e.registry.MustGet(selector.HTMLSourceTextarea)), content)

	var written bool
	if err := chromedp.Run(e.ctx, chromedp.Evaluate(script, &written)); err != nil || !written {
		log.Printf("[Editor] HTML source write failed: %v", err)
		return false
	}
	return e.clicker.Click(selector.HTMLSourceSave, time.Second)
}

// countOptions counts the option rows on the options tab.
func (e *Editor) countOptions() (int, error) {
	var count int
	script := `
(function() {
	var rows = document.querySelectorAll('.ant-modal .ant-table-tbody tr[data-row-key]');
	return rows.length;
})();
`
	if err := chromedp.Run(e.ctx, chromedp.Evaluate(script, &count)); err != nil {
		return 0, fmt.Errorf("failed to count options: %w", err)
	}
	return count, nil
}

// isMultiOption checks the options radio group's selected state.
func (e *Editor) isMultiOption() bool {
	script := `
(function() {
	var radios = document.querySelectorAll('.ant-modal .ant-radio-wrapper');
	for (var i = 0; i < radios.length; i++) {
		if (radios[i].textContent.indexOf('옵션') !== -1 && radios[i].textContent.indexOf('단일') === -1) {
			var input = radios[i].querySelector('input[type="radio"]');
			if (input && input.checked) return true;
		}
	}
	return false;
})();
`
	var multi bool
	if err := chromedp.Run(e.ctx, chromedp.Evaluate(script, &multi)); err != nil {
		log.Printf("[Editor] Option mode probe failed: %v", err)
		return false
	}
	return multi
}

// refineOptions runs the AI option-name refinement and then the numeric
// prefix pass. The AI button shows an absolute-positioned overlay while it
// processes; the wait watches for that overlay to clear.
func (e *Editor) refineOptions() bool {
	if !e.clicker.Click(selector.OptionAIButton, time.Second) {
		return false
	}

	overlayGone := `
(function() {
	var btns = document.querySelectorAll('button');
	for (var i = 0; i < btns.length; i++) {
		if (btns[i].textContent.indexOf('AI 옵션명 다듬기') !== -1) {
			var overlay = btns[i].querySelector('div[style*="position: absolute"], .ant-spin');
			return !overlay;
		}
	}
	return true;
})();
`
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		var gone bool
		if err := chromedp.Run(e.ctx, chromedp.Evaluate(overlayGone, &gone)); err == nil && gone {
			break
		}
		time.Sleep(time.Second)
	}

	return e.clicker.Click(selector.OptionNumberBtn, time.Second)
}

// setDiscountRate overwrites the display discount-rate field. Selecting
// all before typing avoids concatenating onto the existing rate; the
// trailing click+ENTER re-commits in case the TAB save was swallowed by a
// re-render.
func (e *Editor) setDiscountRate(rate int) bool {
	if !e.clicker.ClickWithFocus(selector.PriceDiscount, 300*time.Millisecond) {
		return false
	}
	if err := e.keys.SelectAll(); err != nil {
		log.Printf("[Editor] Discount select-all failed: %v", err)
		return false
	}
	if err := e.keys.TypeText(fmt.Sprintf("%d", rate)); err != nil {
		log.Printf("[Editor] Discount type failed: %v", err)
		return false
	}
	if err := e.keys.Tab(1); err != nil {
		return false
	}
	time.Sleep(300 * time.Millisecond)

	if e.clicker.ClickWithFocus(selector.PriceDiscount, 100*time.Millisecond) {
		if err := e.keys.Enter(); err != nil {
			log.Printf("[Editor] Discount enter failed: %v", err)
		}
	}
	time.Sleep(200 * time.Millisecond)
	log.Printf("[Editor] Discount rate set to %d%%", rate)
	return true
}

// cloneProduct clicks the clone button once.
func (e *Editor) cloneProduct() bool {
	if !e.clicker.Click(selector.CopyButton, 2*time.Second) {
		return false
	}
	log.Printf("[Editor] Clone click dispatched")
	return true
}

// deleteWarningWords clicks every visible "delete warning/duplicate word"
// button until none remain.
func (e *Editor) deleteWarningWords() {
	script := `
(function() {
	var btns = document.querySelectorAll('.ant-modal button');
	for (var i = 0; i < btns.length; i++) {
		var t = btns[i].textContent;
		if ((t.indexOf('경고 단어') !== -1 || t.indexOf('중복 단어') !== -1) && t.indexOf('삭제') !== -1) {
			btns[i].click();
			return true;
		}
	}
	return false;
})();
`
	for i := 0; i < 20; i++ {
		var clicked bool
		if err := chromedp.Run(e.ctx, chromedp.Evaluate(script, &clicked)); err != nil || !clicked {
			return
		}
		time.Sleep(500 * time.Millisecond)
	}
}

// updateInfoNotice opens the product-info disclosure on the upload tab
// and, when a model-name row exists, writes text into its "refer to detail
// page" input (the second such input on the page).
func (e *Editor) updateInfoNotice(text string) bool {
	if !e.clicker.Click(selector.InfoDisclosure, time.Second) {
		return false
	}

	probeScript := `
(function() {
	var labels = document.querySelectorAll('.ant-modal span, .ant-modal label');
	for (var i = 0; i < labels.length; i++) {
		if (labels[i].textContent.trim() === '모델명') return true;
	}
	return false;
})();
`
	var hasModelName bool
	if err := chromedp.Run(e.ctx, chromedp.Evaluate(probeScript, &hasModelName)); err != nil {
		log.Printf("[Editor] Model-name probe failed: %v", err)
		return false
	}
	if !hasModelName {
		log.Printf("[Editor] No model-name row; skipping info-notice input")
		return true
	}

	if !e.clicker.ClickWithFocus(selector.UploadEditInput2, 300*time.Millisecond) {
		return false
	}
	if err := e.keys.Overwrite(text); err != nil {
		log.Printf("[Editor] Info-notice write failed: %v", err)
		return false
	}
	if err := e.keys.Tab(1); err != nil {
		return false
	}
	return true
}

// deleteProduct runs the in-modal delete: the red delete button, then the
// dangerous-action confirm. No group routing follows a delete.
func (e *Editor) deleteProduct() bool {
	if !e.clicker.Click(selector.DeleteButton, time.Second) {
		return false
	}

	confirm := `
(function() {
	var btn = document.querySelector('.ant-modal-confirm .ant-btn-dangerous, .ant-modal-confirm .ant-btn-primary');
	if (btn) { btn.click(); return true; }
	return false;
})();
`
	var confirmed bool
	if err := chromedp.Run(e.ctx, chromedp.Evaluate(confirm, &confirmed)); err != nil || !confirmed {
		log.Printf("[Editor] Delete confirm not found")
		return false
	}
	time.Sleep(3 * time.Second)
	return true
}

// closeModal closes the edit modal with the duplicate-name guard active.
func (e *Editor) closeModal() (modal.CloseResult, error) {
	result := e.modals.CloseWithGuard(e.names, modalCloseWait)
	if !result.Closed {
		return result, flow.New(flow.CategoryModalStuck, "edit modal would not close", nil)
	}
	return result, nil
}

// memoMarker derives the "-S" processed marker from a source memo.
func memoMarker(memo string) string {
	return strings.TrimRight(memo, " ") + "-S"
}
