// Package modal keeps the browser's modal/drawer state predictable across
// failures. The supervisor models the lifecycle explicitly as
// closed → opening → open → closing; clicks sent to the wrong modal
// generation were a recurring bug before the states were made explicit.
package modal

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/percenty/edit-agent/internal/keyboard"
)

// DefaultDuplicatePhrase is the SaaS's duplicate-product-name message.
const DefaultDuplicatePhrase = "이미 존재하는 상품명입니다"

// maxDuplicateRetries bounds the duplicate-name rename loop. Raising it is
// a policy choice; removing it risks an infinite loop on persistent
// conflicts.
const maxDuplicateRetries = 5

// pollInterval is the steady-state polling cadence for open/closed waits.
const pollInterval = 500 * time.Millisecond

// openLocators are the disjunction probed by IsOpen. The edit modal's tab
// list alone is sufficient; any two of the generic locators together also
// count, since a single match is often a leftover animation shell.
var openLocators = []string{
	`div[role='dialog']`,
	`.ant-modal:not(.ant-modal-hidden)`,
	`.ant-drawer-open`,
	`.ant-modal-confirm`,
}

// tabListLocator is specific to the product edit modal.
const tabListLocator = `.ant-modal .ant-tabs-nav-list`

// Supervisor watches and controls modal state for one browser session.
type Supervisor struct {
	ctx             context.Context
	keys            *keyboard.Driver
	state           State
	duplicatePhrase string
}

// NewSupervisor creates a supervisor bound to the given browser context.
func NewSupervisor(ctx context.Context, keys *keyboard.Driver) *Supervisor {
	return &Supervisor{
		ctx:             ctx,
		keys:            keys,
		state:           StateClosed,
		duplicatePhrase: DefaultDuplicatePhrase,
	}
}

// SetDuplicatePhrase overrides the localized duplicate-name message.
func (s *Supervisor) SetDuplicatePhrase(phrase string) {
	if phrase != "" {
		s.duplicatePhrase = phrase
	}
}

// State returns the supervisor's view of the modal lifecycle.
func (s *Supervisor) State() State {
	return s.state
}

// MarkOpening records that an open-click was just dispatched.
func (s *Supervisor) MarkOpening() {
	s.state = StateOpening
}

// IsOpen probes the open-locator disjunction. True when at least two
// distinct locators match, or when the edit-modal tab list matches on its
// own.
func (s *Supervisor) IsOpen() bool {
	script := fmt.Sprintf(`
(function() {
	var locators = ['div[role="dialog"]', '.ant-modal:not(.ant-modal-hidden)', '.ant-drawer-open', '.ant-modal-confirm'];
	var matched = 0;
	for (var i = 0; i < locators.length; i++) {
		try {
			if (document.querySelector(locators[i])) matched++;
		} catch (e) {}
	}
	var tabList = !!document.querySelector(%q);
	return {matched: matched, tabList: tabList};
})();
`, tabListLocator)

	var result struct {
		Matched int  `json:"matched"`
		TabList bool `json:"tabList"`
	}
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, &result)); err != nil {
		log.Printf("[Modal] Open probe failed: %v", err)
		return false
	}
	open := result.TabList || result.Matched >= 2
	if open {
		s.state = StateOpen
	}
	return open
}

// WaitOpen polls until the modal reads open or maxWait elapses.
func (s *Supervisor) WaitOpen(maxWait time.Duration) bool {
	s.state = StateOpening
	deadline := time.Now().Add(maxWait)
	for time.Now().Before(deadline) {
		if s.IsOpen() {
			s.state = StateOpen
			return true
		}
		time.Sleep(pollInterval)
	}
	log.Printf("[Modal] WaitOpen timed out after %v", maxWait)
	return false
}

// WaitClosed polls until the modal reads closed or maxWait elapses.
func (s *Supervisor) WaitClosed(maxWait time.Duration) bool {
	s.state = StateClosing
	deadline := time.Now().Add(maxWait)
	for time.Now().Before(deadline) {
		if !s.IsOpen() {
			s.state = StateClosed
			return true
		}
		time.Sleep(pollInterval)
	}
	log.Printf("[Modal] WaitClosed timed out after %v", maxWait)
	return false
}

// ForceClose dismisses whatever modal is showing: ESC, close-button scan,
// ESC again, then a click outside the modal body. Rechecks between steps
// and stops at the first closed reading. A no-op success when nothing is
// open.
func (s *Supervisor) ForceClose() bool {
	if !s.IsOpen() {
		s.state = StateClosed
		return true
	}
	s.state = StateClosing

	steps := []func() error{
		func() error { return s.keys.Escape() },
		s.clickCloseButton,
		func() error { return s.keys.Escape() },
		s.clickOutsideModal,
	}

	for i, step := range steps {
		if err := step(); err != nil {
			log.Printf("[Modal] Force-close step %d failed: %v", i+1, err)
		}
		time.Sleep(pollInterval)
		if !s.IsOpen() {
			s.state = StateClosed
			log.Printf("[Modal] Force-close succeeded at step %d", i+1)
			return true
		}
	}

	log.Printf("[Modal] Force-close exhausted all steps; modal still open")
	return false
}

// clickCloseButton clicks any ant close button or aria-label=Close control.
func (s *Supervisor) clickCloseButton() error {
	script := `
(function() {
	var btn = document.querySelector('.ant-modal-close, .ant-drawer-close, button[aria-label="Close"]');
	if (btn) {
		btn.click();
		return true;
	}
	return false;
})();
`
	var clicked bool
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		return fmt.Errorf("close-button scan failed: %w", err)
	}
	if !clicked {
		return fmt.Errorf("no close button found")
	}
	return nil
}

// clickOutsideModal clicks a pixel on the body known to sit outside the
// modal surface.
func (s *Supervisor) clickOutsideModal() error {
	err := chromedp.Run(s.ctx, chromedp.MouseClickXY(10, 10))
	if err != nil {
		return fmt.Errorf("outside-modal click failed: %w", err)
	}
	return nil
}

// duplicateConfirmShowing reports whether a confirm dialog containing the
// duplicate-name phrase is on screen.
func (s *Supervisor) duplicateConfirmShowing() bool {
	script := fmt.Sprintf(`
(function() {
	var confirms = document.querySelectorAll('.ant-modal-confirm, div[role="dialog"]');
	for (var i = 0; i < confirms.length; i++) {
		if (confirms[i].textContent.indexOf(%q) !== -1) return true;
	}
	return false;
})();
`, s.duplicatePhrase)

	var showing bool
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, &showing)); err != nil {
		log.Printf("[Modal] Duplicate-confirm probe failed: %v", err)
		return false
	}
	return showing
}

// acceptDuplicateConfirm clicks the confirm dialog's OK button.
func (s *Supervisor) acceptDuplicateConfirm() error {
	script := `
(function() {
	var btn = document.querySelector('.ant-modal-confirm .ant-btn-primary, div[role="dialog"] .ant-btn-primary');
	if (btn) {
		btn.click();
		return true;
	}
	return false;
})();
`
	var clicked bool
	if err := chromedp.Run(s.ctx, chromedp.Evaluate(script, &clicked)); err != nil {
		return fmt.Errorf("accepting duplicate confirm failed: %w", err)
	}
	if !clicked {
		return fmt.Errorf("duplicate confirm OK button not found")
	}
	return nil
}

// TitleRewriter updates the product title and retriggers save. The name
// editor provides this; the supervisor stays ignorant of the title field's
// layout.
type TitleRewriter interface {
	CurrentTitle() (string, error)
	SetTitle(title string) error
}

// CloseResult reports how a guarded close ended.
type CloseResult struct {
	Closed           bool
	NameConflicts    int
	ConflictResolved bool
}

// CloseWithGuard closes the edit modal with the duplicate-name guard
// active. When the SaaS rejects the close because the edited title already
// exists, the guard accepts the confirm, appends a numeric suffix to the
// title (replacing any previous one), saves, and retries. After
// maxDuplicateRetries the modal is force-closed regardless and the product
// is flagged as unresolved.
func (s *Supervisor) CloseWithGuard(titles TitleRewriter, maxWait time.Duration) CloseResult {
	result := CloseResult{ConflictResolved: true}

	for attempt := 0; ; attempt++ {
		if err := s.keys.Escape(); err != nil {
			log.Printf("[Modal] ESC failed on close attempt %d: %v", attempt+1, err)
		}
		time.Sleep(pollInterval)

		if !s.duplicateConfirmShowing() {
			break
		}

		result.NameConflicts++
		if result.NameConflicts > maxDuplicateRetries {
			log.Printf("[Modal] Duplicate-name retries exhausted (%d); forcing close", maxDuplicateRetries)
			result.ConflictResolved = false
			s.ForceClose()
			result.Closed = !s.IsOpen()
			return result
		}

		log.Printf("[Modal] Duplicate-name conflict #%d; renaming and retrying", result.NameConflicts)
		if err := s.acceptDuplicateConfirm(); err != nil {
			log.Printf("[Modal] %v", err)
		}
		time.Sleep(pollInterval)

		current, err := titles.CurrentTitle()
		if err != nil {
			log.Printf("[Modal] Could not read title during conflict: %v", err)
			continue
		}
		bumped := BumpTitle(current, result.NameConflicts)
		if err := titles.SetTitle(bumped); err != nil {
			log.Printf("[Modal] Could not rewrite title during conflict: %v", err)
		}
	}

	if s.WaitClosed(maxWait) {
		result.Closed = true
		return result
	}

	result.Closed = s.ForceClose()
	return result
}
