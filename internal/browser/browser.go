// Package browser owns the Chrome session for one worker. One logical worker
// holds exactly one browser; parallelism happens across OS processes, never
// inside one session.
package browser

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

// GroupManagementURL is the Percenty screen the batch driver works on.
const GroupManagementURL = "https://www.percenty.co.kr/product/group"

// Manager manages browser lifecycle and navigation.
type Manager struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewManager launches Chrome and returns a manager bound to it.
func NewManager(headless bool) (*Manager, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		// Hide automation detection; the SaaS degrades automated sessions.
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("lang", "ko-KR"),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	m := &Manager{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		ctx:         ctx,
		cancel:      cancel,
	}

	return m, nil
}

// Close shuts down the browser and cleans up resources.
func (m *Manager) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.allocCancel != nil {
		m.allocCancel()
	}
}

// Context returns the browser context for running chromedp tasks.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// Navigate navigates to the specified URL and waits for the body to be ready.
func (m *Manager) Navigate(url string) error {
	err := chromedp.Run(m.ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// NavigateWithTimeout navigates to URL with a specific timeout.
func (m *Manager) NavigateWithTimeout(url string, timeout time.Duration) error {
	timeoutCtx, timeoutCancel := context.WithTimeout(m.ctx, timeout)
	defer timeoutCancel()

	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)

	if err != nil {
		if err == context.DeadlineExceeded {
			return fmt.Errorf("timeout after %v while loading %s", timeout, url)
		}
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// OpenGroupManagement navigates to the group-product management screen.
func (m *Manager) OpenGroupManagement() error {
	const loadTimeout = 30 * time.Second
	return m.NavigateWithTimeout(GroupManagementURL, loadTimeout)
}

// InnerSize reads the page's innerWidth/innerHeight. Coordinate conversion
// scales the reference-viewport positions against these.
func (m *Manager) InnerSize() (int, int, error) {
	var size struct {
		W int `json:"w"`
		H int `json:"h"`
	}
	err := chromedp.Run(m.ctx,
		chromedp.Evaluate(`({w: window.innerWidth, h: window.innerHeight})`, &size),
	)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read viewport size: %w", err)
	}
	return size.W, size.H, nil
}

// PageSource returns the current document's outer HTML.
func (m *Manager) PageSource() (string, error) {
	var html string
	err := chromedp.Run(m.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	if err != nil {
		return "", fmt.Errorf("failed to capture page source: %w", err)
	}
	return html, nil
}

// DumpPageSource writes the current page source to path for offline
// diagnosis. Called on failed modal opens; the dump is diagnostic-only.
func (m *Manager) DumpPageSource(path string) error {
	html, err := m.PageSource()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write page dump %s: %w", path, err)
	}
	log.Printf("[Browser] Page source dumped to %s (%d bytes)", path, len(html))
	return nil
}
