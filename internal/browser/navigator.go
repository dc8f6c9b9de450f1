package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-jobpost-crawler/internal/logger"
	"go-jobpost-crawler/internal/models"
)

// NavigationError means a page did not finish loading: timeout, transport error or bad status.
type NavigationError struct {
	URL     string
	Status  int
	Timeout bool
	Err     error
}

func (e *NavigationError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("navigate %s: timed out waiting for network idle: %v", e.URL, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("navigate %s: unexpected status %d", e.URL, e.Status)
	default:
		return fmt.Sprintf("navigate %s: %v", e.URL, e.Err)
	}
}

func (e *NavigationError) Unwrap() error { return e.Err }

// Retryable is true for failures a second attempt may fix. 4xx other than 429 is final.
func (e *NavigationError) Retryable() bool {
	if e.Status != 0 {
		return e.Status == http.StatusTooManyRequests || e.Status >= 500
	}
	return !errors.Is(e.Err, context.Canceled)
}

// Navigator drives one playwright page. It is not safe for concurrent use; the crawl is
// sequential and reuses the same page for every navigation.
type Navigator struct {
	page        playwright.Page
	timeout     time.Duration
	screenshots *ScreenShotDebugger
	log         logger.Logger
}

func NewNavigator(page playwright.Page, timeout time.Duration, screenshots *ScreenShotDebugger, log logger.Logger) *Navigator {
	return &Navigator{
		page:        page,
		timeout:     timeout,
		screenshots: screenshots,
		log:         log,
	}
}

// Navigate opens url and blocks until the network is idle, then snapshots the DOM.
func (n *Navigator) Navigate(ctx context.Context, url string) (*models.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, &NavigationError{URL: url, Err: err}
	}

	resp, err := n.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(n.timeout.Milliseconds())),
	})
	if err != nil {
		navErr := &NavigationError{URL: url, Timeout: errors.Is(err, playwright.ErrTimeout), Err: err}
		n.capture("navigation-failed", navErr)
		return nil, navErr
	}

	// nil response: same-document navigation (hash change), nothing to check
	if resp != nil && !successStatus(resp.Status()) {
		navErr := &NavigationError{URL: url, Status: resp.Status()}
		n.capture(fmt.Sprintf("status-%d", resp.Status()), navErr)
		return nil, navErr
	}

	return n.snapshot(url)
}

// ScrollAndSnapshot scrolls to the bottom so lazy-loaded cards render, waits for the network
// to settle again and returns a fresh snapshot of the current page.
func (n *Navigator) ScrollAndSnapshot(ctx context.Context) (*models.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ScrollToBottom(n.page); err != nil {
		return nil, fmt.Errorf("scroll listing: %w", err)
	}
	if err := n.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64(n.timeout.Milliseconds())),
	}); err != nil {
		return nil, fmt.Errorf("wait after scroll: %w", err)
	}
	return n.snapshot(n.page.URL())
}

func (n *Navigator) snapshot(requested string) (*models.Page, error) {
	html, err := n.page.Content()
	if err != nil {
		return nil, &NavigationError{URL: requested, Err: fmt.Errorf("read page content: %w", err)}
	}
	current := n.page.URL()
	if current == "" {
		current = requested
	}
	return &models.Page{URL: current, HTML: html}, nil
}

func (n *Navigator) capture(name string, navErr *NavigationError) {
	if n.screenshots == nil {
		return
	}
	if err := n.screenshots.CaptureAndLog(n.page, name, navErr.Error()); err != nil {
		n.log.Debug("screenshot skipped", logger.Err(err))
	}
}

func successStatus(status int) bool {
	return status >= 200 && status < 400
}
