package browser

import (
	"github.com/playwright-community/playwright-go"
)

// ScrollToBottom scrolls in viewport-sized steps, then jumps to the very bottom.
// Listing pages that render cards on scroll need this before the snapshot.
func ScrollToBottom(page playwright.Page) error {
	for i := 0; i < 5; i++ {
		if _, err := page.Evaluate("window.scrollBy(0, window.innerHeight)"); err != nil {
			return err
		}
	}
	_, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	return err
}
