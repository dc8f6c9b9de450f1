package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// Session is one launched browser with a single page, the shape every command uses.
type Session struct {
	manager *PlaywrightManager
	context playwright.BrowserContext
	Page    playwright.Page
}

// StartSession launches Chromium, loads cookies from cookiesPath (optional) and opens a page.
func StartSession(opts Options, cookiesPath string) (*Session, error) {
	cookies, err := LoadCookies(cookiesPath)
	if err != nil {
		return nil, err
	}

	pm, err := NewPlaywright(opts)
	if err != nil {
		return nil, err
	}

	browserCtx, err := pm.NewContext(cookies)
	if err != nil {
		_ = pm.Close()
		return nil, err
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		_ = browserCtx.Close()
		_ = pm.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	return &Session{manager: pm, context: browserCtx, Page: page}, nil
}

func (s *Session) Close() error {
	if s.context != nil {
		_ = s.context.Close()
	}
	return s.manager.Close()
}
