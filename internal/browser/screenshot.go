package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-jobpost-crawler/internal/logger"
)

// ScreenShotDebugger saves full-page screenshots when a navigation fails.
type ScreenShotDebugger struct {
	outputDir string
	log       logger.Logger
}

// NewScreenShotDebugger returns nil when dir is empty, which disables screenshots.
func NewScreenShotDebugger(dir string, log logger.Logger) (*ScreenShotDebugger, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create screenshot dir: %w", err)
	}
	return &ScreenShotDebugger{outputDir: dir, log: log}, nil
}

func (s *ScreenShotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, timestamp))

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}

	s.log.Info("📸 "+message, logger.String("path", path))
	return nil
}
