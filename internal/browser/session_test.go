package browser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSession_BadCookiesFailBeforeLaunch(t *testing.T) {
	_, err := StartSession(Options{Headless: true}, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestStartSession_OpensPage(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	s, err := StartSession(Options{Headless: true, Locale: "ko-KR"}, "")
	if err != nil {
		t.Skipf("playwright not available: %v", err)
	}
	defer s.Close()

	require.NotNil(t, s.Page)
	lang, err := s.Page.Evaluate("navigator.language")
	require.NoError(t, err)
	assert.Equal(t, "ko-KR", lang)
}
