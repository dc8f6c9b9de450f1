package browser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name":"locale","value":"ko","domain":".toss.im","path":"/","expires":1893456000,"httpOnly":true,"secure":true,"sameSite":"Lax"},
		{"name":"consent","value":"1","domain":"toss.im","path":"","sameSite":"unspecified"}
	]`), 0644))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	first := cookies[0]
	assert.Equal(t, "locale", first.Name)
	assert.Equal(t, ".toss.im", *first.Domain)
	assert.Equal(t, 1893456000.0, *first.Expires)
	assert.True(t, *first.HttpOnly)
	assert.True(t, *first.Secure)
	assert.Equal(t, playwright.SameSiteAttributeLax, first.SameSite)

	second := cookies[1]
	assert.Equal(t, "/", *second.Path)
	assert.Nil(t, second.Expires)
	assert.Nil(t, second.SameSite)
}

func TestLoadCookies_EmptyPathAndErrors(t *testing.T) {
	cookies, err := LoadCookies("")
	assert.NoError(t, err)
	assert.Nil(t, cookies)

	_, err = LoadCookies(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{not json`), 0644))
	_, err = LoadCookies(bad)
	assert.Error(t, err)
}
