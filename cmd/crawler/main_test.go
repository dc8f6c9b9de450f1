package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommand_PrintsMaskedConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key-1234567890")
	t.Setenv("CRAWLER_CONFIG", "")

	path := filepath.Join(t.TempDir(), "crawler.yaml")
	require.NoError(t, os.WriteFile(path, []byte("crawl:\n  max_items: 3\n"), 0644))

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "--config", path})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "max_items: 3")
	assert.Contains(t, out.String(), "# SUPABASE_ANON_KEY: anon****")
	assert.NotContains(t, out.String(), "1234567890")
}

func TestRootCommand_MissingCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL", "SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY", "CRAWLER_CONFIG"} {
		t.Setenv(k, "")
	}
	cfgFile = ""

	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"dbcheck"})

	err := root.Execute()
	assert.ErrorContains(t, err, "missing required environment: SUPABASE_URL, SUPABASE_ANON_KEY")
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"probe", "dbcheck", "config"})
}
