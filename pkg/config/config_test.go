package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Checks.Brackets)
	assert.True(t, cfg.Checks.InfiniteLoops)
	assert.Equal(t, 30, cfg.Limits.LoopLookahead)
	assert.Equal(t, 20, cfg.Limits.ArrayLookahead)
	assert.Equal(t, 2, cfg.Limits.BodySearch)
	assert.True(t, cfg.Transform.Rename)
	assert.Equal(t, 4, cfg.Transform.IndentWidth)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, ".cmend/cache", cfg.Cache.Dir)
	assert.Equal(t, 24, cfg.Cache.TTL)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cmend.toml")
	content := `
[checks]
brackets = false
infinite_loops = false

[limits]
loop_lookahead = 50

[transform]
rename = false
indent_width = 2

[cache]
enabled = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Checks.Brackets)
	assert.False(t, cfg.Checks.InfiniteLoops)
	// Unset fields keep their defaults.
	assert.True(t, cfg.Checks.Control)
	assert.Equal(t, 50, cfg.Limits.LoopLookahead)
	assert.Equal(t, 20, cfg.Limits.ArrayLookahead)
	assert.False(t, cfg.Transform.Rename)
	assert.Equal(t, 2, cfg.Transform.IndentWidth)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cmend.yaml")
	content := `checks:
  semicolons: false
output:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Checks.Semicolons)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoadUnknownCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cmend.toml")
	content := `
[checks]
bracketts = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown check")
	assert.Contains(t, err.Error(), "bracketts")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path string
		want bool
	}{
		{"src/main.c", false},
		{"build/main.c", true},
		{filepath.Join("a", "b", ".git", "f.c"), true},
		{"prog.o", true},
		{"old.bak", true},
		{"main.c", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.ShouldExclude(tt.path), "path %s", tt.path)
	}
}

func TestShouldExcludeCustomPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude.Patterns = append(cfg.Exclude.Patterns, "vendor_*")
	assert.True(t, cfg.ShouldExclude("vendor_lib.c"))
	assert.False(t, cfg.ShouldExclude("lib.c"))
}
