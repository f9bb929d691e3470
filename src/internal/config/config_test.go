package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv removes a variable for the duration of the test while keeping
// t.Setenv's restore-on-cleanup behavior.
func clearEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func clearAll(t *testing.T) {
	t.Helper()
	for _, key := range []string{"MODSERVE_HOST", "MODSERVE_PORT", "MODSERVE_ROOT", "MODSERVE_LIVERELOAD"} {
		clearEnv(t, key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearAll(t)

	cfg := Load("test")

	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, ".", cfg.Root)
	assert.True(t, cfg.LiveReload)
	assert.Equal(t, "test", cfg.Version)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearAll(t)
	t.Setenv("MODSERVE_HOST", "127.0.0.1")
	t.Setenv("MODSERVE_PORT", "9999")
	t.Setenv("MODSERVE_ROOT", "/srv/site")
	t.Setenv("MODSERVE_LIVERELOAD", "false")

	cfg := Load("test")

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "/srv/site", cfg.Root)
	assert.False(t, cfg.LiveReload)
}

func TestLoadInvalidLiveReloadValue(t *testing.T) {
	clearAll(t)
	t.Setenv("MODSERVE_LIVERELOAD", "maybe")

	cfg := Load("test")
	assert.True(t, cfg.LiveReload, "invalid value should keep the default")
}

func TestLoadDotEnvFile(t *testing.T) {
	clearAll(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MODSERVE_PORT=7777\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg := Load("test")
	assert.Equal(t, "7777", cfg.Port)
}

func TestResolveRoot(t *testing.T) {
	dir := t.TempDir()

	resolved, err := ResolveRoot(dir)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(resolved))

	_, err = ResolveRoot(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = ResolveRoot(file)
	assert.ErrorContains(t, err, "not a directory")
}
