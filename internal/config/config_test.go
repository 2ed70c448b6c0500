package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// clearEnv resets every GEMC_* variable this package reads so tests don't
// leak into one another or pick up the host environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{envClean, envOptimize, envDebug, envNoStdlib, envStdlibDir, envCacheDSN} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaultsWhenUnset(t *testing.T) {
	clearEnv(t)
	opts := Load()

	assert.False(t, opts.Clean)
	assert.False(t, opts.Optimize)
	assert.False(t, opts.Debug)
	assert.False(t, opts.NoStdlib)
	assert.Equal(t, defaultStdlibDir, opts.StdlibDir)
	assert.Equal(t, defaultCacheDSN, opts.CacheDSN)
}

func TestLoadReadsEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(envDebug, "true")
	t.Setenv(envNoStdlib, "1")
	t.Setenv(envStdlibDir, "/opt/gem/stdlib")
	t.Setenv(envCacheDSN, "libsql://example")

	opts := Load()
	assert.True(t, opts.Debug)
	assert.True(t, opts.NoStdlib)
	assert.Equal(t, "/opt/gem/stdlib", opts.StdlibDir)
	assert.Equal(t, "libsql://example", opts.CacheDSN)
}

func TestLoadFallsBackOnUnparsableBool(t *testing.T) {
	clearEnv(t)
	t.Setenv(envClean, "not-a-bool")

	opts := Load()
	assert.False(t, opts.Clean, "an unparsable bool falls back to the default rather than erroring")
}

func TestEnvStringFallback(t *testing.T) {
	os.Unsetenv("GEMC_TEST_UNUSED")
	assert.Equal(t, "fallback", envString("GEMC_TEST_UNUSED", "fallback"))
}
