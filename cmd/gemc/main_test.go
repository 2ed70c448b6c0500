package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LemurGamingYT/gemc/internal/config"
)

func TestNewRootCmdRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "compile")
	assert.Contains(t, names, "modules")
}

func TestNewCompileCmdRequiresAtLeastOneFile(t *testing.T) {
	cmd := newCompileCmd()
	err := cmd.Args(cmd, nil)
	assert.Error(t, err)
}

func TestNewCompileCmdRegistersExpectedFlags(t *testing.T) {
	cmd := newCompileCmd()
	for _, name := range []string{"clean", "optimize", "debug", "no-stdlib", "stdlib-path", "cache"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %q", name)
	}
}

func TestApplyFlagsFallsBackToDefaultsWhenNothingSet(t *testing.T) {
	cmd := newCompileCmd()
	defaults := &config.Options{StdlibDir: "./stdlib", CacheDSN: "./gemc-cache.db"}

	opts := applyFlags(defaults, cmd, false, false, false, false, "", "")

	assert.Equal(t, "./stdlib", opts.StdlibDir)
	assert.Equal(t, "./gemc-cache.db", opts.CacheDSN)
	assert.False(t, opts.Debug)
}

func TestApplyFlagsSetFlagWinsOverDefault(t *testing.T) {
	cmd := newCompileCmd()
	defaults := &config.Options{Debug: false, NoStdlib: false}

	require.NoError(t, cmd.Flags().Set("debug", "true"))
	require.NoError(t, cmd.Flags().Set("no-stdlib", "true"))

	opts := applyFlags(defaults, cmd, false, false, true, true, "", "")

	assert.True(t, opts.Debug, "an explicitly set flag overrides the environment default")
	assert.True(t, opts.NoStdlib)
}

func TestApplyFlagsNonEmptyStringOverridesAlwaysWin(t *testing.T) {
	cmd := newCompileCmd()
	defaults := &config.Options{StdlibDir: "./stdlib", CacheDSN: "./gemc-cache.db"}

	opts := applyFlags(defaults, cmd, false, false, false, false, "/custom/stdlib", "libsql://example")

	assert.Equal(t, "/custom/stdlib", opts.StdlibDir)
	assert.Equal(t, "libsql://example", opts.CacheDSN)
}

func TestApplyFlagsPreservesUnsetBoolDefaultOfTrue(t *testing.T) {
	cmd := newCompileCmd()
	defaults := &config.Options{Debug: true}

	opts := applyFlags(defaults, cmd, false, false, false, false, "", "")

	assert.True(t, opts.Debug, "an unset flag must not clobber a true environment default")
}
