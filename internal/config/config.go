// Package config loads the compiler's Options from environment
// variables (optionally sourced from a .env file via godotenv), the same
// pattern the teacher's internal/config.LoadConfig follows for its own
// environment-driven settings.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Options are the four booleans spec §3/§6 name, plus the two path-valued
// settings the module loader and compile cache need.
type Options struct {
	Clean     bool
	Optimize  bool
	Debug     bool
	NoStdlib  bool
	StdlibDir string
	CacheDSN  string
}

const (
	envClean     = "GEMC_CLEAN"
	envOptimize  = "GEMC_OPTIMIZE"
	envDebug     = "GEMC_DEBUG"
	envNoStdlib  = "GEMC_NO_STDLIB"
	envStdlibDir = "GEMC_STDLIB_PATH"
	envCacheDSN  = "GEMC_CACHE_DSN"
)

// defaultStdlibDir is used when GEMC_STDLIB_PATH is unset.
const defaultStdlibDir = "stdlib"

// defaultCacheDSN is a local sqlite file used when GEMC_CACHE_DSN is unset.
const defaultCacheDSN = "gemc-cache.db"

// Load reads .env (if present, ignored if absent — mirroring the teacher's
// tolerant godotenv.Load usage) and then environment variables into an
// Options value. Flags passed on the CLI always take precedence; Load only
// supplies the defaults a flag didn't override (see applyFlags in cmd/gemc).
func Load() *Options {
	_ = godotenv.Load()

	opts := &Options{
		Clean:     envBool(envClean, false),
		Optimize:  envBool(envOptimize, false),
		Debug:     envBool(envDebug, false),
		NoStdlib:  envBool(envNoStdlib, false),
		StdlibDir: envString(envStdlibDir, defaultStdlibDir),
		CacheDSN:  envString(envCacheDSN, defaultCacheDSN),
	}
	return opts
}

func envBool(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
