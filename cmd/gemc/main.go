// Command gemc drives the middle-end pipeline described in SPEC_FULL.md:
// parse -> Analyser -> NodeExpansion -> MemoryManager -> Backend. It wires
// compile options (internal/config), the module loader and its compile
// cache (internal/module, internal/cache), and the debug tracer
// (internal/trace) the way the teacher's demo/cmd/main.go wires its own
// Cobra commands around DemoRunner.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LemurGamingYT/gemc/internal/analyser"
	"github.com/LemurGamingYT/gemc/internal/backend"
	"github.com/LemurGamingYT/gemc/internal/cache"
	"github.com/LemurGamingYT/gemc/internal/config"
	"github.com/LemurGamingYT/gemc/internal/corelib"
	"github.com/LemurGamingYT/gemc/internal/expansion"
	"github.com/LemurGamingYT/gemc/internal/frontend"
	"github.com/LemurGamingYT/gemc/internal/intrinsics"
	"github.com/LemurGamingYT/gemc/internal/memory"
	"github.com/LemurGamingYT/gemc/internal/module"
	"github.com/LemurGamingYT/gemc/internal/pass"
	"github.com/LemurGamingYT/gemc/internal/scope"
	"github.com/LemurGamingYT/gemc/internal/trace"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gemc",
		Short: "gemc is the middle-end compiler driver for the gem language",
		Long:  "gemc runs the analyser, node-expansion and memory-manager passes over gem source files and hands the result to a backend.",
	}

	root.AddCommand(newCompileCmd(), newModulesCmd())
	return root
}

func newCompileCmd() *cobra.Command {
	var (
		clean     bool
		optimize  bool
		debug     bool
		noStdlib  bool
		stdlibDir string
		cacheDSN  string
	)

	cmd := &cobra.Command{
		Use:   "compile [files...]",
		Short: "Run the middle-end pipeline over one or more gem source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := config.Load()
			opts := applyFlags(defaults, cmd, clean, optimize, debug, noStdlib, stdlibDir, cacheDSN)

			for _, path := range args {
				if err := compileFile(path, opts); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clean, "clean", false, "delete a local compile cache file before compiling (a remote cache is left as is)")
	cmd.Flags().BoolVar(&optimize, "optimize", false, "request backend optimization (opaque to the middle-end)")
	cmd.Flags().BoolVar(&debug, "debug", false, "dump IR and a diff after each pass")
	cmd.Flags().BoolVar(&noStdlib, "no-stdlib", false, "skip the implicit `use core`")
	cmd.Flags().StringVar(&stdlibDir, "stdlib-path", "", "stdlib root directory (default: $GEMC_STDLIB_PATH or ./stdlib)")
	cmd.Flags().StringVar(&cacheDSN, "cache", "", "compile cache DSN: a sqlite file path or a libsql:// URL (default: $GEMC_CACHE_DSN or ./gemc-cache.db)")
	return cmd
}

// applyFlags layers CLI flags over config.Load's environment-derived
// defaults: a flag the user actually set always wins; an unset flag falls
// back to the environment/default value (SPEC_FULL.md §6).
func applyFlags(defaults *config.Options, cmd *cobra.Command, clean, optimize, debug, noStdlib bool, stdlibDir, cacheDSN string) *config.Options {
	opts := *defaults
	if cmd.Flags().Changed("clean") {
		opts.Clean = clean
	}
	if cmd.Flags().Changed("optimize") {
		opts.Optimize = optimize
	}
	if cmd.Flags().Changed("debug") {
		opts.Debug = debug
	}
	if cmd.Flags().Changed("no-stdlib") {
		opts.NoStdlib = noStdlib
	}
	if stdlibDir != "" {
		opts.StdlibDir = stdlibDir
	}
	if cacheDSN != "" {
		opts.CacheDSN = cacheDSN
	}
	return &opts
}

func compileFile(path string, opts *config.Options) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	var c *cache.Cache
	if opts.CacheDSN != "" && opts.CacheDSN != "off" {
		dsn := opts.CacheDSN
		if opts.Clean && !isRemoteDSN(dsn) {
			os.Remove(dsn)
		}
		c, err = cache.Open(dsn, opts.Debug)
		if err != nil {
			return fmt.Errorf("open compile cache: %w", err)
		}
		defer c.Close()
	}

	fe := &frontend.TreesitterFrontend{}

	root := scope.NewRoot()
	intrinsics.Default().Install(root)

	file := &pass.File{PathName: path, Scope: root, SrcText: string(src)}

	loader := module.NewLoader(opts.StdlibDir, fe, c, nil)
	loader.RegisterNative("core", func(f *pass.File) module.NativeLibrary { return corelib.New(f) })
	loader.Analyse = analyser.AsAnalyseFunc(loader)

	program, err := fe.Parse(path, src)
	if err != nil {
		return fmt.Errorf("parse (no gem grammar wired into this build — see internal/frontend): %w", err)
	}

	recorder := trace.New(opts.Debug)

	analysed := analyser.Run(file, loader, program, opts.NoStdlib)
	recorder.Record("analyser", program, analysed)

	expanded := expansion.Run(file, analysed)
	recorder.Record("node-expansion", analysed, expanded)

	managed := memory.Run(file, expanded)
	recorder.Record("memory-manager", expanded, managed)

	if opts.Debug {
		fmt.Fprint(os.Stderr, recorder.String())
	}

	be := backend.Nop{}
	if _, err := be.Emit(file, managed); err != nil {
		return fmt.Errorf("backend: %w", err)
	}

	return nil
}

func isRemoteDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "http://") || strings.HasPrefix(dsn, "https://") || strings.HasPrefix(dsn, "libsql:")
}

func newModulesCmd() *cobra.Command {
	var stdlibDir string

	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List stdlib modules discoverable under --stdlib-path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := stdlibDir
			if dir == "" {
				dir = config.Load().StdlibDir
			}
			loader := module.NewLoader(dir, &frontend.TreesitterFrontend{}, nil, nil)
			names, err := loader.ListModules()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&stdlibDir, "stdlib-path", "", "stdlib root directory")
	return cmd
}
