// Command kconfig-lsp is the Kconfig language server binary: `serve` runs
// the stdio JSON-RPC loop an editor drives, `lint` is a standalone
// one-shot (or --watch) linter for CI and terminal use that needs no
// editor at all. Grounded on cmd/lci/main.go's urfave/cli/v2 app shape.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/kconfig-lsp/internal/config"
	"github.com/standardbeagle/kconfig-lsp/internal/debug"
	"github.com/standardbeagle/kconfig-lsp/internal/document"
	"github.com/standardbeagle/kconfig-lsp/internal/kctx"
	"github.com/standardbeagle/kconfig-lsp/internal/lsp"
	"github.com/standardbeagle/kconfig-lsp/internal/rpc"
	"github.com/standardbeagle/kconfig-lsp/internal/server"
	"github.com/standardbeagle/kconfig-lsp/internal/uri"
	"github.com/standardbeagle/kconfig-lsp/internal/version"
	"github.com/standardbeagle/kconfig-lsp/internal/watch"
)

func main() {
	app := &cli.App{
		Name:    "kconfig-lsp",
		Usage:   "Kconfig language server and standalone linter",
		Version: version.Info(),
		Commands: []*cli.Command{
			serveCmd(),
			lintCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "kconfig-lsp: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the stdio JSON-RPC language server",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "wait for a debugger to attach before serving"},
			&cli.BoolFlag{Name: "log", Usage: "enable the rolling debug log file"},
			&cli.StringFlag{Name: "config", Usage: "directory to search for .kconfig-lsp.kdl", Value: "."},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Nothing may be written to stdout once the stdio transport is live.
	debug.SetQuietMode(true)

	if c.Bool("log") || cfg.Log.Enabled {
		resolved, err := debug.InitLogFileWithRotation(cfg.Log.Path, cfg.Log.MaxSizeBytes)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer debug.CloseLogFile()
		debug.Log("serve", "log file: %s", resolved)
	}

	if c.Bool("debug") {
		if err := debug.WaitForAttach(cfg.Debug.Port); err != nil {
			return fmt.Errorf("debug attach failed: %w", err)
		}
	}

	docs := document.NewStore()
	rpcServer := rpc.NewServer(os.Stdin, os.Stdout)
	server.New(rpcServer, docs)

	return rpcServer.Loop()
}

func lintCmd() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "lint a Kconfig tree and its .conf overlays outside any editor",
		ArgsUsage: "<root-kconfig> [conf-files...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "env", Usage: "K=V environment variable used while parsing"},
			&cli.BoolFlag{Name: "watch", Usage: "re-lint whenever a watched Kconfig/.conf file changes"},
			&cli.StringSliceFlag{Name: "include", Usage: "glob pattern a changed file must match to trigger a re-lint (--watch only)"},
			&cli.StringSliceFlag{Name: "exclude", Usage: "glob pattern that vetoes an otherwise-matching changed file (--watch only)"},
			&cli.BoolFlag{Name: "json", Usage: "print diagnostics as JSON instead of human-readable text"},
		},
		Action: runLint,
	}
}

func runLint(c *cli.Context) error {
	args := c.Args().Slice()
	if len(args) < 1 {
		return errors.New("usage: kconfig-lsp lint <root-kconfig> [conf-files...]")
	}
	root := args[0]
	confPaths := args[1:]

	env, err := parseEnvFlags(c.StringSlice("env"))
	if err != nil {
		return err
	}

	cfg, err := config.Load(filepath.Dir(root))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	include := c.StringSlice("include")
	if len(include) == 0 {
		include = cfg.Watch.Patterns
	}
	exclude := c.StringSlice("exclude")
	if len(exclude) == 0 {
		exclude = cfg.Lint.Exclude
	}
	jsonOutput := c.Bool("json")

	docs := document.NewStore()
	buildURI := uri.File(filepath.Dir(root))

	var confFiles []*kctx.ConfFile
	for _, p := range confPaths {
		confFiles = append(confFiles, kctx.NewConfFile(uri.File(p)))
	}

	ctxt := kctx.NewContext(buildURI, root, confFiles, env, docs)

	lintOnce := func() bool {
		ctxt.Invalidate()
		ctxt.Refresh()
		return printDiagnostics(ctxt, jsonOutput)
	}

	clean := lintOnce()

	if !c.Bool("watch") {
		if !clean {
			return cli.Exit("", 1)
		}
		return nil
	}

	fmt.Fprintf(os.Stderr, "watching %s for changes (patterns: %s)\n", filepath.Dir(root), strings.Join(include, ", "))

	w, err := watch.New(filepath.Dir(root), include, cfg.Watch.DebounceMs, func(paths []string) {
		fmt.Fprintf(os.Stderr, "\nchanged: %s\n", strings.Join(paths, ", "))
		lintOnce()
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	w.SetExcludes(exclude)
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	return w.Stop()
}

func parseEnvFlags(pairs []string) (map[string]string, error) {
	env := map[string]string{}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --env %q, expected K=V", pair)
		}
		env[k] = v
	}
	return env, nil
}

// printDiagnostics prints every diagnostic currently held by ctxt and
// reports whether the tree is clean (no error-severity diagnostics).
func printDiagnostics(ctxt *kctx.Context, jsonOutput bool) bool {
	type diagOut struct {
		File     string `json:"file"`
		Line     int    `json:"line"`
		Severity string `json:"severity"`
		Message  string `json:"message"`
	}

	var all []diagOut
	addAll := func(file string, diags []*lsp.Diagnostic) {
		for _, d := range diags {
			all = append(all, diagOut{
				File:     file,
				Line:     d.Range.Start.Line + 1,
				Severity: severityName(d.Severity),
				Message:  d.Message,
			})
		}
	}

	for _, conf := range ctxt.AllConfFiles() {
		addAll(conf.URI.Filename(), conf.Diags)
	}
	addAll("<command-line>", ctxt.CmdDiags())
	for rawURI, diags := range ctxt.KconfigDiags() {
		u, err := uri.Parse(rawURI)
		file := rawURI
		if err == nil {
			file = u.Filename()
		}
		addAll(file, diags)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].File != all[j].File {
			return all[i].File < all[j].File
		}
		return all[i].Line < all[j].Line
	})

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(all)
	} else {
		for _, d := range all {
			fmt.Printf("%s:%d: %s: %s\n", d.File, d.Line, d.Severity, d.Message)
		}
		fmt.Printf("%d diagnostic(s)\n", len(all))
	}

	for _, d := range all {
		if d.Severity == "error" {
			return false
		}
	}
	return true
}

func severityName(sev int) string {
	switch sev {
	case lsp.SeverityError:
		return "error"
	case lsp.SeverityWarning:
		return "warning"
	case lsp.SeverityInformation:
		return "info"
	case lsp.SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}
