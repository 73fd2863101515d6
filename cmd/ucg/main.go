// Command ucg is the UCG language driver: build/test/eval subcommands over
// the pure evaluator in pkg/eval, wired to a filesystem Loader, the process
// environment, a converter registry, and diagnostic rendering. There is no
// deps/lockfile machinery since UCG has no package ecosystem to manage.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jfranklin9000/ucg/pkg/diag"
	"github.com/jfranklin9000/ucg/pkg/driver"
	"github.com/jfranklin9000/ucg/pkg/eval"
	"github.com/jfranklin9000/ucg/pkg/importer"
	"github.com/jfranklin9000/ucg/pkg/parser"
	"github.com/jfranklin9000/ucg/pkg/value"
)

const (
	exitOK         = 0
	exitEvalError  = 1
	exitAssertFail = 2
	exitIOError    = 3
)

// renderer is the single diagnostic/TRACE sink for the process, shared by
// every subcommand so color gating happens once. configureRenderer swaps it
// for a JSON-mode renderer when --json is given.
var renderer = diag.NewRenderer(os.Stderr, false)

func configureRenderer(jsonMode bool) {
	renderer = diag.NewRenderer(os.Stderr, jsonMode)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return exitEvalError
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return exitOK
	case "build":
		return runBuild(args[1:])
	case "test":
		return runTest(args[1:])
	case "eval":
		return runEval(args[1:])
	case "fmt", "repl", "converters":
		fmt.Fprintf(os.Stderr, "ucg %s: not part of core\n", args[0])
		return exitEvalError
	default:
		printUsage()
		return exitEvalError
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage:
  ucg build [-r <root>] [--nostrict] [--json] [files...]
  ucg test  [-r <root>] [--nostrict] [--json] [files...]
  ucg eval  -e "<expr>" [--nostrict]`)
}

// cliOptions holds the flags shared by build and test.
type cliOptions struct {
	root     string
	nostrict bool
	json     bool
	files    []string
}

func parseCLIOptions(args []string) (*cliOptions, error) {
	opts := &cliOptions{root: "."}
	i := 0
	for i < len(args) {
		switch args[i] {
		case "-r", "--root":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", args[i])
			}
			opts.root = args[i+1]
			i += 2
		case "--nostrict":
			opts.nostrict = true
			i++
		case "--json":
			opts.json = true
			i++
		default:
			opts.files = append(opts.files, args[i])
			i++
		}
	}
	return opts, nil
}

// loadRootManifest loads the nearest ucg.yml found in root or one of its
// ancestors, falling back to a nil manifest (direct-file execution) when
// none exists.
func loadRootManifest(root string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(root)
	if err != nil {
		if err == driver.ErrManifestNotFound {
			return nil, nil
		}
		return nil, err
	}
	return driver.LoadManifest(path)
}

// buildEvaluator wires the pure evaluator to its host collaborators. asserts
// is an eval.AssertCollector, not a *driver.AssertCollector, so callers with
// nothing to collect can pass the untyped nil literal rather than a nil
// pointer wrapped in a non-nil interface, which Evaluator.execAssert's
// `e.Asserts != nil` guard would otherwise fail to catch. When the manifest
// names a std_remote, the standard library is vendored into std_root via
// FetchStdlib before the resolver is built, so std_root always refers to a
// local checkout by the time import resolution runs.
func buildEvaluator(manifest *driver.Manifest, nostrict bool, asserts eval.AssertCollector) (*eval.Evaluator, error) {
	strict := !nostrict
	var searchPaths []string
	var stdRoot string
	if manifest != nil {
		if manifest.Nostrict {
			strict = false
		}
		searchPaths = manifest.SearchPaths
		stdRoot = manifest.StdRoot
		if manifest.StdRemote != "" {
			if err := driver.FetchStdlib(manifest.StdRemote, manifest.StdRev, stdRoot); err != nil {
				return nil, err
			}
		}
	}
	loader := &driver.FSLoader{SearchPaths: searchPaths}
	resolver := &importer.Resolver{StdRoot: stdRoot}
	tracer := &driver.RendererTracer{Renderer: renderer}
	return eval.New(importer.NewCache(), resolver, loader, driver.OSEnv{}, strict, asserts, tracer), nil
}

func runBuild(args []string) int {
	opts, err := parseCLIOptions(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitEvalError
	}
	configureRenderer(opts.json)
	manifest, err := loadRootManifest(opts.root)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIOError
	}
	e, err := buildEvaluator(manifest, opts.nostrict, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIOError
	}
	registry := driver.NewRegistry()

	for _, file := range opts.files {
		abs, err := filepath.Abs(file)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitIOError
		}
		source, err := os.ReadFile(abs)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitIOError
		}
		astFile, err := parser.Parse(string(source), abs)
		if err != nil {
			return reportError(err, string(source))
		}
		if _, err := e.EvalFile(astFile, abs, registry.OutTo(os.Stdout)); err != nil {
			return reportError(err, string(source))
		}
	}
	return exitOK
}

func runTest(args []string) int {
	opts, err := parseCLIOptions(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitEvalError
	}
	configureRenderer(opts.json)
	manifest, err := loadRootManifest(opts.root)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIOError
	}
	asserts := driver.NewAssertCollector()
	e, err := buildEvaluator(manifest, opts.nostrict, asserts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIOError
	}

	for _, file := range opts.files {
		abs, err := filepath.Abs(file)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitIOError
		}
		source, err := os.ReadFile(abs)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitIOError
		}
		astFile, err := parser.Parse(string(source), abs)
		if err != nil {
			return reportError(err, string(source))
		}
		if _, err := e.EvalFile(astFile, abs, nil); err != nil {
			return reportError(err, string(source))
		}
	}

	fmt.Printf("run %s: %d assertion(s)\n", asserts.RunID, len(asserts.Results))
	for _, r := range asserts.Results {
		status := "ok"
		if !r.OK {
			status = "FAIL"
		}
		fmt.Printf("  [%s] %s:%d:%d %s\n", status, r.Span.Start.File, r.Span.Start.Line, r.Span.Start.Col, r.Desc)
	}
	if !asserts.Passed() {
		fmt.Printf("%d failure(s)\n", len(asserts.Failures()))
		return exitAssertFail
	}
	return exitOK
}

func runEval(args []string) int {
	var expr string
	var nostrict bool
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-e":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "-e requires an expression")
				return exitEvalError
			}
			expr = args[i+1]
			i++
		case "--nostrict":
			nostrict = true
		}
	}
	if expr == "" {
		fmt.Fprintln(os.Stderr, "ucg eval requires -e \"<expr>\"")
		return exitEvalError
	}

	parsed, err := parser.ParseExpr(expr, "")
	if err != nil {
		return reportError(err, expr)
	}
	e, err := buildEvaluator(nil, nostrict, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitIOError
	}
	v, err := e.EvalExpr(parsed)
	if err != nil {
		return reportError(err, expr)
	}
	fmt.Println(value.Render(v))
	return exitOK
}

func reportError(err error, source string) int {
	if de, ok := diag.AsError(err); ok {
		renderer.Diagnostic(de, source)
		if de.Kind == diag.KindIO {
			return exitIOError
		}
		return exitEvalError
	}
	fmt.Fprintln(os.Stderr, err)
	return exitEvalError
}
