// Command validate-tonel validates one or more Tonel source files,
// reporting the first syntax error found in each.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/tonel-lang/tonel/parser"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("validate-tonel", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	withoutMethodBody := fs.Bool("without-method-body", false, "validate only the Tonel structure, skipping Smalltalk method bodies")
	showVersion := fs.Bool("version", false, "print the version and exit")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: validate-tonel [--without-method-body] [--version] [--help] PATH...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *showVersion {
		fmt.Println("validate-tonel", version)
		return 0
	}

	paths := fs.Args()
	if len(paths) == 0 {
		fs.Usage()
		return 2
	}

	files, err := expandPaths(paths)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return validateAll(files, *withoutMethodBody)
}

// expandPaths resolves each argument to one or more filesystem paths,
// expanding doublestar glob patterns and preserving argument order. A
// literal path (one with no glob metacharacters) is kept even if it does
// not exist, so that a missing file is reported as an invalid-content
// failure rather than silently dropped. A true glob pattern that matches
// no files is a usage error, not a missing-file failure.
func expandPaths(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if !isGlobPattern(arg) {
			files = append(files, arg)
			continue
		}
		if !doublestar.ValidatePattern(arg) {
			return nil, fmt.Errorf("invalid glob pattern %q", arg)
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", arg)
		}
		files = append(files, matches...)
	}
	return files, nil
}

// isGlobPattern reports whether s contains an unescaped doublestar glob
// metacharacter (*, ?, [, {); a backslash escapes the character after it.
func isGlobPattern(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

type result struct {
	path string
	ok   bool
	diag *parser.Diagnostic
}

// validateAll validates every file concurrently — each owns its own
// parser state and FileInfo exclusively, so no synchronization is needed
// beyond collecting results — then prints them back in input order.
func validateAll(files []string, withoutMethodBody bool) int {
	results := make([]result, len(files))

	var g errgroup.Group
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			results[i] = validateOne(path, withoutMethodBody)
			return nil
		})
	}
	_ = g.Wait()

	exitCode := 0
	for _, r := range results {
		if r.ok {
			fmt.Printf("✓ %q is valid\n", r.path)
			continue
		}
		fmt.Printf("%s: %s\n", r.path, r.diag.Reason)
		fmt.Printf("  line %d\n", r.diag.Line)
		fmt.Printf("  %s\n", r.diag.ErrorText)
		if exitCode < 1 {
			exitCode = 1
		}
	}
	return exitCode
}

func validateOne(path string, withoutMethodBody bool) result {
	if withoutMethodBody {
		ok, diag := (parser.TonelParser{}).ValidateFile(path)
		return result{path: path, ok: ok, diag: diag}
	}
	ok, diag := (parser.TonelFullParser{}).ValidateFile(path)
	return result{path: path, ok: ok, diag: diag}
}
