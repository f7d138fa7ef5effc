//go:build targ

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
	"github.com/toejough/targ"
	"github.com/toejough/targ/file"
	"github.com/toejough/targ/sh"
)

// Check runs all checks & fixes on the code, in order of correctness.
func Check() error {
	fmt.Println("Checking...")

	return targ.Deps(
		Tidy,          // clean up the module dependencies
		CheckCoverage, // does our code work?
		ReorderDecls,  // linter will yell about declaration order if not correct
		Lint,
	)
}

// CheckCoverage runs the tests and fails if any function is below the coverage floor.
func CheckCoverage() error {
	fmt.Println("Checking coverage...")

	if err := targ.Deps(Test); err != nil {
		return err
	}

	out, err := output("go", "tool", "cover", "-func=coverage.out")
	if err != nil {
		return err
	}

	var funcs []funcCoverage

	for _, line := range strings.Split(out, "\n") {
		if line == "" || strings.Contains(line, "total:") {
			continue
		}

		percent, err := strconv.ParseFloat(percentPattern.FindString(line), 64)
		if err != nil {
			return fmt.Errorf("parsing coverage line %q: %w", line, err)
		}

		funcs = append(funcs, funcCoverage{line: line, percent: percent})
	}

	if len(funcs) == 0 {
		return errNoCoverage
	}

	slices.SortStableFunc(funcs, func(a, b funcCoverage) int {
		switch {
		case a.percent < b.percent:
			return -1
		case a.percent > b.percent:
			return 1
		default:
			return 0
		}
	})

	for _, fc := range funcs {
		fmt.Println(fc.line)
	}

	if lowest := funcs[0]; lowest.percent < coverageFloor {
		return fmt.Errorf("function coverage was less than the limit of %.1f:\n  %s", coverageFloor, lowest.line)
	}

	return nil
}

// CheckForFail runs the fast checks purely to find out whether any fail.
func CheckForFail() error {
	fmt.Println("Checking for overall pass/fail...")

	return targ.Deps(
		ReorderDeclsCheck,
		LintForFail,
		TestForFail,
	)
}

// Lint lints the codebase.
func Lint() error {
	fmt.Println("Linting...")
	return sh.Run("golangci-lint", "run", "./...")
}

// LintForFail lints the codebase purely to find out whether anything fails.
func LintForFail() error {
	fmt.Println("Linting to check for overall pass/fail...")

	return sh.Run(
		"golangci-lint", "run",
		"--fix=false",
		"--max-issues-per-linter=1",
		"--max-same-issues=1",
		"--allow-parallel-runners",
		"./...",
	)
}

// Mutate runs the mutation tests.
func Mutate() error {
	fmt.Println("Running mutation tests...")

	if err := targ.Deps(TestForFail); err != nil {
		return err
	}

	return sh.Run(
		"go",
		"test",
		"-timeout=6000s",
		"-tags=mutation",
		"-ooze.v",
		"./dev/...",
		"-run=TestMutation",
	)
}

// ReorderDecls reorders declarations in Go files per conventions.
func ReorderDecls() error {
	fmt.Println("Reordering declarations...")

	files, err := sourceFiles()
	if err != nil {
		return err
	}

	reorderedCount := 0

	for _, path := range files {
		content, reordered, err := reorderFile(path)
		if err != nil {
			fmt.Printf("Warning: %v\n", err)

			continue
		}

		if content == reordered {
			continue
		}

		if err := os.WriteFile(path, []byte(reordered), 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		fmt.Printf("  Reordered: %s\n", path)
		reorderedCount++
	}

	fmt.Printf("Reordered %d file(s).\n", reorderedCount)

	return nil
}

// ReorderDeclsCheck reports which files need reordering without modifying them.
func ReorderDeclsCheck() error {
	fmt.Println("Checking declaration order...")

	files, err := sourceFiles()
	if err != nil {
		return err
	}

	outOfOrder := 0

	for _, path := range files {
		content, reordered, err := reorderFile(path)
		if err != nil {
			fmt.Printf("Warning: %v\n", err)

			continue
		}

		if content == reordered {
			continue
		}

		outOfOrder++

		if diff := textdiff.Unified(path+" (current)", path+" (reordered)", content, reordered); diff != "" {
			fmt.Printf("\n%s\n", diff)
		}
	}

	if outOfOrder > 0 {
		return fmt.Errorf("%d of %d file(s) need reordering, run 'targ reorder-decls'", outOfOrder, len(files))
	}

	fmt.Printf("All files are correctly ordered (%d files processed).\n", len(files))

	return nil
}

// Test runs the unit tests with race detection and coverage.
func Test() error {
	fmt.Println("Running unit tests...")

	// -count=1 disables caching so coverage is regenerated
	return sh.Run(
		"go",
		"test",
		"-timeout=2m",
		"-race",
		"-count=1",
		"-coverprofile=coverage.out",
		"-coverpkg=.,./internal/...,./match/...",
		"./...",
	)
}

// TestForFail runs the unit tests purely to find out whether any fail.
func TestForFail() error {
	fmt.Println("Running unit tests for overall pass/fail...")

	return sh.Run("go", "test", "-timeout=30s", "-failfast", "./...")
}

// Tidy tidies up go.mod.
func Tidy() error {
	fmt.Println("Tidying go.mod...")
	return sh.Run("go", "mod", "tidy")
}

// Watch re-runs Check whenever files change.
func Watch(ctx context.Context) error {
	fmt.Println("Watching...")

	return file.Watch(ctx, []string{"**/*.go", "**/*.json"}, file.WatchOptions{}, func(changes file.ChangeSet) error {
		if !hasRelevantChanges(changes) {
			return nil
		}

		fmt.Println("Change detected...")

		targ.ResetDeps() // clear execution cache so targets run again

		if err := Check(); err != nil {
			fmt.Println("continuing to watch after check failure (see errors above)")
		} else {
			fmt.Println("continuing to watch after all checks passed!")
		}

		return nil
	})
}

const coverageFloor = 80.0

// unexported variables.
var (
	errNoCoverage = errors.New("no coverage data")
	//nolint:gochecknoglobals // compiled once
	percentPattern = regexp.MustCompile(`\d+\.\d`)
)

type funcCoverage struct {
	line    string
	percent float64
}

// hasRelevantChanges filters out the artifacts Check itself creates.
func hasRelevantChanges(changes file.ChangeSet) bool {
	for _, f := range slices.Concat(changes.Added, changes.Removed, changes.Modified) {
		if !strings.HasSuffix(f, "coverage.out") {
			return true
		}
	}

	return false
}

func isGeneratedFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 200)

	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return strings.Contains(string(buf[:n]), "Code generated"), nil
}

// output runs a command and captures stdout only (stderr goes to os.Stderr).
func output(command string, args ...string) (string, error) {
	var buf strings.Builder

	cmd := exec.Command(command, args...)
	cmd.Stdout = &buf
	cmd.Stderr = os.Stderr
	err := cmd.Run()

	return strings.TrimSuffix(buf.String(), "\n"), err
}

func reorderFile(path string) (content, reordered string, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	reordered, err = reorder.Source(string(raw))
	if err != nil {
		return "", "", fmt.Errorf("failed to reorder %s: %w", path, err)
	}

	return string(raw), reordered, nil
}

// sourceFiles lists the module's hand-written Go files, skipping the reference pack,
// hidden directories and generated code.
func sourceFiles() ([]string, error) {
	var files []string

	err := filepath.WalkDir(".", func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("unable to walk %s: %w", path, err)
		}

		if entry.IsDir() {
			name := entry.Name()
			if path != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) != ".go" {
			return nil
		}

		generated, err := isGeneratedFile(path)
		if err != nil {
			return err
		}

		if !generated {
			files = append(files, path)
		}

		return nil
	})

	return files, err
}
