// Package run is a small pipeline with fallible dependencies, used to show a
// negative-test sweep over calls that take arguments.
package run

import (
	"errors"
	"fmt"
)

// IntOps is the dependency PrintSum drives.
type IntOps interface {
	Add(a, b int) (int, error)
	Format(i int) (string, error)
	Print(s string)
}

// PrintSum adds a and b, formats the sum and prints it. Failures of Add or Format
// are wrapped with the step that failed; nothing is printed after a failure.
func PrintSum(a, b int, deps IntOps) (string, error) {
	sum, err := deps.Add(a, b)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAdd, err)
	}

	formatted, err := deps.Format(sum)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFormat, err)
	}

	deps.Print(formatted)

	return formatted, nil
}

// Step errors returned by PrintSum.
var (
	ErrAdd    = errors.New("add failed")
	ErrFormat = errors.New("format failed")
)
