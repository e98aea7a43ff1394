package framework

import (
	"fmt"
	"io"
	"strings"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool

	// Group is true if the test ran subtests of its own.
	Group bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Ran returns the number of tests that ran, not counting groups of subtests unless the group
// itself failed.
func (r Results) Ran() int {
	n := 0
	for _, t := range r.Tests {
		if !t.Skipped && (!t.Group || len(t.Errors) > 0) {
			n++
		}
	}
	return n
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

func PrintResults(out io.Writer, results Results) {
	if results.OK() {
		fmt.Fprintf(out, "All tests passed (%d run)\n", results.Ran())
		return
	}
	fmt.Fprintf(out, "FAILED TESTS (%d of %d):\n", len(results.Failures), results.Ran())
	for _, f := range results.Failures {
		fmt.Fprintf(out, "  * %s\n", f.TestID)
	}
}

// reformatError strips the "Error Trace" block from testify failure messages.
func reformatError(err error) error {
	lines := strings.Split(strings.TrimSpace(err.Error()), "\n")
	kept := make([]string, 0, len(lines))
	inTrace := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Error Trace:") {
			inTrace = true
			continue
		}
		if inTrace && strings.HasPrefix(strings.TrimPrefix(line, "\t"), " ") {
			continue
		}
		inTrace = false
		kept = append(kept, strings.TrimPrefix(line, "\t"))
	}
	return reformattedError{message: strings.Join(kept, "\n"), original: err}
}

type reformattedError struct {
	message  string
	original error
}

func (e reformattedError) Error() string { return e.message }

func (e reformattedError) Unwrap() error { return e.original }
