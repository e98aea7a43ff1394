package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects tests the way "go test -run" and "-skip" do: a pattern is split on
// slashes, and each element is matched against the test name at the same depth.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

func (r RegexFilters) AsFilter(id TestID) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.anyAllows(id)) &&
		!r.MustNotMatch.anyExcludes(id)
}

type RegexList struct {
	patterns []pathPattern
}

type pathPattern struct {
	source string
	levels []*regexp.Regexp
}

// allows reports whether id, or some descendant of it, can match the pattern.
func (p pathPattern) allows(id TestID) bool {
	for i, name := range id.Path {
		if i >= len(p.levels) {
			break
		}
		if !p.levels[i].MatchString(name) {
			return false
		}
	}
	return true
}

// excludes reports whether id, and therefore all of its descendants, match the pattern.
func (p pathPattern) excludes(id TestID) bool {
	return len(id.Path) >= len(p.levels) && p.allows(id)
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.source+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	p := pathPattern{source: value}
	for _, element := range strings.Split(value, "/") {
		rx, err := regexp.Compile(element)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		p.levels = append(p.levels, rx)
	}
	r.patterns = append(r.patterns, p)
	return nil
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

func (r RegexList) anyAllows(id TestID) bool {
	for _, p := range r.patterns {
		if p.allows(id) {
			return true
		}
	}
	return false
}

func (r RegexList) anyExcludes(id TestID) bool {
	for _, p := range r.patterns {
		if p.excludes(id) {
			return true
		}
	}
	return false
}

// ExactMatchPattern returns a -run pattern that selects exactly the test with this ID.
func ExactMatchPattern(id TestID) string {
	levels := make([]string, 0, len(id.Path))
	for _, name := range id.Path {
		levels = append(levels, "^"+regexp.QuoteMeta(name)+"$")
	}
	return strings.Join(levels, "/")
}

func PrintFilterDescription(out io.Writer, filters RegexFilters) {
	if filters.MustMatch.IsDefined() || filters.MustNotMatch.IsDefined() {
		fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
		if filters.MustMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any not matching %s\n", filters.MustMatch)
		}
		if filters.MustNotMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any matching %s\n", filters.MustNotMatch)
		}
		fmt.Fprintln(out)
	}
}
