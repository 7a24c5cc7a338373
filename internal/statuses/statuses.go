// Package statuses maps Redmine status names to the instance's numeric status
// ids and knows which of them count as not yet started work.
package statuses

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	New         = 1
	InProgress  = 2
	Resolved    = 3
	Pending     = 4
	Closed      = 5
	Rejected    = 6
	Confirming  = 7
	Reopened    = 8
	Testing     = 9
	WaitRelease = 10
	CodeReview  = 11
	Frozen      = 12
	Feedback    = 13
)

var defaultCodes = map[string]int{
	"New":          New,
	"In Progress":  InProgress,
	"Resolved":     Resolved,
	"Pending":      Pending,
	"Closed":       Closed,
	"Rejected":     Rejected,
	"Confirming":   Confirming,
	"Re-opened":    Reopened,
	"Testing":      Testing,
	"Wait Release": WaitRelease,
	"Code Review":  CodeReview,
	"Frozen":       Frozen,
	"Feedback":     Feedback,
}

// Statuses whose untouched issues belong to next period's plan. Instances that
// also plan In Progress work ship it through a statuses file.
var defaultNonActive = []int{New, Pending, Confirming, Reopened, Frozen, Feedback}

// Table is immutable once built.
type Table struct {
	codes     map[string]int
	nonActive map[int]bool
}

// Default returns the built-in Redmine status table.
func Default() Table {
	return NewTable(defaultCodes, defaultNonActive)
}

// NewTable copies codes and nonActive into a new Table.
func NewTable(codes map[string]int, nonActive []int) Table {
	t := Table{
		codes:     make(map[string]int, len(codes)),
		nonActive: make(map[int]bool, len(nonActive)),
	}
	for name, code := range codes {
		t.codes[name] = code
	}
	for _, code := range nonActive {
		t.nonActive[code] = true
	}
	return t
}

// Code returns the numeric code of the named status.
func (t Table) Code(name string) (int, bool) {
	code, ok := t.codes[name]
	return code, ok
}

// IsNonActive reports whether the named status maps to a non-active code.
// Unknown names are never non-active.
func (t Table) IsNonActive(name string) bool {
	code, ok := t.codes[name]
	if !ok {
		return false
	}
	return t.nonActive[code]
}

// NonActiveCodes returns the non-active codes in ascending order.
func (t Table) NonActiveCodes() []int {
	out := make([]int, 0, len(t.nonActive))
	for code := range t.nonActive {
		out = append(out, code)
	}
	sort.Ints(out)
	return out
}

// Len is the number of known status names.
func (t Table) Len() int {
	return len(t.codes)
}

type fileFormat struct {
	Statuses  map[string]int `yaml:"statuses"`
	NonActive []int          `yaml:"non_active"`
}

// Load reads a YAML override. Sections left out of the file keep their
// defaults. An empty path returns Default().
func Load(path string) (Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("reading statuses file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Table, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Table{}, fmt.Errorf("parsing statuses yaml: %w", err)
	}

	codes := defaultCodes
	if len(f.Statuses) > 0 {
		codes = f.Statuses
	}
	nonActive := defaultNonActive
	if f.NonActive != nil {
		nonActive = f.NonActive
	}

	known := make(map[int]bool, len(codes))
	for _, code := range codes {
		known[code] = true
	}
	for _, code := range nonActive {
		if !known[code] {
			return Table{}, fmt.Errorf("non_active code %d is not assigned to any status", code)
		}
	}
	return NewTable(codes, nonActive), nil
}
