package biomarker

import (
	"fmt"
	"regexp"
)

// ReferenceRange is the clinically normal interval for a marker, inclusive
// at both bounds.
type ReferenceRange struct {
	Low  float64
	High float64
}

type entry struct {
	name    string
	rng     ReferenceRange
	pattern *regexp.Regexp
}

// Table is an ordered, read-only set of reference ranges. Entry order is
// the definition order passed to NewTable; it determines the order of
// readings and advice lines downstream.
type Table struct {
	entries []entry
}

// NewTable builds a table from (name, range) pairs. Ranges with low >= high
// are rejected.
func NewTable(defs []Definition) (Table, error) {
	entries := make([]entry, 0, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return Table{}, fmt.Errorf("reference range name is empty")
		}
		if def.Range.Low >= def.Range.High {
			return Table{}, fmt.Errorf("reference range for %s: low %g must be below high %g",
				def.Name, def.Range.Low, def.Range.High)
		}
		entries = append(entries, entry{
			name:    def.Name,
			rng:     def.Range,
			pattern: compileMarkerPattern(def.Name),
		})
	}
	return Table{entries: entries}, nil
}

func MustNewTable(defs []Definition) Table {
	table, err := NewTable(defs)
	if err != nil {
		panic(err)
	}
	return table
}

type Definition struct {
	Name  string
	Range ReferenceRange
}

// DefaultTable returns the built-in marker set.
func DefaultTable() Table {
	return MustNewTable([]Definition{
		{Name: "Hemoglobin", Range: ReferenceRange{Low: 13.5, High: 17.5}}, // g/dL
		{Name: "Cholesterol", Range: ReferenceRange{Low: 125, High: 200}},  // mg/dL
	})
}

// Len reports the number of markers in the table.
func (t Table) Len() int {
	return len(t.entries)
}

// Range returns the reference range for a marker name.
func (t Table) Range(name string) (ReferenceRange, bool) {
	for _, e := range t.entries {
		if e.name == name {
			return e.rng, true
		}
	}
	return ReferenceRange{}, false
}

// Marker name followed optionally by whitespace or a colon, then a decimal
// number. Case-insensitive.
func compileMarkerPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name) + `[:\s]*([\d.]+)`)
}
