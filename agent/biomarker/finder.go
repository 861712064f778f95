package biomarker

import "strconv"

type Classification string

const (
	Below  Classification = "below"
	Within Classification = "within"
	Above  Classification = "above"
)

// Reading is one classified marker value found in report text.
type Reading struct {
	Name           string         `json:"name"`
	Value          float64        `json:"value"`
	Range          ReferenceRange `json:"range"`
	Classification Classification `json:"classification"`
}

// Find scans text for each marker in the table and classifies the first
// value found against the marker's range. Markers with no match, or with a
// matched but malformed number, are omitted; absence is not an error.
// Pure function, safe for concurrent use.
func Find(text string, table Table) []Reading {
	readings := make([]Reading, 0, len(table.entries))
	for _, e := range table.entries {
		match := e.pattern.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			// Best-effort extraction from free text, e.g. "12.0.5" is
			// skipped rather than failing the scan.
			continue
		}
		readings = append(readings, Reading{
			Name:           e.name,
			Value:          value,
			Range:          e.rng,
			Classification: classify(value, e.rng),
		})
	}
	return readings
}

// Bounds are inclusive: a value equal to either bound is within range.
func classify(value float64, rng ReferenceRange) Classification {
	switch {
	case value < rng.Low:
		return Below
	case value > rng.High:
		return Above
	default:
		return Within
	}
}
