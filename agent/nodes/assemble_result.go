package crewnode

import (
	"strings"
	"time"

	contractx "github.com/pattarin/bloodlens/agent/contract"
)

// AssembleResult concatenates the agent sections, in task order, into the
// persisted result record.
func AssembleResult(in *GraphState, now func() time.Time) (*GraphState, error) {
	if len(in.Sections) == 0 {
		return nil, ErrNoSections
	}

	parts := make([]string, 0, len(in.Sections))
	for _, section := range in.Sections {
		parts = append(parts, "## "+section.Title+"\n\n"+section.Body)
	}

	in.Result = &contractx.AnalysisResult{
		FileID:     in.FileID,
		Filename:   in.Filename,
		Query:      in.Query,
		Mode:       in.Mode,
		Sections:   in.Sections,
		Biomarkers: in.Readings,
		Analysis:   strings.Join(parts, "\n\n"),
		CreatedAt:  now().UTC(),
	}
	return in, nil
}
