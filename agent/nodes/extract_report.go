package crewnode

import (
	"context"

	reportx "github.com/pattarin/bloodlens/agent/report"
)

// ExtractReport runs the document extraction once per request; every
// downstream agent works from the same text. Extraction errors propagate
// unchanged so the caller can map them to distinct statuses.
func ExtractReport(ctx context.Context, in *GraphState, reader *reportx.Reader) (*GraphState, error) {
	text, err := reader.Extract(ctx, in.FilePath)
	if err != nil {
		return nil, err
	}
	in.ReportText = text
	return in, nil
}
