// Package crewnode holds the individual steps of the analysis pipeline
// graph. Each node takes the shared GraphState, does one thing, and hands
// the state forward.
package crewnode

import (
	"errors"
	"time"

	"github.com/pattarin/bloodlens/agent/biomarker"
	contractx "github.com/pattarin/bloodlens/agent/contract"
)

var (
	ErrInvalidRequest = errors.New("invalid analysis request")
	ErrNoSections     = errors.New("no agent sections produced")
)

type GraphInput struct {
	FileID   string
	Filename string
	FilePath string
	Query    string
}

type GraphOutput struct {
	Result *contractx.AnalysisResult
}

// GraphState is request-scoped; nothing in it is shared across requests.
type GraphState struct {
	FileID   string
	Filename string
	FilePath string
	Query    string
	Mode     contractx.AnalysisMode

	ReportText string
	Readings   []biomarker.Reading
	Sections   []contractx.ReportSection

	Result *contractx.AnalysisResult

	StartedAt time.Time
}
