package contract

import (
	"time"

	"github.com/pattarin/bloodlens/agent/biomarker"
)

type AgentType string

const (
	AgentTypeVerifier     AgentType = "verifier"
	AgentTypeDoctor       AgentType = "doctor"
	AgentTypeNutritionist AgentType = "nutritionist"
	AgentTypeExercise     AgentType = "exercise"
)

// AnalysisMode selects which agents run for a request. The task order
// within a mode is fixed: verifier, doctor, nutritionist, exercise.
type AnalysisMode string

const (
	ModeFull         AnalysisMode = "full"
	ModeVerification AnalysisMode = "verification"
	ModeMedical      AnalysisMode = "medical"
)

// AgentsFor returns the agents that run for a mode, in task order.
func (m AnalysisMode) AgentsFor() []AgentType {
	switch m {
	case ModeVerification:
		return []AgentType{AgentTypeVerifier}
	case ModeMedical:
		return []AgentType{AgentTypeVerifier, AgentTypeDoctor}
	default:
		return []AgentType{AgentTypeVerifier, AgentTypeDoctor, AgentTypeNutritionist, AgentTypeExercise}
	}
}

type SpecialistRequest struct {
	Query       string       `json:"query"`
	ReportText  string       `json:"report_text"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
}

type SpecialistResponse struct {
	Section      string        `json:"section"`
	ToolRequests []ToolRequest `json:"tool_requests,omitempty"`
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ReportSection is one agent's contribution to the final report.
type ReportSection struct {
	Agent AgentType `json:"agent"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
}

// AnalysisResult is the persisted outcome of one analysis request.
type AnalysisResult struct {
	FileID     string              `json:"file_id"`
	Filename   string              `json:"original_filename"`
	Query      string              `json:"query"`
	Mode       AnalysisMode        `json:"mode"`
	Sections   []ReportSection     `json:"sections,omitempty"`
	Biomarkers []biomarker.Reading `json:"biomarkers,omitempty"`
	Analysis   string              `json:"analysis"`
	CreatedAt  time.Time           `json:"created_at"`
}
