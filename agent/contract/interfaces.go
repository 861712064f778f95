package contract

import "context"

type Specialist interface {
	Run(ctx context.Context, req SpecialistRequest) (SpecialistResponse, error)
}

type Registry interface {
	Verifier() Specialist
	Doctor() Specialist
	Nutritionist() Specialist
	Exercise() Specialist

	// Get resolves a specialist by agent type; unknown types return nil.
	Get(agentType AgentType) Specialist
}

type ToolGateway interface {
	Execute(ctx context.Context, agentType AgentType, reqs []ToolRequest) ([]ToolResult, error)
}

type ResultStore interface {
	Save(ctx context.Context, result *AnalysisResult) error
	Get(ctx context.Context, fileID string) (*AnalysisResult, error)
}

// Searcher is the outbound web-search boundary used by the web_search tool.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}
