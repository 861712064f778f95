package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/pattarin/bloodlens/agent/biomarker"
	contractx "github.com/pattarin/bloodlens/agent/contract"
	reportx "github.com/pattarin/bloodlens/agent/report"
)

const (
	ToolReadReport        = "report.read"
	ToolNutritionAnalysis = "nutrition.analyze"
	ToolExercisePlanning  = "exercise.plan"
	ToolWebSearch         = "web.search"
)

// Catalog owns the concrete tool implementations and exposes them to the
// agents both as eino tool schemas and as the execution gateway.
type Catalog struct {
	reader *reportx.Reader
	table  biomarker.Table
	search contractx.Searcher
}

var _ contractx.ToolGateway = (*Catalog)(nil)

// NewCatalog builds a catalog. search may be nil, in which case the
// web.search tool reports itself unavailable instead of failing the run.
func NewCatalog(reader *reportx.Reader, table biomarker.Table, search contractx.Searcher) (*Catalog, error) {
	if reader == nil {
		return nil, fmt.Errorf("report reader is required")
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("reference range table is empty")
	}
	return &Catalog{
		reader: reader,
		table:  table,
		search: search,
	}, nil
}

// InfosFor returns the tool schemas an agent type is allowed to call.
func (c *Catalog) InfosFor(agentType contractx.AgentType) []*schema.ToolInfo {
	infos := []*schema.ToolInfo{
		{
			Name: ToolReadReport,
			Desc: "Read a PDF blood test report and return its full extracted text.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"file_path": {Type: schema.String, Desc: "Path to the PDF file", Required: true},
			}),
		},
		{
			Name: ToolWebSearch,
			Desc: "Search the web for medical and nutritional references.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Search query", Required: true},
			}),
		},
	}

	switch agentType {
	case contractx.AgentTypeNutritionist:
		infos = append(infos, &schema.ToolInfo{
			Name: ToolNutritionAnalysis,
			Desc: "Analyze blood test metrics and return personalized nutrition advice.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"report_text": {Type: schema.String, Desc: "Extracted text from a blood report", Required: true},
			}),
		})
	case contractx.AgentTypeExercise:
		infos = append(infos, &schema.ToolInfo{
			Name: ToolExercisePlanning,
			Desc: "Generate an exercise plan based on blood test findings.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"report_text": {Type: schema.String, Desc: "Extracted text from a blood report", Required: true},
			}),
		})
	}
	return infos
}

// Execute runs each requested tool and collects the results. Tool-level
// failures are reported in ToolResult.Error so one bad call does not abort
// the round; only a disallowed tool is a hard error.
func (c *Catalog) Execute(ctx context.Context, agentType contractx.AgentType, reqs []contractx.ToolRequest) ([]contractx.ToolResult, error) {
	allowed := make(map[string]struct{})
	for _, info := range c.InfosFor(agentType) {
		allowed[info.Name] = struct{}{}
	}

	results := make([]contractx.ToolResult, 0, len(reqs))
	for _, req := range reqs {
		if _, ok := allowed[req.Tool]; !ok {
			return nil, fmt.Errorf("%w: tool=%s is not allowed for agent=%s",
				contractx.ErrSchemaViolation, req.Tool, agentType)
		}
		results = append(results, c.executeOne(ctx, req))
	}
	return results, nil
}

func (c *Catalog) executeOne(ctx context.Context, req contractx.ToolRequest) contractx.ToolResult {
	switch req.Tool {
	case ToolReadReport:
		return c.executeReadReport(ctx, req)
	case ToolNutritionAnalysis:
		return c.executeNutrition(req)
	case ToolExercisePlanning:
		return c.executeExercise(req)
	case ToolWebSearch:
		return c.executeSearch(ctx, req)
	default:
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: fmt.Sprintf("tool=%s is unavailable", req.Tool),
		}
	}
}

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return value, nil
}
