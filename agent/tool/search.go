package tool

import (
	"context"
	"fmt"

	contractx "github.com/pattarin/bloodlens/agent/contract"
)

type SearchOutput struct {
	Query   string                   `json:"query"`
	Results []contractx.SearchResult `json:"results"`
}

func (c *Catalog) executeSearch(ctx context.Context, req contractx.ToolRequest) contractx.ToolResult {
	query, err := stringArg(req.Args, "query")
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}

	if c.search == nil {
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: "web search is not configured",
		}
	}

	results, err := c.search.Search(ctx, query)
	if err != nil {
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: fmt.Sprintf("search failed: %v", err),
		}
	}

	return contractx.ToolResult{
		Tool: req.Tool,
		Result: SearchOutput{
			Query:   query,
			Results: results,
		},
	}
}
