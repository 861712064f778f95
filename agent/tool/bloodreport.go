package tool

import (
	"context"

	contractx "github.com/pattarin/bloodlens/agent/contract"
)

type ReadReportOutput struct {
	FilePath string `json:"file_path"`
	Text     string `json:"text"`
}

func (c *Catalog) executeReadReport(ctx context.Context, req contractx.ToolRequest) contractx.ToolResult {
	filePath, err := stringArg(req.Args, "file_path")
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}

	text, err := c.reader.Extract(ctx, filePath)
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}

	return contractx.ToolResult{
		Tool: req.Tool,
		Result: ReadReportOutput{
			FilePath: filePath,
			Text:     text,
		},
	}
}
