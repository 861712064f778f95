package crewnode

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/pattarin/bloodlens/agent/contract"
)

func ValidateRequest(in GraphInput, mode contractx.AnalysisMode, now func() time.Time) (*GraphState, error) {
	filePath := strings.TrimSpace(in.FilePath)
	if filePath == "" {
		return nil, fmt.Errorf("%w: file path is required", ErrInvalidRequest)
	}
	fileID := strings.TrimSpace(in.FileID)
	if fileID == "" {
		return nil, fmt.Errorf("%w: file id is required", ErrInvalidRequest)
	}

	return &GraphState{
		FileID:    fileID,
		Filename:  strings.TrimSpace(in.Filename),
		FilePath:  filePath,
		Query:     strings.TrimSpace(in.Query),
		Mode:      mode,
		StartedAt: now().UTC(),
	}, nil
}
