package crewnode

import (
	"context"
	"fmt"

	contractx "github.com/pattarin/bloodlens/agent/contract"
)

func PersistResult(ctx context.Context, in *GraphState, store contractx.ResultStore) (*GraphState, error) {
	if in.Result == nil {
		return nil, fmt.Errorf("%w: result is not assembled", contractx.ErrValidation)
	}
	if err := store.Save(ctx, in.Result); err != nil {
		return nil, fmt.Errorf("persist analysis result: %w", err)
	}
	return in, nil
}
