package crewnode

import (
	contractx "github.com/pattarin/bloodlens/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil || in.Result == nil {
		return GraphOutput{}, contractx.ErrValidation
	}
	return GraphOutput{Result: in.Result}, nil
}
