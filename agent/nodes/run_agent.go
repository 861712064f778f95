package crewnode

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/pattarin/bloodlens/agent/contract"
)

func sectionTitle(agentType contractx.AgentType) string {
	switch agentType {
	case contractx.AgentTypeVerifier:
		return "Report Verification"
	case contractx.AgentTypeDoctor:
		return "Medical Analysis"
	case contractx.AgentTypeNutritionist:
		return "Nutrition Recommendations"
	case contractx.AgentTypeExercise:
		return "Exercise Plan"
	default:
		return string(agentType)
	}
}

// RunAgent invokes one specialist over the shared report text, with at
// most a single tool round: if the first pass requests tools, the gateway
// executes them and the specialist is re-invoked with the results.
func RunAgent(
	ctx context.Context,
	in *GraphState,
	agentType contractx.AgentType,
	models contractx.Registry,
	tools contractx.ToolGateway,
) (*GraphState, error) {
	specialist := models.Get(agentType)
	if specialist == nil {
		return nil, fmt.Errorf("%w: unknown agent=%s", contractx.ErrValidation, agentType)
	}

	req := contractx.SpecialistRequest{
		Query:      in.Query,
		ReportText: in.ReportText,
	}

	resp, err := specialist.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(resp.ToolRequests) > 0 {
		results, err := tools.Execute(ctx, agentType, resp.ToolRequests)
		if err != nil {
			return nil, err
		}
		log.Debug().
			Str("agent", string(agentType)).
			Int("tool_calls", len(results)).
			Msg("executed agent tool round")

		req.ToolResults = results
		resp, err = specialist.Run(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	section := strings.TrimSpace(resp.Section)
	if section == "" {
		return nil, fmt.Errorf("%w: agent=%s produced an empty section", contractx.ErrSchemaViolation, agentType)
	}

	in.Sections = append(in.Sections, contractx.ReportSection{
		Agent: agentType,
		Title: sectionTitle(agentType),
		Body:  section,
	})
	return in, nil
}
