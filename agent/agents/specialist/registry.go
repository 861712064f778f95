package specialist

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/pattarin/bloodlens/agent/contract"
	llmx "github.com/pattarin/bloodlens/agent/llm"
	promptx "github.com/pattarin/bloodlens/agent/prompt"
)

// ToolSchemas surfaces the catalog's per-agent tool definitions to the
// registry without binding it to the catalog implementation.
type ToolSchemas interface {
	InfosFor(agentType contractx.AgentType) []*schema.ToolInfo
}

type registryImpl struct {
	verifier     contractx.Specialist
	doctor       contractx.Specialist
	nutritionist contractx.Specialist
	exercise     contractx.Specialist
}

func (r *registryImpl) Verifier() contractx.Specialist {
	return r.verifier
}

func (r *registryImpl) Doctor() contractx.Specialist {
	return r.doctor
}

func (r *registryImpl) Nutritionist() contractx.Specialist {
	return r.nutritionist
}

func (r *registryImpl) Exercise() contractx.Specialist {
	return r.exercise
}

func (r *registryImpl) Get(agentType contractx.AgentType) contractx.Specialist {
	switch agentType {
	case contractx.AgentTypeVerifier:
		return r.verifier
	case contractx.AgentTypeDoctor:
		return r.doctor
	case contractx.AgentTypeNutritionist:
		return r.nutritionist
	case contractx.AgentTypeExercise:
		return r.exercise
	default:
		return nil
	}
}

func NewRegistry(ctx context.Context, cfg llmx.Config, tools ToolSchemas) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tools == nil {
		return nil, fmt.Errorf("%w: tool schemas are required", contractx.ErrValidation)
	}

	prompts := promptx.LoadPromptSet()

	build := func(agentType contractx.AgentType, systemPrompt string) (contractx.Specialist, error) {
		modelCfg := cfg.OpenRouterFor(agentType)
		chatModel, err := modelCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create model for agent=%s: %v", contractx.ErrModelInvoke, agentType, err)
		}
		return newSpecialist(ctx, agentType, chatModel, systemPrompt, tools.InfosFor(agentType))
	}

	verifier, err := build(contractx.AgentTypeVerifier, prompts.Verifier)
	if err != nil {
		return nil, err
	}
	doctor, err := build(contractx.AgentTypeDoctor, prompts.Doctor)
	if err != nil {
		return nil, err
	}
	nutritionist, err := build(contractx.AgentTypeNutritionist, prompts.Nutritionist)
	if err != nil {
		return nil, err
	}
	exercise, err := build(contractx.AgentTypeExercise, prompts.Exercise)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		verifier:     verifier,
		doctor:       doctor,
		nutritionist: nutritionist,
		exercise:     exercise,
	}, nil
}
