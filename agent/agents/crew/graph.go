package crew

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/pattarin/bloodlens/agent/contract"
	nodex "github.com/pattarin/bloodlens/agent/nodes"
)

// compileAnalysisGraph builds the fixed pipeline for one analysis mode:
// validate -> extract -> scan -> one node per agent in task order ->
// assemble -> persist -> finalize.
func (c *Crew) compileAnalysisGraph(
	ctx context.Context,
	mode contractx.AnalysisMode,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, mode, c.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("extract_report",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ExtractReport(ctx, in, c.reader)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node extract_report: %w", err)
	}

	if err := graph.AddLambdaNode("scan_biomarkers",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ScanBiomarkers(in, c.table)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node scan_biomarkers: %w", err)
	}

	agents := mode.AgentsFor()
	agentNodes := make([]string, 0, len(agents))
	for _, agentType := range agents {
		agentType := agentType
		name := "run_" + string(agentType)
		if err := graph.AddLambdaNode(name,
			compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
				return nodex.RunAgent(ctx, in, agentType, c.models, c.tools)
			}),
		); err != nil {
			return nil, fmt.Errorf("add node %s: %w", name, err)
		}
		agentNodes = append(agentNodes, name)
	}

	if err := graph.AddLambdaNode("assemble_result",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.AssembleResult(in, c.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node assemble_result: %w", err)
	}

	if err := graph.AddLambdaNode("persist_result",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PersistResult(ctx, in, c.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node persist_result: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeReply(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	sequence := []string{"validate_request", "extract_report", "scan_biomarkers"}
	sequence = append(sequence, agentNodes...)
	sequence = append(sequence, "assemble_result", "persist_result", "finalize_reply")

	edges := make([][2]string, 0, len(sequence)+1)
	edges = append(edges, [2]string{compose.START, sequence[0]})
	for i := 0; i+1 < len(sequence); i++ {
		edges = append(edges, [2]string{sequence[i], sequence[i+1]})
	}
	edges = append(edges, [2]string{sequence[len(sequence)-1], compose.END})

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("crew.analyze_"+string(mode)))
	if err != nil {
		return nil, fmt.Errorf("compile crew graph for mode=%s: %w", mode, err)
	}
	return runner, nil
}
