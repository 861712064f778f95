package tool

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/pattarin/bloodlens/agent/biomarker"
	contractx "github.com/pattarin/bloodlens/agent/contract"
	reportx "github.com/pattarin/bloodlens/agent/report"
)

type fakeSearcher struct {
	results []contractx.SearchResult
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]contractx.SearchResult, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func newTestCatalog(t *testing.T, search contractx.Searcher) *Catalog {
	t.Helper()

	reader := reportx.NewReader(
		reportx.WithRetryDelay(10*time.Millisecond),
		reportx.WithParser(func(string) ([]string, error) {
			return []string{"Hemoglobin: 12.0"}, nil
		}),
	)
	catalog, err := NewCatalog(reader, biomarker.DefaultTable(), search)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return catalog
}

func TestNewCatalogRequiresReader(t *testing.T) {
	t.Parallel()

	if _, err := NewCatalog(nil, biomarker.DefaultTable(), nil); err == nil {
		t.Fatal("expected error for nil reader")
	}
}

func TestNewCatalogRequiresTable(t *testing.T) {
	t.Parallel()

	reader := reportx.NewReader()
	if _, err := NewCatalog(reader, biomarker.Table{}, nil); err == nil {
		t.Fatal("expected error for empty table")
	}
}

func TestInfosForBaseAgents(t *testing.T) {
	t.Parallel()

	catalog := newTestCatalog(t, nil)

	for _, agentType := range []contractx.AgentType{contractx.AgentTypeVerifier, contractx.AgentTypeDoctor} {
		infos := catalog.InfosFor(agentType)
		if len(infos) != 2 {
			t.Fatalf("agent=%s: expected 2 tools, got %d", agentType, len(infos))
		}
		if infos[0].Name != ToolReadReport || infos[1].Name != ToolWebSearch {
			t.Fatalf("agent=%s: unexpected tools %s, %s", agentType, infos[0].Name, infos[1].Name)
		}
	}
}

func TestInfosForSpecialistTools(t *testing.T) {
	t.Parallel()

	catalog := newTestCatalog(t, nil)

	nutrition := catalog.InfosFor(contractx.AgentTypeNutritionist)
	if len(nutrition) != 3 || nutrition[2].Name != ToolNutritionAnalysis {
		t.Fatalf("nutritionist tools: %+v", toolNames(nutrition))
	}

	exercise := catalog.InfosFor(contractx.AgentTypeExercise)
	if len(exercise) != 3 || exercise[2].Name != ToolExercisePlanning {
		t.Fatalf("exercise tools: %+v", toolNames(exercise))
	}
}

func TestExecuteDisallowedTool(t *testing.T) {
	t.Parallel()

	catalog := newTestCatalog(t, nil)

	_, err := catalog.Execute(context.Background(), contractx.AgentTypeVerifier, []contractx.ToolRequest{
		{Tool: ToolNutritionAnalysis, Args: map[string]any{"report_text": "x"}},
	})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestExecuteNutritionTool(t *testing.T) {
	t.Parallel()

	catalog := newTestCatalog(t, nil)

	results, err := catalog.Execute(context.Background(), contractx.AgentTypeNutritionist, []contractx.ToolRequest{
		{Tool: ToolNutritionAnalysis, Args: map[string]any{"report_text": "Hemoglobin: 10.0"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(results) != 1 || results[0].Error != "" {
		t.Fatalf("unexpected results: %+v", results)
	}
	out, ok := results[0].Result.(NutritionOutput)
	if !ok {
		t.Fatalf("expected NutritionOutput, got %T", results[0].Result)
	}
	if !strings.Contains(out.Advice, "below the normal range") {
		t.Fatalf("unexpected advice: %q", out.Advice)
	}
}

func TestExecuteToolFailureIsSoft(t *testing.T) {
	t.Parallel()

	catalog := newTestCatalog(t, nil)

	// Missing report_text must not abort the round.
	results, err := catalog.Execute(context.Background(), contractx.AgentTypeExercise, []contractx.ToolRequest{
		{Tool: ToolExercisePlanning, Args: map[string]any{}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if results[0].Error == "" {
		t.Fatal("expected tool-level error in result")
	}
}

func TestExecuteSearchUnconfigured(t *testing.T) {
	t.Parallel()

	catalog := newTestCatalog(t, nil)

	results, err := catalog.Execute(context.Background(), contractx.AgentTypeDoctor, []contractx.ToolRequest{
		{Tool: ToolWebSearch, Args: map[string]any{"query": "ldl cholesterol"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if results[0].Error != "web search is not configured" {
		t.Fatalf("unexpected error: %q", results[0].Error)
	}
}

func TestExecuteSearchDelegates(t *testing.T) {
	t.Parallel()

	search := &fakeSearcher{results: []contractx.SearchResult{{Title: "LDL", Link: "https://example.com"}}}
	catalog := newTestCatalog(t, search)

	results, err := catalog.Execute(context.Background(), contractx.AgentTypeDoctor, []contractx.ToolRequest{
		{Tool: ToolWebSearch, Args: map[string]any{"query": "ldl cholesterol"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	out, ok := results[0].Result.(SearchOutput)
	if !ok {
		t.Fatalf("expected SearchOutput, got %T", results[0].Result)
	}
	if out.Query != "ldl cholesterol" || len(out.Results) != 1 {
		t.Fatalf("unexpected output: %+v", out)
	}
	if len(search.queries) != 1 {
		t.Fatalf("expected one delegated query, got %d", len(search.queries))
	}
}

func toolNames(infos []*schema.ToolInfo) []string {
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names
}
