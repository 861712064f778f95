package crew

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	"github.com/pattarin/bloodlens/agent/biomarker"
	contractx "github.com/pattarin/bloodlens/agent/contract"
	nodex "github.com/pattarin/bloodlens/agent/nodes"
	reportx "github.com/pattarin/bloodlens/agent/report"
)

var (
	ErrInvalidRequest = nodex.ErrInvalidRequest
	ErrNoSections     = nodex.ErrNoSections
)

// Crew sequences the role-specialized agents over one uploaded report.
// All fields are read-only after New, so one Crew serves concurrent
// requests without coordination.
type Crew struct {
	store  contractx.ResultStore
	models contractx.Registry
	tools  contractx.ToolGateway
	reader *reportx.Reader
	table  biomarker.Table

	runners map[contractx.AnalysisMode]compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

type AnalysisRequest struct {
	FileID   string
	Filename string
	FilePath string
	Query    string
	Mode     contractx.AnalysisMode
}

func New(
	models contractx.Registry,
	tools contractx.ToolGateway,
	reader *reportx.Reader,
	table biomarker.Table,
	store contractx.ResultStore,
) (*Crew, error) {
	if models == nil {
		return nil, errors.New("model registry is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}
	if reader == nil {
		return nil, errors.New("report reader is required")
	}
	if table.Len() == 0 {
		return nil, errors.New("reference range table is empty")
	}
	if store == nil {
		store = noopResultStore{}
	}

	c := &Crew{
		store:  store,
		models: models,
		tools:  tools,
		reader: reader,
		table:  table,
		now:    time.Now,
	}

	c.runners = make(map[contractx.AnalysisMode]compose.Runnable[nodex.GraphInput, nodex.GraphOutput], 3)
	for _, mode := range []contractx.AnalysisMode{contractx.ModeFull, contractx.ModeVerification, contractx.ModeMedical} {
		runner, err := c.compileAnalysisGraph(context.Background(), mode)
		if err != nil {
			return nil, err
		}
		c.runners[mode] = runner
	}

	return c, nil
}

// Analyze runs the pipeline for the request's mode. It blocks on file
// waits, parsing, and model calls; callers on a latency-sensitive path
// should run it off that path and may bound it with a ctx deadline.
func (c *Crew) Analyze(ctx context.Context, req AnalysisRequest) (*contractx.AnalysisResult, error) {
	mode := req.Mode
	if mode == "" {
		mode = contractx.ModeFull
	}
	runner, ok := c.runners[mode]
	if !ok {
		return nil, errors.New("unsupported analysis mode: " + string(mode))
	}

	log.Info().
		Str("file_id", req.FileID).
		Str("mode", string(mode)).
		Msg("running analysis crew")

	out, err := runner.Invoke(ctx, nodex.GraphInput{
		FileID:   req.FileID,
		Filename: req.Filename,
		FilePath: req.FilePath,
		Query:    req.Query,
	})
	if err != nil {
		return nil, err
	}
	return out.Result, nil
}

type noopResultStore struct{}

func (noopResultStore) Save(context.Context, *contractx.AnalysisResult) error {
	return nil
}

func (noopResultStore) Get(context.Context, string) (*contractx.AnalysisResult, error) {
	return nil, errors.New("result store is not configured")
}
