// Package server exposes the analysis pipeline over HTTP: report uploads
// per analysis mode, persisted-result lookup, and liveness.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/flamego/flamego"
	"github.com/rs/zerolog/log"

	"github.com/pattarin/bloodlens/agent/agents/crew"
	contractx "github.com/pattarin/bloodlens/agent/contract"
)

type Config struct {
	Addr           string `split_words:"true" default:"0.0.0.0:8000"`
	DataDir        string `split_words:"true" default:"data"`
	MaxUploadBytes int64  `split_words:"true" default:"10000000"`
}

// Analyzer is the crew boundary; the server never reaches past it.
type Analyzer interface {
	Analyze(ctx context.Context, req crew.AnalysisRequest) (*contractx.AnalysisResult, error)
}

type Server struct {
	flame   *flamego.Flame
	crew    Analyzer
	results contractx.ResultStore

	addr           string
	dataDir        string
	maxUploadBytes int64
}

func New(analyzer Analyzer, results contractx.ResultStore, cfg Config) (*Server, error) {
	if analyzer == nil {
		return nil, errors.New("analyzer is required")
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10_000_000
	}
	addr := cfg.Addr
	if addr == "" {
		addr = "0.0.0.0:8000"
	}

	s := &Server{
		flame:          flamego.New(),
		crew:           analyzer,
		results:        results,
		addr:           addr,
		dataDir:        dataDir,
		maxUploadBytes: maxUpload,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.flame.Use(flamego.Recovery())

	s.flame.Get("/", s.handleRoot)
	s.flame.Get("/health", s.handleHealth)
	s.flame.Post("/analyze", s.handleAnalyze)
	s.flame.Post("/verify", s.handleVerify)
	s.flame.Post("/medical-analysis", s.handleMedicalAnalysis)
	s.flame.Get("/results/{id}", s.handleGetResult)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.flame
}

func (s *Server) Run() error {
	log.Info().Str("addr", s.addr).Msg("starting http server")
	return http.ListenAndServe(s.addr, s.flame)
}
