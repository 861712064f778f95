package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pattarin/bloodlens/agent/agents/crew"
	"github.com/pattarin/bloodlens/agent/agents/specialist"
	"github.com/pattarin/bloodlens/agent/biomarker"
	contractx "github.com/pattarin/bloodlens/agent/contract"
	llmx "github.com/pattarin/bloodlens/agent/llm"
	reportx "github.com/pattarin/bloodlens/agent/report"
	toolx "github.com/pattarin/bloodlens/agent/tool"
	configx "github.com/pattarin/bloodlens/pkg/config"
	_ "github.com/pattarin/bloodlens/pkg/logger/autoload"
	serperx "github.com/pattarin/bloodlens/pkg/serper"
	serverx "github.com/pattarin/bloodlens/server"
	storex "github.com/pattarin/bloodlens/store"
)

func main() {
	ctx := context.Background()

	serverCfg := configx.MustNew[serverx.Config]("SERVER")
	llmCfg := configx.MustNew[llmx.Config]("LLM")

	if err := os.MkdirAll(serverCfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", serverCfg.DataDir).Msg("create data dir")
	}

	var searcher contractx.Searcher
	if serperCfg, err := configx.New[serperx.Config]("SERPER"); err != nil {
		log.Warn().Err(err).Msg("web search disabled")
	} else {
		searcher = serperx.MustNew(*serperCfg)
	}

	reader := reportx.NewReader()
	table := biomarker.DefaultTable()

	catalog, err := toolx.NewCatalog(reader, table, searcher)
	if err != nil {
		log.Fatal().Err(err).Msg("build tool catalog")
	}

	registry, err := specialist.NewRegistry(ctx, *llmCfg, catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("build specialist registry")
	}

	var results contractx.ResultStore
	var pg *storex.Postgres
	if dbCfg, err := configx.New[storex.Config]("DB"); err != nil {
		log.Warn().Err(err).Msg("result persistence disabled")
	} else {
		pg, err = storex.NewPostgres(*dbCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("open result store")
		}
		initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		if err := pg.Init(initCtx); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("init result store")
		}
		cancel()
		defer pg.Close()
		results = pg
	}

	analyzer, err := crew.New(registry, catalog, reader, table, results)
	if err != nil {
		log.Fatal().Err(err).Msg("build analysis crew")
	}

	srv, err := serverx.New(analyzer, results, *serverCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("build server")
	}

	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("http server stopped")
	}
}
