// Package store persists analysis results in Postgres.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/pattarin/bloodlens/agent/biomarker"
	contractx "github.com/pattarin/bloodlens/agent/contract"
)

var ErrResultNotFound = errors.New("analysis result not found")

type Config struct {
	DSN          string        `split_words:"true" required:"true"`
	MaxOpenConns int           `split_words:"true" default:"4"`
	Timeout      time.Duration `split_words:"true" default:"10s"`
}

type AnalysisRecord struct {
	bun.BaseModel `bun:"table:analysis_results,alias:ar"`

	ID         uuid.UUID                 `bun:"id,pk,type:uuid"`
	FileID     string                    `bun:"file_id,notnull,unique"`
	Filename   string                    `bun:"filename"`
	Query      string                    `bun:"query"`
	Mode       string                    `bun:"mode,notnull"`
	Sections   []contractx.ReportSection `bun:"sections,type:jsonb"`
	Biomarkers []biomarker.Reading       `bun:"biomarkers,type:jsonb"`
	Analysis   string                    `bun:"analysis,notnull"`
	CreatedAt  time.Time                 `bun:"created_at,notnull"`
}

// Postgres implements contract.ResultStore on bun.
type Postgres struct {
	db *bun.DB
}

var _ contractx.ResultStore = (*Postgres)(nil)

func NewPostgres(cfg Config) (*Postgres, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("database dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return &Postgres{
		db: bun.NewDB(sqldb, pgdialect.New()),
	}, nil
}

// Init creates the results table if it does not exist yet.
func (s *Postgres) Init(ctx context.Context) error {
	if _, err := s.db.NewCreateTable().
		Model((*AnalysisRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create analysis_results table: %w", err)
	}
	return nil
}

func (s *Postgres) Save(ctx context.Context, result *contractx.AnalysisResult) error {
	if result == nil {
		return errors.New("analysis result is nil")
	}
	if strings.TrimSpace(result.FileID) == "" {
		return errors.New("analysis result file id is empty")
	}

	createdAt := result.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	record := &AnalysisRecord{
		ID:         uuid.New(),
		FileID:     result.FileID,
		Filename:   result.Filename,
		Query:      result.Query,
		Mode:       string(result.Mode),
		Sections:   result.Sections,
		Biomarkers: result.Biomarkers,
		Analysis:   result.Analysis,
		CreatedAt:  createdAt.UTC(),
	}

	if _, err := s.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return fmt.Errorf("insert analysis result: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, fileID string) (*contractx.AnalysisResult, error) {
	if strings.TrimSpace(fileID) == "" {
		return nil, errors.New("file id is empty")
	}

	record := new(AnalysisRecord)
	err := s.db.NewSelect().
		Model(record).
		Where("ar.file_id = ?", fileID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("select analysis result: %w", err)
	}

	return &contractx.AnalysisResult{
		FileID:     record.FileID,
		Filename:   record.Filename,
		Query:      record.Query,
		Mode:       contractx.AnalysisMode(record.Mode),
		Sections:   record.Sections,
		Biomarkers: record.Biomarkers,
		Analysis:   record.Analysis,
		CreatedAt:  record.CreatedAt,
	}, nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}
