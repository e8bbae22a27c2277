package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/soulfoods/morsel/internal/sales"
	"github.com/soulfoods/morsel/internal/sales/store"
)

// Options configures a pipeline run.
type Options struct {
	DataDir  string
	Artifact string
}

// ExtractReport describes one parsed extract within a run.
type ExtractReport struct {
	File     string
	RowsRead int
	Kept     int
}

// RunReport summarizes a completed pipeline run.
type RunReport struct {
	RunID    uuid.UUID
	Extracts []ExtractReport
	RowsRead int
	Records  int
	Filtered int
	Artifact string
	Duration time.Duration
}

type Service struct {
	parser *Parser
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{
		parser: NewParser(),
		logger: logger,
	}
}

// Run executes the full pipeline: discover extracts, parse them in order,
// write the unified artifact. Any parse failure aborts the run before the
// artifact is touched, so a bad extract can never leave a partial
// dataset behind.
func (s *Service) Run(ctx context.Context, opts Options) (*RunReport, error) {
	start := time.Now()

	report := &RunReport{RunID: uuid.New(), Artifact: opts.Artifact}

	paths, err := DiscoverExtracts(opts.DataDir)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "starting pipeline run",
		"run_id", report.RunID,
		"data_dir", opts.DataDir,
		"extracts", len(paths))

	var records []sales.Record

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := s.parseFile(path)
		if err != nil {
			return nil, err
		}

		extract := ExtractReport{
			File:     filepath.Base(path),
			RowsRead: res.RowsRead,
			Kept:     len(res.Records),
		}
		report.Extracts = append(report.Extracts, extract)
		report.RowsRead += extract.RowsRead

		records = append(records, res.Records...)

		s.logger.InfoContext(ctx, "parsed extract",
			"file", extract.File,
			"rows", extract.RowsRead,
			"kept", extract.Kept)
	}

	report.Records = len(records)
	report.Filtered = report.RowsRead - report.Records

	if err := store.Write(opts.Artifact, records); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}

	report.Duration = time.Since(start)

	s.logger.InfoContext(ctx, "pipeline run complete",
		"run_id", report.RunID,
		"records", report.Records,
		"filtered", report.Filtered,
		"artifact", report.Artifact,
		"duration", report.Duration)

	return report, nil
}

func (s *Service) parseFile(path string) (*ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sales.ErrSourceRead, err)
	}
	defer f.Close()

	return s.parser.Parse(f, filepath.Base(path))
}
