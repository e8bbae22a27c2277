package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/soulfoods/morsel/internal/config"
	"github.com/soulfoods/morsel/internal/ingest"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	svc := ingest.NewService(slog.Default())

	report, err := svc.Run(context.Background(), ingest.Options{
		DataDir:  cfg.Data.Dir,
		Artifact: cfg.Data.Artifact,
	})
	if err != nil {
		slog.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	slog.Info("dataset ready",
		"run_id", report.RunID,
		"records", report.Records,
		"filtered", report.Filtered,
		"artifact", report.Artifact,
	)
}
