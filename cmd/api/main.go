package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"

	"github.com/soulfoods/morsel/internal/config"
	morselHttp "github.com/soulfoods/morsel/internal/http"
	reportHandler "github.com/soulfoods/morsel/internal/http/report"
	salesHandler "github.com/soulfoods/morsel/internal/http/sales"
	"github.com/soulfoods/morsel/internal/metrics"
	"github.com/soulfoods/morsel/internal/report"
	"github.com/soulfoods/morsel/internal/sales"
	"github.com/soulfoods/morsel/internal/sales/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	st := store.New(cfg.Data.Artifact)
	if err := st.Load(context.Background()); err != nil {
		slog.Error("failed to load dataset", "artifact", cfg.Data.Artifact, "error", err)
		os.Exit(1)
	}

	reg := metrics.NewRegistry()
	reg.DatasetRecords.Set(float64(st.Len()))

	var (
		salesService  = sales.NewService(st)
		reportService = report.NewService(salesService)
	)

	var (
		salesH  = salesHandler.NewHandler(salesService)
		reportH = reportHandler.NewHandler(reportService, reg, cfg.Data.ReportDir)
	)

	limiter := rate.NewLimiter(rate.Limit(cfg.Rate.RPS), cfg.Rate.Burst)
	router := morselHttp.New(salesH, reportH, reg, limiter)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "addr", addr, "records", st.Len())

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
