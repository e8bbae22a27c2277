package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Morsel"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Data struct {
		// Dir holds the raw daily extracts dropped by the retail system.
		Dir string `envconfig:"DATA_DIR" default:"data"`
		// Artifact is the unified dataset the pipeline writes and the
		// servers read.
		Artifact string `envconfig:"DATA_ARTIFACT" default:"data/formatted_sales_data.csv"`
		// ReportDir receives generated report files.
		ReportDir string `envconfig:"REPORT_DIR" default:"reports"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Rate struct {
		RPS   float64 `envconfig:"RATE_RPS" default:"10"`
		Burst int     `envconfig:"RATE_BURST" default:"20"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
