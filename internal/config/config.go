package config

import (
	"fmt"
	"os"
	"path/filepath"

	"risk-mcs/internal/simulation"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath            string `env:"DATA_PATH"`
	LogDir              string `env:"LOGS_FOLDER"`
	EnableMermaidCharts bool   `env:"ENABLE_MERMAID_CHARTS" envDefault:"false"`
	Defaults            Defaults
}

// Defaults fill request fields a caller leaves unset.
type Defaults struct {
	Iterations  int     `env:"RISK_DEFAULT_ITERATIONS" envDefault:"10000"`
	DelaySlack  float64 `env:"RISK_DEFAULT_DELAY_SLACK" envDefault:"0"`
	BudgetSlack float64 `env:"RISK_DEFAULT_BUDGET_SLACK" envDefault:"0"`
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// 3. Resolve Data Paths
	if cfg.DataPath == "" {
		if exeDir != "" {
			cfg.DataPath = exeDir
		} else {
			cfg.DataPath = "."
		}
	}
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.DataPath, "logs")
	}

	return cfg, nil
}

// Apply fills the request fields that were left unset with the defaults. An
// explicit zero in the request is kept.
func (d Defaults) Apply(req *simulation.Request) {
	if req.Iterations == nil {
		req.Iterations = simulation.Ptr(d.Iterations)
	}
	if req.DelaySlack == nil {
		req.DelaySlack = simulation.Ptr(d.DelaySlack)
	}
	if req.BudgetSlack == nil {
		req.BudgetSlack = simulation.Ptr(d.BudgetSlack)
	}
}
