package config

import (
	"testing"

	"risk-mcs/internal/simulation"
)

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	t.Setenv("LOGS_FOLDER", "")
	t.Setenv("RISK_DEFAULT_ITERATIONS", "2500")
	t.Setenv("RISK_DEFAULT_BUDGET_SLACK", "1000.5")
	t.Setenv("ENABLE_MERMAID_CHARTS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DataPath != dir {
		t.Errorf("Expected data path %s, got %s", dir, cfg.DataPath)
	}
	if cfg.LogDir == "" {
		t.Errorf("Expected a derived log dir")
	}
	if cfg.Defaults.Iterations != 2500 || cfg.Defaults.BudgetSlack != 1000.5 || cfg.Defaults.DelaySlack != 0 {
		t.Errorf("Unexpected defaults: %+v", cfg.Defaults)
	}
	if !cfg.EnableMermaidCharts {
		t.Errorf("Expected mermaid charts to be enabled")
	}
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("RISK_DEFAULT_ITERATIONS", "many")

	if _, err := Load(); err == nil {
		t.Errorf("Expected an error for a non-numeric iteration default")
	}
}

func TestDefaults_Apply(t *testing.T) {
	d := Defaults{Iterations: 10000, DelaySlack: 3, BudgetSlack: 50}

	req := simulation.Request{Iterations: simulation.Ptr(200), BudgetSlack: simulation.Ptr(7.0)}
	d.Apply(&req)

	if *req.Iterations != 200 || *req.BudgetSlack != 7 {
		t.Errorf("Expected explicit values to be kept, got %d/%v", *req.Iterations, *req.BudgetSlack)
	}
	if req.DelaySlack == nil || *req.DelaySlack != 3 {
		t.Errorf("Expected default delay slack 3, got %v", req.DelaySlack)
	}
}

func TestDefaults_ApplyKeepsExplicitZero(t *testing.T) {
	d := Defaults{Iterations: 10000, DelaySlack: 100, BudgetSlack: 50}

	req := simulation.Request{
		Iterations:  simulation.Ptr(0),
		DelaySlack:  simulation.Ptr(0.0),
		BudgetSlack: simulation.Ptr(0.0),
	}
	d.Apply(&req)

	if *req.Iterations != 0 || *req.DelaySlack != 0 || *req.BudgetSlack != 0 {
		t.Errorf("Expected explicit zeros to be kept, got %d/%v/%v", *req.Iterations, *req.DelaySlack, *req.BudgetSlack)
	}

	cfg := simulation.NewConfig(req)
	if cfg.Iterations != simulation.MinIterations || cfg.DelaySlack != 0 {
		t.Errorf("Expected 1 iteration and no delay slack, got %+v", cfg)
	}
}
