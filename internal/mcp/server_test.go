package mcp

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"risk-mcs/internal/config"
	"risk-mcs/internal/simulation"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type progressLog struct {
	mu   sync.Mutex
	done []float64
}

func (p *progressLog) add(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = append(p.done, v)
}

func (p *progressLog) snapshot() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]float64(nil), p.done...)
}

func connect(t *testing.T, cfg *config.AppConfig, progress *progressLog) *gomcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	s, err := NewServer(cfg, "test")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	clientTransport, serverTransport := gomcp.NewInMemoryTransports()
	if _, err := s.Connect(ctx, serverTransport); err != nil {
		t.Fatalf("Server connect failed: %v", err)
	}

	client := gomcp.NewClient(&gomcp.Implementation{Name: "test-client", Version: "v0"}, &gomcp.ClientOptions{
		ProgressNotificationHandler: func(_ context.Context, req *gomcp.ProgressNotificationClientRequest) {
			if progress != nil {
				progress.add(req.Params.Progress)
			}
		},
	})
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("Client connect failed: %v", err)
	}
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func decodeText[T any](t *testing.T, res *gomcp.CallToolResult) T {
	t.Helper()
	var out T
	if res.IsError {
		t.Fatalf("Tool returned error: %+v", res.Content)
	}
	if len(res.Content) == 0 {
		t.Fatalf("Tool returned no content")
	}
	text, ok := res.Content[0].(*gomcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", res.Content[0])
	}
	if err := json.Unmarshal([]byte(text.Text), &out); err != nil {
		t.Fatalf("Failed to decode tool output: %v", err)
	}
	return out
}

func TestRunRiskSimulation(t *testing.T) {
	progress := &progressLog{}
	cfg := &config.AppConfig{EnableMermaidCharts: true}
	cs := connect(t, cfg, progress)

	params := &gomcp.CallToolParams{
		Meta: gomcp.Meta{"progressToken": "run-1"},
		Name: "run_risk_simulation",
		Arguments: map[string]any{
			"risks": []map[string]any{
				{"name": "late vendor", "likelihood": 100, "delay_min": 2, "delay_mode": 4, "delay_max": 10},
				{"name": "fixed fee", "likelihood": 100, "cost_min": 10, "cost_mode": 10, "cost_max": 10},
			},
			"iterations":   2500,
			"budget_slack": 5,
			"seed":         12345,
		},
	}
	res, err := cs.CallTool(context.Background(), params)
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	out := decodeText[simulation.Result](t, res)

	if out.Runs != 2500 || out.Seed != 12345 {
		t.Errorf("Expected 2500 runs with seed 12345, got %d / %d", out.Runs, out.Seed)
	}
	if out.BudgetExceededCount != 2500 || out.LateCount != 2500 || out.SuccessCount != 0 {
		t.Errorf("Expected every trial late and over budget, got %+v", out)
	}
	if out.Charts["late_delay"] == "" || out.Charts["budget_overrun"] == "" {
		t.Errorf("Expected mermaid charts, got %v", out.Charts)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(progress.snapshot()) < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	got := progress.snapshot()
	want := []float64{0, 1000, 2000}
	if len(got) != len(want) {
		t.Fatalf("Expected progress %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected progress %v, got %v", want, got)
			break
		}
	}
}

func TestRunRiskSimulation_AppliesDefaults(t *testing.T) {
	cfg := &config.AppConfig{Defaults: config.Defaults{Iterations: 700, DelaySlack: 100}}
	cs := connect(t, cfg, nil)

	res, err := cs.CallTool(context.Background(), &gomcp.CallToolParams{
		Name: "run_risk_simulation",
		Arguments: map[string]any{
			"risks": []map[string]any{{"likelihood": 50, "delay_min": 1, "delay_mode": 2, "delay_max": 3}},
			"seed":  1,
		},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	out := decodeText[simulation.Result](t, res)

	if out.Runs != 700 || out.SuccessCount != 700 {
		t.Errorf("Expected 700 successful runs under default slack, got %d / %d", out.Runs, out.SuccessCount)
	}
	if out.Charts != nil {
		t.Errorf("Expected no charts when disabled, got %v", out.Charts)
	}
}

func TestRunRiskSimulation_ExplicitZeroOverridesDefaults(t *testing.T) {
	cfg := &config.AppConfig{Defaults: config.Defaults{Iterations: 10000, DelaySlack: 100}}
	cs := connect(t, cfg, nil)

	res, err := cs.CallTool(context.Background(), &gomcp.CallToolParams{
		Name: "run_risk_simulation",
		Arguments: map[string]any{
			"risks":       []map[string]any{{"likelihood": 100, "delay_min": 1, "delay_mode": 2, "delay_max": 3}},
			"iterations":  0,
			"delay_slack": 0,
			"seed":        1,
		},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	out := decodeText[simulation.Result](t, res)

	if out.Runs != 1 {
		t.Errorf("Expected iterations 0 to clamp to a single run, got %d", out.Runs)
	}
	if out.LateCount != 1 || out.SuccessCount != 0 {
		t.Errorf("Expected the run to be late with zero delay slack, got late=%d success=%d", out.LateCount, out.SuccessCount)
	}
}

func TestRunRiskSimulation_RejectsOversizedSeed(t *testing.T) {
	cs := connect(t, &config.AppConfig{}, nil)

	res, err := cs.CallTool(context.Background(), &gomcp.CallToolParams{
		Name: "run_risk_simulation",
		Arguments: map[string]any{
			"risks": []map[string]any{},
			"seed":  int64(1) << 40,
		},
	})
	if err == nil && !res.IsError {
		t.Errorf("Expected a seed beyond 32 bits to be rejected")
	}
}

func TestNormalizeRisks(t *testing.T) {
	cs := connect(t, &config.AppConfig{}, nil)

	res, err := cs.CallTool(context.Background(), &gomcp.CallToolParams{
		Name: "normalize_risks",
		Arguments: map[string]any{
			"risks": []map[string]any{
				{"likelihood": 0, "kill": true},
				{"likelihood": 20, "kill": true},
				{"likelihood": 40},
			},
		},
	})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	out := decodeText[simulation.NormalizedRisks](t, res)

	if len(out.Active) != 1 || out.Active[0].Index != 1 || out.Active[0].Probability != 0.2 {
		t.Errorf("Expected only row 1 active with probability 0.2, got %+v", out.Active)
	}
	if len(out.Dropped) != 2 || out.Dropped[0] != 0 || out.Dropped[1] != 2 {
		t.Errorf("Expected rows 0 and 2 dropped, got %v", out.Dropped)
	}
}

func TestRequestSchema_SeedBounds(t *testing.T) {
	schema, err := requestSchema()
	if err != nil {
		t.Fatalf("requestSchema failed: %v", err)
	}
	seed := schema.Properties["seed"]
	if seed.Minimum == nil || *seed.Minimum != -2147483648 || seed.Maximum == nil || *seed.Maximum != 4294967295 {
		t.Errorf("Expected 32-bit seed bounds, got %+v", seed)
	}
}
