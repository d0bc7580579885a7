package mcp

import (
	"fmt"

	"risk-mcs/internal/simulation"

	"github.com/google/jsonschema-go/jsonschema"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// NormalizeInput is the argument of normalize_risks.
type NormalizeInput struct {
	Risks []simulation.RiskDefinition `json:"risks" jsonschema:"risk register rows, at most 50 are used"`
}

func (s *Server) registerTools() error {
	runSchema, err := requestSchema()
	if err != nil {
		return err
	}

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name: "run_risk_simulation",
		Description: "Run a Monte-Carlo simulation over a project risk register. Each risk occurs with its likelihood (percent) and, " +
			"when it occurs, adds a triangular-distributed delay (days) and/or cost (budget units), or cancels the project (kill).\n\n" +
			"Returns success, kill and over-budget rates as fractions (0-1), expected delay and cost of non-cancelled trials, " +
			"p50/p85/p90 of late delays and budget overruns, and 20-bucket histograms.\n" +
			"Pass a seed to make the run reproducible; the seed used is always echoed back. Progress is reported every 1000 trials " +
			"when the request carries a progress token.",
		InputSchema: runSchema,
	}, s.handleRunSimulation)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name: "normalize_risks",
		Description: "Show which risk rows take part in a simulation. Rows with zero likelihood, or with no kill flag and all-zero " +
			"delay and cost ranges, are dropped. Returns the active risks with probabilities in [0,1] and the indices of dropped rows.",
	}, s.handleNormalizeRisks)

	return nil
}

// requestSchema infers the run_risk_simulation input schema and restricts the
// seed to values representable in 32 bits.
func requestSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[simulation.Request](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to infer simulation schema: %w", err)
	}

	seed, ok := schema.Properties["seed"]
	if !ok {
		return nil, fmt.Errorf("simulation schema has no seed property")
	}
	lo, hi := float64(simulation.MinSeed), float64(simulation.MaxSeed)
	seed.Minimum = &lo
	seed.Maximum = &hi

	return schema, nil
}
