package mcp

import (
	"context"
	"fmt"

	"risk-mcs/internal/simulation"
	"risk-mcs/internal/visuals"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

func (s *Server) handleRunSimulation(ctx context.Context, req *gomcp.CallToolRequest, in simulation.Request) (*gomcp.CallToolResult, simulation.Result, error) {
	if err := in.Validate(); err != nil {
		return nil, simulation.Result{}, err
	}
	s.cfg.Defaults.Apply(&in)

	worker := simulation.NewWorker()
	defer worker.Terminate()

	msgs, err := worker.Start(ctx, in)
	if err != nil {
		return nil, simulation.Result{}, err
	}

	token := req.Params.GetProgressToken()
	res, ok := simulation.Await(msgs, func(p simulation.Progress) {
		if token == nil {
			return
		}
		err := req.Session.NotifyProgress(ctx, &gomcp.ProgressNotificationParams{
			ProgressToken: token,
			Progress:      float64(p.Done),
			Total:         float64(p.Total),
			Message:       fmt.Sprintf("%d of %d trials", p.Done, p.Total),
		})
		if err != nil {
			log.Warn().Err(err).Str("run_id", worker.RunID()).Msg("Failed to send progress notification")
		}
	})
	if !ok {
		return nil, simulation.Result{}, fmt.Errorf("simulation %s was cancelled before completion", worker.RunID())
	}

	if s.cfg.EnableMermaidCharts {
		res.Charts = visuals.ResultCharts(res)
	}
	return nil, res, nil
}

func (s *Server) handleNormalizeRisks(ctx context.Context, req *gomcp.CallToolRequest, in NormalizeInput) (*gomcp.CallToolResult, simulation.NormalizedRisks, error) {
	return nil, simulation.NormalizeRisks(in.Risks), nil
}
