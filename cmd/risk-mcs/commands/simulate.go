package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"risk-mcs/internal/register"
	"risk-mcs/internal/simulation"
	"risk-mcs/internal/visuals"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type simulateOptions struct {
	iterations  int
	delaySlack  float64
	budgetSlack float64
	seed        int64
	mermaid     bool
	parallel    int
}

// FileResult pairs a register file with the outcome of its run. Result is nil
// when the run was abandoned.
type FileResult struct {
	File   string             `json:"file"`
	Result *simulation.Result `json:"result"`
}

var simOpts simulateOptions

var simulateCmd = &cobra.Command{
	Use:   "simulate <register> [register...]",
	Short: "Run the simulation for one or more risk-register files (JSON or YAML)",
	Long: `Each register file is simulated on its own worker. Flags override the values stored in the
files; values missing from both fall back to the RISK_DEFAULT_* environment settings.
Results are written to stdout as JSON. Interrupting the command abandons unfinished runs,
which are reported with a null result.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		requests := make([]simulation.Request, len(args))
		for i, path := range args {
			req, err := register.Load(path)
			if err != nil {
				return err
			}
			if err := applyOverrides(cmd, &req, simOpts); err != nil {
				return err
			}
			cfg.Defaults.Apply(&req)
			requests[i] = req
		}

		results := simulateAll(ctx, args, requests, simOpts.parallel, simOpts.mermaid || cfg.EnableMermaidCharts)
		return writeResults(cmd.OutOrStdout(), results)
	},
}

// applyOverrides copies the flags the user set onto req. A --seed that does
// not fit in 32 bits is rejected.
func applyOverrides(cmd *cobra.Command, req *simulation.Request, opts simulateOptions) error {
	flags := cmd.Flags()
	if flags.Changed("iterations") {
		req.Iterations = simulation.Ptr(opts.iterations)
	}
	if flags.Changed("delay-slack") {
		req.DelaySlack = simulation.Ptr(opts.delaySlack)
	}
	if flags.Changed("budget-slack") {
		req.BudgetSlack = simulation.Ptr(opts.budgetSlack)
	}
	if flags.Changed("seed") {
		req.Seed = simulation.Ptr(opts.seed)
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("--seed: %w", err)
	}
	return nil
}

// simulateAll runs every request on a fresh worker, at most parallel at a time.
func simulateAll(ctx context.Context, files []string, requests []simulation.Request, parallel int, charts bool) []FileResult {
	results := make([]FileResult, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	for i := range requests {
		results[i].File = files[i]
		g.Go(func() error {
			worker := simulation.NewWorker()
			defer worker.Terminate()

			msgs, err := worker.Start(gctx, requests[i])
			if err != nil {
				return err
			}

			res, ok := simulation.Await(msgs, nil)
			if !ok {
				log.Warn().Str("file", files[i]).Str("run_id", worker.RunID()).Msg("Simulation abandoned, no result")
				return nil
			}
			if charts {
				res.Charts = visuals.ResultCharts(res)
			}
			results[i].Result = &res
			return nil
		})
	}

	// Workers are fresh, so Start cannot fail.
	_ = g.Wait()
	return results
}

func writeResults(w io.Writer, results []FileResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0].Result)
	}
	return enc.Encode(results)
}

func init() {
	simulateCmd.Flags().IntVarP(&simOpts.iterations, "iterations", "n", 0, "number of trials (1-50000)")
	simulateCmd.Flags().Float64Var(&simOpts.delaySlack, "delay-slack", 0, "days of delay tolerated")
	simulateCmd.Flags().Float64Var(&simOpts.budgetSlack, "budget-slack", 0, "budget units of overrun tolerated")
	simulateCmd.Flags().Int64Var(&simOpts.seed, "seed", 0, "32-bit seed (default: derived from the clock)")
	simulateCmd.Flags().BoolVar(&simOpts.mermaid, "mermaid", false, "attach Mermaid histogram charts to each result")
	simulateCmd.Flags().IntVarP(&simOpts.parallel, "parallel", "p", 4, "maximum number of concurrent runs")

	rootCmd.AddCommand(simulateCmd)
}
