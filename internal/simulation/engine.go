package simulation

import (
	"context"
	"slices"

	"risk-mcs/internal/stats"
)

// ProgressInterval is the trial spacing between progress reports.
const ProgressInterval = 1000

// Engine performs the Monte-Carlo simulation over an active-risk list.
type Engine struct {
	cfg   Config
	risks []ActiveRisk
	rng   *Mulberry32
}

// Percentiles holds the summary points reported for an outcome subset.
type Percentiles struct {
	P50 float64 `json:"p50"`
	P85 float64 `json:"p85"`
	P90 float64 `json:"p90"`
}

// RiskTally counts how often an active risk occurred across all trials.
type RiskTally struct {
	Index         int     `json:"index"`
	Name          string  `json:"name,omitempty"`
	Occurrences   int     `json:"occurrences"`
	OccurrencePct float64 `json:"occurrence_pct"`
}

// Result holds the reduced outcome of a run. Rates are fractions in [0,1].
type Result struct {
	Seed        uint32 `json:"seed"`
	ActiveRisks int    `json:"active_risks"`

	Runs                int `json:"runs"`
	SuccessCount        int `json:"success_count"`
	KilledCount         int `json:"killed_count"`
	NotKilledCount      int `json:"not_killed_count"`
	LateCount           int `json:"late_count"`
	BudgetExceededCount int `json:"budget_exceeded_count"`

	SuccessPct        float64 `json:"success_pct"`
	KilledPct         float64 `json:"killed_pct"`
	BudgetExceededPct float64 `json:"budget_exceeded_pct"`

	ExpectedDelayNotKilled float64 `json:"expected_delay_not_killed"`
	ExpectedCostNotKilled  float64 `json:"expected_cost_not_killed"`

	LateDelay      Percentiles      `json:"late_delay"`
	BudgetOverrun  Percentiles      `json:"budget_overrun"`
	DelayHistogram *stats.Histogram `json:"delay_histogram,omitempty"`
	CostHistogram  *stats.Histogram `json:"cost_histogram,omitempty"`

	Risks []RiskTally `json:"risks"`

	Charts map[string]string `json:"charts,omitempty"`
}

// trialOutcome is the state of a single trial.
type trialOutcome struct {
	killed     bool
	totalDelay float64
	totalCost  float64
}

// accumulator collects running sums and the retained subsets across trials.
type accumulator struct {
	success, killed, notKilled, budgetExceeded int
	sumDelay, sumCost                          float64
	lateDelays, overruns                       []float64
	occurrences                                []int
}

func NewEngine(cfg Config, risks []ActiveRisk) *Engine {
	return &Engine{
		cfg:   cfg,
		risks: risks,
		rng:   NewMulberry32(cfg.Seed),
	}
}

// Run executes cfg.Iterations trials. progress, when non-nil, is called with
// the trial index at every ProgressInterval boundary starting at 0. A
// cancelled context stops the run at the next boundary and returns its error
// with no result.
func (e *Engine) Run(ctx context.Context, progress func(Progress)) (Result, error) {
	acc := accumulator{occurrences: make([]int, len(e.risks))}
	total := e.cfg.Iterations

	for i := 0; i < total; i++ {
		if i%ProgressInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			if progress != nil {
				progress(Progress{Done: i, Total: total})
			}
		}
		e.record(&acc, e.simulateTrial(acc.occurrences))
	}

	return e.reduce(&acc), nil
}

// simulateTrial resolves every active risk in list order. A kill does not end
// the trial: later risks still add their delay and cost.
func (e *Engine) simulateTrial(occurrences []int) trialOutcome {
	var out trialOutcome

	for i := range e.risks {
		r := &e.risks[i]
		if e.rng.Float64() >= r.Probability {
			continue
		}
		occurrences[i]++

		if r.Kill {
			out.killed = true
		}
		if r.Delay != nil && r.Delay.Valid() {
			out.totalDelay += SampleTriangular(e.rng.Float64(), *r.Delay)
		}
		if r.Cost != nil {
			if r.Cost.Valid() {
				out.totalCost += SampleTriangular(e.rng.Float64(), *r.Cost)
			} else if c, ok := r.Cost.Constant(); ok {
				out.totalCost += c
			}
		}
	}

	return out
}

func (e *Engine) record(acc *accumulator, t trialOutcome) {
	overBudget := t.totalCost > e.cfg.BudgetSlack
	late := t.totalDelay > e.cfg.DelaySlack

	// Over-budget is counted for killed trials too.
	if overBudget {
		acc.budgetExceeded++
	}
	if !t.killed && !late && !overBudget {
		acc.success++
	}

	if t.killed {
		acc.killed++
		return
	}

	acc.notKilled++
	acc.sumDelay += t.totalDelay
	acc.sumCost += t.totalCost
	if late {
		acc.lateDelays = append(acc.lateDelays, t.totalDelay)
	}
	if overBudget {
		acc.overruns = append(acc.overruns, t.totalCost-e.cfg.BudgetSlack)
	}
}

func (e *Engine) reduce(acc *accumulator) Result {
	runs := e.cfg.Iterations
	res := Result{
		Seed:                e.cfg.Seed,
		ActiveRisks:         len(e.risks),
		Runs:                runs,
		SuccessCount:        acc.success,
		KilledCount:         acc.killed,
		NotKilledCount:      acc.notKilled,
		LateCount:           len(acc.lateDelays),
		BudgetExceededCount: acc.budgetExceeded,
		SuccessPct:          fraction(acc.success, runs),
		KilledPct:           fraction(acc.killed, runs),
		BudgetExceededPct:   fraction(acc.budgetExceeded, runs),
		LateDelay:           summarize(acc.lateDelays),
		BudgetOverrun:       summarize(acc.overruns),
		DelayHistogram:      stats.NewHistogram(acc.lateDelays, stats.DefaultBuckets),
		CostHistogram:       stats.NewHistogram(acc.overruns, stats.DefaultBuckets),
		Risks:               make([]RiskTally, len(e.risks)),
	}

	if acc.notKilled > 0 {
		res.ExpectedDelayNotKilled = acc.sumDelay / float64(acc.notKilled)
		res.ExpectedCostNotKilled = acc.sumCost / float64(acc.notKilled)
	}

	for i, r := range e.risks {
		res.Risks[i] = RiskTally{
			Index:         r.Index,
			Name:          r.Name,
			Occurrences:   acc.occurrences[i],
			OccurrencePct: fraction(acc.occurrences[i], runs),
		}
	}

	return res
}

func summarize(values []float64) Percentiles {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return Percentiles{
		P50: stats.PercentileSorted(sorted, 0.50),
		P85: stats.PercentileSorted(sorted, 0.85),
		P90: stats.PercentileSorted(sorted, 0.90),
	}
}

func fraction(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}
