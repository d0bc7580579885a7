package generator

import (
	"fmt"
	"math"

	"risk-mcs/internal/simulation"
)

type Config struct {
	Scenario   string // "mild", "chaos" or "killer"
	Count      int
	Iterations int
	Seed       uint32
}

// profile describes how a scenario draws its risks.
type profile struct {
	likelihood [2]float64 // percent, uniform between the bounds
	delayScale float64    // typical max delay in days
	costScale  float64    // typical max cost in budget units
	killShare  float64    // share of rows that are kill risks
	tailShape  float64    // Weibull shape for range widths; lower is heavier
	noiseShare float64    // share of rows with no effect, dropped on normalization
}

var profiles = map[string]profile{
	"mild":   {likelihood: [2]float64{5, 40}, delayScale: 10, costScale: 5000, killShare: 0, tailShape: 2.5, noiseShare: 0.05},
	"chaos":  {likelihood: [2]float64{10, 80}, delayScale: 30, costScale: 40000, killShare: 0.05, tailShape: 0.8, noiseShare: 0.15},
	"killer": {likelihood: [2]float64{1, 25}, delayScale: 15, costScale: 10000, killShare: 0.3, tailShape: 1.5, noiseShare: 0.05},
}

// Generate builds a synthetic risk register. The same Config always yields
// the same register.
func Generate(cfg Config) (simulation.Request, error) {
	p, ok := profiles[cfg.Scenario]
	if !ok {
		return simulation.Request{}, fmt.Errorf("unknown scenario %q: use mild, chaos or killer", cfg.Scenario)
	}

	rng := simulation.NewMulberry32(cfg.Seed)
	risks := make([]simulation.RiskDefinition, 0, cfg.Count)

	for i := 0; i < cfg.Count; i++ {
		r := simulation.RiskDefinition{
			Name:       fmt.Sprintf("%s risk %d", cfg.Scenario, i+1),
			Likelihood: round1(p.likelihood[0] + rng.Float64()*(p.likelihood[1]-p.likelihood[0])),
		}

		switch roll := rng.Float64(); {
		case roll < p.noiseShare:
			// Likelihood without any effect.
		case roll < p.noiseShare+p.killShare:
			r.Kill = true
		default:
			if rng.Float64() < 0.7 {
				r.DelayMin, r.DelayMode, r.DelayMax = triple(rng, p.delayScale, p.tailShape)
			}
			if rng.Float64() < 0.6 {
				r.CostMin, r.CostMode, r.CostMax = triple(rng, p.costScale, p.tailShape)
			}
			if r.DelayMax == 0 && r.CostMax == 0 {
				// Fixed fee: a constant cost that bypasses sampling.
				fee := math.Round(p.costScale * (0.05 + 0.1*rng.Float64()))
				r.CostMin, r.CostMode, r.CostMax = fee, fee, fee
			}
		}

		risks = append(risks, r)
	}

	return simulation.Request{
		Risks:       risks,
		Iterations:  simulation.Ptr(cfg.Iterations),
		DelaySlack:  simulation.Ptr(round1(p.delayScale / 2)),
		BudgetSlack: simulation.Ptr(math.Round(p.costScale / 2)),
		Seed:        simulation.Ptr(int64(cfg.Seed)),
	}, nil
}

// triple draws an ordered (min, mode, max) whose width follows a Weibull tail.
func triple(rng *simulation.Mulberry32, scale, shape float64) (float64, float64, float64) {
	lo := round1(rng.Float64() * scale * 0.2)
	width := weibullSample(rng, shape, scale*0.5)
	hi := round1(lo + math.Max(width, 0.1))
	mode := round1(lo + (hi-lo)*rng.Float64()*0.6)
	return lo, mode, hi
}

func weibullSample(rng *simulation.Mulberry32, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
