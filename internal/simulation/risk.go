package simulation

import "math"

// MaxRisks is the largest number of risk rows a run considers.
const MaxRisks = 50

// RiskDefinition is one raw row of a risk register. Likelihood is a percentage.
type RiskDefinition struct {
	Name       string  `json:"name,omitempty" yaml:"name,omitempty" jsonschema:"optional label for the risk"`
	Likelihood float64 `json:"likelihood" yaml:"likelihood" jsonschema:"probability of occurrence in percent (0-100)"`
	DelayMin   float64 `json:"delay_min,omitempty" yaml:"delay_min,omitempty" jsonschema:"minimum schedule delay in days"`
	DelayMode  float64 `json:"delay_mode,omitempty" yaml:"delay_mode,omitempty" jsonschema:"most likely schedule delay in days"`
	DelayMax   float64 `json:"delay_max,omitempty" yaml:"delay_max,omitempty" jsonschema:"maximum schedule delay in days"`
	CostMin    float64 `json:"cost_min,omitempty" yaml:"cost_min,omitempty" jsonschema:"minimum cost overrun in budget units"`
	CostMode   float64 `json:"cost_mode,omitempty" yaml:"cost_mode,omitempty" jsonschema:"most likely cost overrun in budget units"`
	CostMax    float64 `json:"cost_max,omitempty" yaml:"cost_max,omitempty" jsonschema:"maximum cost overrun in budget units"`
	Kill       bool    `json:"kill,omitempty" yaml:"kill,omitempty" jsonschema:"if true the project is cancelled when the risk occurs"`
}

// ActiveRisk is a normalized risk that can affect a trial.
type ActiveRisk struct {
	Index       int     `json:"index"`
	Name        string  `json:"name,omitempty"`
	Probability float64 `json:"probability"`
	Delay       *Range  `json:"delay,omitempty"`
	Cost        *Range  `json:"cost,omitempty"`
	Kill        bool    `json:"kill"`
}

// NormalizedRisks is the outcome of NormalizeRisks.
type NormalizedRisks struct {
	Active  []ActiveRisk `json:"active"`
	Dropped []int        `json:"dropped"`
}

// NormalizeRisks turns raw rows into the active-risk list, keeping row order.
// Rows beyond MaxRisks are ignored. Rows with no probability or no effect are
// dropped; non-finite numbers count as zero.
func NormalizeRisks(rows []RiskDefinition) NormalizedRisks {
	if len(rows) > MaxRisks {
		rows = rows[:MaxRisks]
	}

	out := NormalizedRisks{
		Active:  make([]ActiveRisk, 0, len(rows)),
		Dropped: []int{},
	}
	for i, row := range rows {
		ar, ok := normalizeRow(i, row)
		if !ok {
			out.Dropped = append(out.Dropped, i)
			continue
		}
		out.Active = append(out.Active, ar)
	}
	return out
}

func normalizeRow(index int, row RiskDefinition) (ActiveRisk, bool) {
	p := clamp(finite(row.Likelihood)/100, 0, 1)
	delay := Range{Min: finite(row.DelayMin), Mode: finite(row.DelayMode), Max: finite(row.DelayMax)}
	cost := Range{Min: finite(row.CostMin), Mode: finite(row.CostMode), Max: finite(row.CostMax)}

	if p <= 0 || (!row.Kill && delay.IsZero() && cost.IsZero()) {
		return ActiveRisk{}, false
	}

	ar := ActiveRisk{
		Index:       index,
		Name:        row.Name,
		Probability: p,
		Kill:        row.Kill,
	}
	if !delay.IsZero() {
		ar.Delay = &delay
	}
	if !cost.IsZero() {
		ar.Cost = &cost
	}
	return ar, true
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
