package simulation

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	MinIterations = 1
	MaxIterations = 50000

	// Seeds are 32-bit; negative values down to MinSeed are accepted and
	// reinterpreted as their unsigned bit pattern.
	MinSeed = math.MinInt32
	MaxSeed = math.MaxUint32
)

var ErrSeedOutOfRange = errors.New("seed out of range")

// Request is the payload that starts a run. Nil numeric fields are unset and
// may be filled from configured defaults; an explicit zero is kept.
type Request struct {
	Risks       []RiskDefinition `json:"risks" yaml:"risks" jsonschema:"risk register rows, at most 50 are used"`
	Iterations  *int             `json:"iterations,omitempty" yaml:"iterations,omitempty" jsonschema:"number of trials, clamped to 1..50000"`
	DelaySlack  *float64         `json:"delay_slack,omitempty" yaml:"delay_slack,omitempty" jsonschema:"days of delay tolerated before a trial counts as late"`
	BudgetSlack *float64         `json:"budget_slack,omitempty" yaml:"budget_slack,omitempty" jsonschema:"budget units of overrun tolerated before a trial counts as over budget"`
	Seed        *int64           `json:"seed,omitempty" yaml:"seed,omitempty" jsonschema:"32-bit seed, derived from the wall clock when omitted"`
}

// Validate rejects a seed that does not fit in 32 bits.
func (r Request) Validate() error {
	if r.Seed != nil && (*r.Seed < MinSeed || *r.Seed > MaxSeed) {
		return fmt.Errorf("%w: %d is outside [%d, %d]", ErrSeedOutOfRange, *r.Seed, int64(MinSeed), int64(MaxSeed))
	}
	return nil
}

// Ptr returns a pointer to v, for filling optional Request fields.
func Ptr[T any](v T) *T {
	return &v
}

// Config is a Request after clamping and seed resolution.
type Config struct {
	Iterations  int
	DelaySlack  float64
	BudgetSlack float64
	Seed        uint32
}

// now is the clock used when a request carries no seed.
var now = time.Now

// NewConfig clamps the request's numbers into range. When the request has no
// seed one is taken from the wall clock; this is the only nondeterministic
// input of a run.
func NewConfig(req Request) Config {
	iterations := deref(req.Iterations)
	if iterations < MinIterations {
		iterations = MinIterations
	}
	if iterations > MaxIterations {
		iterations = MaxIterations
	}

	var seed uint32
	if req.Seed != nil {
		seed = uint32(*req.Seed)
	} else {
		seed = uint32(now().UnixMilli())
	}

	return Config{
		Iterations:  iterations,
		DelaySlack:  math.Max(0, finite(deref(req.DelaySlack))),
		BudgetSlack: math.Max(0, finite(deref(req.BudgetSlack))),
		Seed:        seed,
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
