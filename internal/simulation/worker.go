package simulation

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	// ErrWorkerBusy is returned when a worker is asked for a second run.
	ErrWorkerBusy = errors.New("worker already has a run")
	// ErrWorkerTerminated is returned when a terminated worker is asked for a run.
	ErrWorkerTerminated = errors.New("worker terminated")
)

// Message is emitted by a worker. The set is closed: Progress and Done.
type Message interface {
	isMessage()
}

// Progress reports that Done of Total trials have been started.
type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// Done carries the final result. It is always the last message of a run.
type Done struct {
	Result Result `json:"result"`
}

func (Progress) isMessage() {}
func (Done) isMessage() {}

// Worker runs a single simulation on its own goroutine and reports back over
// a channel. A worker serves one run; build a new one for the next.
type Worker struct {
	id string

	mu         sync.Mutex
	started    bool
	terminated bool
	cancel     context.CancelFunc
}

func NewWorker() *Worker {
	return &Worker{id: uuid.NewString()}
}

// RunID identifies the worker's run in logs.
func (w *Worker) RunID() string {
	return w.id
}

// Start normalizes the request and launches the run. The returned channel
// receives Progress messages in increasing order followed by one Done, and is
// then closed. If the run is abandoned the channel is closed without a Done.
func (w *Worker) Start(ctx context.Context, req Request) (<-chan Message, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.terminated {
		return nil, ErrWorkerTerminated
	}
	if w.started {
		return nil, ErrWorkerBusy
	}
	w.started = true

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	cfg := NewConfig(req)
	risks := NormalizeRisks(req.Risks)
	engine := NewEngine(cfg, risks.Active)

	// Sized so the run never blocks on a slow reader.
	out := make(chan Message, cfg.Iterations/ProgressInterval+2)

	logger := log.With().Str("run_id", w.id).Logger()
	logger.Info().
		Uint32("seed", cfg.Seed).
		Int("iterations", cfg.Iterations).
		Int("active_risks", len(risks.Active)).
		Int("dropped_risks", len(risks.Dropped)).
		Msg("Simulation started")

	go func() {
		defer close(out)
		defer cancel()

		res, err := engine.Run(runCtx, func(p Progress) {
			logger.Debug().Int("done", p.Done).Int("total", p.Total).Msg("Simulation progress")
			out <- p
		})
		if err != nil || runCtx.Err() != nil {
			logger.Info().Msg("Simulation abandoned")
			return
		}

		logger.Info().
			Int("runs", res.Runs).
			Float64("success_pct", res.SuccessPct).
			Float64("killed_pct", res.KilledPct).
			Msg("Simulation finished")
		out <- Done{Result: res}
	}()

	return out, nil
}

// Terminate abandons the run. No Done message is sent unless the run had
// already finished. The worker cannot be restarted.
func (w *Worker) Terminate() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.terminated = true
	if w.cancel != nil {
		w.cancel()
	}
}

// Await drains msgs, forwarding progress to onProgress, and returns the final
// result. ok is false when the run was abandoned.
func Await(msgs <-chan Message, onProgress func(Progress)) (Result, bool) {
	for msg := range msgs {
		switch m := msg.(type) {
		case Progress:
			if onProgress != nil {
				onProgress(m)
			}
		case Done:
			return m.Result, true
		}
	}
	return Result{}, false
}
