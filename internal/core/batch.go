package core

// batch.go drives validation over a whole batch.
//
// The processor classifies every record, tallies the outcomes and, when a
// sort key is selected, bucket-sorts the valid subset. With Workers > 1 the
// classification step runs in parallel; outcomes are stored by record
// position and tallied in a single sequential pass afterwards, so counts and
// output order never depend on scheduling.

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ContextCheckInterval is how often (in records) to check for cancellation.
var ContextCheckInterval = 100

// BatchResult is the outcome of one run.
type BatchResult struct {
	RunID   string
	Tally   Tally
	Valid   []Record
	SortKey SortKey
	Timings Timings
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithWorkers sets the number of goroutines used to classify records.
// Values below 2 keep classification sequential.
func WithWorkers(n int) ProcessorOption {
	return func(p *Processor) { p.workers = n }
}

// WithProgress registers a callback invoked as records are classified.
func WithProgress(cb ProgressCallback) ProcessorOption {
	return func(p *Processor) { p.progress = cb }
}

// WithLogger sets the logger used for run diagnostics.
func WithLogger(l *slog.Logger) ProcessorOption {
	return func(p *Processor) { p.logger = l }
}

// Processor runs batches through a Validator.
type Processor struct {
	validator *Validator
	workers   int
	progress  ProgressCallback
	logger    *slog.Logger
}

// NewProcessor creates a processor using v (NewValidator when nil).
func NewProcessor(v *Validator, opts ...ProcessorOption) *Processor {
	if v == nil {
		v = NewValidator()
	}
	p := &Processor{validator: v, workers: 1}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Process classifies records, tallies outcomes and orders the valid records
// by key. The input slice is not modified.
func (p *Processor) Process(ctx context.Context, records []Record, key SortKey) (*BatchResult, error) {
	result := &BatchResult{
		RunID:   uuid.NewString(),
		SortKey: key,
	}
	logger := p.logger.With("run_id", result.RunID)

	start := time.Now()
	outcomes, err := p.classify(ctx, records)
	if err != nil {
		return nil, err
	}

	valid := make([]Record, 0, len(records))
	for i, c := range outcomes {
		result.Tally.Add(c)
		if c.IsValid() {
			valid = append(valid, records[i])
		} else {
			logger.Debug("record rejected", "index", i, "category", c.String())
		}
	}
	result.Timings.Validate = time.Since(start)

	start = time.Now()
	if key != SortNone && len(valid) > 0 {
		valid = SortRecords(valid, key)
	}
	result.Timings.Sort = time.Since(start)
	result.Valid = valid

	logger.Info("batch processed",
		"total", result.Tally.Total,
		"valid", result.Tally.Valid,
		"invalid", result.Tally.Invalid(),
		"sort", key.String(),
		"validate_ms", result.Timings.Validate.Milliseconds(),
		"sort_ms", result.Timings.Sort.Milliseconds(),
	)

	return result, nil
}

// classify returns one category per record, indexed by position.
// Progress is reported as each record is classified.
func (p *Processor) classify(ctx context.Context, records []Record) ([]Category, error) {
	outcomes := make([]Category, len(records))
	tick := p.ticker(len(records))

	if p.workers < 2 || len(records) < 2 {
		for i, r := range records {
			if i%ContextCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return nil, fmt.Errorf("batch cancelled: %w", err)
				}
			}
			outcomes[i] = p.validator.Classify(r)
			tick()
		}
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	chunk := (len(records) + p.workers - 1) / p.workers
	for lo := 0; lo < len(records); lo += chunk {
		lo, hi := lo, min(lo+chunk, len(records))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if (i-lo)%ContextCheckInterval == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				outcomes[i] = p.validator.Classify(records[i])
				tick()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}
	return outcomes, nil
}

// ticker returns a func that counts one classified record and reports it.
// Calls are serialized so the callback sees CurrentRow increase by one each
// time, even when workers finish records concurrently.
func (p *Processor) ticker(total int) func() {
	if p.progress == nil {
		return func() {}
	}
	var mu sync.Mutex
	done := 0
	return func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		p.progress(Progress{Phase: PhaseValidating, TotalRows: total, CurrentRow: done})
	}
}
