package core

import (
	"errors"
	"sync"
	"time"
)

// ErrRunNotFound is returned when a run ID is not in the history.
var ErrRunNotFound = errors.New("run not found")

// DefaultHistorySize is used when the configured size is not positive.
const DefaultHistorySize = 50

// RunSummary describes a finished run without its records.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Source     string    `json:"source"`
	SortKey    SortKey   `json:"sort_key"`
	Tally      Tally     `json:"tally"`
	Timings    Timings   `json:"timings"`
	FinishedAt time.Time `json:"finished_at"`
}

// Summarize builds the summary of a result.
func (r *BatchResult) Summarize(source string) RunSummary {
	return RunSummary{
		RunID:      r.RunID,
		Source:     source,
		SortKey:    r.SortKey,
		Tally:      r.Tally,
		Timings:    r.Timings,
		FinishedAt: time.Now().UTC(),
	}
}

// History keeps the most recent run summaries in memory.
// The oldest summary is dropped once the history is full.
type History struct {
	mu    sync.RWMutex
	size  int
	order []string
	runs  map[string]RunSummary
}

// NewHistory creates a history holding at most size summaries.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size: size,
		runs: make(map[string]RunSummary, size),
	}
}

// Add stores a summary, evicting the oldest when full.
func (h *History) Add(s RunSummary) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.runs[s.RunID]; !exists {
		h.order = append(h.order, s.RunID)
	}
	h.runs[s.RunID] = s

	for len(h.order) > h.size {
		delete(h.runs, h.order[0])
		h.order = h.order[1:]
	}
}

// Get returns the summary for runID.
func (h *History) Get(runID string) (RunSummary, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.runs[runID]
	if !ok {
		return RunSummary{}, ErrRunNotFound
	}
	return s, nil
}

// Recent returns summaries newest first.
func (h *History) Recent() []RunSummary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]RunSummary, 0, len(h.order))
	for i := len(h.order) - 1; i >= 0; i-- {
		out = append(out, h.runs[h.order[i]])
	}
	return out
}

// Len returns the number of stored summaries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.order)
}
