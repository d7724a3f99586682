package web

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/recordcheck/internal/core"
	"github.com/JonMunkholm/recordcheck/internal/logging"
)

// validateResponse is the JSON envelope returned by POST /api/validate.
type validateResponse struct {
	RunID   string        `json:"run_id"`
	SortKey core.SortKey  `json:"sort_key"`
	Tally   core.Tally    `json:"tally"`
	Timings core.Timings  `json:"timings"`
	Records []core.Record `json:"records"`
}

// inspectResponse is returned by POST /api/inspect.
type inspectResponse struct {
	Category core.Category     `json:"category"`
	Valid    bool              `json:"valid"`
	Errors   []core.FieldError `json:"errors"`
}

// handleValidate runs a batch posted as a JSON array.
//
// Query parameters:
//   - sort: none, weight or age (default none)
//   - format: json (default), blocks or yaml
//   - source: label stored in the run history (default "api")
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	key, err := core.ParseSortKey(q.Get("sort"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	format := core.FormatJSON
	if f := q.Get("format"); f != "" {
		if format, err = core.ParseOutputFormat(f); err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
			return
		}
	}

	source := q.Get("source")
	if source == "" {
		source = "api"
	}

	ctx := r.Context()
	if !s.limiter.TryAcquire() {
		logging.FromContext(ctx).Debug("waiting for batch slot", "active", s.limiter.Active())
		if err := s.limiter.Acquire(ctx); err != nil {
			s.metrics.IncrementRun(runStatusBusy)
			s.respondError(w, r, err, 0)
			return
		}
	}
	defer s.limiter.Release()

	records, err := core.DecodeRecords(r.Body, s.cfg.Batch.MaxFileSize)
	if err != nil {
		s.metrics.IncrementRun(runStatusRejected)
		s.respondError(w, r, err, 0)
		return
	}

	proc := core.NewProcessor(s.validator,
		core.WithWorkers(s.cfg.Batch.Workers),
		core.WithLogger(logging.FromContext(ctx)),
	)
	result, err := proc.Process(ctx, records, key)
	if err != nil {
		s.metrics.IncrementRun(runStatusFailed)
		s.respondError(w, r, err, 0)
		return
	}

	start := time.Now()
	w.Header().Set("X-Run-ID", result.RunID)
	if format == core.FormatJSON {
		writeJSON(w, http.StatusOK, validateResponse{
			RunID:   result.RunID,
			SortKey: result.SortKey,
			Tally:   result.Tally,
			Timings: result.Timings,
			Records: result.Valid,
		})
	} else {
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("X-Total-Records", strconv.Itoa(result.Tally.Total))
		w.Header().Set("X-Valid-Records", strconv.Itoa(result.Tally.Valid))
		if err := core.WriteRecords(w, result.Valid, format); err != nil {
			logging.FromContext(ctx).Error("write records", "run_id", result.RunID, "error", err)
		}
	}
	result.Timings.Write = time.Since(start)

	s.history.Add(result.Summarize(source))
	s.metrics.ObserveRun(result)

	logging.WithFields(ctx, "run_id", result.RunID).Info("run stored",
		"source", source,
		"format", string(format),
	)
}

// handleInspect reports every failing field of a single record.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Batch.MaxFileSize
	data, err := io.ReadAll(io.LimitReader(r.Body, maxSize+1))
	if err != nil {
		s.respondError(w, r, &core.InputError{Index: -1, Err: err}, http.StatusBadRequest)
		return
	}
	if int64(len(data)) > maxSize {
		s.respondError(w, r, fmt.Errorf("%w: exceeds limit of %d bytes", core.ErrFileTooLarge, maxSize), 0)
		return
	}

	rec, err := core.DecodeRecord(data)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	cat := s.validator.Classify(rec)
	errs := s.validator.ValidateAll(rec)
	if errs == nil {
		errs = []core.FieldError{}
	}
	writeJSON(w, http.StatusOK, inspectResponse{
		Category: cat,
		Valid:    cat.IsValid(),
		Errors:   errs,
	})
}

// handleListRuns returns the recent run summaries, newest first.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"runs": s.history.Recent(),
	})
}

// handleGetRun returns one run summary.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	summary, err := s.history.Get(chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleRunReport renders a run summary as an HTML page.
func (s *Server) handleRunReport(w http.ResponseWriter, r *http.Request) {
	summary, err := s.history.Get(chi.URLParam(r, "runID"))
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := runReport(summary).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render run report", "error", err)
	}
}

// handleHealth reports liveness and batch slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.limiter.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"request_id":     chimw.GetReqID(r.Context()),
		"active_batches": status.Active,
		"available":      status.Available,
		"runs":           s.history.Len(),
	})
}
