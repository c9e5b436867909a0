package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/huangsam/ahp/core"
	"github.com/huangsam/ahp/core/agg"
	"github.com/huangsam/ahp/core/algo"
	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/schema"
)

// maxBodyBytes caps request bodies; a full questionnaire is a few kilobytes.
const maxBodyBytes = 1 << 20

// Handler serves the AHP endpoints.
type Handler struct {
	cfg     *contract.Config
	stores  contract.StoreManager
	pub     contract.Publisher
	metrics *Metrics
	logger  *slog.Logger
	clock   func() time.Time
}

// NewHandler creates a Handler. stores and pub may be nil; the endpoints that
// need a submission store then answer 503.
func NewHandler(cfg *contract.Config, stores contract.StoreManager, pub contract.Publisher, metrics *Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Handler{cfg: cfg, stores: stores, pub: pub, metrics: metrics, logger: logger, clock: time.Now}
}

type weightsRequest struct {
	Items     []string `json:"items"`
	Judgments any      `json:"judgments"`
}

type weightsResponse struct {
	Keys    []string              `json:"keys"`
	Weights []float64             `json:"weights"`
	Cons    schema.Consistency    `json:"cons"`
	Method  schema.WeightMethod   `json:"method"`
	Skipped []schema.SkippedEntry `json:"skipped,omitempty"`
}

// Weights evaluates one ad-hoc comparison set.
func (h *Handler) Weights(w http.ResponseWriter, r *http.Request) {
	var req weightsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items required")
		return
	}
	seen := make(map[string]bool, len(req.Items))
	for _, it := range req.Items {
		label := schema.NormalizeLabel(it)
		if label == "" || seen[label] {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("items must be unique and non-empty: %q", it))
			return
		}
		seen[label] = true
	}

	judgments, skipped := schema.ParseJudgments(req.Judgments)
	g := algo.EvaluateGroup(req.Items, judgments)
	writeJSON(w, http.StatusOK, weightsResponse{
		Keys:    g.Keys,
		Weights: g.Weights,
		Cons:    g.Cons,
		Method:  g.Method,
		Skipped: skipped,
	})
}

type submissionResponse struct {
	Submission schema.Submission `json:"submission"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// CreateSubmission evaluates an expert's answers and stores the result.
func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	store, ok := h.submissionStore(w)
	if !ok {
		return
	}

	var in schema.SubmissionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ev, err := core.Evaluate(h.cfg.Hierarchy, in, h.clock())
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, schema.ErrHierarchyMismatch) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}
	if err := core.SaveSubmission(core.WithQuiet(r.Context()), store, h.pub, ev.Submission); err != nil {
		h.logger.Error("save submission failed", "expert", ev.Submission.Expert, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.metrics.ObserveSubmission(ev.Submission, h.cfg.CRThreshold)
	h.logger.Info("submission stored",
		"submission_id", ev.Submission.ID,
		"expert", ev.Submission.Expert,
		"main_cr", ev.Submission.MainCR(),
		"warnings", len(ev.Warnings),
	)
	writeJSON(w, http.StatusCreated, submissionResponse{Submission: ev.Submission, Warnings: ev.Warnings})
}

// ListSubmissions lists stored submissions, newest first.
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	store, ok := h.submissionStore(w)
	if !ok {
		return
	}

	limit := h.cfg.ResultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, contract.MaxResultLimit)
	}

	summaries, err := store.List(r.Context(), r.URL.Query().Get("expert"), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if summaries == nil {
		summaries = []schema.SubmissionSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

// GetSubmission returns one stored submission.
func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	store, ok := h.submissionStore(w)
	if !ok {
		return
	}
	sub, err := store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// DeleteSubmission removes one stored submission.
func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	store, ok := h.submissionStore(w)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := store.Delete(r.Context(), id); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	h.logger.Info("submission deleted", "submission_id", id)
	w.WriteHeader(http.StatusNoContent)
}

type consensusResponse struct {
	RunID int64 `json:"run_id,omitempty"`
	schema.Consensus
}

type modeConsensusResponse struct {
	RunID         int64                       `json:"run_id,omitempty"`
	Questionnaire string                      `json:"questionnaire"`
	ExpertCount   int                         `json:"expert_count"`
	ComputedAt    time.Time                   `json:"computed_at"`
	Mode          schema.AggregationMode      `json:"mode"`
	Result        schema.Result               `json:"result"`
	Diagnostics   schema.ConsensusDiagnostics `json:"diagnostics"`
}

// Consensus aggregates the latest stored submission of every expert.
// The optional mode query parameter narrows the answer to aij or aip.
func (h *Handler) Consensus(w http.ResponseWriter, r *http.Request) {
	store, ok := h.submissionStore(w)
	if !ok {
		return
	}

	mode := schema.AggregationMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = schema.BothMode
	}
	if _, valid := schema.ValidAggregationModes[mode]; !valid {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid mode %q", mode))
		return
	}

	ctx := core.WithClock(r.Context(), h.clock)
	subs, err := store.LatestPerExpert(ctx, h.cfg.Hierarchy.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var tracker contract.ConsensusStore
	if h.stores != nil {
		tracker = h.stores.GetConsensusStore()
	}
	opts := agg.Options{Workers: h.cfg.Workers, CRThreshold: h.cfg.CRThreshold}
	c, runID, err := core.RunConsensus(ctx, h.cfg.Hierarchy, subs, opts, tracker)
	h.metrics.ObserveConsensus(c, err)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	core.PublishConsensus(ctx, h.pub, runID, c, h.cfg.ResultLimit)
	h.logger.Info("consensus computed", "run_id", runID, "experts", c.ExpertCount, "mean_cr", c.Diagnostics.MeanCR)

	if mode == schema.BothMode {
		writeJSON(w, http.StatusOK, consensusResponse{RunID: runID, Consensus: c})
		return
	}
	writeJSON(w, http.StatusOK, modeConsensusResponse{
		RunID:         runID,
		Questionnaire: c.Questionnaire,
		ExpertCount:   c.ExpertCount,
		ComputedAt:    c.ComputedAt,
		Mode:          mode,
		Result:        c.ResultFor(mode),
		Diagnostics:   c.Diagnostics,
	})
}

// Questionnaire returns the hierarchy the server evaluates against.
func (h *Handler) Questionnaire(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.cfg.Hierarchy)
}

func (h *Handler) submissionStore(w http.ResponseWriter) (contract.SubmissionStore, bool) {
	if h.stores == nil || h.stores.GetSubmissionStore() == nil {
		writeError(w, http.StatusServiceUnavailable, "submission store is not configured")
		return nil, false
	}
	return h.stores.GetSubmissionStore(), true
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, schema.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, schema.ErrNoData), errors.Is(err, schema.ErrHierarchyMismatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads one JSON document, keeping numbers as json.Number.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("cannot read request body: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeJSON encodes v before writing the header, so an unencodable value
// becomes a 500 instead of an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": fmt.Sprintf("cannot encode response: %v", err)})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
