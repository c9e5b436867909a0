package api

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/internal/events"
	"github.com/huangsam/ahp/internal/persist"
	"github.com/huangsam/ahp/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

func testConfig() *contract.Config {
	return &contract.Config{
		Hierarchy: schema.Hierarchy{
			Name: "test",
			Criteria: []schema.Criterion{
				{Name: "Access", SubCriteria: []string{"Ramps", "Lifts"}},
				{Name: "Safety", SubCriteria: []string{"Lighting", "CCTV"}},
			},
		},
		ResultLimit: 20,
		Workers:     2,
		Precision:   4,
		CRThreshold: 0.1,
	}
}

type testServer struct {
	router    http.Handler
	store     *persist.MockSubmissionStore
	consensus *persist.MockConsensusStore
	pub       *events.MockPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := &persist.MockSubmissionStore{}
	consensus := &persist.MockConsensusStore{}
	mgr := &persist.MockStoreManager{}
	mgr.On("GetSubmissionStore").Return(store)
	mgr.On("GetConsensusStore").Return(consensus)
	pub := &events.MockPublisher{}

	h := NewHandler(testConfig(), mgr, pub, NewMetrics(), nil)
	h.clock = func() time.Time { return fixedNow }
	return &testServer{
		router:    NewRouter(h, Options{ServeMetrics: true}),
		store:     store,
		consensus: consensus,
		pub:       pub,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func TestWeights(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/v1/weights",
		`{"items": ["A", "B", "C"], "judgments": {"A ||| B": 2, "B ||| C": 2, "A ||| C": 4, "bad": 1}}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp weightsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"A", "B", "C"}, resp.Keys)
	assert.InDeltaSlice(t, []float64{4.0 / 7, 2.0 / 7, 1.0 / 7}, resp.Weights, 1e-9)
	assert.InDelta(t, 0, resp.Cons.CR, 1e-9)
	assert.Equal(t, schema.GeometricMeanMethod, resp.Method)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "bad", resp.Skipped[0].Key)
}

func TestWeights_BadRequests(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"items": `},
		{"no items", `{"judgments": {}}`},
		{"duplicate items", `{"items": ["A", " A"]}`},
		{"empty item", `{"items": ["A", ""]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/api/v1/weights", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), `"error"`)
		})
	}
}

func TestCreateSubmission(t *testing.T) {
	s := newTestServer(t)
	s.store.On("Save", mock.Anything, mock.MatchedBy(func(sub schema.Submission) bool {
		return sub.Expert == "alice" && sub.CreatedAt.Equal(fixedNow)
	})).Return(nil)
	s.pub.On("Publish", mock.Anything, schema.SubjectSubmissionCreated, mock.Anything).Return(nil)

	rr := s.do(t, http.MethodPost, "/api/v1/submissions",
		`{"expert": "alice", "main": {"Access ||| Safety": 3}, "sub": {"Access": {"Ramps ||| Lifts": 2}, "Parks": {}}}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp submissionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Submission.Expert)
	assert.InDeltaSlice(t, []float64{0.75, 0.25}, resp.Submission.Result.Main.Weights, 1e-9)
	assert.Equal(t, []string{"Parks: unknown criterion"}, resp.Warnings)
	s.store.AssertExpectations(t)
	s.pub.AssertExpectations(t)
}

func TestCreateSubmission_Errors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"bad json", `[`, http.StatusBadRequest},
		{"missing expert", `{"main": {}}`, http.StatusBadRequest},
		{"other questionnaire", `{"expert": "x", "questionnaire": "other", "main": {}}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/api/v1/submissions", tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
		})
	}
	s.store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreateSubmission_SaveFails(t *testing.T) {
	s := newTestServer(t)
	s.store.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	rr := s.do(t, http.MethodPost, "/api/v1/submissions", `{"expert": "alice", "main": {}}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	s.pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestListSubmissions(t *testing.T) {
	s := newTestServer(t)
	s.store.On("List", mock.Anything, "alice", 5).Return([]schema.SubmissionSummary{{ID: "s1", Expert: "alice"}}, nil)
	s.store.On("List", mock.Anything, "", 20).Return(nil, nil)

	rr := s.do(t, http.MethodGet, "/api/v1/submissions?expert=alice&limit=5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"s1"`)

	rr = s.do(t, http.MethodGet, "/api/v1/submissions", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/api/v1/submissions?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetAndDeleteSubmission(t *testing.T) {
	s := newTestServer(t)
	s.store.On("Get", mock.Anything, "s1").Return(schema.Submission{ID: "s1", Expert: "alice"}, nil)
	s.store.On("Get", mock.Anything, "missing").Return(schema.Submission{}, schema.ErrNotFound)
	s.store.On("Delete", mock.Anything, "s1").Return(nil)
	s.store.On("Delete", mock.Anything, "missing").Return(schema.ErrNotFound)
	s.store.On("Delete", mock.Anything, "broken").Return(errors.New("connection reset"))

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/submissions/s1", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/submissions/missing", "").Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/submissions/s1", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/v1/submissions/missing", "").Code)
	assert.Equal(t, http.StatusInternalServerError, s.do(t, http.MethodDelete, "/api/v1/submissions/broken", "").Code)
}

func storedSubmission(expert string, ratio float64) schema.Submission {
	return schema.Submission{
		ID:            expert + "-1",
		Expert:        expert,
		Questionnaire: "test",
		MainPairs:     schema.Judgments{schema.NewPair("Access", "Safety"): ratio},
		SubPairs: map[string]schema.Judgments{
			"Access": {schema.NewPair("Ramps", "Lifts"): 2},
		},
	}
}

func TestConsensus(t *testing.T) {
	s := newTestServer(t)
	s.store.On("LatestPerExpert", mock.Anything, "test").Return([]schema.Submission{
		storedSubmission("alice", 3),
		storedSubmission("bob", 1.0/3),
	}, nil)
	s.consensus.On("BeginRun", fixedNow, mock.Anything).Return(int64(4), nil)
	s.consensus.On("RecordWeights", int64(4), mock.Anything, mock.Anything).Return(nil)
	s.consensus.On("EndRun", int64(4), fixedNow, 2).Return(nil)
	s.pub.On("Publish", mock.Anything, schema.SubjectConsensusCompleted, mock.Anything).Return(nil)

	rr := s.do(t, http.MethodGet, "/api/v1/consensus", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		RunID       int64         `json:"run_id"`
		ExpertCount int           `json:"expert_count"`
		AIJ         schema.Result `json:"aij"`
		AIP         schema.Result `json:"aip"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(4), resp.RunID)
	assert.Equal(t, 2, resp.ExpertCount)
	// Opposite judgments cancel out.
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, resp.AIJ.Main.Weights, 1e-9)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, resp.AIP.Main.Weights, 1e-9)

	rr = s.do(t, http.MethodGet, "/api/v1/consensus?mode=aip", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var single modeConsensusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &single))
	assert.Equal(t, schema.AIPMode, single.Mode)
	assert.False(t, single.Result.Main.Cons.Defined())
}

func TestConsensus_Errors(t *testing.T) {
	s := newTestServer(t)
	s.store.On("LatestPerExpert", mock.Anything, "test").Return(nil, nil)
	s.consensus.On("BeginRun", mock.Anything, mock.Anything).Return(int64(5), nil)
	s.consensus.On("EndRun", int64(5), mock.Anything, 0).Return(nil)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/consensus?mode=median", "").Code)

	rr := s.do(t, http.MethodGet, "/api/v1/consensus", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "no data")
}

func TestWriteJSON_UnencodableValue(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusOK, map[string]float64{"weight": math.NaN()})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "cannot encode response")
}

func TestNoStoreConfigured(t *testing.T) {
	h := NewHandler(testConfig(), nil, nil, nil, nil)
	router := NewRouter(h, Options{})

	for _, path := range []string{"/api/v1/submissions", "/api/v1/consensus"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code, path)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/questionnaire", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"Access"`)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	rr := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rr.Body.String())

	s.do(t, http.MethodPost, "/api/v1/weights", `{"items": ["A", "B"]}`)
	rr = s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `ahp_http_requests_total{method="POST",route="/api/v1/weights",status="200"} 1`)

	metricsOnly := NewMetricsRouter(NewMetrics())
	rr = httptest.NewRecorder()
	metricsOnly.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}
