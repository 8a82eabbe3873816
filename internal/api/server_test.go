package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/steamvent/pkg/cache"
	errs "github.com/matzehuels/steamvent/pkg/errors"
	"github.com/matzehuels/steamvent/pkg/network"
	"github.com/matzehuels/steamvent/pkg/observability/prom"
	"github.com/matzehuels/steamvent/pkg/pipeline"
)

const exampleText = `Valve AA has flow rate=0; tunnels lead to valves DD, II, BB
Valve BB has flow rate=13; tunnels lead to valves CC, AA
Valve CC has flow rate=2; tunnels lead to valves DD, BB
Valve DD has flow rate=20; tunnels lead to valves CC, AA, EE
Valve EE has flow rate=3; tunnels lead to valves FF, DD
Valve FF has flow rate=0; tunnels lead to valves EE, GG
Valve GG has flow rate=0; tunnels lead to valves FF, HH
Valve HH has flow rate=22; tunnel leads to valve GG
Valve II has flow rate=0; tunnels lead to valves AA, JJ
Valve JJ has flow rate=21; tunnel leads to valve II
`

const smallValves = `[
	{"id": "AA", "flow_rate": 0, "tunnels": ["BB"]},
	{"id": "BB", "flow_rate": 13, "tunnels": ["AA", "CC"]},
	{"id": "CC", "flow_rate": 2, "tunnels": ["BB"]}
]`

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := log.New(io.Discard)
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	return NewHandler(&Server{
		Runner:   pipeline.NewRunner(c, nil, logger),
		Logger:   logger,
		Gatherer: prometheus.NewRegistry(),
	})
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload string
	switch b := body.(type) {
	case string:
		payload = b
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		payload = string(data)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}

func TestSolveText(t *testing.T) {
	h := newTestHandler(t)

	rr := post(t, h, "/v1/solve", map[string]any{"text": exampleText})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res pipeline.Result
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, 1651, res.Pressure)
	assert.Equal(t, "AA", res.Origin)
	assert.Equal(t, pipeline.DefaultBudget, res.Budget)
	assert.Equal(t, []string{"DD", "BB", "JJ", "HH", "EE", "CC"}, res.Plans[0].Valves())
	assert.Len(t, res.Plans, pipeline.DefaultTopK)
	assert.NotEmpty(t, res.RunID)
	assert.False(t, res.CacheInfo.ResultHit)
}

func TestSolveValves(t *testing.T) {
	h := newTestHandler(t)

	body := `{"valves": ` + smallValves + `, "budget": 30, "top_k": 2}`
	rr := post(t, h, "/v1/solve", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res pipeline.Result
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, 416, res.Pressure)
	require.Len(t, res.Plans, 2)
	assert.Equal(t, 379, res.Plans[1].Pressure)
}

func TestSolveTimeout(t *testing.T) {
	logger := log.New(io.Discard)
	h := NewHandler(&Server{
		Runner:   pipeline.NewRunner(nil, nil, logger),
		Logger:   logger,
		Gatherer: prometheus.NewRegistry(),
		Timeout:  20 * time.Millisecond,
	})

	// Ten valves one minute apart can all be opened within the budget:
	// 10! plans, far more than fit in the timeout.
	var valves []network.Valve
	for i := range 11 {
		v := network.Valve{ID: fmt.Sprintf("V%02d", i), FlowRate: i}
		for j := range 11 {
			if j != i {
				v.Tunnels = append(v.Tunnels, fmt.Sprintf("V%02d", j))
			}
		}
		valves = append(valves, v)
	}

	start := time.Now()
	rr := post(t, h, "/v1/solve", map[string]any{"valves": valves, "origin": "V00", "budget": 60})
	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestSolveZeroBudget(t *testing.T) {
	h := newTestHandler(t)

	rr := post(t, h, "/v1/solve", `{"valves": `+smallValves+`, "budget": 0}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res pipeline.Result
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, 0, res.Budget)
	assert.Equal(t, 0, res.Pressure)
	assert.Empty(t, res.Route)
}

func TestSolveCached(t *testing.T) {
	h := newTestHandler(t)

	first := post(t, h, "/v1/solve", map[string]any{"text": exampleText})
	require.Equal(t, http.StatusOK, first.Code)

	second := post(t, h, "/v1/solve", map[string]any{"text": exampleText})
	require.Equal(t, http.StatusOK, second.Code)

	var res pipeline.Result
	require.NoError(t, json.NewDecoder(second.Body).Decode(&res))
	assert.True(t, res.CacheInfo.DistanceHit)
	assert.True(t, res.CacheInfo.ResultHit)
	assert.Equal(t, 1651, res.Pressure)
}

func TestSolveErrors(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   errs.Code
	}{
		{
			name:   "MalformedJSON",
			body:   `{"valves": [`,
			status: http.StatusBadRequest,
			code:   errs.ErrCodeInvalidInput,
		},
		{
			name:   "UnknownField",
			body:   `{"valves": ` + smallValves + `, "minutes": 30}`,
			status: http.StatusBadRequest,
			code:   errs.ErrCodeInvalidInput,
		},
		{
			name:   "NoNetwork",
			body:   `{"budget": 30}`,
			status: http.StatusBadRequest,
			code:   errs.ErrCodeInvalidInput,
		},
		{
			name:   "BothForms",
			body:   `{"valves": ` + smallValves + `, "text": "Valve AA has flow rate=0; tunnel leads to valve AA"}`,
			status: http.StatusBadRequest,
			code:   errs.ErrCodeInvalidInput,
		},
		{
			name:   "MalformedText",
			body:   `{"text": "Valve AA has no flow"}`,
			status: http.StatusBadRequest,
			code:   errs.ErrCodeInvalidFormat,
		},
		{
			name:   "UnknownTunnel",
			body:   `{"valves": [{"id": "AA", "flow_rate": 0, "tunnels": ["ZZ"]}]}`,
			status: http.StatusBadRequest,
			code:   errs.ErrCodeInvalidNetwork,
		},
		{
			name:   "BadValveID",
			body:   `{"valves": [{"id": "A-A", "flow_rate": 0, "tunnels": []}]}`,
			status: http.StatusBadRequest,
			code:   errs.ErrCodeInvalidValveID,
		},
		{
			name:   "NegativeBudget",
			body:   `{"valves": ` + smallValves + `, "budget": -1}`,
			status: http.StatusBadRequest,
			code:   errs.ErrCodeInvalidBudget,
		},
		{
			name:   "UnknownOrigin",
			body:   `{"valves": ` + smallValves + `, "origin": "ZZ"}`,
			status: http.StatusNotFound,
			code:   errs.ErrCodeUnknownValve,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, h, "/v1/solve", tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			resp := decodeError(t, rr)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestSolveWrongContentType(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/solve", strings.NewReader(exampleText))
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

func TestSolveMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/solve", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestDistances(t *testing.T) {
	h := newTestHandler(t)

	rr := post(t, h, "/v1/distances", `{"valves": `+smallValves+`}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp distancesResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.NotEmpty(t, resp.NetworkHash)
	assert.False(t, resp.Cached)
	assert.Equal(t, map[string]int{"BB": 1, "CC": 2}, resp.Distances["AA"])
	assert.Equal(t, map[string]int{"BB": 0, "CC": 1}, resp.Distances["BB"])

	again := post(t, h, "/v1/distances", `{"valves": `+smallValves+`}`)
	require.Equal(t, http.StatusOK, again.Code)
	require.NoError(t, json.NewDecoder(again.Body).Decode(&resp))
	assert.True(t, resp.Cached)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := prom.New(reg)
	require.NoError(t, err)

	h := NewHandler(&Server{
		Runner:   pipeline.NewRunner(nil, nil, log.New(io.Discard)),
		Logger:   log.New(io.Discard),
		Gatherer: reg,
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "steamvent_distance_duration_seconds")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errs.Code
		want int
	}{
		{errs.ErrCodeInvalidBudget, http.StatusBadRequest},
		{errs.ErrCodeInvalidFormat, http.StatusBadRequest},
		{errs.ErrCodeUnknownValve, http.StatusNotFound},
		{errs.ErrCodeTooLarge, http.StatusUnprocessableEntity},
		{errs.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.code))
		})
	}
}
