package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/networth-projector/internal/config"
	"github.com/rpgo/networth-projector/internal/domain"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Port:           "0",
		LogLevel:       "error",
		MaxSimulations: 100,
		Workers:        2,
		CacheTTL:       time.Minute,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
}

func newTestServer(t *testing.T, cfg *config.AppConfig) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(New(cfg, logger, nil).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func examplePlan() *domain.Plan {
	return config.NewInputParser().CreateExamplePlan()
}

func postJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["error"]
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, testConfig())
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	ts := newTestServer(t, testConfig())
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestJurisdictions(t *testing.T) {
	ts := newTestServer(t, testConfig())
	resp, err := http.Get(ts.URL + "/api/jurisdictions")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out []jurisdictionView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	codes := make([]string, 0, len(out))
	for _, j := range out {
		codes = append(codes, j.Code)
	}
	assert.Contains(t, codes, "PA")
	assert.IsIncreasing(t, codes)
}

func TestFormats(t *testing.T) {
	ts := newTestServer(t, testConfig())
	resp, err := http.Get(ts.URL + "/api/formats")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out["formats"], "csv")
	assert.Contains(t, out["aliases"], "mc-csv")
}

func TestProjection_CachesIdenticalPlans(t *testing.T) {
	ts := newTestServer(t, testConfig())
	plan := examplePlan()

	first := postJSON(t, ts.URL+"/api/projections", plan)
	require.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "MISS", first.Header.Get("X-Cache"))

	var result domain.CalculationResult
	require.NoError(t, json.NewDecoder(first.Body).Decode(&result))
	assert.Len(t, result.Years, plan.HorizonYears()+1)
	assert.Equal(t, plan.Name, result.PlanName)

	second := postJSON(t, ts.URL+"/api/projections", plan)
	require.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, "HIT", second.Header.Get("X-Cache"))

	var cached domain.CalculationResult
	require.NoError(t, json.NewDecoder(second.Body).Decode(&cached))
	assert.True(t, result.FinalNetWorth.Equal(cached.FinalNetWorth))
}

func TestProjection_Formatted(t *testing.T) {
	ts := newTestServer(t, testConfig())

	resp := postJSON(t, ts.URL+"/api/projections?format=csv-yearly", examplePlan())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Year,CalendarYear,"))

	bad := postJSON(t, ts.URL+"/api/projections?format=pdf", examplePlan())
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
	assert.Contains(t, decodeError(t, bad), "unsupported report format")
}

func TestProjection_RejectsInvalidInput(t *testing.T) {
	ts := newTestServer(t, testConfig())

	invalid := examplePlan()
	invalid.PlanType = "triple"
	resp := postJSON(t, ts.URL+"/api/projections", invalid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, resp), "invalid plan")

	malformed, err := http.Post(ts.URL+"/api/projections", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer malformed.Body.Close()
	assert.Equal(t, http.StatusBadRequest, malformed.StatusCode)

	unknown, err := http.Post(ts.URL+"/api/projections", "application/json", strings.NewReader(`{"name":"x","surprise":true}`))
	require.NoError(t, err)
	defer unknown.Body.Close()
	assert.Equal(t, http.StatusBadRequest, unknown.StatusCode)
}

func TestMonteCarlo_SeededRunsAreCached(t *testing.T) {
	ts := newTestServer(t, testConfig())
	req := MonteCarloRequest{Plan: examplePlan(), NumSimulations: 20, Seed: 7}

	first := postJSON(t, ts.URL+"/api/montecarlo", req)
	require.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "MISS", first.Header.Get("X-Cache"))
	var a domain.MonteCarloSummary
	require.NoError(t, json.NewDecoder(first.Body).Decode(&a))
	assert.Equal(t, 20, a.NumSimulations)
	assert.Equal(t, 20, a.Completed+a.FailedTrials)
	assert.Equal(t, "scalar", a.Mode)

	second := postJSON(t, ts.URL+"/api/montecarlo", req)
	require.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, "HIT", second.Header.Get("X-Cache"))
	var b domain.MonteCarloSummary
	require.NoError(t, json.NewDecoder(second.Body).Decode(&b))
	assert.Equal(t, a.RunID, b.RunID)
}

func TestMonteCarlo_RejectsBadRequests(t *testing.T) {
	ts := newTestServer(t, testConfig())

	tests := []struct {
		name string
		req  MonteCarloRequest
		want string
	}{
		{"missing plan", MonteCarloRequest{NumSimulations: 10}, "plan is required"},
		{"over limit", MonteCarloRequest{Plan: examplePlan(), NumSimulations: 101}, "exceeds the limit"},
		{"negative count", MonteCarloRequest{Plan: examplePlan(), NumSimulations: -1}, "invalid monte carlo configuration"},
		{"historical without data", MonteCarloRequest{Plan: examplePlan(), NumSimulations: 5, Mode: "historical"}, "historical data not loaded"},
		{"unknown mode", MonteCarloRequest{Plan: examplePlan(), NumSimulations: 5, Mode: "quantum"}, "unknown mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/montecarlo", tt.req)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, decodeError(t, resp), tt.want)
		})
	}
}

func TestMonteCarlo_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 0.001
	cfg.RateLimitBurst = 2
	ts := newTestServer(t, cfg)

	req := MonteCarloRequest{NumSimulations: 1}
	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		statuses = append(statuses, postJSON(t, ts.URL+"/api/montecarlo", req).StatusCode)
	}
	assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, statuses)

	// projections are not rate limited
	resp := postJSON(t, ts.URL+"/api/projections", examplePlan())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, testConfig())
	resp, err := http.Get(ts.URL + "/api/nope")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not found", decodeError(t, resp))
}
