package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/relocate-cli/internal/engine"
	"github.com/sells-group/relocate-cli/internal/model"
	"github.com/sells-group/relocate-cli/internal/pipeline"
	"github.com/sells-group/relocate-cli/internal/refdata"
	"github.com/sells-group/relocate-cli/internal/store"
)

func newTestServer(t *testing.T, withStore bool, opts Options) *httptest.Server {
	t.Helper()
	tbl, err := refdata.Default()
	require.NoError(t, err)

	var st store.Store
	pipeOpts := []pipeline.Option{}
	if withStore {
		sq, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
		require.NoError(t, err)
		require.NoError(t, sq.Migrate(context.Background()))
		t.Cleanup(func() { sq.Close() }) //nolint:errcheck
		st = sq
		pipeOpts = append(pipeOpts, pipeline.WithStore(sq))
	}

	p := pipeline.New(engine.New(tbl), pipeOpts...)
	srv := httptest.NewServer(New(tbl, p, st, opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

const householdJSON = `{
  "work": {"profession": "nurse", "work_location": "goteborg", "current_commute_minutes": 30, "job_change_openness": "yes"},
  "family": {"adults": 2, "children": ["0-2"], "planning_children": "maybe"},
  "housing": {"current_location": "goteborg", "type": "apartment", "monthly_cost": 12500, "size_sqm": 68, "has_car": true},
  "priorities": {"space": 5, "cost": 4, "schools": 4, "nature": 4, "commute": 2, "calm": 3, "culture": 2}
}`

func postSimulation(t *testing.T, srv *httptest.Server, query, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/simulations"+query, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() }) //nolint:errcheck
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() }) //nolint:errcheck
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, false, Options{})
	resp := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	h := decode[healthResponse](t, resp)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 16, h.Locations)
	assert.False(t, h.Store)
}

func TestLocations(t *testing.T) {
	srv := newTestServer(t, false, Options{})

	all := decode[[]model.Location](t, get(t, srv.URL+"/v1/locations"))
	assert.Len(t, all, 16)

	skane := decode[[]model.Location](t, get(t, srv.URL+"/v1/locations?region=sk%C3%A5ne%20l%C3%A4n"))
	require.NotEmpty(t, skane)
	for _, l := range skane {
		assert.Equal(t, "Skåne län", l.Region)
	}

	resp := get(t, srv.URL+"/v1/locations/kiruna")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "kiruna", decode[model.Location](t, resp).Slug)

	resp = get(t, srv.URL+"/v1/locations/atlantis")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSimulate_NoStore(t *testing.T) {
	srv := newTestServer(t, false, Options{})

	resp := postSimulation(t, srv, "?limit=5", householdJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body := decode[simulationResponse](t, resp)
	assert.Empty(t, body.RunID)
	assert.Equal(t, "engine", body.Source)
	assert.Equal(t, "sv", body.Locale)
	assert.Len(t, body.Results, 5)
	assert.Len(t, body.ProfileHash, 64)
	for i := 1; i < len(body.Results); i++ {
		assert.GreaterOrEqual(t, body.Results[i-1].MatchScore, body.Results[i].MatchScore)
	}
	for _, r := range body.Results {
		assert.NotEqual(t, "goteborg", r.Location.Slug)
		assert.NotNil(t, r.Family, "family info for households with children")
	}
}

func TestSimulate_BadInput(t *testing.T) {
	srv := newTestServer(t, false, Options{})

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		want   string
	}{
		{"malformed json", "", "{", http.StatusBadRequest, "invalid household"},
		{"unknown field", "", `{"pets": 3}`, http.StatusBadRequest, "invalid household"},
		{"bad limit", "?limit=-2", householdJSON, http.StatusBadRequest, "limit must be a non-negative integer"},
		{"failed validation", "", strings.Replace(householdJSON, `"adults": 2`, `"adults": 0`, 1), http.StatusUnprocessableEntity, "family.adults"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postSimulation(t, srv, tt.query, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, decode[errorResponse](t, resp).Error, tt.want)
		})
	}
}

func TestSimulate_WithStoreAndMap(t *testing.T) {
	srv := newTestServer(t, true, Options{})

	resp := postSimulation(t, srv, "", householdJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decode[simulationResponse](t, resp)
	require.NotEmpty(t, created.RunID)
	require.NotNil(t, created.CreatedAt)
	assert.Len(t, created.Results, 15)

	resp = get(t, srv.URL+"/v1/simulations/"+created.RunID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	run := decode[model.Run](t, resp)
	assert.Equal(t, created.RunID, run.ID)
	assert.Equal(t, created.Results[0].Location.Slug, run.TopSlug)
	assert.Len(t, run.Results, 15)

	resp = get(t, srv.URL+"/v1/simulations/"+created.RunID+"/map?top=3")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/geo+json", resp.Header.Get("Content-Type"))
	fc := decode[struct {
		Type     string           `json:"type"`
		Features []map[string]any `json:"features"`
	}](t, resp)
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.Len(t, fc.Features, 3)

	resp = get(t, srv.URL+"/v1/simulations/"+created.RunID+"/map?top=x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSimulation_NotFound(t *testing.T) {
	srv := newTestServer(t, true, Options{})
	resp := get(t, srv.URL+"/v1/simulations/does-not-exist")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	noStore := newTestServer(t, false, Options{})
	resp = get(t, noStore.URL+"/v1/simulations/anything")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, decode[errorResponse](t, resp).Error, "disabled")
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, false, Options{RateLimitRPS: 1, RateLimitBurst: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, get(t, srv.URL+"/v1/locations/umea").StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// Health is outside the limited group.
	assert.Equal(t, http.StatusOK, get(t, srv.URL+"/health").StatusCode)
}

func TestIPRateLimiterEvictsIdle(t *testing.T) {
	l := newIPRateLimiter(1, 1, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"))
	assert.Len(t, l.visitors, 2)

	now = now.Add(2 * time.Minute)
	assert.True(t, l.allow("10.0.0.3"))
	assert.Len(t, l.visitors, 1)
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, false, Options{CORSOrigins: []string{"https://flytta.example"}})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/v1/simulations", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://flytta.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	assert.Equal(t, "https://flytta.example", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, false, Options{})
	postSimulation(t, srv, "", householdJSON)

	resp := get(t, srv.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "relocate_simulations_total")
	assert.Contains(t, buf.String(), `route="/v1/simulations"`)
}
