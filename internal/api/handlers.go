package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/relocate-cli/internal/export"
	"github.com/sells-group/relocate-cli/internal/model"
	"github.com/sells-group/relocate-cli/internal/pipeline"
	"github.com/sells-group/relocate-cli/internal/store"
)

// defaultMapTop is how many locations the map endpoint returns by default.
const defaultMapTop = 10

type healthResponse struct {
	Status    string `json:"status"`
	Locations int    `json:"locations"`
	Store     bool   `json:"store"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Locations: len(s.table.All()),
		Store:     s.store != nil,
	})
}

func (s *Server) listLocations(w http.ResponseWriter, r *http.Request) {
	region := strings.TrimSpace(r.URL.Query().Get("region"))
	out := make([]*model.Location, 0, len(s.table.All()))
	for _, loc := range s.table.All() {
		if region != "" && !strings.EqualFold(loc.Region, region) {
			continue
		}
		out = append(out, loc)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getLocation(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	loc, ok := s.table.BySlug(slug)
	if !ok {
		writeError(w, http.StatusNotFound, "location "+slug+" not found")
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

type simulationResponse struct {
	RunID       string                   `json:"run_id,omitempty"`
	ProfileHash string                   `json:"profile_hash"`
	Locale      string                   `json:"locale"`
	Source      string                   `json:"source"`
	CreatedAt   *time.Time               `json:"created_at,omitempty"`
	Results     []model.SimulationResult `json:"results"`
}

func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var h model.Household
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&h); err != nil {
		writeError(w, http.StatusBadRequest, "invalid household: "+err.Error())
		return
	}

	res, err := s.pipeline.Run(r.Context(), pipeline.Request{
		Household: h,
		Save:      s.store != nil,
		Limit:     limit,
	})
	if pipeline.IsInvalidRequest(err) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		zap.L().Error("api: simulate", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "simulation failed")
		return
	}

	resp := simulationResponse{
		RunID:       res.Run.ID,
		ProfileHash: res.Run.ProfileHash,
		Locale:      res.Run.Locale,
		Source:      res.Source,
		Results:     res.Top,
	}
	if res.Saved {
		resp.CreatedAt = &res.Run.CreatedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getSimulation(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) simulationMap(w http.ResponseWriter, r *http.Request) {
	top, err := intParam(r, "top", defaultMapTop)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	if err := export.GeoJSON(w, pipeline.Truncate(run.Results, top)); err != nil {
		zap.L().Warn("api: write map", zap.String("run_id", run.ID), zap.Error(err))
	}
}

// loadRun fetches the run named in the URL, writing an error response when
// it cannot.
func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*model.Run, bool) {
	id := chi.URLParam(r, "id")
	if s.store == nil {
		writeError(w, http.StatusNotFound, "run storage is disabled")
		return nil, false
	}
	run, err := s.store.GetRun(r.Context(), id)
	if eris.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run "+id+" not found")
		return nil, false
	}
	if err != nil {
		zap.L().Error("api: get run", zap.String("run_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load run")
		return nil, false
	}
	return run, true
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, eris.Errorf("%s must be a non-negative integer", name)
	}
	return n, nil
}
