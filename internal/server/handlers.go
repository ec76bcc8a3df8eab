package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rpgo/networth-projector/internal/calculation"
	"github.com/rpgo/networth-projector/internal/config"
	"github.com/rpgo/networth-projector/internal/domain"
	"github.com/rpgo/networth-projector/internal/output"
)

// MonteCarloRequest is the body of POST /api/montecarlo
type MonteCarloRequest struct {
	Plan           *domain.Plan `json:"plan"`
	NumSimulations int          `json:"num_simulations"`
	VolatilityPct  float64      `json:"volatility_pct"`
	Mode           string       `json:"mode"`
	Seed           int64        `json:"seed"`
}

type jurisdictionView struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleJurisdictions(w http.ResponseWriter, r *http.Request) {
	all := s.engine.TaxCalc.Jurisdictions()
	out := make([]jurisdictionView, 0, len(all))
	for _, j := range all {
		out = append(out, jurisdictionView{Code: j.Code, Name: j.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"formats": output.AvailableFormatterNames(),
		"aliases": output.AvailableFormatAliases(),
	})
}

// handleProjection runs one deterministic projection. Identical plans are
// served from the cache. ?format= renders through an output formatter.
func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := loggerFrom(ctx)

	var plan domain.Plan
	if err := decodeBody(w, r, &plan); err != nil {
		sendJSONError(ctx, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.parser.ValidatePlan(&plan); err != nil {
		sendJSONError(ctx, w, err.Error(), http.StatusBadRequest)
		return
	}

	key, err := cacheKey("projection", &plan)
	if err != nil {
		sendJSONError(ctx, w, "failed to hash plan", http.StatusInternalServerError)
		return
	}
	var result *domain.CalculationResult
	if cached, ok := s.cache.Get(key); ok {
		result = cached.(*domain.CalculationResult)
		w.Header().Set("X-Cache", "HIT")
	} else {
		result, err = s.engine.RunProjection(ctx, &plan, nil)
		if err != nil {
			s.runFailed(ctx, w, err)
			return
		}
		s.cache.Set(key, result, s.cfg.CacheTTL)
		w.Header().Set("X-Cache", "MISS")
		log.Info("projection computed", "plan", plan.Name, "years", len(result.Years))
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		writeJSON(w, http.StatusOK, result)
		return
	}
	s.writeFormatted(ctx, w, format, &output.Report{Plan: &plan, Result: result})
}

// handleMonteCarlo runs a Monte Carlo batch. Seeded requests are deterministic
// and are cached like projections.
func (s *Server) handleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := loggerFrom(ctx)

	var req MonteCarloRequest
	if err := decodeBody(w, r, &req); err != nil {
		sendJSONError(ctx, w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Plan == nil {
		sendJSONError(ctx, w, "plan is required", http.StatusBadRequest)
		return
	}
	if err := s.parser.ValidatePlan(req.Plan); err != nil {
		sendJSONError(ctx, w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.NumSimulations == 0 {
		req.NumSimulations = defaultSimulations
	}
	if s.cfg.MaxSimulations > 0 && req.NumSimulations > s.cfg.MaxSimulations {
		sendJSONError(ctx, w, fmt.Sprintf("num_simulations %d exceeds the limit of %d", req.NumSimulations, s.cfg.MaxSimulations), http.StatusBadRequest)
		return
	}

	key := ""
	if req.Seed != 0 {
		var err error
		if key, err = cacheKey("montecarlo", req); err != nil {
			sendJSONError(ctx, w, "failed to hash request", http.StatusInternalServerError)
			return
		}
		if cached, ok := s.cache.Get(key); ok {
			w.Header().Set("X-Cache", "HIT")
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	summary, err := s.mc.RunMonteCarlo(ctx, req.Plan, calculation.MonteCarloConfig{
		NumSimulations: req.NumSimulations,
		VolatilityPct:  req.VolatilityPct,
		Mode:           calculation.MonteCarloMode(req.Mode),
		Seed:           req.Seed,
		Workers:        s.cfg.Workers,
	})
	if err != nil {
		s.runFailed(ctx, w, err)
		return
	}
	if summary.Cancelled {
		log.Warn("monte carlo cancelled by client", "runID", summary.RunID, "completed", summary.Completed)
	}
	if key != "" && !summary.Cancelled {
		s.cache.Set(key, summary, s.cfg.CacheTTL)
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) writeFormatted(ctx context.Context, w http.ResponseWriter, format string, report *output.Report) {
	f, err := output.Lookup(format)
	if err != nil {
		sendJSONError(ctx, w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := f.Format(report)
	if err != nil {
		sendJSONError(ctx, w, err.Error(), http.StatusBadRequest)
		return
	}
	switch f.Extension() {
	case "json":
		w.Header().Set("Content-Type", "application/json")
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) runFailed(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calculation.ErrInvalidMonteCarloConfig):
		sendJSONError(ctx, w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		sendJSONError(ctx, w, "request cancelled", http.StatusServiceUnavailable)
	default:
		loggerFrom(ctx).Error("run failed", "error", err)
		sendJSONError(ctx, w, "internal error", http.StatusInternalServerError)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %w", config.ErrInvalidPlan, err)
	}
	return nil
}

// cacheKey hashes the JSON encoding of v
func cacheKey(prefix string, v any) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return "", err
	}
	sum := sha256.Sum256(buf.Bytes())
	return prefix + ":" + hex.EncodeToString(sum[:]), nil
}

func sendJSONError(ctx context.Context, w http.ResponseWriter, message string, statusCode int) {
	loggerFrom(ctx).Warn("sending JSON error to client", "message", message, "statusCode", statusCode)
	writeJSON(w, statusCode, map[string]string{"error": message, "request_id": RequestID(ctx)})
}
