package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/worldpop/internal/report"
	"github.com/leapstack-labs/worldpop/pkg/core"
)

// errNotFound marks a single-instance lookup that matched nothing.
var errNotFound = errors.New("not found")

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	req, err := parseRank(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rows, err := s.svc.TopCountries(r.Context(), req)
	s.respond(w, r, rows, err)
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	req, err := parseRank(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rows, err := s.svc.TopCities(r.Context(), req)
	s.respond(w, r, rows, err)
}

func (s *Server) handleCapitals(w http.ResponseWriter, r *http.Request) {
	req, err := parseRank(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rows, err := s.svc.TopCapitals(r.Context(), req)
	s.respond(w, r, rows, err)
}

func (s *Server) handleBreakdowns(w http.ResponseWriter, r *http.Request) {
	scope, err := core.ParseScope(chi.URLParam(r, "scope"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		rows, err := s.svc.Breakdown(r.Context(), scope, "")
		s.respond(w, r, rows, err)
		return
	}

	b, found, err := s.svc.BreakdownOne(r.Context(), scope, name)
	if err == nil && !found {
		err = fmt.Errorf("no %s named %q: %w", scope, name, errNotFound)
	}
	s.respond(w, r, b, err)
}

func (s *Server) handlePopulation(w http.ResponseWriter, r *http.Request) {
	scope, err := core.ParseScope(chi.URLParam(r, "scope"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	name := r.URL.Query().Get("name")
	pop, found, err := s.svc.Population(r.Context(), scope, name)
	if err == nil && !found {
		err = fmt.Errorf("no %s named %q: %w", scope, name, errNotFound)
	}
	s.respond(w, r, report.PopulationResult{Scope: scope, Name: name, Population: pop}, err)
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.LanguageStatistics(r.Context())
	s.respond(w, r, rows, err)
}

// reportSection is one titled report of /api/report.
type reportSection struct {
	Title string `json:"title"`
	Data  any    `json:"data"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	reports, err := report.Collect(r.Context(), s.svc, s.Defaults())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]reportSection, len(reports))
	for i, rep := range reports {
		out[i] = reportSection{Title: rep.Title, Data: rep.Data}
	}
	writeJSON(w, http.StatusOK, out)
}

// parseRank reads scope, value and limit query parameters.
// The scope defaults to the world; an absent limit means no limit.
func parseRank(r *http.Request) (core.RankRequest, error) {
	q := r.URL.Query()
	req := core.RankRequest{Scope: core.ScopeWorld, Value: q.Get("value")}

	if raw := q.Get("scope"); raw != "" {
		scope, err := core.ParseScope(raw)
		if err != nil {
			return req, err
		}
		req.Scope = scope
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, &core.ArgumentError{Field: "limit", Reason: fmt.Sprintf("%q is not a number", raw)}
		}
		req.Limit = core.Limit(n)
	}
	return req, nil
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// errorResponse is the JSON body of every error.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// writeError maps err to a status code. Data access failures are reported
// as a bad gateway without detail; the cause is already logged by the engine.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status == http.StatusServiceUnavailable {
		s.logger.DebugContext(r.Context(), "request abandoned",
			slog.String("request_id", GetRequestID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	} else if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			slog.String("request_id", GetRequestID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	writeJSON(w, status, body)
}

func statusFor(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, core.ErrInvalidArgument):
		return http.StatusBadRequest, errorResponse{Error: "invalid_argument", ErrorDescription: err.Error()}
	case errors.Is(err, errNotFound):
		return http.StatusNotFound, errorResponse{Error: "not_found", ErrorDescription: err.Error()}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, errorResponse{Error: "unavailable"}
	case errors.Is(err, core.ErrDataAccess):
		return http.StatusBadGateway, errorResponse{Error: "data_access_failure"}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal_error"}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
