package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"findalleasy/internal/aggregate"
	"findalleasy/internal/catalog"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "findalleasy-ai-engine-v1"

type searcher interface {
	Search(ctx context.Context, req aggregate.Request) (aggregate.Response, error)
}

type server struct {
	search searcher
	logger *slog.Logger
	now    func() time.Time
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Time    string `json:"time"`
	Service string `json:"service"`
}

type trendsResponse struct {
	Region string   `json:"region"`
	Trends []string `json:"trends"`
	Time   string   `json:"time"`
}

type recommendationsResponse struct {
	User  string         `json:"user"`
	Items []catalog.Item `json:"items"`
	Time  string         `json:"time"`
}

type pingResponse struct {
	Status string `json:"status"`
}

func (s *server) timestamp() string { return aggregate.Timestamp(s.now()) }

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Time: s.timestamp(), Service: ServiceName})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := s.search.Search(r.Context(), aggregate.Request{
		Query:    q.Get("q"),
		Region:   q.Get("region"),
		Language: q.Get("lang"),
	})
	if errors.Is(err, aggregate.ErrEmptyQuery) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		s.logger.ErrorContext(r.Context(), "search failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleTrends(w http.ResponseWriter, r *http.Request) {
	region := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("region")))
	if region == "" {
		region = catalog.DefaultRegion
	}
	writeJSON(w, http.StatusOK, trendsResponse{Region: region, Trends: catalog.Trends(region), Time: s.timestamp()})
}

func (s *server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		user = "guest"
	}
	writeJSON(w, http.StatusOK, recommendationsResponse{
		User:  user,
		Items: catalog.Recommendations(r.URL.Query().Get("last")),
		Time:  s.timestamp(),
	})
}

func (s *server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pingResponse{Status: "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
