// Package web exposes the retrieval pipeline over HTTP: a search endpoint
// returning JSON results, a CSV download endpoint, and stored search history.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/pubmed-cli/internal/export"
	"github.com/sells-group/pubmed-cli/internal/model"
	"github.com/sells-group/pubmed-cli/internal/pipeline"
	"github.com/sells-group/pubmed-cli/internal/store"
)

// Server holds the handlers' collaborators. History is optional; a nil store
// disables the history endpoint.
type Server struct {
	pipeline   *pipeline.Pipeline
	history    *store.Store
	maxResults int
}

// NewServer creates a Server. maxResults caps per-request result counts.
func NewServer(p *pipeline.Pipeline, history *store.Store, maxResults int) *Server {
	return &Server{
		pipeline:   p,
		history:    history,
		maxResults: maxResults,
	}
}

// Router builds the chi router with CORS and request logging.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/api/search", s.handleSearch)
	r.Post("/api/download", s.handleDownload)
	r.Get("/api/history", s.handleHistory)

	return r
}

type searchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Query      string         `json:"query"`
	TotalFound int            `json:"total_found"`
	Results    []model.Record `json:"results"`
	Timestamp  time.Time      `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeSearchRequest validates the shared request shape of search and
// download.
func (s *Server) decodeSearchRequest(r *http.Request) (searchRequest, bool) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, false
	}
	if req.Query == "" {
		return req, false
	}
	if req.MaxResults <= 0 || req.MaxResults > s.maxResults {
		req.MaxResults = s.maxResults
	}
	return req, true
}

func (s *Server) runQuery(ctx context.Context, req searchRequest) ([]model.Paper, error) {
	papers, err := s.pipeline.FetchAndClassify(ctx, req.Query, req.MaxResults)
	if err != nil {
		return nil, err
	}
	if s.history != nil {
		if _, err := s.history.SaveSearch(ctx, req.Query, req.MaxResults, papers); err != nil {
			zap.L().Warn("history save failed", zap.Error(err))
		}
	}
	return papers, nil
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchRequest(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	papers, err := s.runQuery(r.Context(), req)
	if err != nil {
		zap.L().Error("search failed", zap.String("query", req.Query), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "retrieval failed"})
		return
	}

	results := make([]model.Record, 0, len(papers))
	for _, p := range papers {
		results = append(results, p.Record())
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Query:      req.Query,
		TotalFound: len(results),
		Results:    results,
		Timestamp:  time.Now().UTC(),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeSearchRequest(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}

	papers, err := s.runQuery(r.Context(), req)
	if err != nil {
		zap.L().Error("download failed", zap.String("query", req.Query), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "retrieval failed"})
		return
	}

	csv, err := export.CSVBytes(papers)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "export failed"})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="papers.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(csv)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "history disabled"})
		return
	}
	searches, err := s.history.RecentSearches(r.Context(), 50)
	if err != nil {
		zap.L().Error("history query failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
		return
	}
	if searches == nil {
		searches = []store.Search{}
	}
	writeJSON(w, http.StatusOK, searches)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
