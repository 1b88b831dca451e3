// Package server exposes boolean and ranked retrieval over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/analytics"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/index"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/search"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/search/cache"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/internal/store"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/config"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/logger"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/metrics"
	"github.com/Karthik-S-Raman/Inverted-Index-Query-Service/pkg/middleware"
)

// SearchResponse is the wire form of a served query: the ordered document
// ids (ascending for boolean, rank order for ranked) and the per-document
// view, truncated to the requested limit.
type SearchResponse struct {
	Query     string                         `json:"query"`
	Mode      string                         `json:"mode"`
	TotalHits int                            `json:"total_hits"`
	DocIDs    []int                          `json:"doc_ids"`
	Documents map[int]*search.DocumentResult `json:"documents"`
}

// Handler serves the search API.
type Handler struct {
	idx       index.Index
	metadata  store.MetadataStore
	cache     *cache.QueryCache
	collector *analytics.Collector
	cfg       config.SearchConfig
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// New creates a Handler. cache, metadata, collector, and m may be nil;
// the corresponding features are then disabled.
func New(
	idx index.Index,
	metadata store.MetadataStore,
	queryCache *cache.QueryCache,
	collector *analytics.Collector,
	m *metrics.Metrics,
	cfg config.SearchConfig,
) *Handler {
	return &Handler{
		idx:       idx,
		metadata:  metadata,
		cache:     queryCache,
		collector: collector,
		cfg:       cfg,
		logger:    slog.Default().With("component", "search-handler"),
		metrics:   m,
	}
}

// Search handles GET /api/v1/search?q=&mode=&limit=&enrich=.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = string(analytics.ModeBoolean)
	}
	if mode != string(analytics.ModeBoolean) && mode != string(analytics.ModeRanked) {
		h.writeError(w, http.StatusBadRequest, "mode must be 'boolean' or 'ranked'")
		return
	}
	limit := h.cfg.DefaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if parsed > h.cfg.MaxResults {
			parsed = h.cfg.MaxResults
		}
		limit = parsed
	}
	enrich := r.URL.Query().Get("enrich") == "true"

	compute := func() (*search.Result, error) {
		if mode == string(analytics.ModeRanked) {
			return search.NewRanker(h.idx, h.cfg.K1, h.cfg.B).Rank(query), nil
		}
		return search.NewEvaluator(h.idx).Evaluate(query)
	}

	var result *search.Result
	var err error
	cacheHit := false
	// Enrichment mutates the result in place, so enriched requests always
	// evaluate a private copy instead of sharing a cached one.
	if h.cache != nil && !enrich {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, mode, query, compute)
	} else {
		result, err = compute()
	}
	if err != nil {
		var syntaxErr *search.SyntaxError
		if errors.As(err, &syntaxErr) {
			if h.metrics != nil {
				h.metrics.ParseErrorsTotal.Inc()
				h.metrics.QueriesTotal.WithLabelValues(mode, "syntax_error").Inc()
			}
			h.trackEvent(ctx, mode, query, nil, 0, true, false, start)
			h.writeError(w, http.StatusBadRequest, syntaxErr.Error())
			return
		}
		log.Error("query evaluation failed", "query", query, "mode", mode, "error", err)
		if h.metrics != nil {
			h.metrics.QueriesTotal.WithLabelValues(mode, "error").Inc()
		}
		h.writeError(w, http.StatusInternalServerError, "query evaluation failed")
		return
	}

	allIDs := result.DocIDs()
	ids := allIDs
	if len(ids) > limit {
		ids = ids[:limit]
	}
	if enrich && h.metadata != nil {
		if err := result.Enrich(ctx, h.metadata, ids...); err != nil {
			// Metadata is best-effort decoration; the match set is still
			// valid without it.
			log.Error("result enrichment failed", "query", query, "error", err)
		}
	}
	docs := make(map[int]*search.DocumentResult, len(ids))
	for _, id := range ids {
		docs[id] = result.Documents[id]
	}
	resp := &SearchResponse{
		Query:     query,
		Mode:      mode,
		TotalHits: len(allIDs),
		DocIDs:    ids,
		Documents: docs,
	}

	if h.metrics != nil {
		h.metrics.QueriesTotal.WithLabelValues(mode, "ok").Inc()
		h.metrics.QueryLatency.WithLabelValues(mode).Observe(time.Since(start).Seconds())
		h.metrics.QueryResultsCount.Observe(float64(len(ids)))
		if h.cache != nil && !enrich {
			if cacheHit {
				h.metrics.CacheHitsTotal.Inc()
			} else {
				h.metrics.CacheMissesTotal.Inc()
			}
		}
	}
	log.Info("query served",
		"query", query,
		"mode", mode,
		"total_hits", resp.TotalHits,
		"returned", len(ids),
		"cache_hit", cacheHit,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	h.trackEvent(ctx, mode, query, result, resp.TotalHits, false, cacheHit, start)
	h.writeJSON(w, http.StatusOK, resp)
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) trackEvent(
	ctx context.Context,
	mode, query string,
	result *search.Result,
	totalHits int,
	syntaxError, cacheHit bool,
	start time.Time,
) {
	if h.collector == nil {
		return
	}
	event := analytics.QueryEvent{
		Mode:        analytics.Mode(mode),
		Query:       query,
		TotalHits:   totalHits,
		SyntaxError: syntaxError,
		CacheHit:    cacheHit,
		LatencyMs:   time.Since(start).Milliseconds(),
		Timestamp:   time.Now().UTC(),
		RequestID:   middleware.GetRequestID(ctx),
	}
	if result != nil {
		event.Terms = result.TermOrder
		event.Returned = len(result.DocIDs())
	}
	h.collector.Track(event)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
