package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/marketlens/marketlens/internal/domain"
	logpkg "github.com/marketlens/marketlens/internal/logger"
	"github.com/marketlens/marketlens/internal/metrics"
	analyticsuc "github.com/marketlens/marketlens/internal/usecase/analytics"
	healthuc "github.com/marketlens/marketlens/internal/usecase/health"
	searchuc "github.com/marketlens/marketlens/internal/usecase/search"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest    = "bad_request"
	codeInvalidParam  = "validation_failed"
	codeEmbedding     = "embedding_provider_error"
	codeMisaligned    = "embedding_misaligned"
	codeInternalError = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// errorResponse is the JSON error body for every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Server exposes the search engine and analytics extractors over HTTP.
type Server struct {
	search        *searchuc.Service
	analytics     *analyticsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	analytics *analyticsuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:    search,
		analytics: analytics,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeInvalidParam),
		sentinelHandler(domain.ErrCatalogNotLoaded, http.StatusServiceUnavailable, codeInternalError),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbedding),
		sentinelHandler(domain.ErrEmbeddingMisaligned, http.StatusInternalServerError, codeMisaligned),
	}
	return s
}

// Register mounts all routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/resolve", s.Resolve)
		r.Post("/search", s.Search)

		r.Route("/analytics", func(r chi.Router) {
			r.Post("/price-stats", s.PriceStats)
			r.Post("/rating-distribution", s.RatingDistribution)
			r.Post("/sold-distribution", s.SoldDistribution)
			r.Post("/category-counts", s.CategoryCounts)
			r.Post("/brand-share", s.BrandShare)
			r.Post("/top-sellers", s.TopSellers)
			r.Post("/top-brands", s.TopBrands)
			r.Post("/seller-diversity", s.SellerDiversity)
			r.Post("/price-range", s.PriceRange)
			r.Post("/roi", s.ROITable)
			r.Post("/report", s.Report)
		})
	})
}

// queryRequest is the shared request body of every analytics endpoint.
type queryRequest struct {
	Query      string      `json:"query"`
	Platforms  []string    `json:"platforms,omitempty"`
	MinReviews int         `json:"min_reviews,omitempty"`
	Hint       domain.Hint `json:"hint,omitempty"`
}

func (q queryRequest) toQuery() analyticsuc.Query {
	return analyticsuc.Query{
		Query:      q.Query,
		Platforms:  q.Platforms,
		MinReviews: q.MinReviews,
		Hint:       q.Hint,
	}
}

type resolveRequest struct {
	Query string      `json:"query"`
	Hint  domain.Hint `json:"hint,omitempty"`
}

type searchRequest struct {
	Query         string      `json:"query"`
	Hint          domain.Hint `json:"hint,omitempty"`
	MinReviews    int         `json:"min_reviews,omitempty"`
	MaxRows       int         `json:"max_rows,omitempty"`
	EnforcePhrase *bool       `json:"enforce_phrase,omitempty"`
}

// Resolve handles POST /api/v1/resolve.
func (s *Server) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.search.Resolve(r.Context(), req.Query, req.Hint)
	if err != nil {
		s.observe("resolve", "error")
		s.handleDomainError(w, r, err)
		return
	}

	s.observe("resolve", "ok")
	writeJSON(w, http.StatusOK, out)
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.MaxRows < 0 {
		writeError(w, http.StatusBadRequest, codeInvalidParam, "max_rows must be non-negative")
		return
	}

	out, err := s.search.Search(r.Context(), searchuc.Params{
		Query:         req.Query,
		Hint:          req.Hint,
		MinReviews:    req.MinReviews,
		MaxRows:       req.MaxRows,
		EnforcePhrase: boolDefault(req.EnforcePhrase, true),
	})
	if err != nil {
		s.observe("search", "error")
		s.handleDomainError(w, r, err)
		return
	}

	if rows, ok := out.Data.([]domain.Row); ok {
		metrics.SearchHitCount.Observe(float64(len(rows)))
	}
	s.observe("search", "ok")
	writeJSON(w, http.StatusOK, out)
}

// PriceStats handles POST /api/v1/analytics/price-stats.
func (s *Server) PriceStats(w http.ResponseWriter, r *http.Request) {
	var req struct {
		queryRequest
		ByPlatform *bool `json:"by_platform,omitempty"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.analytics.PriceStats(r.Context(), analyticsuc.PriceStatsParams{
		Query:      req.toQuery(),
		ByPlatform: boolDefault(req.ByPlatform, true),
	})
	s.respond(w, r, out, err)
}

// RatingDistribution handles POST /api/v1/analytics/rating-distribution.
func (s *Server) RatingDistribution(w http.ResponseWriter, r *http.Request) {
	var req struct {
		queryRequest
		Bins         int   `json:"bins,omitempty"`
		GroupByBrand *bool `json:"group_by_brand,omitempty"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Bins < 0 {
		writeError(w, http.StatusBadRequest, codeInvalidParam, "bins must be non-negative")
		return
	}

	out, err := s.analytics.RatingDistribution(r.Context(), analyticsuc.RatingDistributionParams{
		Query:        req.toQuery(),
		Bins:         req.Bins,
		GroupByBrand: boolDefault(req.GroupByBrand, true),
	})
	s.respond(w, r, out, err)
}

// SoldDistribution handles POST /api/v1/analytics/sold-distribution.
func (s *Server) SoldDistribution(w http.ResponseWriter, r *http.Request) {
	var req struct {
		queryRequest
		BinEdges []float64 `json:"bin_edges,omitempty"`
		BinCount int       `json:"bin_count,omitempty"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.BinCount < 0 {
		writeError(w, http.StatusBadRequest, codeInvalidParam, "bin_count must be non-negative")
		return
	}
	if len(req.BinEdges) == 1 {
		writeError(w, http.StatusBadRequest, codeInvalidParam, "bin_edges needs at least two edges")
		return
	}

	out, err := s.analytics.SoldDistribution(r.Context(), analyticsuc.SoldDistributionParams{
		Query:    req.toQuery(),
		BinEdges: req.BinEdges,
		BinCount: req.BinCount,
	})
	s.respond(w, r, out, err)
}

// CategoryCounts handles POST /api/v1/analytics/category-counts.
func (s *Server) CategoryCounts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		queryRequest
		Field string `json:"field,omitempty"`
		TopK  int    `json:"top_k,omitempty"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.analytics.CategoryCounts(r.Context(), analyticsuc.CategoryCountsParams{
		Query: req.toQuery(),
		Field: req.Field,
		TopK:  req.TopK,
	})
	s.respond(w, r, out, err)
}

// BrandShare handles POST /api/v1/analytics/brand-share.
func (s *Server) BrandShare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		queryRequest
		Metric    string `json:"metric,omitempty"`
		Normalize *bool  `json:"normalize,omitempty"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.analytics.BrandShare(r.Context(), analyticsuc.BrandShareParams{
		Query:     req.toQuery(),
		Metric:    req.Metric,
		Normalize: boolDefault(req.Normalize, true),
	})
	s.respond(w, r, out, err)
}

// TopSellers handles POST /api/v1/analytics/top-sellers.
func (s *Server) TopSellers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		queryRequest
		By   string `json:"by,omitempty"`
		TopK int    `json:"top_k,omitempty"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.analytics.TopSellers(r.Context(), analyticsuc.TopSellersParams{
		Query: req.toQuery(),
		By:    req.By,
		TopK:  req.TopK,
	})
	s.respond(w, r, out, err)
}

// TopBrands handles POST /api/v1/analytics/top-brands.
func (s *Server) TopBrands(w http.ResponseWriter, r *http.Request) {
	var req struct {
		queryRequest
		By   string `json:"by,omitempty"`
		TopK int    `json:"top_k,omitempty"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.analytics.TopBrands(r.Context(), analyticsuc.TopBrandsParams{
		Query: req.toQuery(),
		By:    req.By,
		TopK:  req.TopK,
	})
	s.respond(w, r, out, err)
}

// SellerDiversity handles POST /api/v1/analytics/seller-diversity.
func (s *Server) SellerDiversity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		queryRequest
		MinProducts int `json:"min_products,omitempty"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.analytics.SellerDiversity(r.Context(), analyticsuc.SellerDiversityParams{
		Query:       req.toQuery(),
		MinProducts: req.MinProducts,
	})
	s.respond(w, r, out, err)
}

// PriceRange handles POST /api/v1/analytics/price-range.
func (s *Server) PriceRange(w http.ResponseWriter, r *http.Request) {
	var req struct {
		queryRequest
		Brand string  `json:"brand,omitempty"`
		QLow  float64 `json:"q_low,omitempty"`
		QHigh float64 `json:"q_high,omitempty"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	if req.QLow < 0 || req.QHigh > 1 || (req.QHigh != 0 && req.QLow > req.QHigh) {
		writeError(w, http.StatusBadRequest, codeInvalidParam, "quantiles must satisfy 0 <= q_low <= q_high <= 1")
		return
	}

	out, err := s.analytics.PriceRangeByCategory(r.Context(), analyticsuc.PriceRangeParams{
		Query: req.toQuery(),
		Brand: req.Brand,
		QLow:  req.QLow,
		QHigh: req.QHigh,
	})
	s.respond(w, r, out, err)
}

// ROITable handles POST /api/v1/analytics/roi.
func (s *Server) ROITable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		queryRequest
		GroupBy string `json:"group_by,omitempty"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.analytics.ROITable(r.Context(), analyticsuc.ROIParams{
		Query:   req.toQuery(),
		GroupBy: req.GroupBy,
	})
	s.respond(w, r, out, err)
}

// Report handles POST /api/v1/analytics/report.
func (s *Server) Report(w http.ResponseWriter, r *http.Request) {
	var req struct {
		queryRequest
		TopK int `json:"top_k,omitempty"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	report, err := s.analytics.Report(r.Context(), analyticsuc.MarketReportParams{
		Query: req.toQuery(),
		TopK:  req.TopK,
	})
	if err != nil {
		s.observe("analytics", "error")
		s.handleDomainError(w, r, err)
		return
	}

	s.observe("analytics", "ok")
	writeJSON(w, http.StatusOK, report)
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode parses the JSON request body, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// respond finishes an analytics request: metric, error mapping, JSON body.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, out domain.Output, err error) {
	if err != nil {
		s.observe("analytics", "error")
		s.handleDomainError(w, r, err)
		return
	}
	s.observe("analytics", "ok")
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) observe(mode, status string) {
	metrics.SearchRequestsTotal.WithLabelValues(mode, status).Inc()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
// Invalid-request errors keep their full text: the detail names the bad parameter.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrCatalogNotLoaded,
		domain.ErrEmbeddingProviderError,
		domain.ErrEmbeddingMisaligned,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// requestLogger prefers the per-request logger the middleware stored in the
// context; it carries the request id. Falls back to the server logger.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if l := logpkg.FromContext(r.Context()); l != nil {
		return l
	}
	return s.logger
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func boolDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
