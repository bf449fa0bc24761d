package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/p055e55eD/MediaSanitizer/internal/domain"
	"github.com/p055e55eD/MediaSanitizer/internal/ports"
)

// Rejection reasons returned to clients. Internal error detail never
// crosses this boundary.
const (
	reasonInvalidRequest      = "invalid_request"
	reasonContentTooShort     = "content_too_short"
	reasonExtractionFailed    = "extraction_failed"
	reasonAnalysisUnavailable = "analysis_unavailable"
)

// AnalysisService is the single pipeline operation the HTTP layer drives.
type AnalysisService interface {
	Analyze(ctx context.Context, input domain.ArticleInput) (domain.Report, error)
}

// Server is the HTTP boundary: routing, CORS, validation, error mapping.
type Server struct {
	echo     *echo.Echo
	pipeline AnalysisService
	cache    ports.AnalysisCache
	logger   *slog.Logger
}

// NewServer wires routes and middleware around the pipeline and cache.
func NewServer(pipeline AnalysisService, cache ports.AnalysisCache, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{echo: e, pipeline: pipeline, cache: cache, logger: log}

	e.GET("/healthz", s.handleHealth)
	e.POST("/api/analyze", s.handleAnalyze)
	e.GET("/api/stats", s.handleStats)
	e.DELETE("/api/cache", s.handleClearCache)

	return s
}

// Handler exposes the router for an http.Server.
func (s *Server) Handler() http.Handler {
	return s.echo
}

type analyzeRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type analyzeResponse struct {
	Status         string        `json:"status"`
	Result         domain.Report `json:"result"`
	ProcessingTime string        `json:"processing_time"`
}

type statsResponse struct {
	Articles     int        `json:"articles"`
	LastAnalyzed *time.Time `json:"last_analyzed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(c echo.Context) error {
	start := time.Now()

	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: reasonInvalidRequest})
	}

	kind := domain.InputKind(strings.ToLower(strings.TrimSpace(req.Type)))
	content := strings.TrimSpace(req.Content)
	if (kind != domain.InputURL && kind != domain.InputText) || content == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: reasonInvalidRequest})
	}

	report, err := s.pipeline.Analyze(c.Request().Context(), domain.ArticleInput{Kind: kind, Value: content})
	if err != nil {
		return s.rejectAnalysis(c, err)
	}

	return c.JSON(http.StatusOK, analyzeResponse{
		Status:         "success",
		Result:         report,
		ProcessingTime: time.Since(start).String(),
	})
}

func (s *Server) rejectAnalysis(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrContentTooShort):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: reasonContentTooShort})
	case errors.Is(err, domain.ErrExtractionFailed):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: reasonExtractionFailed})
	case errors.Is(err, domain.ErrAnalysisUnavailable):
		return c.JSON(http.StatusBadGateway, errorResponse{Error: reasonAnalysisUnavailable})
	default:
		s.error("analyze request failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: reasonAnalysisUnavailable})
	}
}

func (s *Server) handleStats(c echo.Context) error {
	count, err := s.cache.Count(c.Request().Context())
	if err != nil {
		s.error("cache count failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "cache_unavailable"})
	}

	resp := statsResponse{Articles: count}
	if last, err := s.cache.LastAnalyzed(c.Request().Context()); err == nil {
		resp.LastAnalyzed = &last
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.error("cache last-analyzed failed", "error", err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleClearCache(c echo.Context) error {
	if err := s.cache.Clear(c.Request().Context()); err != nil {
		s.error("cache clear failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "cache_unavailable"})
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) error(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Error(msg, args...)
	}
}
