package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/p055e55eD/MediaSanitizer/internal/analyzer"
	"github.com/p055e55eD/MediaSanitizer/internal/config"
	"github.com/p055e55eD/MediaSanitizer/internal/infrastructure/httpapi"
	"github.com/p055e55eD/MediaSanitizer/internal/infrastructure/llm"
	"github.com/p055e55eD/MediaSanitizer/internal/infrastructure/scraper"
	"github.com/p055e55eD/MediaSanitizer/internal/infrastructure/storage"
	"github.com/p055e55eD/MediaSanitizer/internal/logging"
	"github.com/p055e55eD/MediaSanitizer/internal/report"
	"github.com/p055e55eD/MediaSanitizer/internal/usecase"
)

// Application wires configuration into the pipeline and its HTTP boundary.
type Application struct {
	cfg    config.Config
	server *httpapi.Server
	cache  *storage.SQLiteCache
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	cache, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open analysis cache: %w", err)
	}

	rules := scraper.DefaultRuleset()
	for _, site := range cfg.Sites {
		rules.Register(site.Domain, scraper.Rule{
			TitleSelector:   site.TitleSelector,
			ContentSelector: site.ContentSelector,
		})
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.Scraper.TimeoutSeconds) * time.Second}
	pageScraper := scraper.NewScraper(httpClient, rules, cfg.Scraper.UserAgent, baseLogger.With("component", "scraper"))

	chatClient := llm.NewChatGPTClient(cfg.ChatGPT)
	articleAnalyzer := analyzer.NewAnalyzer(chatClient, cfg.Analyzer.MinContentLength, baseLogger.With("component", "analyzer"))

	heuristics := report.NewRandomHeuristics(
		cfg.Report.TrustedSources,
		cfg.Report.CheckedCount,
		cfg.Report.LoadedTerms,
		time.Now().UnixNano(),
	)
	synthesizer := report.NewSynthesizer(heuristics, cfg.Report.Method, cfg.Report.SourcesChecked)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Scraper:    pageScraper,
		Analyzer:   articleAnalyzer,
		Reporter:   synthesizer,
		Cache:      cache,
		MinContent: cfg.Analyzer.MinContentLength,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	server := httpapi.NewServer(pipeline, cache, baseLogger.With("component", "httpapi"))

	return &Application{cfg: cfg, server: server, cache: cache, logger: baseLogger}, nil
}

// Handler returns the HTTP handler for the configured routes.
func (a *Application) Handler() http.Handler {
	return a.server.Handler()
}

// Address returns the configured listen address.
func (a *Application) Address() string {
	return a.cfg.Server.Address
}

// Close releases held resources.
func (a *Application) Close() error {
	return a.cache.Close()
}
