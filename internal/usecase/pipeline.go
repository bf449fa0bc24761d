package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/p055e55eD/MediaSanitizer/internal/analyzer"
	"github.com/p055e55eD/MediaSanitizer/internal/domain"
	"github.com/p055e55eD/MediaSanitizer/internal/ports"
)

// directInputTitle labels pasted-text submissions in reports and prompts.
const directInputTitle = "User Provided Text"

// textPolicy strips all markup from pasted text before analysis.
var textPolicy = bluemonday.StrictPolicy()

// PipelineDeps wires the driven adapters into the analysis pipeline.
type PipelineDeps struct {
	Scraper    ports.Scraper
	Analyzer   ports.Analyzer
	Reporter   ports.Reporter
	Cache      ports.AnalysisCache
	MinContent int
	Logger     *slog.Logger
}

// Pipeline implements the article credibility workflow: extract, assess,
// synthesize, cache. One invocation serves exactly one article.
type Pipeline struct {
	scraper    ports.Scraper
	analyzer   ports.Analyzer
	reporter   ports.Reporter
	cache      ports.AnalysisCache
	minContent int
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	minContent := deps.MinContent
	if minContent <= 0 {
		minContent = analyzer.MinContentLength
	}
	return &Pipeline{
		scraper:    deps.Scraper,
		analyzer:   deps.Analyzer,
		reporter:   deps.Reporter,
		cache:      deps.Cache,
		minContent: minContent,
		logger:     deps.Logger,
	}
}

// Analyze runs the full pipeline for one article. Terminal failures surface
// as domain.ErrContentTooShort, domain.ErrExtractionFailed, or
// domain.ErrAnalysisUnavailable; a malformed model reply is not a failure
// and produces a degraded report instead.
func (p *Pipeline) Analyze(ctx context.Context, input domain.ArticleInput) (domain.Report, error) {
	article, err := p.normalize(ctx, input)
	if err != nil {
		return domain.Report{}, err
	}

	if utf8.RuneCountInString(article.Content) < p.minContent {
		return domain.Report{}, fmt.Errorf("%w: %d runes, need %d",
			domain.ErrContentTooShort, utf8.RuneCountInString(article.Content), p.minContent)
	}

	assessment, err := p.analyzer.Analyze(ctx, article)
	if err != nil {
		return domain.Report{}, fmt.Errorf("analyze article: %w", err)
	}

	rep := p.reporter.Synthesize(assessment, article.Content, article.Domain)

	if input.Kind == domain.InputURL && p.cache != nil {
		entry := domain.CacheEntry{
			URL:        strings.TrimSpace(input.Value),
			Title:      article.Title,
			Domain:     article.Domain,
			Content:    article.Content,
			Report:     rep,
			AnalyzedAt: time.Now().UTC(),
		}
		// A finished report is never discarded over a cache failure.
		if cacheErr := p.cache.Put(ctx, entry); cacheErr != nil {
			p.warn("cache write failed", "url", entry.URL, "error", cacheErr)
		}
	}

	return rep, nil
}

func (p *Pipeline) normalize(ctx context.Context, input domain.ArticleInput) (domain.NormalizedArticle, error) {
	value := strings.TrimSpace(input.Value)

	switch input.Kind {
	case domain.InputURL:
		article, err := p.scraper.Scrape(ctx, value)
		if err != nil {
			if errors.Is(err, domain.ErrExtractionFailed) {
				return domain.NormalizedArticle{}, err
			}
			return domain.NormalizedArticle{}, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
		}
		return article, nil

	case domain.InputText:
		return domain.NormalizedArticle{
			Title:   directInputTitle,
			Content: sanitizeDirectInput(value),
			Domain:  domain.DirectInputDomain,
		}, nil

	default:
		return domain.NormalizedArticle{}, fmt.Errorf("unsupported input kind %q", input.Kind)
	}
}

// sanitizeDirectInput strips markup from pasted text. Plain text passes
// through untouched; anything containing tags is reduced to its text nodes.
func sanitizeDirectInput(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.Contains(trimmed, "<") {
		return trimmed
	}

	stripped := textPolicy.Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(stripped))
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
