package ports

import (
	"context"
	"time"

	"github.com/p055e55eD/MediaSanitizer/internal/domain"
)

// Scraper fetches a rendered page and extracts the normalized article.
type Scraper interface {
	Scrape(ctx context.Context, url string) (domain.NormalizedArticle, error)
}

// Analyzer submits an article to the model and returns the canonical
// Assessment. A malformed model reply is absorbed into a degraded
// Assessment; only transport-level failures surface as errors.
type Analyzer interface {
	Analyze(ctx context.Context, article domain.NormalizedArticle) (domain.Assessment, error)
}

// ChatClient sends a single prompt to an LLM API and returns the raw reply.
type ChatClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Reporter blends an Assessment with indicator, cross-check, and heuristic
// sections into the final Report. Pure with respect to the Assessment.
type Reporter interface {
	Synthesize(assessment domain.Assessment, content, site string) domain.Report
}

// HeuristicProvider supplies the cross-check and textual-metric placeholders.
// The default implementation samples random values within fixed bounds; a
// real NLP backend can replace it without touching the Report contract.
type HeuristicProvider interface {
	CrossCheck() domain.SourceCrossCheck
	Subjectivity() float64
	PassiveVoicePct() float64
	LoadedTerms() []string
}

// AnalysisCache stores the most recent report per source URL.
type AnalysisCache interface {
	// Put upserts the entry; a second Put for the same URL fully replaces
	// the prior entry.
	Put(ctx context.Context, entry domain.CacheEntry) error
	// Get returns the stored report or domain.ErrNotFound on a miss.
	Get(ctx context.Context, url string) (domain.Report, error)
	Count(ctx context.Context) (int, error)
	// LastAnalyzed returns the newest analyzed_at timestamp, or
	// domain.ErrNotFound when the cache is empty.
	LastAnalyzed(ctx context.Context) (time.Time, error)
	Clear(ctx context.Context) error
}
