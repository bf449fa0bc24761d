package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/p055e55eD/MediaSanitizer/internal/domain"
)

func openTestCache(t *testing.T) *SQLiteCache {
	t.Helper()

	cache, err := Open(filepath.Join(t.TempDir(), "articles.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	return cache
}

func sampleReport(score int, summary string) domain.Report {
	s := score
	return domain.Report{
		CredibilityScore: &s,
		RedFlags:         []string{"unverified claim"},
		Entities:         []domain.Entity{{Name: "John Smith", Type: "PERSON"}},
		Summary:          summary,
		Language:         "en",
		RAGIndicator:     domain.RAGYellow,
		SourceCrossCheck: domain.SourceCrossCheck{Checked: 30, Matches: []string{"Hetq"}},
		Heuristic: domain.HeuristicMetrics{
			EmotionDensityPct: 1.25,
			SubjectivityScore: 0.42,
			PassiveVoicePct:   18.5,
			LoadedTerms:       []string{"allegedly"},
		},
		Technical: domain.Technical{Method: "AI + Heuristic", SourcesChecked: 11},
		Metadata: domain.ReportMetadata{
			ProcessedAt: time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC),
			Domain:      "civilnet.am",
		},
	}
}

func TestPutThenGetRoundTrips(t *testing.T) {
	t.Parallel()

	cache := openTestCache(t)
	ctx := context.Background()

	want := sampleReport(72, "Mostly factual.")
	entry := domain.CacheEntry{
		URL:        "https://civilnet.am/news/1",
		Title:      "Example",
		Domain:     "civilnet.am",
		Content:    "Some article text.",
		Report:     want,
		AnalyzedAt: time.Date(2026, time.March, 5, 12, 0, 1, 0, time.UTC),
	}

	if err := cache.Put(ctx, entry); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, err := cache.Get(ctx, entry.URL)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("report round-trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestPutOverwritesPriorEntry(t *testing.T) {
	t.Parallel()

	cache := openTestCache(t)
	ctx := context.Background()
	url := "https://hetq.am/article/9"

	first := domain.CacheEntry{URL: url, Report: sampleReport(40, "first run")}
	second := domain.CacheEntry{URL: url, Report: sampleReport(85, "second run")}

	if err := cache.Put(ctx, first); err != nil {
		t.Fatalf("first Put: %v", err)
	}
	if err := cache.Put(ctx, second); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	got, err := cache.Get(ctx, url)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	if got.Summary != "second run" {
		t.Fatalf("expected second report, got %q", got.Summary)
	}
	if *got.CredibilityScore != 85 {
		t.Fatalf("expected score 85, got %d", *got.CredibilityScore)
	}

	count, err := cache.Count(ctx)
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single row after overwrite, got %d", count)
	}
}

func TestGetMissIsNotFound(t *testing.T) {
	t.Parallel()

	cache := openTestCache(t)

	_, err := cache.Get(context.Background(), "https://example.com/absent")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCountAndClear(t *testing.T) {
	t.Parallel()

	cache := openTestCache(t)
	ctx := context.Background()

	for _, url := range []string{"https://a.am/1", "https://b.am/2", "https://c.am/3"} {
		if err := cache.Put(ctx, domain.CacheEntry{URL: url, Report: sampleReport(60, url)}); err != nil {
			t.Fatalf("Put %s: %v", url, err)
		}
	}

	count, err := cache.Count(ctx)
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 entries, got %d", count)
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	count, err = cache.Count(ctx)
	if err != nil {
		t.Fatalf("Count after clear: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty cache, got %d entries", count)
	}
}

func TestLastAnalyzed(t *testing.T) {
	t.Parallel()

	cache := openTestCache(t)
	ctx := context.Background()

	if _, err := cache.LastAnalyzed(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty cache, got %v", err)
	}

	older := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
	newer := time.Date(2026, time.March, 5, 8, 0, 0, 0, time.UTC)

	if err := cache.Put(ctx, domain.CacheEntry{URL: "https://a.am/1", Report: sampleReport(50, "a"), AnalyzedAt: older}); err != nil {
		t.Fatalf("Put older: %v", err)
	}
	if err := cache.Put(ctx, domain.CacheEntry{URL: "https://b.am/2", Report: sampleReport(50, "b"), AnalyzedAt: newer}); err != nil {
		t.Fatalf("Put newer: %v", err)
	}

	last, err := cache.LastAnalyzed(ctx)
	if err != nil {
		t.Fatalf("LastAnalyzed error: %v", err)
	}
	if !last.Equal(newer) {
		t.Fatalf("expected %v, got %v", newer, last)
	}
}
