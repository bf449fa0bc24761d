package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/p055e55eD/MediaSanitizer/internal/domain"
)

type stubPipeline struct {
	report domain.Report
	err    error
	inputs []domain.ArticleInput
}

func (s *stubPipeline) Analyze(ctx context.Context, input domain.ArticleInput) (domain.Report, error) {
	s.inputs = append(s.inputs, input)
	if s.err != nil {
		return domain.Report{}, s.err
	}
	return s.report, nil
}

type stubCache struct {
	count   int
	last    time.Time
	hasLast bool
	cleared bool
}

func (s *stubCache) Put(ctx context.Context, entry domain.CacheEntry) error { return nil }

func (s *stubCache) Get(ctx context.Context, url string) (domain.Report, error) {
	return domain.Report{}, domain.ErrNotFound
}

func (s *stubCache) Count(ctx context.Context) (int, error) { return s.count, nil }

func (s *stubCache) LastAnalyzed(ctx context.Context) (time.Time, error) {
	if !s.hasLast {
		return time.Time{}, domain.ErrNotFound
	}
	return s.last, nil
}

func (s *stubCache) Clear(ctx context.Context) error {
	s.cleared = true
	return nil
}

func postAnalyze(t *testing.T, server *Server, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeRejectsInvalidPayload(t *testing.T) {
	t.Parallel()

	server := NewServer(&stubPipeline{}, &stubCache{}, nil)

	cases := []string{
		`{"type":"rss","content":"https://example.com"}`,
		`{"type":"url","content":"   "}`,
		`{"content":"no type"}`,
		`not json`,
	}

	for _, body := range cases {
		rec := postAnalyze(t, server, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %q: expected 400, got %d", body, rec.Code)
		}

		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("payload %q: decode response: %v", body, err)
		}
		if resp.Error != reasonInvalidRequest {
			t.Fatalf("payload %q: unexpected reason %q", body, resp.Error)
		}
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	t.Parallel()

	score := 72
	pipeline := &stubPipeline{report: domain.Report{
		CredibilityScore: &score,
		RedFlags:         []string{},
		Entities:         []domain.Entity{},
		Summary:          "Mostly factual.",
		Language:         "en",
		RAGIndicator:     domain.RAGYellow,
	}}
	server := NewServer(pipeline, &stubCache{}, nil)

	rec := postAnalyze(t, server, `{"type":"url","content":"https://civilnet.am/news/1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status string          `json:"status"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Fatalf("unexpected status: %q", resp.Status)
	}

	var result map[string]any
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result["rag_indicator"] != "yellow" {
		t.Fatalf("unexpected rag_indicator: %v", result["rag_indicator"])
	}
	if result["credibility_score"] != float64(72) {
		t.Fatalf("unexpected credibility_score: %v", result["credibility_score"])
	}

	if len(pipeline.inputs) != 1 || pipeline.inputs[0].Kind != domain.InputURL {
		t.Fatalf("pipeline received unexpected input: %+v", pipeline.inputs)
	}
}

func TestAnalyzeErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err        error
		wantCode   int
		wantReason string
	}{
		{domain.ErrContentTooShort, http.StatusBadRequest, reasonContentTooShort},
		{domain.ErrExtractionFailed, http.StatusBadRequest, reasonExtractionFailed},
		{domain.ErrAnalysisUnavailable, http.StatusBadGateway, reasonAnalysisUnavailable},
	}

	for _, tc := range cases {
		server := NewServer(&stubPipeline{err: tc.err}, &stubCache{}, nil)
		rec := postAnalyze(t, server, `{"type":"text","content":"some pasted article text"}`)

		if rec.Code != tc.wantCode {
			t.Fatalf("error %v: expected %d, got %d", tc.err, tc.wantCode, rec.Code)
		}

		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("error %v: decode response: %v", tc.err, err)
		}
		if resp.Error != tc.wantReason {
			t.Fatalf("error %v: unexpected reason %q", tc.err, resp.Error)
		}
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	last := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	server := NewServer(&stubPipeline{}, &stubCache{count: 4, last: last, hasLast: true}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Articles != 4 {
		t.Fatalf("unexpected article count: %d", resp.Articles)
	}
	if resp.LastAnalyzed == nil || !resp.LastAnalyzed.Equal(last) {
		t.Fatalf("unexpected last_analyzed: %v", resp.LastAnalyzed)
	}
}

func TestStatsEmptyCache(t *testing.T) {
	t.Parallel()

	server := NewServer(&stubPipeline{}, &stubCache{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	var resp statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Articles != 0 || resp.LastAnalyzed != nil {
		t.Fatalf("unexpected stats: %+v", resp)
	}
}

func TestClearCache(t *testing.T) {
	t.Parallel()

	cache := &stubCache{count: 2}
	server := NewServer(&stubPipeline{}, cache, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/cache", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !cache.cleared {
		t.Fatal("cache was not cleared")
	}
}
