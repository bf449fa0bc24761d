package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/p055e55eD/MediaSanitizer/internal/domain"
	"github.com/p055e55eD/MediaSanitizer/internal/ports"
)

const defaultUserAgent = "MediaSanitizer/1.0"

// Scraper fetches article pages over HTTP and extracts their title and body.
// Known domains use per-site selector rules; everything else falls back to
// generic paragraph harvesting, then to readability extraction.
type Scraper struct {
	client    *http.Client
	rules     *Ruleset
	userAgent string
	logger    *slog.Logger
}

var _ ports.Scraper = (*Scraper)(nil)

// NewScraper wires an HTTP client and a ruleset; zero arguments get defaults.
func NewScraper(client *http.Client, rules *Ruleset, userAgent string, log *slog.Logger) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if rules == nil {
		rules = DefaultRuleset()
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Scraper{client: client, rules: rules, userAgent: userAgent, logger: log}
}

// Scrape downloads the page and returns the normalized article.
// An empty body after every fallback is a terminal extraction failure.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (domain.NormalizedArticle, error) {
	site := HostFromURL(rawURL)

	doc, raw, err := s.fetchDocument(ctx, rawURL)
	if err != nil {
		return domain.NormalizedArticle{}, fmt.Errorf("fetch page: %w", err)
	}

	article := ExtractArticle(doc, site, s.rules)
	if article.Content == "" {
		article.Content = s.readabilityText(raw, rawURL)
	}
	if article.Content == "" {
		return domain.NormalizedArticle{}, fmt.Errorf("%w: no content in %s", domain.ErrExtractionFailed, rawURL)
	}

	s.debug("scraped article", "url", rawURL, "site", site, "content_len", len(article.Content))
	return article, nil
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("server returned %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, raw, nil
}

// ExtractArticle applies the site rule when one exists for the domain,
// otherwise harvests every non-empty paragraph in document order.
func ExtractArticle(doc *goquery.Document, site string, rules *Ruleset) domain.NormalizedArticle {
	if rule, ok := rules.Resolve(site); ok {
		return extractWithRule(doc, site, rule)
	}
	return extractGeneric(doc, site)
}

func extractWithRule(doc *goquery.Document, site string, rule Rule) domain.NormalizedArticle {
	title := strings.TrimSpace(doc.Find(rule.TitleSelector).First().Text())

	container := doc.Find(rule.ContentSelector).First()
	content := joinParagraphs(container)
	if content == "" {
		content = strings.TrimSpace(container.Text())
	}

	return domain.NormalizedArticle{Title: title, Content: content, Domain: site}
}

func extractGeneric(doc *goquery.Document, site string) domain.NormalizedArticle {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	content := joinParagraphs(doc.Selection)
	return domain.NormalizedArticle{Title: title, Content: content, Domain: site}
}

func joinParagraphs(sel *goquery.Selection) string {
	var paragraphs []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n")
}

// readabilityText is the last-resort extraction for pages whose paragraphs
// carry no text, e.g. heavily nested markup.
func (s *Scraper) readabilityText(raw []byte, rawURL string) string {
	pageURL, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	article, err := readability.FromReader(bytes.NewReader(raw), pageURL)
	if err != nil {
		s.debug("readability fallback failed", "url", rawURL, "error", err)
		return ""
	}

	return strings.TrimSpace(article.TextContent)
}

// HostFromURL derives the source domain: lowercase host with any "www."
// prefix stripped, or "unknown" when the URL has no usable host.
func HostFromURL(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return domain.UnknownDomain
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return domain.UnknownDomain
	}
	return host
}

func (s *Scraper) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
