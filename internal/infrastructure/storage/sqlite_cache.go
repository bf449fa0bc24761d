package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/p055e55eD/MediaSanitizer/internal/domain"
	"github.com/p055e55eD/MediaSanitizer/internal/ports"
)

const articlesTable = "articles"

// SQLiteCache persists analyzed articles keyed by URL. Writes are atomic
// per key via the upsert; the newest write wins.
type SQLiteCache struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.AnalysisCache = (*SQLiteCache)(nil)

// Open creates or opens the cache database and bootstraps its schema.
func Open(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	cache := &SQLiteCache{db: db, builder: sq.StatementBuilder}
	if err := cache.createSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return cache, nil
}

// NewSQLiteCache wraps an existing database handle and bootstraps the schema.
func NewSQLiteCache(db *sql.DB) (*SQLiteCache, error) {
	cache := &SQLiteCache{db: db, builder: sq.StatementBuilder}
	if err := cache.createSchema(); err != nil {
		return nil, err
	}
	return cache, nil
}

// Close releases the database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

func (c *SQLiteCache) createSchema() error {
	schema := `CREATE TABLE IF NOT EXISTS articles (
		url TEXT PRIMARY KEY,
		title TEXT,
		domain TEXT,
		content TEXT,
		report_json TEXT,
		analyzed_at TEXT
	)`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Put upserts the cache entry; an existing row for the URL is fully replaced.
func (c *SQLiteCache) Put(ctx context.Context, entry domain.CacheEntry) error {
	reportJSON, err := json.Marshal(entry.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	analyzedAt := entry.AnalyzedAt
	if analyzedAt.IsZero() {
		analyzedAt = time.Now().UTC()
	}

	_, err = c.builder.
		Insert(articlesTable).
		Columns("url", "title", "domain", "content", "report_json", "analyzed_at").
		Values(entry.URL, entry.Title, entry.Domain, entry.Content, string(reportJSON), analyzedAt.UTC().Format(time.RFC3339)).
		Suffix(`ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			domain = excluded.domain,
			content = excluded.content,
			report_json = excluded.report_json,
			analyzed_at = excluded.analyzed_at`).
		RunWith(c.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("upsert analysis: %w", err)
	}

	return nil
}

// Get returns the stored report for a URL, or domain.ErrNotFound on a miss.
func (c *SQLiteCache) Get(ctx context.Context, url string) (domain.Report, error) {
	var reportJSON string
	err := c.builder.
		Select("report_json").
		From(articlesTable).
		Where(sq.Eq{"url": url}).
		RunWith(c.db).
		QueryRowContext(ctx).
		Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Report{}, fmt.Errorf("%w: %s", domain.ErrNotFound, url)
	}
	if err != nil {
		return domain.Report{}, fmt.Errorf("query analysis: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return domain.Report{}, fmt.Errorf("unmarshal report: %w", err)
	}

	return report, nil
}

// Count returns the number of cached articles.
func (c *SQLiteCache) Count(ctx context.Context) (int, error) {
	var count int
	err := c.builder.
		Select("COUNT(*)").
		From(articlesTable).
		RunWith(c.db).
		QueryRowContext(ctx).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}

	return count, nil
}

// LastAnalyzed returns the newest analyzed_at timestamp across all entries.
func (c *SQLiteCache) LastAnalyzed(ctx context.Context) (time.Time, error) {
	var latest sql.NullString
	err := c.builder.
		Select("MAX(analyzed_at)").
		From(articlesTable).
		RunWith(c.db).
		QueryRowContext(ctx).
		Scan(&latest)
	if err != nil {
		return time.Time{}, fmt.Errorf("query last analyzed: %w", err)
	}
	if !latest.Valid || latest.String == "" {
		return time.Time{}, domain.ErrNotFound
	}

	ts, err := time.Parse(time.RFC3339, latest.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse analyzed_at %q: %w", latest.String, err)
	}

	return ts, nil
}

// Clear removes every cached article.
func (c *SQLiteCache) Clear(ctx context.Context) error {
	_, err := c.builder.
		Delete(articlesTable).
		RunWith(c.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("clear articles: %w", err)
	}

	return nil
}
