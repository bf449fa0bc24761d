package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// InputKind distinguishes URL submissions from pasted article text.
type InputKind string

const (
	InputURL  InputKind = "url"
	InputText InputKind = "text"
)

// DirectInputDomain marks text-mode submissions, which have no source host.
const DirectInputDomain = "direct_input"

// UnknownDomain is used when a host cannot be derived from the URL.
const UnknownDomain = "unknown"

// ArticleInput is a single analysis request: either a URL to scrape or raw text.
type ArticleInput struct {
	Kind  InputKind
	Value string
}

// NormalizedArticle is the extractor's output fed into analysis.
// Domain is the lowercase source host without "www.", "direct_input" for
// text submissions, or "unknown" when host extraction fails.
type NormalizedArticle struct {
	Title   string
	Content string
	Domain  string
}

// Entity is a (name, type) pair for a person, place, or organization.
// On the wire it is a 2-element JSON array, e.g. ["John Smith","PERSON"].
type Entity struct {
	Name string
	Type string
}

// MarshalJSON encodes the entity as ["name","type"].
func (e Entity) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.Name, e.Type})
}

// UnmarshalJSON decodes a 2-element string array; extra elements are ignored.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("entity must be a string array: %w", err)
	}
	if len(pair) < 2 {
		return fmt.Errorf("entity needs [name, type], got %d elements", len(pair))
	}
	e.Name = pair[0]
	e.Type = pair[1]
	return nil
}

// Assessment is the canonical credibility judgment derived from the model
// reply. It is always fully populated: a reply the model returned as prose
// instead of JSON still yields an Assessment with the raw text as Summary.
type Assessment struct {
	CredibilityScore *int     `json:"credibility_score"`
	RedFlags         []string `json:"red_flags"`
	Entities         []Entity `json:"entities"`
	Summary          string   `json:"summary"`
	Language         string   `json:"language"`
}

// RAGIndicator is the three-level traffic light derived from the score.
type RAGIndicator string

const (
	RAGGreen  RAGIndicator = "green"
	RAGYellow RAGIndicator = "yellow"
	RAGRed    RAGIndicator = "red"
)

// SourceCrossCheck records a simulated cross-reference against trusted outlets.
type SourceCrossCheck struct {
	Checked int      `json:"checked"`
	Matches []string `json:"matches"`
}

// HeuristicMetrics carries textual indicators attached to the report.
// Subjectivity and passive-voice values are sampled placeholders; consumers
// must treat them as well-typed, not as real NLP output.
type HeuristicMetrics struct {
	EmotionDensityPct float64  `json:"emotion_density_pct"`
	SubjectivityScore float64  `json:"subjectivity_score"`
	PassiveVoicePct   float64  `json:"passive_voice_pct"`
	LoadedTerms       []string `json:"loaded_terms"`
}

// Technical is static descriptive metadata about the analysis method.
type Technical struct {
	Method         string `json:"method"`
	SourcesChecked int    `json:"sources_checked"`
}

// ReportMetadata stamps the report with processing time and source domain.
type ReportMetadata struct {
	ProcessedAt time.Time `json:"processed_at"`
	Domain      string    `json:"domain"`
}

// Report is the final artifact returned to the caller: the Assessment plus
// indicator, cross-check, heuristic, and metadata sections. Field names in
// JSON match the original public wire format.
type Report struct {
	CredibilityScore *int             `json:"credibility_score"`
	RedFlags         []string         `json:"red_flags"`
	Entities         []Entity         `json:"entities"`
	Summary          string           `json:"summary"`
	Language         string           `json:"language"`
	RAGIndicator     RAGIndicator     `json:"rag_indicator"`
	SourceCrossCheck SourceCrossCheck `json:"source_cross_check"`
	Heuristic        HeuristicMetrics `json:"heuristic"`
	Technical        Technical        `json:"technical"`
	Metadata         ReportMetadata   `json:"metadata"`
}

// CacheEntry is the persisted snapshot of a URL-sourced analysis.
// Text-mode submissions have no stable key and are never cached.
type CacheEntry struct {
	URL        string
	Title      string
	Domain     string
	Content    string
	Report     Report
	AnalyzedAt time.Time
}
