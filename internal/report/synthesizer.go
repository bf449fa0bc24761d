// Package report turns an Assessment into the final Report by attaching the
// traffic-light indicator, the simulated source cross-check, heuristic text
// metrics, and processing metadata.
package report

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/p055e55eD/MediaSanitizer/internal/domain"
	"github.com/p055e55eD/MediaSanitizer/internal/ports"
)

const (
	// defaultScore stands in for a missing credibility score when deriving
	// the indicator.
	defaultScore = 50

	// DefaultMethod describes the analysis approach in the technical section.
	DefaultMethod = "AI + Heuristic (TF-IDF, Sentiment, BERT)"

	// DefaultSourcesChecked is the advertised number of consulted sources.
	DefaultSourcesChecked = 11
)

// Synthesizer builds Reports. It never mutates the Assessment it is given.
type Synthesizer struct {
	heuristics     ports.HeuristicProvider
	method         string
	sourcesChecked int
	now            func() time.Time
}

var _ ports.Reporter = (*Synthesizer)(nil)

// NewSynthesizer wires the heuristic provider and technical metadata.
func NewSynthesizer(heuristics ports.HeuristicProvider, method string, sourcesChecked int) *Synthesizer {
	if method == "" {
		method = DefaultMethod
	}
	if sourcesChecked <= 0 {
		sourcesChecked = DefaultSourcesChecked
	}
	return &Synthesizer{
		heuristics:     heuristics,
		method:         method,
		sourcesChecked: sourcesChecked,
		now:            time.Now,
	}
}

// Synthesize produces the final Report for an Assessment. content is the
// original extracted article text; site is the source domain.
func (s *Synthesizer) Synthesize(assessment domain.Assessment, content, site string) domain.Report {
	crossCheck := s.heuristics.CrossCheck()

	return domain.Report{
		CredibilityScore: assessment.CredibilityScore,
		RedFlags:         assessment.RedFlags,
		Entities:         assessment.Entities,
		Summary:          assessment.Summary,
		Language:         assessment.Language,
		RAGIndicator:     RAGForScore(assessment.CredibilityScore),
		SourceCrossCheck: crossCheck,
		Heuristic: domain.HeuristicMetrics{
			EmotionDensityPct: EmotionDensityPct(content),
			SubjectivityScore: s.heuristics.Subjectivity(),
			PassiveVoicePct:   s.heuristics.PassiveVoicePct(),
			LoadedTerms:       s.heuristics.LoadedTerms(),
		},
		Technical: domain.Technical{
			Method:         s.method,
			SourcesChecked: s.sourcesChecked,
		},
		Metadata: domain.ReportMetadata{
			ProcessedAt: s.now(),
			Domain:      site,
		},
	}
}

// RAGForScore maps a credibility score to the traffic-light indicator:
// green at 80 and above, yellow from 50, red below. A missing score counts
// as 50.
func RAGForScore(score *int) domain.RAGIndicator {
	value := defaultScore
	if score != nil {
		value = *score
	}

	switch {
	case value >= 80:
		return domain.RAGGreen
	case value >= 50:
		return domain.RAGYellow
	default:
		return domain.RAGRed
	}
}

// EmotionDensityPct is the share of exclamation marks in the content as a
// percentage, rounded to 2 decimals. Empty content yields 0.
func EmotionDensityPct(content string) float64 {
	length := utf8.RuneCountInString(content)
	if length == 0 {
		return 0
	}

	bangs := strings.Count(content, "!")
	return round2(float64(bangs) / float64(length) * 100)
}
