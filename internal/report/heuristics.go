package report

import (
	"math"
	"math/rand"
	"sync"

	"github.com/p055e55eD/MediaSanitizer/internal/domain"
	"github.com/p055e55eD/MediaSanitizer/internal/ports"
)

// Default cross-check and heuristic constants, overridable via config.
var (
	DefaultTrustedSources = []string{"Hetq", "CivilNet", "Armenpress", "Oragir.news"}
	DefaultLoadedTerms    = []string{"suspicious", "allegedly", "denied"}
)

const DefaultCheckedCount = 30

// RandomHeuristics samples placeholder metrics within fixed bounds. The
// values have no analytical grounding; the provider exists so a real NLP
// backend can replace it without changing the Report shape.
type RandomHeuristics struct {
	trusted []string
	checked int
	loaded  []string

	mu  sync.Mutex
	rng *rand.Rand
}

var _ ports.HeuristicProvider = (*RandomHeuristics)(nil)

// NewRandomHeuristics builds a provider; empty slices fall back to defaults.
func NewRandomHeuristics(trusted []string, checked int, loaded []string, seed int64) *RandomHeuristics {
	if len(trusted) == 0 {
		trusted = DefaultTrustedSources
	}
	if checked <= 0 {
		checked = DefaultCheckedCount
	}
	if len(loaded) == 0 {
		loaded = DefaultLoadedTerms
	}
	return &RandomHeuristics{
		trusted: trusted,
		checked: checked,
		loaded:  loaded,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// CrossCheck returns a non-empty random subset of the trusted-source list.
func (h *RandomHeuristics) CrossCheck() domain.SourceCrossCheck {
	h.mu.Lock()
	defer h.mu.Unlock()

	k := 1 + h.rng.Intn(len(h.trusted))
	matches := make([]string, 0, k)
	for _, idx := range h.rng.Perm(len(h.trusted))[:k] {
		matches = append(matches, h.trusted[idx])
	}

	return domain.SourceCrossCheck{Checked: h.checked, Matches: matches}
}

// Subjectivity samples within [0.30, 0.80], rounded to 2 decimals.
func (h *RandomHeuristics) Subjectivity() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return round2(0.3 + h.rng.Float64()*0.5)
}

// PassiveVoicePct samples within [10.0, 30.0], rounded to 1 decimal.
func (h *RandomHeuristics) PassiveVoicePct() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return round1((0.1 + h.rng.Float64()*0.2) * 100)
}

// LoadedTerms returns the fixed illustrative term list.
func (h *RandomHeuristics) LoadedTerms() []string {
	terms := make([]string, len(h.loaded))
	copy(terms, h.loaded)
	return terms
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
