package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/p055e55eD/MediaSanitizer/internal/domain"
	"github.com/p055e55eD/MediaSanitizer/internal/ports"
)

const (
	// MinContentLength is the smallest article, in runes, worth analyzing.
	MinContentLength = 60

	defaultLanguage = "hy"
	defaultTitle    = "No Title"
)

// Analyzer submits articles to the chat model and interprets replies into
// canonical Assessments.
type Analyzer struct {
	chat       ports.ChatClient
	minContent int
	logger     *slog.Logger
}

var _ ports.Analyzer = (*Analyzer)(nil)

// NewAnalyzer wires the chat client; minContent <= 0 uses MinContentLength.
func NewAnalyzer(chat ports.ChatClient, minContent int, log *slog.Logger) *Analyzer {
	if minContent <= 0 {
		minContent = MinContentLength
	}
	return &Analyzer{chat: chat, minContent: minContent, logger: log}
}

// Analyze builds the prompt, calls the model, and interprets the reply.
// A transport failure maps to ErrAnalysisUnavailable; a reply that ignored
// the requested schema still yields a degraded Assessment.
func (a *Analyzer) Analyze(ctx context.Context, article domain.NormalizedArticle) (domain.Assessment, error) {
	content := strings.TrimSpace(article.Content)
	if utf8.RuneCountInString(content) < a.minContent {
		return domain.Assessment{}, fmt.Errorf("%w: %d runes", domain.ErrContentTooShort, utf8.RuneCountInString(content))
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = defaultTitle
	}

	prompt, err := BuildPrompt(domain.NormalizedArticle{
		Title:   title,
		Content: content,
		Domain:  article.Domain,
	})
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("%w: %v", domain.ErrAnalysisUnavailable, err)
	}

	reply, err := a.chat.Complete(ctx, prompt)
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("%w: %v", domain.ErrAnalysisUnavailable, err)
	}

	assessment := Interpret(reply)
	if assessment.CredibilityScore == nil {
		a.debug("model reply was not valid JSON, kept raw text as summary", "reply_len", len(reply))
	}
	return assessment, nil
}

// modelReply mirrors the JSON schema requested by the prompt.
type modelReply struct {
	CredibilityScore *int            `json:"credibility_score"`
	RedFlags         []string        `json:"red_flags"`
	Entities         []domain.Entity `json:"entities"`
	Summary          string          `json:"summary"`
	Language         string          `json:"language"`
}

// Interpret parses the raw model reply into an Assessment. It never fails:
// anything that is not the requested JSON object becomes a degraded
// Assessment carrying the full raw text as its summary.
func Interpret(raw string) domain.Assessment {
	trimmed := strings.TrimSpace(raw)

	var reply modelReply
	if err := json.Unmarshal([]byte(trimmed), &reply); err != nil {
		return domain.Assessment{
			CredibilityScore: nil,
			RedFlags:         []string{},
			Entities:         []domain.Entity{},
			Summary:          trimmed,
			Language:         defaultLanguage,
		}
	}

	assessment := domain.Assessment{
		CredibilityScore: clampScore(reply.CredibilityScore),
		RedFlags:         reply.RedFlags,
		Entities:         reply.Entities,
		Summary:          reply.Summary,
		Language:         reply.Language,
	}
	if assessment.RedFlags == nil {
		assessment.RedFlags = []string{}
	}
	if assessment.Entities == nil {
		assessment.Entities = []domain.Entity{}
	}
	if assessment.Language == "" {
		assessment.Language = defaultLanguage
	}
	return assessment
}

func clampScore(score *int) *int {
	if score == nil {
		return nil
	}
	v := *score
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return &v
}

func (a *Analyzer) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
