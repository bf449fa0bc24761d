package analyzer

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/p055e55eD/MediaSanitizer/internal/domain"
)

// promptTmpl instructs the model to emit only the JSON schema the
// interpreter parses. The field contract is load-bearing: credibility_score,
// red_flags, entities, summary, language.
var promptTmpl = template.Must(template.New("credibility").Parse(`You are an expert analyst of Armenian and English news articles. Write the report only in English.
Analyze the following article and output valid JSON with these fields:
  - credibility_score: integer between 0 and 100
  - red_flags: list of strings describing potential bias or unverified claims
  - entities: list of [name, type] pairs for key people/places/organizations
  - summary: 3-5 sentence objective summary of credibility
  - language: 'hy' or 'en'
Respond in valid JSON only, no explanations or extra text.
Article title: {{.Title}}
Source: {{.Domain}}
Article content:
{{.Content}}
`))

// BuildPrompt renders the credibility-assessment instruction for an article.
func BuildPrompt(article domain.NormalizedArticle) (string, error) {
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, article); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
