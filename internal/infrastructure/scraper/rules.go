package scraper

import "strings"

// Rule locates an article's title and body on a known news site.
// Selectors are CSS, applied against the rendered document.
type Rule struct {
	TitleSelector   string
	ContentSelector string
}

// Ruleset maps source domains to their extraction rules. Domains without an
// entry take the generic extraction path.
type Ruleset struct {
	rules map[string]Rule
}

// NewRuleset builds an empty ruleset.
func NewRuleset() *Ruleset {
	return &Ruleset{rules: map[string]Rule{}}
}

// DefaultRuleset covers the Armenian outlets supported out of the box.
func DefaultRuleset() *Ruleset {
	rs := NewRuleset()
	articleBody := "div[class*='article-content'], div[class*='content']"
	rs.Register("civilnet.am", Rule{TitleSelector: "h1", ContentSelector: articleBody})
	rs.Register("hetq.am", Rule{TitleSelector: "h1", ContentSelector: articleBody})
	return rs
}

// Register adds or replaces the rule for a domain.
func (r *Ruleset) Register(domain string, rule Rule) {
	if r.rules == nil {
		r.rules = map[string]Rule{}
	}
	r.rules[strings.ToLower(domain)] = rule
}

// Resolve returns the rule for a domain, or false for the generic path.
func (r *Ruleset) Resolve(domain string) (Rule, bool) {
	rule, ok := r.rules[strings.ToLower(domain)]
	return rule, ok
}
