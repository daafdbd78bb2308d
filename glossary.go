package jsontl

import (
	"fmt"
	"io"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rule is one glossary substitution: occurrences of Source in translated
// text are rewritten to Target.
type Rule struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

type compiledRule struct {
	re     *regexp.Regexp
	target string
}

// Glossary rewrites terms in translated text for terminology consistency.
// Rules apply in declaration order; matching is case-insensitive at
// whole-word boundaries, left to right, non-overlapping. A later rule may
// further rewrite text produced by an earlier rule.
type Glossary struct {
	rules []compiledRule
}

// NewGlossary compiles an ordered rule list. A rule with an empty source
// term is a ConfigurationError.
func NewGlossary(rules []Rule) (*Glossary, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		if r.Source == "" {
			return nil, &ConfigurationError{
				Message: fmt.Sprintf("glossary rule %d has an empty source term", i),
			}
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(r.Source) + `\b`)
		if err != nil {
			return nil, &ConfigurationError{
				Message: fmt.Sprintf("glossary rule %d (%q): %v", i, r.Source, err),
			}
		}
		compiled = append(compiled, compiledRule{re: re, target: r.Target})
	}
	return &Glossary{rules: compiled}, nil
}

// Apply rewrites text with every rule in order and returns the result.
func (g *Glossary) Apply(text string) string {
	if g == nil {
		return text
	}
	for _, r := range g.rules {
		text = r.re.ReplaceAllLiteralString(text, r.target)
	}
	return text
}

// Len returns the number of rules.
func (g *Glossary) Len() int {
	if g == nil {
		return 0
	}
	return len(g.rules)
}

// LoadRules reads an ordered YAML rule list:
//
//	- source: car
//	  target: auto
//	- source: auto
//	  target: coche
func LoadRules(r io.Reader) ([]Rule, error) {
	var rules []Rule
	if err := yaml.NewDecoder(r).Decode(&rules); err != nil {
		return nil, fmt.Errorf("decoding glossary: %w", err)
	}
	return rules, nil
}
