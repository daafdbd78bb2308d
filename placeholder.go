package jsontl

import (
	"fmt"
	"regexp"
	"strings"
)

// PlaceholderToken is one protected interpolation substring.
type PlaceholderToken struct {
	Grammar string // name of the grammar that matched
	Value   string // the exact source substring, restored verbatim
}

// placeholderGrammar pairs a grammar name with its pattern. The list is
// evaluated in priority order: longest/most-specific first, so one
// grammar's delimiter never matches inside another's.
type placeholderGrammar struct {
	name    string
	pattern string
}

var placeholderGrammars = []placeholderGrammar{
	{"double-brace", `\{\{[^}]+\}\}`},                // {{variable}} - i18next, Handlebars
	{"dollar-brace", `\$\{[^}]+\}`},                  // ${variable} - JavaScript
	{"double-bracket", `\[\[[\w\s]+\]\]`},            // [[key]] - some frameworks
	{"percent-named", `%\([^)]+\)[sd]`},              // %(name)s - Python
	{"positional-brace", `\{[0-9]+\}`},               // {0}, {1} - .NET, Java
	{"brace-name", `\{[a-zA-Z_][a-zA-Z0-9_]*\}`},     // {name} - Vue i18n
	{"percent-verb", `%[sd]`},                        // %s, %d - C-style
}

// markerPattern matches the opaque positional markers inserted by
// Protect. Markers contain none of the grammar delimiters, so no grammar
// can match a marker and the provider has nothing to translate in them.
var markerPattern = regexp.MustCompile(`__PH_[0-9]+__`)

// PlaceholderCodec protects interpolation placeholders before translation
// and restores them afterwards. Safe for concurrent use.
type PlaceholderCodec struct {
	scan     *regexp.Regexp
	grammars []*regexp.Regexp
}

// NewPlaceholderCodec builds the codec from the fixed grammar set.
func NewPlaceholderCodec() *PlaceholderCodec {
	alternatives := make([]string, len(placeholderGrammars))
	grammars := make([]*regexp.Regexp, len(placeholderGrammars))
	for i, g := range placeholderGrammars {
		alternatives[i] = g.pattern
		grammars[i] = regexp.MustCompile(`^(?:` + g.pattern + `)$`)
	}
	// Go's regexp prefers earlier alternatives at the same position, so a
	// single alternation gives one left-to-right scan with the grammar
	// priority order deciding ties.
	return &PlaceholderCodec{
		scan:     regexp.MustCompile(strings.Join(alternatives, "|")),
		grammars: grammars,
	}
}

// Protect replaces every placeholder in text with a positional marker.
// Tokens are returned in the left-to-right order they were extracted,
// which is also the order their markers appear in the stripped text.
func (c *PlaceholderCodec) Protect(text string) (string, []PlaceholderToken) {
	var tokens []PlaceholderToken
	stripped := c.scan.ReplaceAllStringFunc(text, func(match string) string {
		marker := fmt.Sprintf("__PH_%d__", len(tokens))
		tokens = append(tokens, PlaceholderToken{
			Grammar: c.grammarOf(match),
			Value:   match,
		})
		return marker
	})
	return stripped, tokens
}

// Restore replaces markers in the translated text, in the order they
// appear, with the tokens in their original capture order. If the marker
// count differs from the token count (the provider dropped or duplicated
// a marker), substitution proceeds up to the shorter length, any excess
// marker is left verbatim, and a *MismatchWarning is returned alongside
// the best-effort result.
func (c *PlaceholderCodec) Restore(translated string, tokens []PlaceholderToken) (string, *MismatchWarning) {
	locs := markerPattern.FindAllStringIndex(translated, -1)

	var b strings.Builder
	last := 0
	for i, loc := range locs {
		if i >= len(tokens) {
			break
		}
		b.WriteString(translated[last:loc[0]])
		b.WriteString(tokens[i].Value)
		last = loc[1]
	}
	b.WriteString(translated[last:])

	if len(locs) != len(tokens) {
		return b.String(), &MismatchWarning{Markers: len(locs), Tokens: len(tokens)}
	}
	return b.String(), nil
}

// grammarOf identifies which grammar produced a match.
func (c *PlaceholderCodec) grammarOf(match string) string {
	for i, re := range c.grammars {
		if re.MatchString(match) {
			return placeholderGrammars[i].name
		}
	}
	return "unknown"
}
