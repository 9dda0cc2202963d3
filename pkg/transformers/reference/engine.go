package reference

import (
	"regexp"
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
)

const (
	defaultMaxSlashes = 9
)

// SyntaxRules controls the reference token grammar.
type SyntaxRules struct {
	RequireSlash        *bool `json:"require_slash"`
	MaxSlashes          int   `json:"max_slashes"`
	FirstTokenAlphaOnly *bool `json:"first_token_alpha_only"`
}

// Rules is the full rule set for reference rewriting. Loaded from the step
// parameters; the zero value of every field is permissive.
type Rules struct {
	Prefix            string            `json:"prefix"`
	Suffix            string            `json:"suffix"`
	MaxPrefixLength   int               `json:"max_prefix_length"`
	SpecialCases      map[string]string `json:"special_cases"`
	DefinitiveRefs    []string          `json:"definitive_refs"`
	ExclusionPatterns []string          `json:"exclusion_patterns"`
	SyntaxRules       SyntaxRules       `json:"validation_rules"`
}

// Engine validates and rewrites reference tokens in free text according to
// a fixed rule set. Safe for concurrent use once constructed.
type Engine struct {
	prefix          string
	suffix          string
	maxPrefixLength int
	maxSlashes      int
	specialCases    map[string]string
	refs            map[string]struct{}
	exclusions      []*regexp.Regexp
	tokenRe         *regexp.Regexp
}

// NewEngine compiles a rule set. Exclusion patterns are regular
// expressions, matched case-insensitively.
func NewEngine(rules Rules) (*Engine, error) {
	e := &Engine{
		prefix:          rules.Prefix,
		suffix:          rules.Suffix,
		maxPrefixLength: rules.MaxPrefixLength,
		maxSlashes:      rules.SyntaxRules.MaxSlashes,
		specialCases:    map[string]string{},
	}
	if e.maxSlashes <= 0 {
		e.maxSlashes = defaultMaxSlashes
	}

	for head, replacement := range rules.SpecialCases {
		e.specialCases[strings.ToUpper(head)] = replacement
	}

	if len(rules.DefinitiveRefs) > 0 {
		e.refs = make(map[string]struct{}, len(rules.DefinitiveRefs))
		for _, ref := range rules.DefinitiveRefs {
			ref = strings.ToUpper(strings.TrimSpace(ref))
			if ref != "" {
				e.refs[ref] = struct{}{}
			}
		}
	}

	for _, pattern := range rules.ExclusionPatterns {
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, errors.NewPipelineErrorf(errors.CodeTransformation, "invalid exclusion pattern '%s': %w", pattern, err)
		}
		e.exclusions = append(e.exclusions, re)
	}

	requireSlash := rules.SyntaxRules.RequireSlash == nil || *rules.SyntaxRules.RequireSlash
	alphaOnly := rules.SyntaxRules.FirstTokenAlphaOnly == nil || *rules.SyntaxRules.FirstTokenAlphaOnly

	headPattern := `[A-Za-z][A-Za-z0-9-]*`
	if alphaOnly {
		headPattern = `[A-Za-z]+`
	}
	segmentQuantifier := "+"
	if !requireSlash {
		segmentQuantifier = "*"
	}
	e.tokenRe = regexp.MustCompile(`\b` + headPattern + `(?:/[A-Za-z0-9-]+)` + segmentQuantifier + `\b`)

	return e, nil
}

// edit is one pending substitution, addressed by byte offsets into the
// source text.
type edit struct {
	start       int
	end         int
	replacement string
}

// Apply rewrites every valid, unrewritten reference token in text and
// returns the result. The input is never modified.
func (e *Engine) Apply(text string) string {
	spans := e.tokenRe.FindAllStringIndex(text, -1)
	if len(spans) == 0 {
		return text
	}

	// exclusion spans are computed once, and only because a candidate exists
	exclusions := e.exclusionSpans(text)

	edits := []edit{}
	for _, span := range spans {
		start, end := span[0], span[1]
		if overlapsAny(start, end, exclusions) {
			continue
		}

		token := text[start:end]
		replacement, ok := e.rewrite(token)
		if !ok {
			continue
		}
		edits = append(edits, edit{start: start, end: end, replacement: replacement})
	}

	if len(edits) == 0 {
		return text
	}

	// apply right to left so earlier offsets stay valid
	out := text
	for i := len(edits) - 1; i >= 0; i-- {
		ed := edits[i]
		out = out[:ed.start] + ed.replacement + out[ed.end:]
	}
	return out
}

// rewrite decides whether a candidate token is rewritten and returns the
// replacement text.
func (e *Engine) rewrite(token string) (string, bool) {
	if strings.Count(token, "/") > e.maxSlashes {
		return "", false
	}

	head := token
	if i := strings.Index(token, "/"); i >= 0 {
		head = token[:i]
	}

	// special cases replace the whole token and bypass every other check
	if replacement, ok := e.specialCases[strings.ToUpper(head)]; ok {
		return replacement, true
	}

	if e.refs != nil {
		if _, ok := e.refs[head]; !ok {
			return "", false
		}
	}

	// idempotence guard: never double-apply on reprocessing
	if e.prefix != "" && strings.HasPrefix(token, e.prefix) {
		return "", false
	}

	if e.maxPrefixLength > 0 && len(e.prefix)+len(head) > e.maxPrefixLength {
		return "", false
	}

	return e.prefix + token + e.suffix, true
}

func (e *Engine) exclusionSpans(text string) [][]int {
	if len(e.exclusions) == 0 {
		return nil
	}
	spans := [][]int{}
	for _, re := range e.exclusions {
		spans = append(spans, re.FindAllStringIndex(text, -1)...)
	}
	return spans
}

func overlapsAny(start, end int, spans [][]int) bool {
	for _, span := range spans {
		if start < span[1] && end > span[0] {
			return true
		}
	}
	return false
}
