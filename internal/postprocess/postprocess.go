// Package postprocess cleans raw model output before validation: synonym
// substitution first, then the noun-first rewrite. Both transforms are pure.
package postprocess

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/rules"
)

type substitution struct {
	re          *regexp.Regexp
	replacement string
}

// Processor applies the substitution pass. Instances own their compiled
// pattern list, so custom pairs stay local. Safe for concurrent use.
type Processor struct {
	subs []substitution
}

// NewProcessor compiles the shared synonym table plus any extra pairs, which
// are applied after the defaults in the order given.
func NewProcessor(extra ...rules.SynonymPair) *Processor {
	pairs := make([]rules.SynonymPair, 0, len(rules.Synonyms)+len(extra))
	pairs = append(pairs, rules.Synonyms...)
	pairs = append(pairs, extra...)

	p := &Processor{subs: make([]substitution, 0, len(pairs))}
	for _, pair := range pairs {
		if pair.Pattern == "" {
			continue
		}
		p.subs = append(p.subs, substitution{
			re:          regexp.MustCompile(`(?i)` + regexp.QuoteMeta(pair.Pattern)),
			replacement: pair.Replacement,
		})
	}
	return p
}

// ApplySynonyms runs every pair left-to-right, each replacing all of its
// case-insensitive occurrences. Replacements are inserted literally and are
// not rescanned by the pair that produced them.
func (p *Processor) ApplySynonyms(text string) string {
	for _, sub := range p.subs {
		text = sub.re.ReplaceAllLiteralString(text, sub.replacement)
	}
	return text
}

// Apply runs both transforms on one description and trims the result.
func (p *Processor) Apply(text string) string {
	text = p.ApplySynonyms(text)
	text = NounFirstRewrite(text)
	return strings.TrimSpace(text)
}

// ApplyAll processes every tier's text into a fresh map.
func (p *Processor) ApplyAll(descriptions map[models.Tier]string) map[models.Tier]string {
	processed := make(map[models.Tier]string, len(descriptions))
	for tier, text := range descriptions {
		processed[tier] = p.Apply(text)
	}
	return processed
}

// NounFirstRewrite turns a verb-first description into a noun-first one. The
// prefix match is exact-case and requires a following space. Only the first
// matching verb is rewritten; the result is never rescanned, so a remainder
// that itself leads with a capitalized verb ("Get Run the task") keeps that
// verb in front. Stacked verbs like this are left for validation to flag.
func NounFirstRewrite(text string) string {
	for _, verb := range rules.BannedVerbStarts {
		prefix := verb + " "
		if !strings.HasPrefix(text, prefix) {
			continue
		}
		if noun, ok := rules.NounPhraseTransforms[verb]; ok {
			return strings.Replace(text, prefix, noun+" ", 1)
		}
		return capitalize(text[len(prefix):]) + " configuration"
	}
	return text
}

// capitalize uppercases the first rune and lowercases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
