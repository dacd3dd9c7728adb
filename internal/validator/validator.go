// Package validator implements the five-layer description check: banned
// vocabulary, noun-first style, self-reference, quality metrics, circular
// definition, and grammatical completeness.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/rules"
)

const minWords = 3

// pattern pairs a compiled matcher with the display form used in messages.
type pattern struct {
	term string
	re   *regexp.Regexp
}

// Validator runs the five layers against one description. Each instance owns
// its compiled rules, so per-instance extra banned terms never leak into
// other validators. Safe for concurrent use once constructed.
type Validator struct {
	strict  bool
	banned  []pattern
	verbs   []pattern
	selfRef []pattern
}

// New compiles the shared rule tables plus any extra banned terms. With
// strict set, warnings are promoted to errors in every verdict.
func New(strict bool, extraTerms ...string) *Validator {
	v := &Validator{strict: strict}

	terms := rules.BannedTerms
	v.banned = make([]pattern, 0, len(terms)+len(extraTerms))
	for _, term := range terms {
		v.banned = append(v.banned, pattern{term: term, re: wordMatch(term)})
	}
	for _, term := range extraTerms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		v.banned = append(v.banned, pattern{term: term, re: wordMatch(term)})
	}

	starts := make([]string, 0, len(rules.BannedVerbStarts)+len(rules.LeadingArticles))
	starts = append(starts, rules.BannedVerbStarts...)
	starts = append(starts, rules.LeadingArticles...)
	v.verbs = make([]pattern, 0, len(starts))
	for _, word := range starts {
		v.verbs = append(v.verbs, pattern{term: word, re: prefixMatch(word)})
	}

	v.selfRef = make([]pattern, 0, len(rules.SelfReferential))
	for _, phrase := range rules.SelfReferential {
		v.selfRef = append(v.selfRef, pattern{term: phrase, re: wordMatch(phrase)})
	}

	return v
}

func wordMatch(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}

func prefixMatch(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(word) + `\b`)
}

// Validate checks a single description against all five layers. subjectName
// may be empty, which skips the circular-definition layer. Pure: same inputs
// always produce the same verdict.
func (v *Validator) Validate(content string, tier models.Tier, subjectName string) models.ValidationVerdict {
	var errs, warnings []string

	content = strings.TrimSpace(content)
	charCount := utf8.RuneCountInString(content)
	wordCount := len(strings.Fields(content))

	// Layer 1: banned terms
	for _, p := range v.banned {
		if p.re.MatchString(content) {
			errs = append(errs, fmt.Sprintf("Banned term: %s", p.term))
		}
	}

	// Layer 1b: noun-first rule
	for _, p := range v.verbs {
		if p.re.MatchString(content) {
			warnings = append(warnings, fmt.Sprintf("Starts with verb/article: %s", p.term))
		}
	}

	// Layer 2: self-reference
	for _, p := range v.selfRef {
		if p.re.MatchString(content) {
			warnings = append(warnings, fmt.Sprintf("Self-referential: %s", p.term))
		}
	}

	// Layer 3: quality metrics
	if limits, ok := rules.LimitsFor(tier); ok {
		if charCount < limits.MinChars {
			errs = append(errs, fmt.Sprintf("Too short: %d < %d chars", charCount, limits.MinChars))
		} else if charCount > limits.MaxChars {
			errs = append(errs, fmt.Sprintf("Too long: %d > %d chars", charCount, limits.MaxChars))
		}
	} else {
		errs = append(errs, fmt.Sprintf("Unknown tier: %s", tier))
	}
	if wordCount < minWords {
		errs = append(errs, fmt.Sprintf("Too few words: %d < %d", wordCount, minWords))
	}

	// Layer 4: circular definition
	if subjectName != "" {
		subject := normalizeSubject(subjectName)
		text := normalizeSubject(content)
		if text == subject || strings.HasPrefix(text, subject) {
			errs = append(errs, fmt.Sprintf("Circular definition: repeats name '%s'", subjectName))
		}
	}

	// Layer 5: complete thought
	if !isCompleteThought(content) {
		warnings = append(warnings, "May not be a complete thought")
	}

	if v.strict {
		errs = append(errs, warnings...)
		warnings = nil
	}

	return models.ValidationVerdict{
		Tier:      tier,
		Content:   content,
		IsValid:   len(errs) == 0,
		CharCount: charCount,
		WordCount: wordCount,
		Errors:    errs,
		Warnings:  warnings,
	}
}

var subjectReplacer = strings.NewReplacer("_", " ", "-", " ")

func normalizeSubject(s string) string {
	return subjectReplacer.Replace(strings.ToLower(s))
}

// isCompleteThought is a cheap grammatical-completeness heuristic: long
// enough, does not trail off on a conjunction/preposition/article, does not
// start lowercase.
func isCompleteThought(content string) bool {
	if utf8.RuneCountInString(content) < 10 {
		return false
	}

	lower := strings.ToLower(content)
	for _, ending := range rules.IncompleteEndings {
		if strings.HasSuffix(lower, ending) {
			return false
		}
	}

	first, _ := utf8.DecodeRuneInString(content)
	return !unicode.IsLower(first)
}
