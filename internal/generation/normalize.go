package generation

import (
	"strings"
	"unicode"
)

// CanonicalCategories is the closed set for the dump-analysis classification
// field. Order decides ties during canonicalization, so keep it stable.
var CanonicalCategories = []string{
	"Product & Engineering",
	"Marketing & Growth",
	"Strategy & Vision",
	"Team & Operations",
	"People & Relationships",
	"Personal Development",
}

// categoryKeywords holds the case-insensitive keywords that identify each
// canonical category in free text.
var categoryKeywords = map[string][]string{
	"Product & Engineering":  {"product", "engineering", "technical", "feature"},
	"Marketing & Growth":     {"marketing", "growth", "acquisition", "brand"},
	"Strategy & Vision":      {"strategy", "strategic", "vision", "long-term"},
	"Team & Operations":      {"team", "operations", "process", "hiring"},
	"People & Relationships": {"people", "relationship", "network", "community"},
	"Personal Development":   {"personal", "development", "habit", "learning"},
}

// Normalize cleans one raw backend chunk: trims whitespace, strips boundary
// runes that are neither letters, digits, nor spaces (models like to prefix
// quotes and bullets), and re-trims. Runs to a fixpoint so normalizing an
// already-normalized value is a no-op.
func Normalize(raw string) string {
	v := raw
	for {
		next := strings.TrimSpace(v)
		next = strings.TrimFunc(next, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' '
		})
		next = strings.TrimSpace(next)
		if next == v {
			return next
		}
		v = next
	}
}

// NormalizeField applies Normalize and, for closed-set fields, canonicalizes
// the cleaned value.
func NormalizeField(raw string, spec FieldSpec) string {
	cleaned := Normalize(raw)
	if len(spec.ClosedSet) == 0 {
		return cleaned
	}
	return Canonicalize(cleaned, spec.ClosedSet)
}

// Canonicalize maps free text onto the category whose keywords match it best;
// ties go to the earlier category. Text matching no category passes through
// unchanged rather than becoming an error.
func Canonicalize(value string, categories []string) string {
	lowered := strings.ToLower(value)

	best := ""
	bestScore := 0
	for _, category := range categories {
		keywords := categoryKeywords[category]
		if len(keywords) == 0 {
			keywords = []string{strings.ToLower(category)}
		}
		score := 0
		for _, keyword := range keywords {
			if strings.Contains(lowered, keyword) {
				score++
			}
		}
		if score > bestScore {
			best = category
			bestScore = score
		}
	}

	if best == "" {
		return value
	}
	return best
}
