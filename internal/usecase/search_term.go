package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex pattern for performance
var multiSpacePattern = regexp.MustCompile(`\s+`)

// searchStopWords are preparation and state descriptors stripped from
// ingredient text before catalog search. Removed as whole words only.
var searchStopWords = map[string]bool{
	// Freshness/state
	"fresh": true, "organic": true, "raw": true, "ripe": true,
	"dried": true, "canned": true, "frozen": true, "thawed": true,
	"cooked": true, "uncooked": true,
	// Preparation
	"chopped": true, "diced": true, "minced": true, "sliced": true,
	"cubed": true, "grated": true, "shredded": true, "ground": true,
	"crushed": true, "peeled": true, "trimmed": true, "softened": true,
	"melted": true, "divided": true, "drained": true, "rinsed": true,
	// Modifiers
	"finely": true, "coarsely": true, "thinly": true, "roughly": true,
	"freshly": true, "lightly": true,
	// Cuts and sizes
	"whole": true, "large": true, "small": true, "medium": true,
	"boneless": true, "skinless": true, "lean": true,
	// Filler
	"plus": true, "extra": true, "more": true, "optional": true,
}

const maxSearchTokens = 3

// ExtractSearchTerm distills a raw recipe ingredient line into a short
// catalog search term. Trailing prep notes after the first comma are
// dropped, descriptor stop words are stripped, and the first few
// substantial tokens are kept.
//
// For non-empty input the result is never empty: when stripping removes
// everything, the cleaned string is used, then the original trimmed text.
func ExtractSearchTerm(raw string) string {
	original := strings.TrimSpace(raw)

	// Everything after the first comma is prep notes (", diced", ", melted")
	text := original
	if idx := strings.Index(text, ","); idx > 0 {
		text = text[:idx]
	}

	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, "-", " ")

	words := strings.Fields(text)
	var kept []string
	for _, word := range words {
		word = strings.Trim(word, ".!?;:'\"()")
		if len(word) <= 2 {
			continue
		}
		if searchStopWords[word] {
			continue
		}
		kept = append(kept, word)
	}

	if len(kept) > 0 {
		if len(kept) > maxSearchTokens {
			kept = kept[:maxSearchTokens]
		}
		return strings.Join(kept, " ")
	}

	// All tokens were stripped; fall back to the cleaned pre-comma text
	cleaned := strings.TrimSpace(multiSpacePattern.ReplaceAllString(text, " "))
	if cleaned != "" {
		return cleaned
	}

	return original
}
