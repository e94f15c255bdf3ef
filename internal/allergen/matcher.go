package allergen

import (
	"strings"
	"unicode"
)

// normalize trims and lower-cases a term
func normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// contains matches term, or term with its whitespace removed, against text
func contains(text, term string) bool {
	if strings.Contains(text, term) {
		return true
	}
	compact := stripSpace(term)
	return compact != "" && strings.Contains(text, compact)
}

// DetectAllergens returns the normalized entries of allergenList found in
// ingredientText, in list order. Matching is plain substring search: an entry
// matches when it, or it with internal whitespace removed, occurs in the text.
// Blank entries are ignored and a term is reported at most once.
func DetectAllergens(ingredientText string, allergenList []string) []string {
	return detect(strings.ToLower(ingredientText), allergenList, func(term string) []string {
		return []string{term}
	})
}

// Detect is DetectAllergens that also accepts the vocabulary's synonyms as
// evidence for a known allergen. Results are still the caller's normalized
// entries.
func (v Vocabulary) Detect(ingredientText string, allergenList []string) []string {
	return detect(strings.ToLower(ingredientText), allergenList, v.terms)
}

func detect(text string, allergenList []string, expand func(string) []string) []string {
	found := make([]string, 0)
	seen := make(map[string]bool, len(allergenList))
	for _, entry := range allergenList {
		term := normalize(entry)
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		for _, t := range expand(term) {
			if contains(text, t) {
				found = append(found, term)
				break
			}
		}
	}
	return found
}

// IngredientText builds the matcher input from a product's textual fields.
// Empty fields are skipped; the rest are lower-cased and space-joined.
func IngredientText(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			parts = append(parts, strings.ToLower(f))
		}
	}
	return strings.Join(parts, " ")
}
