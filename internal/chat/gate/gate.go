// Package gate decides whether a chat message is worth sending to the
// assistant.
package gate

import (
	"strings"
	"unicode"

	"github.com/tair/allergy-scan/internal/allergen"
	"github.com/tair/allergy-scan/internal/chat/domain"
)

// Classify returns the topic of text. Greetings win over everything else,
// then allergy and symptom keywords make the text in-domain.
func Classify(text string) domain.Topic {
	lower := strings.ToLower(text)

	for _, phrase := range allergen.GreetingPhrases {
		if containsWord(lower, phrase) {
			return domain.TopicGreeting
		}
	}
	for _, set := range [][]string{allergen.AllergyKeywords, allergen.SymptomKeywords} {
		for _, kw := range set {
			if strings.Contains(lower, kw) {
				return domain.TopicInDomain
			}
		}
	}
	return domain.TopicOutOfDomain
}

// containsWord reports whether phrase occurs in s bounded by non-alphanumerics,
// so "hi" matches "hi there" but not "this".
func containsWord(s, phrase string) bool {
	for start := 0; start <= len(s)-len(phrase); {
		i := strings.Index(s[start:], phrase)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(phrase)
		if !wordRuneBefore(s, i) && !wordRuneAt(s, end) {
			return true
		}
		start = i + 1
	}
	return false
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r := []rune(s[:i])
	return isWordRune(r[len(r)-1])
}

func wordRuneAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	for _, r := range s[i:] {
		return isWordRune(r)
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
