package textmatch

import (
	"strings"

	"golang.org/x/text/width"
)

// Fold normalizes full-width and half-width variants to their canonical
// forms. Model replies in Japanese mix ｶﾀｶﾅ, ＡＢＣ and ascii freely, so
// keyword matching folds both sides before comparing.
func Fold(s string) string {
	return width.Fold.String(s)
}

// Contains reports whether text contains keyword as a substring after
// width folding. Matching is case-preserving otherwise: scenario keywords
// are authored in the same script the model is instructed to reply in.
func Contains(text, keyword string) bool {
	if keyword == "" {
		return false
	}
	return strings.Contains(Fold(text), Fold(keyword))
}

// ContainsAny reports whether text contains at least one of the keywords.
func ContainsAny(text string, keywords []string) bool {
	folded := Fold(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(folded, Fold(kw)) {
			return true
		}
	}
	return false
}
