package app

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"review_prep/internal/domain"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeString lowercases s, folds accented letters to their base letter
// and removes punctuation. Digits, symbols and whitespace pass through.
func NormalizeString(s string) string {
	folded, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, folded)
}

func NormalizeText(records []domain.Review) []domain.Review {
	out := make([]domain.Review, len(records))
	for i, r := range records {
		r.Text = NormalizeString(r.Text)
		out[i] = r
	}
	return out
}
