package app

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"review_prep/internal/domain"
)

var (
	// contractionRegexp is matched left to right; the first alternative that
	// fits wins. wouldn't and shouldn't are deliberately absent, see expansions.
	// Word boundaries are checked by atBoundary since RE2's \b is ASCII only.
	contractionRegexp = regexp.MustCompile(`(?i)('m|'re|'s|'d|'ll|'ve|can't|won't|isn't|wasn't|aren't|don't|doesn't|haven't|hadn't|didn't|couldn't)`)
	// disallowedRegexp matches everything the expander may not emit.
	disallowedRegexp = regexp.MustCompile(`[^a-zA-Z0-9\s.,!?'-]`)

	apostropheReplacer = strings.NewReplacer("’", "'")
)

// expansions maps a lowercased match to its long form. The wouldn't and
// shouldn't entries are unreachable through contractionRegexp and are kept
// only so the table documents the full rewrite set.
var expansions = map[string]string{
	"'m":        " am",
	"'re":       " are",
	"'s":        " is",
	"'d":        " would",
	"'ll":       " will",
	"'ve":       " have",
	"wouldn't":  "would not",
	"shouldn't": "should not",
	"can't":     "can not",
	"won't":     "will not",
	"isn't":     "is not",
	"wasn't":    "was not",
	"aren't":    "are not",
	"don't":     "do not",
	"doesn't":   "does not",
	"haven't":   "have not",
	"hadn't":    "had not",
	"didn't":    "did not",
	"couldn't":  "could not",
}

// ExpandText rewrites contractions to their long forms, strips characters
// outside letters, digits, whitespace and . , ! ? ' - and trims the result.
func ExpandText(s string) string {
	s = apostropheReplacer.Replace(s)
	s = replaceContractions(s)
	s = disallowedRegexp.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// replaceContractions rewrites every contraction that starts and ends on a
// word boundary. A rejected candidate only advances the search by one rune.
func replaceContractions(s string) string {
	var b strings.Builder
	copied, from := 0, 0
	for from < len(s) {
		loc := contractionRegexp.FindStringIndex(s[from:])
		if loc == nil {
			break
		}
		start, end := from+loc[0], from+loc[1]
		if atBoundary(s, start) && atBoundary(s, end) {
			m := s[start:end]
			if long, ok := expansions[strings.ToLower(m)]; ok {
				m = long
			}
			b.WriteString(s[copied:start])
			b.WriteString(m)
			copied, from = end, end
			continue
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		from = start + size
	}
	if copied == 0 {
		return s
	}
	b.WriteString(s[copied:])
	return b.String()
}

// atBoundary reports whether byte offset i of s sits between a word rune
// ([\p{L}\p{N}_]) and a non-word rune, treating the string ends as non-word.
func atBoundary(s string, i int) bool {
	var before, after bool
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func ExpandContractions(records []domain.Review) []domain.Review {
	out := make([]domain.Review, len(records))
	for i, r := range records {
		r.Text = ExpandText(r.Text)
		out[i] = r
	}
	return out
}
