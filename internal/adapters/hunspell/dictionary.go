// Package hunspell loads a Hunspell .aff/.dic pair into an in-memory word
// list and answers spelling lookups against it.
//
// Stems are expanded through their PFX/SFX classes at load time by gospell.
// Flags are single UTF-8 runes; FLAG long/num, continuation classes and
// compounding are not supported. Suggestions come from a symmetric-delete
// index over the lowercased forms, ranked by edit distance and then
// alphabetically, with the case pattern of the input word carried over.
//
// A loaded Dictionary is read-only and safe for concurrent use until Close.
package hunspell

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/client9/gospell"
	"github.com/rs/zerolog/log"

	"review_prep/internal/domain"
)

const maxSuggestions = 10

type Dictionary struct {
	mu        sync.RWMutex
	speller   *gospell.GoSpell
	forms     map[string]struct{} // exact-case accepted forms
	forbidden map[string]struct{}
	canonical map[string]string // lowercased form -> preferred surface form
	index     *symIndex
}

// Opener adapts Open to the pipeline's scoped dictionary acquisition.
func Opener(affPath, dicPath string) domain.DictionaryOpener {
	return func() (domain.Dictionary, error) {
		d, err := Open(affPath, dicPath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("dic", dicPath).Int("forms", d.Len()).Msg("dictionary loaded")
		return d, nil
	}
}

// Open reads and indexes the affix and dictionary files.
func Open(affPath, dicPath string) (*Dictionary, error) {
	aff, err := os.ReadFile(affPath)
	if err != nil {
		return nil, fmt.Errorf("hunspell: read aff: %w", err)
	}
	dic, err := os.ReadFile(dicPath)
	if err != nil {
		return nil, fmt.Errorf("hunspell: read dic: %w", err)
	}
	return Load(aff, dic)
}

// Load builds a Dictionary from in-memory .aff and .dic contents. Stem and
// affix expansion is done by gospell; the pre-pass in prepare handles the
// charset and the NOSUGGEST, FORBIDDENWORD and NEEDAFFIX markers.
func Load(aff, dic []byte) (*Dictionary, error) {
	charset := setEncoding(aff)
	aff, err := toUTF8(aff, charset)
	if err != nil {
		return nil, fmt.Errorf("hunspell: aff: %w", err)
	}
	dic, err = toUTF8(dic, charset)
	if err != nil {
		return nil, fmt.Errorf("hunspell: dic: %w", err)
	}

	p, err := prepare(aff, dic)
	if err != nil {
		return nil, fmt.Errorf("hunspell: %w", err)
	}
	gs, err := gospell.NewGoSpellReader(bytes.NewReader(p.aff), bytes.NewReader(p.dic))
	if err != nil {
		return nil, fmt.Errorf("hunspell: expand: %w", err)
	}
	quiet := map[string]struct{}{}
	if p.noSuggest != nil {
		qs, err := gospell.NewGoSpellReader(bytes.NewReader(p.aff), bytes.NewReader(p.noSuggest))
		if err != nil {
			return nil, fmt.Errorf("hunspell: expand: %w", err)
		}
		for form := range qs.Dict {
			quiet[form] = struct{}{}
		}
	}

	d := &Dictionary{
		speller:   gs,
		forms:     make(map[string]struct{}, len(gs.Dict)),
		forbidden: make(map[string]struct{}, len(p.forbidden)),
		canonical: make(map[string]string, len(gs.Dict)),
	}
	for _, w := range p.forbidden {
		d.forbidden[w] = struct{}{}
	}
	for form := range gs.Dict {
		if _, ok := p.needAffix[form]; ok {
			if _, bare := p.bareStems[form]; !bare {
				delete(gs.Dict, form)
				continue
			}
		}
		d.forms[form] = struct{}{}
		if _, ok := quiet[form]; ok {
			continue
		}
		key := strings.ToLower(form)
		if prev, ok := d.canonical[key]; !ok || form == key || (prev != key && form < prev) {
			d.canonical[key] = form
		}
	}

	d.index = newSymIndex(len(d.canonical))
	for key := range d.canonical {
		d.index.add(key)
	}
	return d, nil
}

// IsCorrect reports whether word is an accepted form. Title-case and
// upper-case spellings of lowercase forms are accepted; hyphenated words are
// accepted when every part is. Empty strings and tokens carrying digits or
// characters other than letters, apostrophes and hyphens are not words and
// are reported correct so callers leave them untouched.
func (d *Dictionary) IsCorrect(word string) bool {
	if !isWord(word) {
		return true
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.forms == nil {
		return true // closed
	}
	return d.isCorrect(word)
}

func (d *Dictionary) isCorrect(word string) bool {
	if _, bad := d.forbidden[word]; bad {
		return false
	}
	if _, ok := d.forms[word]; ok {
		return true
	}
	lower := strings.ToLower(word)
	if lower != word && (isTitleCase(word) || isAllUpper(word)) {
		if _, ok := d.forms[lower]; ok {
			return true
		}
		if isAllUpper(word) {
			if _, ok := d.forms[upperFirst(lower)]; ok {
				return true
			}
		}
	}
	if i := strings.IndexByte(word, '-'); i > 0 && i < len(word)-1 {
		for _, part := range strings.Split(word, "-") {
			if part == "" || !d.isCorrect(part) {
				return false
			}
		}
		return true
	}
	return d.speller.Spell(word)
}

// Suggest returns up to ten replacement candidates for word, best first.
func (d *Dictionary) Suggest(word string) []string {
	if !isWord(word) {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.index == nil {
		return nil
	}

	matches := d.index.lookup(strings.ToLower(word), maxEditDistance)
	out := make([]string, 0, min(len(matches), maxSuggestions))
	for _, m := range matches {
		form := d.canonical[m.term]
		if _, bad := d.forbidden[form]; bad {
			continue
		}
		s := applyCase(word, form)
		if s == word {
			continue
		}
		out = append(out, s)
		if len(out) == maxSuggestions {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Close drops the word tables. Lookups after Close report every word as
// correct and return no suggestions.
func (d *Dictionary) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.speller, d.forms, d.forbidden, d.canonical, d.index = nil, nil, nil, nil, nil
	return nil
}

// Len returns the number of accepted surface forms.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.forms)
}

// isWord reports whether s consists of letters, apostrophes and hyphens
// with at least one letter.
func isWord(s string) bool {
	letter := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case r == '\'' || r == '-':
		default:
			return false
		}
	}
	return letter
}

// applyCase transfers the case pattern of original onto corrected, unless
// corrected carries its own capitals (proper nouns, acronyms).
func applyCase(original, corrected string) string {
	if corrected != strings.ToLower(corrected) {
		return corrected
	}
	if isAllUpper(original) && utf8.RuneCountInString(original) > 1 {
		return strings.ToUpper(corrected)
	}
	if r, _ := utf8.DecodeRuneInString(original); unicode.IsUpper(r) {
		return upperFirst(corrected)
	}
	return corrected
}

// isTitleCase reports whether s starts with an upper-case rune followed only
// by lower-case letters.
func isTitleCase(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	if !unicode.IsUpper(r) {
		return false
	}
	for _, c := range s[size:] {
		if unicode.IsUpper(c) {
			return false
		}
	}
	return true
}

// isAllUpper reports whether every letter in s is upper-case.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
