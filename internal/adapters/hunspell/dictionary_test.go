package hunspell_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"review_prep/internal/adapters/hunspell"
	"review_prep/internal/domain"
)

const testAff = `# small English-like affix file
SET UTF-8
TRY esianrtolcdugmphbyfvkwz
NOSUGGEST !
FORBIDDENWORD *

PFX U Y 1
PFX U   0     un         .

SFX S Y 4
SFX S   y     ies        [^aeiou]y
SFX S   0     s          [aeiou]y
SFX S   0     es         [sxzh]
SFX S   0     s          [^sxzhy]

SFX D Y 4
SFX D   0     d          e
SFX D   y     ied        [^aeiou]y
SFX D   0     ed         [^ey]
SFX D   0     ed         [aeiou]y

SFX G Y 2
SFX G   e     ing        e
SFX G   0     ing        [^e]
`

const testDic = `12
good
food/S
believe/DG
come/G
back
service/S
lock/UDG
try/DS
Paris
darn/!
irregardless/*
the	po:article
`

var _ domain.Dictionary = (*hunspell.Dictionary)(nil)

func load(t *testing.T) *hunspell.Dictionary {
	t.Helper()
	d, err := hunspell.Load([]byte(testAff), []byte(testDic))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestIsCorrect(t *testing.T) {
	d := load(t)
	tests := []struct {
		word string
		want bool
	}{
		{"good", true},
		{"Good", true},
		{"GOOD", true},
		{"foods", true},
		{"services", true},
		{"believed", true},
		{"believing", true},
		{"coming", true},
		{"unlock", true},
		{"locked", true},
		{"locking", true},
		{"tries", true},
		{"tried", true},
		{"the", true},
		{"Paris", true},
		{"PARIS", true},
		{"paris", false},
		{"darn", true},
		{"irregardless", false},
		{"goood", false},
		{"good-food", true},
		{"good-fod", false},
		{"", true},
		{"good!!", true},
		{"4th", true},
	}
	for _, tt := range tests {
		if got := d.IsCorrect(tt.word); got != tt.want {
			t.Errorf("IsCorrect(%q) = %v; want %v", tt.word, got, tt.want)
		}
	}
}

func TestSuggest(t *testing.T) {
	d := load(t)
	tests := []struct {
		word  string
		first string
	}{
		{"goood", "good"},
		{"Beleive", "Believe"},
		{"SERVCE", "SERVICE"},
		{"paris", "Paris"},
		{"teh", "the"},
		{"lokced", "locked"},
	}
	for _, tt := range tests {
		got := d.Suggest(tt.word)
		if len(got) == 0 || got[0] != tt.first {
			t.Errorf("Suggest(%q) = %v; want first %q", tt.word, got, tt.first)
		}
	}
}

func TestSuggestSkipsNoSuggestAndForbidden(t *testing.T) {
	d := load(t)
	for _, w := range []string{"darnn", "irregardles", "xyzzyq", "good!!", ""} {
		if got := d.Suggest(w); got != nil {
			t.Errorf("Suggest(%q) = %v; want none", w, got)
		}
	}
}

func TestLoadRejectsMalformedInput(t *testing.T) {
	cases := map[string]struct{ aff, dic string }{
		"dic without count":  {testAff, "good\nfood/S\n"},
		"dic without words":  {testAff, "0\n"},
		"empty dic":          {testAff, ""},
		"bad affix header":   {"SFX S maybe 1\n", testDic},
		"unterminated class": {"SFX S Y 1\nSFX S 0 s [^sx\n", testDic},
		"too many rules":     {"PFX U Y 1\nPFX U 0 un .\nPFX U 0 re .\n", testDic},
		"unknown charset":    {"SET KLINGON-8\n", testDic},
	}
	for name, c := range cases {
		if _, err := hunspell.Load([]byte(c.aff), []byte(c.dic)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestOpenMissingFiles(t *testing.T) {
	dir := t.TempDir()
	open := hunspell.Opener(filepath.Join(dir, "en.aff"), filepath.Join(dir, "en.dic"))
	if _, err := open(); err == nil {
		t.Fatalf("expected error for missing files")
	}
}

func TestOpenerFromFiles(t *testing.T) {
	dir := t.TempDir()
	aff, dic := filepath.Join(dir, "en.aff"), filepath.Join(dir, "en.dic")
	if err := os.WriteFile(aff, []byte(testAff), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dic, []byte(testDic), 0o644); err != nil {
		t.Fatal(err)
	}

	dict, err := hunspell.Opener(aff, dic)()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !dict.IsCorrect("locked") {
		t.Fatalf("expected locked to be known")
	}
	if err := dict.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !dict.IsCorrect("zzzz") || dict.Suggest("goood") != nil {
		t.Fatalf("closed dictionary should accept everything and suggest nothing")
	}
}

func TestLoadLatin1(t *testing.T) {
	aff := []byte("SET ISO8859-1\nSFX S Y 1\nSFX S 0 s .\n")
	dic := []byte("1\ncaf\xe9/S\n")
	d, err := hunspell.Load(aff, dic)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !d.IsCorrect("café") || !d.IsCorrect("cafés") {
		t.Fatalf("expected decoded latin-1 forms")
	}
	if got := d.Suggest("cafe"); !reflect.DeepEqual(got, []string{"café", "cafés"}) {
		t.Fatalf("Suggest(cafe) = %v", got)
	}
}

func TestLongFlagsRejected(t *testing.T) {
	aff := []byte("FLAG long\nSFX Aa Y 1\nSFX Aa 0 s .\n")
	if _, err := hunspell.Load(aff, []byte("1\nbook/Aa\n")); err == nil {
		t.Fatalf("expected FLAG long to be rejected")
	}
}

func TestNeedAffix(t *testing.T) {
	aff := []byte("NEEDAFFIX Z\nSFX A Y 1\nSFX A 0 s .\n")
	dic := []byte("2\nbook/A\ncat/AZ\n")
	d, err := hunspell.Load(aff, dic)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !d.IsCorrect("books") || !d.IsCorrect("book") || !d.IsCorrect("cats") {
		t.Fatalf("expected affixed forms")
	}
	if d.IsCorrect("cat") {
		t.Fatalf("NEEDAFFIX stem must not be accepted alone")
	}
	if d.Len() != 3 {
		t.Fatalf("Len = %d, want 3", d.Len())
	}
}
