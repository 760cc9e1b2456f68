package hunspell

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// prepared holds the inputs handed to gospell plus the markers it does not
// understand. gospell decodes flags as single runes, knows only PFX/SFX
// classes and fails on any other flag, so entries are rewritten to carry
// affix flags only. Forbidden entries are kept out of the word list.
type prepared struct {
	aff       []byte // PFX/SFX blocks only
	dic       []byte // every accepted entry
	noSuggest []byte // entries that must not be offered as suggestions
	forbidden []string
	needAffix map[string]struct{} // stems only valid with an affix
	bareStems map[string]struct{} // stems accepted on their own
}

type markers struct {
	noSuggest, forbidden, needAffix rune
}

// prepare validates a UTF-8 .aff/.dic pair and splits it for gospell.
func prepare(aff, dic []byte) (*prepared, error) {
	classes, mk, affixLines, err := scanAff(aff)
	if err != nil {
		return nil, err
	}

	sc := bufio.NewScanner(bytes.NewReader(dic))
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("dic scan: %w", err)
		}
		return nil, fmt.Errorf("dic: empty file")
	}
	first := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
	if n, err := strconv.Atoi(first); err != nil || n < 0 {
		return nil, fmt.Errorf("dic: first line must be the entry count, got %q", sc.Text())
	}

	p := &prepared{
		aff:       []byte(strings.Join(affixLines, "\n") + "\n"),
		needAffix: map[string]struct{}{},
		bareStems: map[string]struct{}{},
	}
	var accepted, quiet []string
	for sc.Scan() {
		line := sc.Text()
		if line == "" || line[0] == '\t' || line[0] == '#' {
			continue
		}
		f := strings.Fields(line) // drops morphological fields
		if len(f) == 0 {
			continue
		}
		word, flags := f[0], ""
		if i := strings.IndexByte(word, '/'); i > 0 {
			word, flags = word[:i], word[i+1:]
		}

		var keep []rune
		var isForbidden, isQuiet, needs bool
		for _, r := range flags {
			switch {
			case r == mk.forbidden:
				isForbidden = true
			case r == mk.noSuggest:
				isQuiet = true
			case r == mk.needAffix:
				needs = true
			case classes[r]:
				keep = append(keep, r)
			}
		}
		if isForbidden {
			p.forbidden = append(p.forbidden, word)
			continue
		}
		if needs {
			p.needAffix[word] = struct{}{}
		} else {
			p.bareStems[word] = struct{}{}
		}

		entry := word
		if len(keep) > 0 {
			entry += "/" + string(keep)
		}
		accepted = append(accepted, entry)
		if isQuiet {
			quiet = append(quiet, entry)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dic scan: %w", err)
	}
	if len(accepted) == 0 {
		return nil, fmt.Errorf("dic: no entries")
	}
	p.dic = dicBody(accepted)
	if len(quiet) > 0 {
		p.noSuggest = dicBody(quiet)
	}
	return p, nil
}

func dicBody(entries []string) []byte {
	var b bytes.Buffer
	b.WriteString(strconv.Itoa(len(entries)))
	b.WriteByte('\n')
	for _, e := range entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// scanAff collects the affix class flags, the marker flags and the PFX/SFX
// lines. Headers ("PFX flag Y|N count") and rule counts are checked here so
// malformed files fail with a line number.
func scanAff(data []byte) (map[rune]bool, markers, []string, error) {
	var mk markers
	classes := map[rune]bool{}
	remaining := map[string]int{}
	var lines []string

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		f := strings.Fields(line)
		switch f[0] {
		case "FLAG":
			if len(f) > 1 && !strings.EqualFold(f[1], "UTF-8") {
				return nil, mk, nil, fmt.Errorf("aff line %d: FLAG %s is not supported", lineNo, f[1])
			}
		case "NOSUGGEST":
			mk.noSuggest = flagRune(f)
		case "FORBIDDENWORD":
			mk.forbidden = flagRune(f)
		case "NEEDAFFIX":
			mk.needAffix = flagRune(f)
		case "PFX", "SFX":
			if len(f) < 4 {
				return nil, mk, nil, fmt.Errorf("aff line %d: short %s line", lineNo, f[0])
			}
			key := f[0] + " " + f[1]
			left, seen := remaining[key]
			switch {
			case !seen:
				n, err := strconv.Atoi(f[3])
				if err != nil || n < 0 || (f[2] != "Y" && f[2] != "N") {
					return nil, mk, nil, fmt.Errorf("aff line %d: bad header %q", lineNo, line)
				}
				if r := []rune(f[1]); len(r) == 1 {
					classes[r[0]] = true
				} else {
					return nil, mk, nil, fmt.Errorf("aff line %d: multi-character flag %q", lineNo, f[1])
				}
				remaining[key] = n
			case left == 0:
				return nil, mk, nil, fmt.Errorf("aff line %d: %s: more rules than declared", lineNo, key)
			default:
				if len(f) > 4 && strings.Count(f[4], "[") != strings.Count(f[4], "]") {
					return nil, mk, nil, fmt.Errorf("aff line %d: unterminated condition %q", lineNo, f[4])
				}
				remaining[key] = left - 1
				if i := strings.IndexByte(f[3], '/'); i >= 0 {
					f[3] = f[3][:i] // continuation classes are not expanded
					line = strings.Join(f, " ")
				}
			}
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, mk, nil, fmt.Errorf("aff scan: %w", err)
	}
	return classes, mk, lines, nil
}

func flagRune(f []string) rune {
	if len(f) < 2 {
		return 0
	}
	r := []rune(f[1])
	if len(r) != 1 {
		return 0
	}
	return r[0]
}
