package hunspell

import (
	"hash/fnv"
	"sort"
	"unicode/utf8"
)

const (
	maxEditDistance = 2 // maximum pre-computed edit distance
	prefixLength    = 7 // prefix length for delete generation (memory optimization)
	deletesPerWord  = 4 // estimated delete variants per word for initial map capacity
)

// symIndex is a symmetric-delete index over lowercased word forms.
// It is built once at load time and read-only afterwards.
type symIndex struct {
	deletes  map[uint32][]uint32 // hash(delete) -> []index into wordList
	wordList []string
	maxLen   int // longest word in runes
}

type match struct {
	term     string
	distance int
}

func newSymIndex(capacity int) *symIndex {
	return &symIndex{
		deletes:  make(map[uint32][]uint32, capacity*deletesPerWord),
		wordList: make([]string, 0, capacity),
	}
}

func (ix *symIndex) add(word string) {
	idx := uint32(len(ix.wordList)) //nolint:gosec // dictionary size is bounded well below uint32 max
	ix.wordList = append(ix.wordList, word)
	if n := utf8.RuneCountInString(word); n > ix.maxLen {
		ix.maxLen = n
	}
	prefix := truncateToRunes(word, prefixLength)
	ix.insert(prefix, idx)
	for _, del := range generateDeletes(prefix, maxEditDistance) {
		ix.insert(del, idx)
	}
}

func (ix *symIndex) insert(key string, idx uint32) {
	h := fnvHash(key)
	ix.deletes[h] = append(ix.deletes[h], idx)
}

// lookup returns every indexed word within maxDist of input, sorted by
// distance ascending and then alphabetically.
func (ix *symIndex) lookup(input string, maxDist int) []match {
	if input == "" {
		return nil
	}
	if maxDist > maxEditDistance {
		maxDist = maxEditDistance
	}
	inputLen := utf8.RuneCountInString(input)
	if inputLen-maxDist > ix.maxLen {
		return nil
	}

	var out []match
	seen := make(map[uint32]struct{})

	inputPrefix := truncateToRunes(input, prefixLength)
	keys := append(generateDeletes(inputPrefix, maxDist), inputPrefix)
	for _, key := range keys {
		for _, idx := range ix.deletes[fnvHash(key)] {
			if _, already := seen[idx]; already {
				continue
			}
			seen[idx] = struct{}{}

			candidate := ix.wordList[idx]
			lenDiff := inputLen - utf8.RuneCountInString(candidate)
			if lenDiff < 0 {
				lenDiff = -lenDiff
			}
			if lenDiff > maxDist {
				continue
			}
			if d := damerauLevenshtein(input, candidate); d <= maxDist {
				out = append(out, match{term: candidate, distance: d})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].distance != out[j].distance {
			return out[i].distance < out[j].distance
		}
		return out[i].term < out[j].term
	})
	return out
}

// truncateToRunes returns s truncated to at most n runes.
func truncateToRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// fnvHash returns the FNV-1a 32-bit hash of s.
func fnvHash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s)) // cannot fail per hash.Hash contract
	return h.Sum32()
}

// generateDeletes returns all unique strings obtainable by deleting 1 to dist
// runes from s. The original string itself is not included.
func generateDeletes(s string, dist int) []string {
	if dist == 0 || s == "" {
		return nil
	}
	type item struct {
		word  string
		depth int
	}
	seen := make(map[string]struct{})
	var results []string
	queue := []item{{s, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		r := []rune(cur.word)
		for i := range r {
			del := string(r[:i]) + string(r[i+1:])
			if _, ok := seen[del]; ok {
				continue
			}
			seen[del] = struct{}{}
			results = append(results, del)
			if cur.depth+1 < dist {
				queue = append(queue, item{del, cur.depth + 1})
			}
		}
	}
	return results
}

// damerauLevenshtein is the optimal string alignment distance over runes:
// insertions, deletions, substitutions and adjacent transpositions.
func damerauLevenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// three rolling rows: two back, previous, current
	prev2 := make([]int, lb+1)
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			v := min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				v = min(v, prev2[j-2]+1)
			}
			cur[j] = v
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return prev[lb]
}
