package app

import "review_prep/internal/domain"

type reviewKey struct {
	text   string
	rating float64
}

// Clean drops invalid reviews and collapses exact (text, rating) duplicates
// onto their first occurrence. Input order of survivors is preserved.
func Clean(records []domain.Review) []domain.Review {
	seen := make(map[reviewKey]struct{}, len(records))
	out := make([]domain.Review, 0, len(records))
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		k := reviewKey{text: r.Text, rating: r.Rating}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
