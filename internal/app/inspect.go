package app

import (
	"strings"

	"review_prep/internal/domain"
)

// DataReport lists the problems Clean would silently drop, by input position.
type DataReport struct {
	Total          int
	EmptyText      []int
	InvalidRatings []RatingIssue
	Duplicates     []DuplicateGroup
}

type RatingIssue struct {
	Position int
	Rating   float64
}

type DuplicateGroup struct {
	Text      string
	Rating    float64
	Positions []int
}

func (r DataReport) Clean() bool {
	return len(r.EmptyText) == 0 && len(r.InvalidRatings) == 0 && len(r.Duplicates) == 0
}

// Inspect reports empty texts, non-positive ratings and duplicate groups.
// Duplicate detection looks at all records, valid or not; groups are ordered
// by their first position.
func Inspect(records []domain.Review) DataReport {
	rep := DataReport{Total: len(records)}
	groups := make(map[reviewKey]int)
	for i, r := range records {
		if strings.TrimSpace(r.Text) == "" {
			rep.EmptyText = append(rep.EmptyText, i)
		}
		if !(r.Rating > 0) {
			rep.InvalidRatings = append(rep.InvalidRatings, RatingIssue{Position: i, Rating: r.Rating})
		}
		k := reviewKey{text: r.Text, rating: r.Rating}
		if gi, ok := groups[k]; ok {
			rep.Duplicates[gi].Positions = append(rep.Duplicates[gi].Positions, i)
			continue
		}
		groups[k] = len(rep.Duplicates)
		rep.Duplicates = append(rep.Duplicates, DuplicateGroup{Text: r.Text, Rating: r.Rating, Positions: []int{i}})
	}

	dups := rep.Duplicates[:0]
	for _, g := range rep.Duplicates {
		if len(g.Positions) > 1 {
			dups = append(dups, g)
		}
	}
	rep.Duplicates = dups
	if len(rep.Duplicates) == 0 {
		rep.Duplicates = nil
	}
	return rep
}
