package app

import "review_prep/internal/domain"

const positiveThreshold = 2.5

// LabelFor applies the two-way threshold. Unknown is only reachable for NaN.
func LabelFor(rating float64) domain.Sentiment {
	switch {
	case rating < positiveThreshold:
		return domain.Negative
	case rating >= positiveThreshold:
		return domain.Positive
	default:
		return domain.Unknown
	}
}

func AssignLabels(records []domain.Review) []domain.Review {
	out := make([]domain.Review, len(records))
	for i, r := range records {
		r.Sentiment = LabelFor(r.Rating)
		out[i] = r
	}
	return out
}
