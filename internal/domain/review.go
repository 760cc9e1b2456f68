package domain

import "strings"

type Sentiment string

const (
	Positive Sentiment = "Positive"
	Negative Sentiment = "Negative"
	Unknown  Sentiment = "Unknown" // ingestion placeholder
)

// ParseSentiment maps a stored label back to a Sentiment.
// Empty and unrecognized values become Unknown.
func ParseSentiment(s string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return Positive
	case "negative":
		return Negative
	default:
		return Unknown
	}
}

type Review struct {
	Text      string
	Rating    float64
	Sentiment Sentiment
}

// Valid reports whether the review has non-blank text and a positive rating.
func (r Review) Valid() bool {
	return strings.TrimSpace(r.Text) != "" && r.Rating > 0
}
