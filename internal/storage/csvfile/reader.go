package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"review_prep/internal/domain"
)

// columnAliases is the single source of truth for accepted header names
// (compared lowercased, with spaces and underscores removed).
var columnAliases = map[string][]string{
	"text":      {"reviewtext", "review", "text", "comment", "body", "content"},
	"rating":    {"rating", "score", "stars", "rate"},
	"sentiment": {"sentiment", "label"},
}

type columns struct{ text, rating, sentiment int }

func headerKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
	return strings.NewReplacer(" ", "", "_", "").Replace(s)
}

func locate(header []string) (columns, error) {
	find := func(key string) int {
		for _, alias := range columnAliases[key] {
			for i, h := range header {
				if headerKey(h) == alias {
					return i
				}
			}
		}
		return -1
	}
	c := columns{text: find("text"), rating: find("rating"), sentiment: find("sentiment")}
	if c.text < 0 || c.rating < 0 {
		return c, fmt.Errorf("csv: header %q lacks a text or rating column", strings.Join(header, ","))
	}
	return c, nil
}

// ReadFile loads reviews from a CSV file with a header row.
func ReadFile(path string) ([]domain.Review, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes reviews from CSV. Missing fields read as empty, an
// unparsable rating reads as 0 and an empty sentiment as Unknown, leaving
// validity decisions to the pipeline. Rows the CSV parser rejects are skipped.
func Read(r io.Reader) ([]domain.Review, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: missing header")
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	cols, err := locate(header)
	if err != nil {
		return nil, err
	}

	var out []domain.Review
	skipped := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				skipped++
				continue
			}
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		out = append(out, domain.Review{
			Text:      cell(rec, cols.text),
			Rating:    parseRating(cell(rec, cols.rating)),
			Sentiment: domain.ParseSentiment(cell(rec, cols.sentiment)),
		})
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("csv: malformed rows skipped")
	}
	return out, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

// parseRating accepts "4.5" and "4,5"; anything else is 0.
func parseRating(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
