package app

import (
	"fmt"
	"math/rand/v2"
	"time"

	"review_prep/internal/domain"
)

const maxRating = 5.0

// Band is the half-open rating interval (Lower, Upper].
type Band struct {
	Lower, Upper float64
}

func (b Band) Contains(rating float64) bool {
	return rating > b.Lower && rating <= b.Upper
}

// Bands splits (0, 5] into n equal-width bands. The last upper bound is
// pinned to 5 so rounding in the step never leaves 5.0 uncovered.
func Bands(n int) ([]Band, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidPartCount, n)
	}
	step := maxRating / float64(n)
	out := make([]Band, n)
	for i := range out {
		out[i] = Band{Lower: float64(i) * step, Upper: float64(i+1) * step}
	}
	out[n-1].Upper = maxRating
	return out, nil
}

// Partition groups records by band, preserving input order inside a band.
// Ratings outside (0, 5] fall into no band and are dropped.
func Partition(records []domain.Review, bands []Band) [][]domain.Review {
	groups := make([][]domain.Review, len(bands))
	for _, r := range records {
		for i, b := range bands {
			if b.Contains(r.Rating) {
				groups[i] = append(groups[i], r)
				break
			}
		}
	}
	return groups
}

// Balance undersamples every rating band to the size of the smallest one.
// Sampling is uniform without replacement and driven only by rng, so a fixed
// seed reproduces the output exactly; a nil rng is seeded from the clock.
// An empty band yields ErrEmptyBand rather than an empty success.
func Balance(records []domain.Review, partCount int, rng *rand.Rand) ([]domain.Review, error) {
	bands, err := Bands(partCount)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed))
	}

	groups := Partition(records, bands)
	minCount := -1
	for i, g := range groups {
		if len(g) == 0 {
			return nil, fmt.Errorf("%w: band %d (%.4g, %.4g]", domain.ErrEmptyBand, i, bands[i].Lower, bands[i].Upper)
		}
		if minCount < 0 || len(g) < minCount {
			minCount = len(g)
		}
	}

	out := make([]domain.Review, 0, minCount*partCount)
	for _, g := range groups {
		if len(g) <= minCount {
			out = append(out, g...)
			continue
		}
		for _, idx := range rng.Perm(len(g))[:minCount] {
			out = append(out, g[idx])
		}
	}
	return out, nil
}
