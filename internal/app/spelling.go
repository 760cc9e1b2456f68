package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"review_prep/internal/adapters/observability"
	"review_prep/internal/domain"
)

// WithDictionary opens the dictionary once, hands it to fn and closes it on
// every exit path. A failed open is returned before fn runs.
func WithDictionary(open domain.DictionaryOpener, fn func(domain.SpellChecker) error) (err error) {
	dict, err := open()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDictionaryLoad, err)
	}
	defer func() {
		if cerr := dict.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close dictionary: %w", cerr)
		}
	}()
	return fn(dict)
}

// CorrectWords splits text on single spaces and replaces every unknown word
// with the checker's first suggestion. Words without suggestions are kept.
func CorrectWords(sc domain.SpellChecker, text string) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		if sc.IsCorrect(w) {
			observability.ObserveSpell("known")
			continue
		}
		if sug := sc.Suggest(w); len(sug) > 0 {
			words[i] = sug[0]
			observability.ObserveSpell("corrected")
			continue
		}
		observability.ObserveSpell("unchanged")
	}
	return strings.Join(words, " ")
}

// CorrectSpelling corrects every record, running up to workers records at a
// time. Results keep input order; only ctx cancellation produces an error.
func CorrectSpelling(ctx context.Context, records []domain.Review, sc domain.SpellChecker, workers int) ([]domain.Review, error) {
	if workers <= 0 {
		workers = 1
	}
	out := make([]domain.Review, len(records))
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var done atomic.Int64
	progress := rate.Sometimes{First: 1, Interval: 2 * time.Second}
	total := len(records)

	for i, r := range records {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		go func(i int, r domain.Review) {
			defer wg.Done()
			defer sem.Release(1)

			r.Text = CorrectWords(sc, r.Text)
			out[i] = r

			n := done.Add(1)
			progress.Do(func() {
				log.Info().Str("stage", StageCorrect).Msgf("Correcting spelling: %d/%d", n, total)
			})
		}(i, r)
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Info().Str("stage", StageCorrect).Msgf("Correcting spelling: %d/%d", done.Load(), total)
	return out, nil
}
