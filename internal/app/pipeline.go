package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"review_prep/internal/adapters/observability"
	"review_prep/internal/domain"
)

const (
	StageClean     = "clean"
	StageBalance   = "balance"
	StageExpand    = "expand"
	StageCorrect   = "spelling"
	StageNormalize = "normalize"
	StageLabel     = "label"
)

// Stages lists the pipeline stages in execution order.
var Stages = []string{StageClean, StageBalance, StageExpand, StageCorrect, StageNormalize, StageLabel}

// firstStageSeq numbers checkpoints after the raw input, which is seq 1.
const firstStageSeq = 2

type Options struct {
	PartCount    int
	Rand         *rand.Rand
	SpellWorkers int
	Dictionary   domain.DictionaryOpener
	// WrapChecker, when set, decorates the opened dictionary (e.g. with a cache).
	WrapChecker func(domain.SpellChecker) domain.SpellChecker
}

type Pipeline struct {
	opts  Options
	sinks []domain.SnapshotWriter
}

type Result struct {
	RunID   string
	Reviews []domain.Review
}

func NewPipeline(opts Options, sinks ...domain.SnapshotWriter) *Pipeline {
	if opts.SpellWorkers <= 0 {
		opts.SpellWorkers = 1
	}
	return &Pipeline{opts: opts, sinks: sinks}
}

// Run executes every stage in order, checkpointing each stage's output to
// all sinks. It stops at the first stage error.
func (p *Pipeline) Run(ctx context.Context, records []domain.Review) (Result, error) {
	if p.opts.Dictionary == nil {
		return Result{}, fmt.Errorf("%w: no dictionary configured", domain.ErrDictionaryLoad)
	}
	runID := uuid.NewString()
	logger := log.With().Str("run", runID).Logger()
	logger.Info().Int("records", len(records)).Int("parts", p.opts.PartCount).Msg("pipeline starting")

	cur := records
	for i, stage := range Stages {
		start := time.Now()
		next, err := p.runStage(ctx, stage, cur)
		if err != nil {
			logger.Error().Err(err).Str("stage", stage).Msg("stage failed")
			return Result{RunID: runID}, fmt.Errorf("%s: %w", stage, err)
		}
		dur := time.Since(start)
		observability.ObserveStage(stage, len(cur), len(next), dur)
		logger.Info().Str("stage", stage).Int("in", len(cur)).Int("out", len(next)).Dur("dur", dur).Msg("stage done")

		p.checkpoint(ctx, domain.Snapshot{RunID: runID, Seq: firstStageSeq + i, Stage: stage, Reviews: next})
		cur = next
	}

	logger.Info().Int("records", len(cur)).Msg("pipeline completed")
	return Result{RunID: runID, Reviews: cur}, nil
}

func (p *Pipeline) runStage(ctx context.Context, stage string, in []domain.Review) ([]domain.Review, error) {
	switch stage {
	case StageClean:
		out := Clean(in)
		if len(out) == 0 {
			return nil, domain.ErrEmptyDataset
		}
		return out, nil
	case StageBalance:
		return Balance(in, p.opts.PartCount, p.opts.Rand)
	case StageExpand:
		return ExpandContractions(in), nil
	case StageCorrect:
		var out []domain.Review
		err := WithDictionary(p.opts.Dictionary, func(sc domain.SpellChecker) error {
			if p.opts.WrapChecker != nil {
				sc = p.opts.WrapChecker(sc)
			}
			var err error
			out, err = CorrectSpelling(ctx, in, sc, p.opts.SpellWorkers)
			return err
		})
		return out, err
	case StageNormalize:
		return NormalizeText(in), nil
	case StageLabel:
		return AssignLabels(in), nil
	}
	return nil, errors.New("unknown stage " + stage)
}

func (p *Pipeline) checkpoint(ctx context.Context, snap domain.Snapshot) {
	for _, s := range p.sinks {
		err := s.WriteSnapshot(ctx, snap)
		observability.ObserveSnapshot(s.Name(), err)
		if err != nil {
			log.Warn().Err(err).Str("sink", s.Name()).Str("stage", snap.Stage).Msg("checkpoint failed")
		}
	}
}
