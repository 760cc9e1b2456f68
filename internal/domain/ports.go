package domain

import "context"

// SpellChecker is the read-only lookup surface of a loaded dictionary.
// Implementations must be safe for concurrent use.
type SpellChecker interface {
	IsCorrect(word string) bool
	// Suggest returns ordered candidates, best first. Empty when nothing fits.
	Suggest(word string) []string
}

// Dictionary is a SpellChecker backed by a resource that must be released.
type Dictionary interface {
	SpellChecker
	Close() error
}

type DictionaryOpener func() (Dictionary, error)

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
}

// SnapshotWriter checkpoints the full output of one pipeline stage.
type SnapshotWriter interface {
	Name() string
	WriteSnapshot(ctx context.Context, snap Snapshot) error
}

type SnapshotReader interface {
	ReadSnapshot(ctx context.Context, runID, stage string) ([]Review, error)
}

// Snapshot identifies one stage's output within a pipeline run.
type Snapshot struct {
	RunID   string
	Seq     int // 1-based stage position; 1 is the raw input
	Stage   string
	Reviews []Review
}
