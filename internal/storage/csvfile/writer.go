package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"review_prep/internal/domain"
)

var header = []string{"ReviewText", "Rating", "Sentiment"}

// Write encodes reviews with the ReviewText,Rating,Sentiment header.
func Write(w io.Writer, reviews []domain.Review) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, r := range reviews {
		row := []string{r.Text, strconv.FormatFloat(r.Rating, 'g', -1, 64), string(r.Sentiment)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates (or truncates) path and writes reviews to it.
// Intermediate directories are created automatically.
func WriteFile(path string, reviews []domain.Review) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return Write(f, reviews)
}

// SnapshotDir checkpoints each stage to <dir>/<seq>_<stage>.csv.
type SnapshotDir struct {
	dir string
}

func NewSnapshotDir(dir string) *SnapshotDir { return &SnapshotDir{dir: dir} }

func (s *SnapshotDir) Name() string { return "csv" }

func (s *SnapshotDir) Path(seq int, stage string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%02d_%s.csv", seq, stage))
}

func (s *SnapshotDir) WriteSnapshot(ctx context.Context, snap domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteFile(s.Path(snap.Seq, snap.Stage), snap.Reviews)
}
