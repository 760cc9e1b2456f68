package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"review_prep/internal/domain"
)

const batchSize = 500

// Repo stores stage snapshots keyed by (run_id, stage). Rewriting a stage
// replaces its rows.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Name() string { return "mysql" }

func (r *Repo) WriteSnapshot(ctx context.Context, snap domain.Snapshot) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("mysql: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, upsertStageSQL, snap.RunID, snap.Seq, snap.Stage, len(snap.Reviews)); err != nil {
		return fmt.Errorf("mysql: upsert stage %s: %w", snap.Stage, err)
	}
	if _, err = tx.ExecContext(ctx, deleteReviewsSQL, snap.RunID, snap.Stage); err != nil {
		return fmt.Errorf("mysql: clear stage %s: %w", snap.Stage, err)
	}
	for start := 0; start < len(snap.Reviews); start += batchSize {
		end := min(start+batchSize, len(snap.Reviews))
		if err = insertBatch(ctx, tx, snap, start, end); err != nil {
			return fmt.Errorf("mysql: insert stage %s rows %d-%d: %w", snap.Stage, start, end, err)
		}
	}
	return tx.Commit()
}

func insertBatch(ctx context.Context, tx *sql.Tx, snap domain.Snapshot, start, end int) error {
	values := make([]string, 0, end-start)
	args := make([]any, 0, (end-start)*6) // 6 params per row
	for i := start; i < end; i++ {
		rv := snap.Reviews[i]
		values = append(values, "(?,?,?,?,?,?)")
		args = append(args, snap.RunID, snap.Stage, i, rv.Text, rv.Rating, string(rv.Sentiment))
	}
	_, err := tx.ExecContext(ctx, insertReviewsPrefix+strings.Join(values, ","), args...)
	return err
}

// ReadSnapshot returns a stage's reviews in their original order, or
// domain.ErrNotFound when the stage was never written for runID.
func (r *Repo) ReadSnapshot(ctx context.Context, runID, stage string) ([]domain.Review, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, getStageSQL, runID, stage).Scan(&n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, listReviewsSQL, runID, stage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Review, 0, n)
	for rows.Next() {
		var rv domain.Review
		var sentiment string
		if err := rows.Scan(&rv.Text, &rv.Rating, &sentiment); err != nil {
			return nil, err
		}
		rv.Sentiment = domain.ParseSentiment(sentiment)
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
