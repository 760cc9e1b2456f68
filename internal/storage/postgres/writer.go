package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"review_prep/internal/domain"
)

// Writer persists stage snapshots to PostgreSQL.
type Writer struct {
	db *sql.DB
}

// NewWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use Writer.
func NewWriter(dsn string) (*Writer, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	w := &Writer{db: db}
	if err := w.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return w, nil
}

func (w *Writer) migrate() error {
	_, err := w.db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshot_reviews (
			run_id     UUID         NOT NULL,
			seq        INT          NOT NULL,
			stage      VARCHAR(32)  NOT NULL,
			position   INT          NOT NULL,
			text       TEXT         NOT NULL,
			rating     DOUBLE PRECISION NOT NULL,
			sentiment  VARCHAR(16)  NOT NULL,
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			PRIMARY KEY (run_id, stage, position)
		);

		CREATE INDEX IF NOT EXISTS idx_snapshot_reviews_stage ON snapshot_reviews(stage);
	`)
	return err
}

func (w *Writer) Name() string { return "postgres" }

// WriteSnapshot replaces the stage's rows for the run in one transaction.
func (w *Writer) WriteSnapshot(ctx context.Context, snap domain.Snapshot) (err error) {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM snapshot_reviews WHERE run_id = $1 AND stage = $2`, snap.RunID, snap.Stage); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 200
	for i := 0; i < len(snap.Reviews); i += batchSize {
		end := min(i+batchSize, len(snap.Reviews))
		if err = insertBatch(ctx, tx, snap, i, end); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func insertBatch(ctx context.Context, tx *sql.Tx, snap domain.Snapshot, start, end int) error {
	valueStrings := make([]string, 0, end-start)
	valueArgs := make([]interface{}, 0, (end-start)*7)

	for idx := start; idx < end; idx++ {
		base := (idx - start) * 7
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		r := snap.Reviews[idx]
		valueArgs = append(valueArgs,
			snap.RunID, snap.Seq, snap.Stage, idx, r.Text, r.Rating, string(r.Sentiment))
	}

	query := fmt.Sprintf(`
		INSERT INTO snapshot_reviews (run_id, seq, stage, position, text, rating, sentiment)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

// ReadSnapshot retrieves a stage's reviews in position order.
// An unknown or empty stage yields domain.ErrNotFound.
func (w *Writer) ReadSnapshot(ctx context.Context, runID, stage string) ([]domain.Review, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT text, rating, sentiment
		FROM snapshot_reviews
		WHERE run_id = $1 AND stage = $2
		ORDER BY position
	`, runID, stage)
	if err != nil {
		return nil, fmt.Errorf("postgres: read snapshot: %w", err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var r domain.Review
		var sentiment string
		if err := rows.Scan(&r.Text, &r.Rating, &sentiment); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		r.Sentiment = domain.ParseSentiment(sentiment)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (w *Writer) Close() error {
	return w.db.Close()
}
