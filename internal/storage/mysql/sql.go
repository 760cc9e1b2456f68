package mysql

const upsertStageSQL = `
INSERT INTO snapshot_stages
  (run_id, seq, stage, records)
VALUES
  (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  seq        = VALUES(seq),
  records    = VALUES(records),
  created_at = CURRENT_TIMESTAMP
`

const deleteReviewsSQL = `DELETE FROM snapshot_reviews WHERE run_id = ? AND stage = ?`

// Note: `text` is reserved; keep it quoted everywhere.
const insertReviewsPrefix = "INSERT INTO snapshot_reviews\n  (run_id, stage, position, `text`, rating, sentiment)\nVALUES "

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getStageSQL = `SELECT records FROM snapshot_stages WHERE run_id = ? AND stage = ?`

const listReviewsSQL = "SELECT `text`, rating, sentiment\n" +
	"FROM snapshot_reviews\n" +
	"WHERE run_id = ? AND stage = ?\n" +
	"ORDER BY position"
