package sqlite

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/cognicore/lexiscore/pkg/lexiscore/batch"
	"github.com/cognicore/lexiscore/pkg/lexiscore/internalerr"
	"github.com/cognicore/lexiscore/pkg/lexiscore/scored"
	"github.com/cognicore/lexiscore/pkg/lexiscore/store"
)

// Ledger records scoring runs and their scores in SQLite so earlier runs
// can be listed and filtered without the flat scores file.
type Ledger struct {
	db      *sql.DB
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// Open opens (or creates) a ledger database with WAL mode enabled.
func Open(ctx context.Context, path string) (*Ledger, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: ledger path required", internalerr.ErrInvalidConfig)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open ledger: %w", internalerr.ErrIO, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: open ledger: %w", internalerr.ErrIO, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: open ledger: %w", internalerr.ErrIO, err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init ledger schema: %w", internalerr.ErrIO, err)
	}

	return &Ledger{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}, nil
}

// Close closes the database connection
func (l *Ledger) Close() error {
	return l.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	model TEXT NOT NULL,
	prompt_hash TEXT NOT NULL,
	batch_size INTEGER NOT NULL,
	word_count INTEGER NOT NULL,
	status TEXT NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS scores (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	batch INTEGER NOT NULL,
	word TEXT NOT NULL,
	score INTEGER NOT NULL,
	PRIMARY KEY(run_id, seq),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// RunSpec describes a run about to start.
type RunSpec struct {
	Model     string
	Prompt    string
	BatchSize int
	WordCount int
}

// BeginRun inserts a new running run and returns a sink bound to it.
func (l *Ledger) BeginRun(ctx context.Context, spec RunSpec) (*Recorder, error) {
	id := ulid.MustNew(ulid.Timestamp(l.now()), l.entropy).String()
	const stmt = `
INSERT INTO runs (id, model, prompt_hash, batch_size, word_count, status, started_at)
VALUES (?, ?, ?, ?, ?, ?, ?);
`
	_, err := l.db.ExecContext(ctx, stmt,
		id,
		spec.Model,
		PromptHash(spec.Prompt),
		spec.BatchSize,
		spec.WordCount,
		string(store.RunRunning),
		l.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: begin run: %w", internalerr.ErrIO, err)
	}
	return &Recorder{ledger: l, runID: id}, nil
}

// Runs lists recorded runs, newest first.
func (l *Ledger) Runs(ctx context.Context) ([]store.Run, error) {
	const query = `
SELECT r.id, r.model, r.prompt_hash, r.batch_size, r.word_count, r.status, r.started_at, r.finished_at,
	(SELECT COUNT(*) FROM scores s WHERE s.run_id = r.id)
FROM runs r
ORDER BY r.id DESC;
`
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list runs: %w", internalerr.ErrIO, err)
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var (
			r                 store.Run
			status            string
			started, finished string
		)
		if err := rows.Scan(&r.ID, &r.Model, &r.PromptHash, &r.BatchSize, &r.WordCount, &status, &started, &finished, &r.Scored); err != nil {
			return nil, fmt.Errorf("%w: scan run: %w", internalerr.ErrIO, err)
		}
		r.Status = store.RunStatus(status)
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list runs: %w", internalerr.ErrIO, err)
	}
	return runs, nil
}

// LatestRun returns the most recently started run.
func (l *Ledger) LatestRun(ctx context.Context) (store.Run, error) {
	runs, err := l.Runs(ctx)
	if err != nil {
		return store.Run{}, err
	}
	if len(runs) == 0 {
		return store.Run{}, fmt.Errorf("latest run: %w", internalerr.ErrNotFound)
	}
	return runs[0], nil
}

// Scores returns a run's scores in the order they were recorded.
func (l *Ledger) Scores(ctx context.Context, runID string) ([]scored.Word, error) {
	var exists int
	err := l.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: lookup run: %w", internalerr.ErrIO, err)
	}

	rows, err := l.db.QueryContext(ctx, `SELECT word, score FROM scores WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("%w: load scores: %w", internalerr.ErrIO, err)
	}
	defer rows.Close()

	var words []scored.Word
	for rows.Next() {
		var w scored.Word
		if err := rows.Scan(&w.Text, &w.Score); err != nil {
			return nil, fmt.Errorf("%w: scan score: %w", internalerr.ErrIO, err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: load scores: %w", internalerr.ErrIO, err)
	}
	return words, nil
}

// Recorder appends one run's batches to the ledger.
type Recorder struct {
	ledger *Ledger
	runID  string
	seq    int
}

// RunID identifies the run being recorded.
func (r *Recorder) RunID() string { return r.runID }

// AppendBatch implements store.Sink. Each batch is written in its own
// transaction.
func (r *Recorder) AppendBatch(ctx context.Context, b batch.Batch, words []scored.Word) error {
	if len(words) == 0 {
		return nil
	}
	tx, err := r.ledger.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: record batch %d: %w", internalerr.ErrIO, b.Index, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO scores (run_id, seq, batch, word, score) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: record batch %d: %w", internalerr.ErrIO, b.Index, err)
	}
	defer stmt.Close()

	seq := r.seq
	for _, w := range words {
		seq++
		if _, err := stmt.ExecContext(ctx, r.runID, seq, b.Index, w.Text, w.Score); err != nil {
			return fmt.Errorf("%w: record batch %d: %w", internalerr.ErrIO, b.Index, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: record batch %d: %w", internalerr.ErrIO, b.Index, err)
	}
	r.seq = seq
	return nil
}

// Finish marks the run complete, or failed when runErr is non-nil.
func (r *Recorder) Finish(ctx context.Context, runErr error) error {
	status := store.RunComplete
	if runErr != nil {
		status = store.RunFailed
	}
	_, err := r.ledger.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`,
		string(status), r.ledger.now().UTC().Format(time.RFC3339), r.runID,
	)
	if err != nil {
		return fmt.Errorf("%w: finish run: %w", internalerr.ErrIO, err)
	}
	return nil
}

// Close implements store.Sink. The ledger owns the connection.
func (r *Recorder) Close() error { return nil }

// PromptHash fingerprints a prompt so runs with the same prompt can be
// recognised without storing the prompt text.
func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:8])
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
