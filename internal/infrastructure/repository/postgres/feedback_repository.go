package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
)

type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *FeedbackRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS feedback (
	id TEXT PRIMARY KEY,
	query TEXT NOT NULL,
	mode TEXT NOT NULL,
	best_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	answer TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO feedback (id, query, mode, best_score, status, answer, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`,
		fb.ID, fb.Query, string(fb.Mode), fb.BestScore, fb.Status, fb.Answer, fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id string) (*domain.Feedback, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, query, mode, best_score, status, answer, created_at
FROM feedback
WHERE id = $1
`, id)

	var fb domain.Feedback
	var mode string

	err := row.Scan(&fb.ID, &fb.Query, &mode, &fb.BestScore, &fb.Status, &fb.Answer, &fb.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrFeedbackNotFound, "get feedback "+id, err)
		}
		return nil, fmt.Errorf("scan feedback: %w", err)
	}

	fb.Mode = domain.DecisionMode(mode)
	return &fb, nil
}
