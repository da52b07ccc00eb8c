package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"feedback-bot/internal/domain"
)

// FeedbackRepository define el contrato de persistencia para feedback.
// La tabla es append-only: solo inserciones y lecturas ordenadas por id.
type FeedbackRepository interface {
	Insert(ctx context.Context, record domain.FeedbackRecord) (int64, error)
	ListAll(ctx context.Context) ([]domain.FeedbackRecord, error)
	ListByFraud(ctx context.Context, isFraud bool) ([]domain.FeedbackRecord, error)
}

// PgFeedbackRepository implementa FeedbackRepository usando pgxpool.
type PgFeedbackRepository struct {
	pool *pgxpool.Pool
}

func NewPgFeedbackRepository(pool *pgxpool.Pool) *PgFeedbackRepository {
	return &PgFeedbackRepository{pool: pool}
}

// EnsureSchema crea la tabla feedback si no existe.
func (r *PgFeedbackRepository) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS feedback (
			id         BIGSERIAL PRIMARY KEY,
			nps        INTEGER NOT NULL,
			csat       INTEGER,
			ces        INTEGER,
			comment    TEXT NOT NULL DEFAULT '',
			sentiment  TEXT NOT NULL,
			is_fraud   BOOLEAN NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS feedback_is_fraud_idx ON feedback (is_fraud);
	`
	_, err := r.pool.Exec(ctx, ddl)
	return err
}

func (r *PgFeedbackRepository) Insert(ctx context.Context, record domain.FeedbackRecord) (int64, error) {
	const query = `
		INSERT INTO feedback (nps, csat, ces, comment, sentiment, is_fraud, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		record.NPS,
		record.CSAT,
		record.CES,
		record.Comment,
		string(record.Sentiment),
		record.IsFraud,
		record.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PgFeedbackRepository) ListAll(ctx context.Context) ([]domain.FeedbackRecord, error) {
	const query = `
		SELECT id, nps, csat, ces, comment, sentiment, is_fraud, created_at
		FROM feedback
		ORDER BY id ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanFeedbackRows(rows)
}

func (r *PgFeedbackRepository) ListByFraud(ctx context.Context, isFraud bool) ([]domain.FeedbackRecord, error) {
	const query = `
		SELECT id, nps, csat, ces, comment, sentiment, is_fraud, created_at
		FROM feedback
		WHERE is_fraud = $1
		ORDER BY id ASC
	`
	rows, err := r.pool.Query(ctx, query, isFraud)
	if err != nil {
		return nil, err
	}
	return scanFeedbackRows(rows)
}

func scanFeedbackRows(rows pgx.Rows) ([]domain.FeedbackRecord, error) {
	defer rows.Close()

	records := make([]domain.FeedbackRecord, 0)
	for rows.Next() {
		var rec domain.FeedbackRecord
		var sentiment string

		err := rows.Scan(
			&rec.ID,
			&rec.NPS,
			&rec.CSAT,
			&rec.CES,
			&rec.Comment,
			&sentiment,
			&rec.IsFraud,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rec.Sentiment = domain.Sentiment(sentiment)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
