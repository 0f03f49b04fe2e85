package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindtrack/mindtrack/pkg/daterange"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

// appendRange adds inclusive bounds on col for whichever sides are set.
func appendRange(q string, args []any, col string, r daterange.Range) (string, []any) {
	if r.Start != nil {
		args = append(args, *r.Start)
		q += fmt.Sprintf(" AND %s >= $%d", col, len(args))
	}
	if r.End != nil {
		args = append(args, *r.End)
		q += fmt.Sprintf(" AND %s <= $%d", col, len(args))
	}
	return q, args
}

func (r *repoPG) MoodStats(ctx context.Context, userID uuid.UUID, dr daterange.Range) (float64, int, error) {
	q := `SELECT COALESCE(AVG(mood_score), 0), COUNT(*) FROM daily_logs WHERE user_id = $1`
	args := []any{userID}
	q, args = appendRange(q, args, "log_date", dr)

	var avg float64
	var total int
	err := r.pool.QueryRow(ctx, q, args...).Scan(&avg, &total)
	return avg, total, err
}

func (r *repoPG) AdherenceCounts(ctx context.Context, userID uuid.UUID, dr daterange.Range) (int, int, error) {
	q := `SELECT COUNT(*) FILTER (WHERE taken), COUNT(*) FROM medication_logs WHERE user_id = $1`
	args := []any{userID}
	q, args = appendRange(q, args, "log_date", dr)

	var taken, total int
	err := r.pool.QueryRow(ctx, q, args...).Scan(&taken, &total)
	return taken, total, err
}

func (r *repoPG) TopSymptoms(ctx context.Context, userID uuid.UUID, dr daterange.Range, limit int) ([]SymptomCount, error) {
	q := `SELECT s, COUNT(*) AS cnt
		FROM daily_logs, UNNEST(symptoms) AS s
		WHERE user_id = $1`
	args := []any{userID}
	q, args = appendRange(q, args, "log_date", dr)
	args = append(args, limit)
	q += fmt.Sprintf(` GROUP BY s ORDER BY cnt DESC, s ASC LIMIT $%d`, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []SymptomCount{}
	for rows.Next() {
		var sc SymptomCount
		if err := rows.Scan(&sc.Symptom, &sc.Count); err != nil {
			return nil, err
		}
		items = append(items, sc)
	}
	return items, rows.Err()
}

func (r *repoPG) InsertShare(ctx context.Context, s *SharedReport) error {
	s.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO shared_reports (id, user_id, share_token, date_range, expires_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		s.ID, s.UserID, s.ShareToken, s.DateRange, s.ExpiresAt).
		Scan(&s.CreatedAt)
}

func (r *repoPG) GetActiveShare(ctx context.Context, token string, now time.Time) (*SharedReport, error) {
	var s SharedReport
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, share_token, date_range, expires_at, accessed_at, created_at
		FROM shared_reports
		WHERE share_token = $1 AND expires_at > $2`,
		token, now).
		Scan(&s.ID, &s.UserID, &s.ShareToken, &s.DateRange, &s.ExpiresAt, &s.AccessedAt, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) MarkAccessed(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE shared_reports SET accessed_at = $2 WHERE id = $1`, id, at)
	return err
}
