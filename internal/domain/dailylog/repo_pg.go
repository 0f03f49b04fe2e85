package dailylog

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

const logCols = `id, user_id, log_date, mood, mood_score, symptoms, side_effects, notes,
	created_at, updated_at`

func scanLog(row pgx.Row) (*DailyLog, error) {
	var l DailyLog
	err := row.Scan(&l.ID, &l.UserID, &l.LogDate, &l.Mood, &l.MoodScore,
		&l.Symptoms, &l.SideEffects, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &l, err
}

func (r *repoPG) GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*DailyLog, error) {
	return scanLog(r.pool.QueryRow(ctx,
		`SELECT `+logCols+` FROM daily_logs WHERE user_id = $1 AND log_date = $2`,
		userID, date))
}

// Insert relies on UNIQUE (user_id, log_date). Two simultaneous first saves
// for the same date collapse to one row with the later writer's fields.
func (r *repoPG) Insert(ctx context.Context, l *DailyLog) error {
	l.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO daily_logs (id, user_id, log_date, mood, mood_score, symptoms,
			side_effects, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (user_id, log_date) DO UPDATE
			SET mood = EXCLUDED.mood, mood_score = EXCLUDED.mood_score,
				symptoms = EXCLUDED.symptoms, side_effects = EXCLUDED.side_effects,
				notes = EXCLUDED.notes, updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		l.ID, l.UserID, l.LogDate, l.Mood, l.MoodScore, l.Symptoms,
		l.SideEffects, l.Notes).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *repoPG) Update(ctx context.Context, l *DailyLog) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE daily_logs
		SET mood=$2, mood_score=$3, symptoms=$4, side_effects=$5, notes=$6,
			updated_at=NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		l.ID, l.Mood, l.MoodScore, l.Symptoms, l.SideEffects, l.Notes).
		Scan(&l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) ListByDateRange(ctx context.Context, userID uuid.UUID, dr daterange.Range) ([]*DailyLog, error) {
	q := `SELECT ` + logCols + ` FROM daily_logs WHERE user_id = $1`
	args := []any{userID}
	if dr.Start != nil {
		args = append(args, *dr.Start)
		q += fmt.Sprintf(" AND log_date >= $%d", len(args))
	}
	if dr.End != nil {
		args = append(args, *dr.End)
		q += fmt.Sprintf(" AND log_date <= $%d", len(args))
	}
	q += ` ORDER BY log_date DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*DailyLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}
