package medication

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindtrack/mindtrack/pkg/daterange"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const medCols = `id, user_id, name, dosage, frequency, time_of_day, prescribed_by,
	is_active, created_at, updated_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.Dosage, &m.Frequency,
		&m.TimeOfDay, &m.PrescribedBy, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO medications (id, user_id, name, dosage, frequency, time_of_day,
			prescribed_by, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,TRUE)
		RETURNING is_active, created_at, updated_at`,
		m.ID, m.UserID, m.Name, m.Dosage, m.Frequency, m.TimeOfDay, m.PrescribedBy).
		Scan(&m.IsActive, &m.CreatedAt, &m.UpdatedAt)
}

func (r *repoPG) Update(ctx context.Context, m *Medication) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE medications
		SET name=$3, dosage=$4, frequency=$5, time_of_day=$6, prescribed_by=$7,
			updated_at=NOW()
		WHERE id = $1 AND user_id = $2 AND is_active = TRUE
		RETURNING is_active, created_at, updated_at`,
		m.ID, m.UserID, m.Name, m.Dosage, m.Frequency, m.TimeOfDay, m.PrescribedBy).
		Scan(&m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *repoPG) SoftDelete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE medications SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_active = TRUE`,
		id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListActive(ctx context.Context, userID uuid.UUID) ([]*Medication, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+medCols+` FROM medications
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*Medication{}
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *repoPG) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*Medication, error) {
	return scanMedication(r.pool.QueryRow(ctx,
		`SELECT `+medCols+` FROM medications WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *repoPG) InsertLog(ctx context.Context, l *IntakeLog) error {
	l.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO medication_logs (id, medication_id, user_id, taken, skipped, log_date)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		l.ID, l.MedicationID, l.UserID, l.Taken, l.Skipped, l.LogDate).
		Scan(&l.CreatedAt)
}

func (r *repoPG) ListLogs(ctx context.Context, userID uuid.UUID, dr daterange.Range) ([]*IntakeLog, error) {
	q := `
		SELECT ml.id, ml.medication_id, ml.user_id, ml.taken, ml.skipped,
			ml.log_date, ml.created_at, m.name
		FROM medication_logs ml
		JOIN medications m ON m.id = ml.medication_id
		WHERE ml.user_id = $1`
	args := []any{userID}
	if dr.Start != nil {
		args = append(args, *dr.Start)
		q += fmt.Sprintf(" AND ml.log_date >= $%d", len(args))
	}
	if dr.End != nil {
		args = append(args, *dr.End)
		q += fmt.Sprintf(" AND ml.log_date <= $%d", len(args))
	}
	q += ` ORDER BY ml.log_date DESC, ml.created_at DESC`

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*IntakeLog{}
	for rows.Next() {
		var l IntakeLog
		if err := rows.Scan(&l.ID, &l.MedicationID, &l.UserID, &l.Taken, &l.Skipped,
			&l.LogDate, &l.CreatedAt, &l.MedicationName); err != nil {
			return nil, err
		}
		items = append(items, &l)
	}
	return items, rows.Err()
}
