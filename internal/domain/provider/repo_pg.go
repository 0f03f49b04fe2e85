package provider

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) ListPatients(ctx context.Context, providerID uuid.UUID) ([]*PatientSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.username, u.email, pp.granted_at,
			(SELECT COUNT(*) FROM daily_logs dl WHERE dl.user_id = u.id) AS total_logs,
			(SELECT COUNT(*) FROM medications m
				WHERE m.user_id = u.id AND m.is_active = TRUE) AS active_medications
		FROM provider_patients pp
		JOIN users u ON u.id = pp.patient_id
		WHERE pp.provider_id = $1 AND pp.is_active = TRUE
		ORDER BY u.username`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*PatientSummary{}
	for rows.Next() {
		var p PatientSummary
		if err := rows.Scan(&p.ID, &p.Username, &p.Email, &p.GrantedAt,
			&p.TotalLogs, &p.ActiveMedications); err != nil {
			return nil, err
		}
		items = append(items, &p)
	}
	return items, rows.Err()
}

func (r *repoPG) HasActiveGrant(ctx context.Context, providerID, patientID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM provider_patients
			WHERE provider_id = $1 AND patient_id = $2 AND is_active = TRUE
		)`, providerID, patientID).Scan(&exists)
	return exists, err
}

func (r *repoPG) Grant(ctx context.Context, providerID, patientID uuid.UUID) (*Grant, error) {
	g := &Grant{ID: uuid.New(), ProviderID: providerID, PatientID: patientID, IsActive: true}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO provider_patients (id, provider_id, patient_id, is_active)
		VALUES ($1,$2,$3,TRUE)
		ON CONFLICT (provider_id, patient_id) DO UPDATE
			SET is_active = TRUE, granted_at = NOW()
		RETURNING id, granted_at`,
		g.ID, providerID, patientID).
		Scan(&g.ID, &g.GrantedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *repoPG) Revoke(ctx context.Context, providerID, patientID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE provider_patients SET is_active = FALSE
		WHERE provider_id = $1 AND patient_id = $2 AND is_active = TRUE`,
		providerID, patientID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) InsertNote(ctx context.Context, n *Note) error {
	n.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO provider_notes (id, provider_id, patient_id, note_text)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at`,
		n.ID, n.ProviderID, n.PatientID, n.NoteText).
		Scan(&n.CreatedAt)
}

func (r *repoPG) ListNotes(ctx context.Context, providerID, patientID uuid.UUID) ([]*Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, provider_id, patient_id, note_text, created_at
		FROM provider_notes
		WHERE provider_id = $1 AND patient_id = $2
		ORDER BY created_at DESC`, providerID, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*Note{}
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.ProviderID, &n.PatientID, &n.NoteText, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &n)
	}
	return items, rows.Err()
}
