package appointment

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediflow/mediflow/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const apptCols = `id, patient_id, token_number, department, scheduled_date,
	scheduled_time, status, queue_position, created_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.TokenNumber, &a.Department, &a.ScheduledDate,
		&a.ScheduledTime, &a.Status, &a.QueuePosition, &a.CreatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_appointments (id, patient_id, token_number, department,
			scheduled_date, scheduled_time, status, queue_position)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.PatientID, a.TokenNumber, a.Department,
		a.ScheduledDate, a.ScheduledTime, a.Status, a.QueuePosition)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM patient_appointments WHERE id = $1`, id))
}

func (r *repoPG) FindByToken(ctx context.Context, token string) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx, `
		SELECT `+apptCols+` FROM patient_appointments
		WHERE token_number = $1
		ORDER BY created_at DESC LIMIT 1`, token))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+apptCols+` FROM patient_appointments
		WHERE patient_id = $1 ORDER BY created_at DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, nil
}

func (r *repoPG) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM patient_appointments WHERE status = $1`, StatusScheduled).Scan(&n)
	return n, err
}

func (r *repoPG) UpdateStatusByPatient(ctx context.Context, patientID uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient_appointments SET status = $2
		WHERE patient_id = $1 AND status = $3`,
		patientID, status, StatusScheduled)
	return err
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient_appointments WHERE patient_id = $1`, patientID)
	return err
}
