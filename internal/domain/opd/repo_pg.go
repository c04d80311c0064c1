package opd

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

const queueCols = `queue_id, patient_id, department, status, token, created_at, updated_at`

func scanQueueEntry(row pgx.Row) (*QueueEntry, error) {
	var e QueueEntry
	err := row.Scan(&e.QueueID, &e.PatientID, &e.Department, &e.Status, &e.Token, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *repoPG) Enqueue(ctx context.Context, e *QueueEntry) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO opd_queue (patient_id, department, status, token)
		VALUES ($1,$2,$3,$4)
		RETURNING queue_id, created_at, updated_at`,
		e.PatientID, e.Department, e.Status, e.Token).
		Scan(&e.QueueID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *repoPG) GetByQueueID(ctx context.Context, queueID int64) (*QueueEntry, error) {
	return scanQueueEntry(r.conn(ctx).QueryRow(ctx, `SELECT `+queueCols+` FROM opd_queue WHERE queue_id = $1`, queueID))
}

func (r *repoPG) GetActiveByPatient(ctx context.Context, patientID uuid.UUID) (*QueueEntry, error) {
	return scanQueueEntry(r.conn(ctx).QueryRow(ctx, `
		SELECT `+queueCols+` FROM opd_queue
		WHERE patient_id = $1 AND status = ANY($2)
		ORDER BY queue_id DESC LIMIT 1`, patientID, ActiveQueueStatuses))
}

func (r *repoPG) GetLatestByPatient(ctx context.Context, patientID uuid.UUID) (*QueueEntry, error) {
	return scanQueueEntry(r.conn(ctx).QueryRow(ctx, `
		SELECT `+queueCols+` FROM opd_queue
		WHERE patient_id = $1
		ORDER BY queue_id DESC LIMIT 1`, patientID))
}

func (r *repoPG) FindByToken(ctx context.Context, token string) (*QueueEntry, error) {
	return scanQueueEntry(r.conn(ctx).QueryRow(ctx, `
		SELECT `+queueCols+` FROM opd_queue
		WHERE token = $1
		ORDER BY queue_id DESC LIMIT 1`, token))
}

func (r *repoPG) UpdateStatusByPatient(ctx context.Context, patientID uuid.UUID, status string) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE opd_queue SET status=$2, updated_at=NOW()
		WHERE patient_id = $1 AND status = ANY($3)`,
		patientID, status, ActiveQueueStatuses)
	return err
}

// Position counts active entries that joined the queue before or at the
// target, which is the target's 1-based place in line.
func (r *repoPG) Position(ctx context.Context, queueID int64) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM opd_queue
		WHERE queue_id <= $1 AND status = ANY($2)`, queueID, ActiveQueueStatuses).Scan(&n)
	return n, err
}

func (r *repoPG) List(ctx context.Context, department string) ([]*QueueItem, error) {
	query := `
		SELECT q.queue_id, q.token, q.patient_id, p.name, p.age, q.department, q.status, q.created_at
		FROM opd_queue q
		JOIN patients p ON p.id = q.patient_id`
	var args []interface{}
	if department != "" {
		query += ` WHERE q.department = $1`
		args = append(args, department)
	}
	query += ` ORDER BY q.queue_id ASC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*QueueItem
	for rows.Next() {
		var it QueueItem
		if err := rows.Scan(&it.QueueID, &it.Token, &it.PatientID, &it.PatientName, &it.Age,
			&it.Department, &it.Status, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, nil
}

func (r *repoPG) Counts(ctx context.Context, department string) (QueueCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'waiting'),
			COUNT(*) FILTER (WHERE status = 'in_consultation'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled')
		FROM opd_queue`
	var args []interface{}
	if department != "" {
		query += ` WHERE department = $1`
		args = append(args, department)
	}

	var c QueueCounts
	err := r.conn(ctx).QueryRow(ctx, query, args...).
		Scan(&c.Waiting, &c.InConsultation, &c.Completed, &c.Cancelled)
	return c, err
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM opd_queue WHERE patient_id = $1`, patientID)
	return err
}
