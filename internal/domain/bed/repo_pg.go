package bed

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

const bedCols = `id, bed_number, ward, status, patient_id, allocated_at, created_at`

func scanBed(row pgx.Row) (*Bed, error) {
	var b Bed
	err := row.Scan(&b.ID, &b.BedNumber, &b.Ward, &b.Status, &b.PatientID, &b.AllocatedAt, &b.CreatedAt)
	return &b, err
}

func (r *repoPG) Create(ctx context.Context, b *Bed) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = StatusAvailable
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO beds (id, bed_number, ward, status)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (bed_number) DO NOTHING`,
		b.ID, b.BedNumber, b.Ward, b.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return scanBed(r.conn(ctx).QueryRow(ctx, `SELECT `+bedCols+` FROM beds WHERE id = $1`, id))
}

func (r *repoPG) GetByLabel(ctx context.Context, bedNumber string) (*Bed, error) {
	return scanBed(r.conn(ctx).QueryRow(ctx, `SELECT `+bedCols+` FROM beds WHERE bed_number = $1`, bedNumber))
}

func (r *repoPG) GetByPatient(ctx context.Context, patientID uuid.UUID) (*Bed, error) {
	return scanBed(r.conn(ctx).QueryRow(ctx, `
		SELECT `+bedCols+` FROM beds
		WHERE patient_id = $1 AND status = 'occupied'
		LIMIT 1`, patientID))
}

func (r *repoPG) Candidates(ctx context.Context, ward string) ([]*Bed, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+bedCols+` FROM beds
		WHERE status = 'available' AND ward IN ($1, $2)
		ORDER BY (ward = $1) DESC, bed_number ASC`, ward, WardGeneral)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var beds []*Bed
	for rows.Next() {
		b, err := scanBed(rows)
		if err != nil {
			return nil, err
		}
		beds = append(beds, b)
	}
	return beds, nil
}

// Claim is a conditional update. The status guard in the WHERE clause makes
// the check and the write one atomic statement, so two admissions racing
// for the same bed produce exactly one winner.
func (r *repoPG) Claim(ctx context.Context, bedID, patientID uuid.UUID) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE beds SET status='occupied', patient_id=$1, allocated_at=NOW()
		WHERE id = $2 AND status = 'available'`, patientID, bedID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repoPG) Release(ctx context.Context, bedID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE beds SET status='available', patient_id=NULL, allocated_at=NULL
		WHERE id = $1`, bedID)
	return err
}

func (r *repoPG) ListAll(ctx context.Context) ([]*BedWithPatient, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT b.id, b.bed_number, b.ward, b.status, b.patient_id, b.allocated_at, b.created_at,
			p.name, p.age, p.phone
		FROM beds b
		LEFT JOIN patients p ON p.id = b.patient_id
		ORDER BY
			CASE b.ward WHEN 'ICU' THEN 1 WHEN 'General Ward' THEN 2 WHEN 'Semi-Private' THEN 3 ELSE 4 END,
			b.bed_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var beds []*BedWithPatient
	for rows.Next() {
		var b BedWithPatient
		if err := rows.Scan(&b.ID, &b.BedNumber, &b.Ward, &b.Status, &b.PatientID, &b.AllocatedAt, &b.CreatedAt,
			&b.PatientName, &b.PatientAge, &b.PatientPhone); err != nil {
			return nil, err
		}
		beds = append(beds, &b)
	}
	return beds, nil
}

func (r *repoPG) ListAvailable(ctx context.Context) ([]*Bed, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+bedCols+` FROM beds
		WHERE status = 'available'
		ORDER BY ward, bed_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var beds []*Bed
	for rows.Next() {
		b, err := scanBed(rows)
		if err != nil {
			return nil, err
		}
		beds = append(beds, b)
	}
	return beds, nil
}

func (r *repoPG) Count(ctx context.Context) (int, int, error) {
	var total, occupied int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'occupied') FROM beds`).
		Scan(&total, &occupied)
	return total, occupied, err
}
