package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediflow/mediflow/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) RegistrationsToday(ctx context.Context) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM patients WHERE created_at::date = CURRENT_DATE`).Scan(&n)
	return n, err
}

func (r *repoPG) WaitingCount(ctx context.Context) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM patients WHERE status = 'Waiting'`).Scan(&n)
	return n, err
}

func (r *repoPG) BedCounts(ctx context.Context) (int, int, error) {
	var total, occupied int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'occupied') FROM beds`).
		Scan(&total, &occupied)
	return total, occupied, err
}

func (r *repoPG) ConsultationsToday(ctx context.Context) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM opd_queue
		WHERE status = 'completed' AND updated_at::date = CURRENT_DATE`).Scan(&n)
	return n, err
}

func (r *repoPG) AverageWaitMinutes(ctx context.Context) (int, error) {
	var avg *float64
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT AVG(EXTRACT(EPOCH FROM (updated_at - created_at)) / 60)
		FROM opd_queue
		WHERE status = 'completed' AND updated_at::date = CURRENT_DATE`).Scan(&avg)
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return DefaultAvgWaitMinutes, nil
	}
	return int(*avg), nil
}

func (r *repoPG) RecentPatients(ctx context.Context, limit int) ([]*RecentPatient, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, name, age, department, status, created_at
		FROM patients ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*RecentPatient
	for rows.Next() {
		var p RecentPatient
		if err := rows.Scan(&p.ID, &p.Name, &p.Age, &p.Department, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &p)
	}
	return items, nil
}

func (r *repoPG) WardUtilization(ctx context.Context) ([]WardUtilization, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT ward, COUNT(*) FILTER (WHERE status = 'occupied'), COUNT(*)
		FROM beds GROUP BY ward ORDER BY ward`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WardUtilization
	for rows.Next() {
		var w WardUtilization
		if err := rows.Scan(&w.Name, &w.Occupied, &w.Total); err != nil {
			return nil, err
		}
		if w.Total > 0 {
			w.Percent = w.Occupied * 100 / w.Total
		}
		items = append(items, w)
	}
	return items, nil
}
