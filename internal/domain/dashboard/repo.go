package dashboard

import "context"

type Repository interface {
	RegistrationsToday(ctx context.Context) (int, error)
	WaitingCount(ctx context.Context) (int, error)
	BedCounts(ctx context.Context) (total, occupied int, err error)
	ConsultationsToday(ctx context.Context) (int, error)
	// AverageWaitMinutes averages the time completed queue entries spent
	// waiting today.
	AverageWaitMinutes(ctx context.Context) (int, error)
	RecentPatients(ctx context.Context, limit int) ([]*RecentPatient, error)
	WardUtilization(ctx context.Context) ([]WardUtilization, error)
}
