package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const recentPatientCount = 5

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Summary assembles the dashboard snapshot. Each metric is fetched on its
// own; a failure is logged and that metric falls back to its default, so a
// partially broken or completely unreachable database still yields a
// well-formed snapshot.
func (s *Service) Summary(ctx context.Context) *Summary {
	sum := &Summary{
		AvgWaitMinutes:  DefaultAvgWaitMinutes,
		RecentPatients:  []*RecentPatient{},
		WardUtilization: []WardUtilization{},
		GeneratedAt:     time.Now(),
	}

	if n, err := s.repo.RegistrationsToday(ctx); err == nil {
		sum.PatientsToday = n
	} else {
		s.logger.Warn().Err(err).Msg("dashboard: registrations metric failed")
	}

	if n, err := s.repo.WaitingCount(ctx); err == nil {
		sum.WaitingCount = n
	} else {
		s.logger.Warn().Err(err).Msg("dashboard: waiting count metric failed")
	}

	if total, occupied, err := s.repo.BedCounts(ctx); err == nil {
		sum.TotalBeds = total
		sum.OccupiedBeds = occupied
		if total > 0 {
			sum.OccupancyPercent = occupied * 100 / total
		}
	} else {
		s.logger.Warn().Err(err).Msg("dashboard: bed counts metric failed")
	}

	if n, err := s.repo.ConsultationsToday(ctx); err == nil {
		sum.ConsultationsToday = n
	} else {
		s.logger.Warn().Err(err).Msg("dashboard: consultations metric failed")
	}

	if mins, err := s.repo.AverageWaitMinutes(ctx); err == nil {
		sum.AvgWaitMinutes = mins
	} else {
		s.logger.Warn().Err(err).Msg("dashboard: average wait metric failed")
	}

	if items, err := s.repo.RecentPatients(ctx, recentPatientCount); err == nil {
		sum.RecentPatients = items
	} else {
		s.logger.Warn().Err(err).Msg("dashboard: recent patients metric failed")
	}

	if wards, err := s.repo.WardUtilization(ctx); err == nil {
		sum.WardUtilization = wards
	} else {
		s.logger.Warn().Err(err).Msg("dashboard: ward utilization metric failed")
	}

	return sum
}

// PublicSummary is the snapshot without patient identities, safe to serve
// unauthenticated.
func (s *Service) PublicSummary(ctx context.Context) *Summary {
	sum := s.Summary(ctx)
	sum.RecentPatients = []*RecentPatient{}
	return sum
}
