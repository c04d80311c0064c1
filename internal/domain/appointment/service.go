package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Book creates an appointment for the given patient. The token is generated
// when absent, and the queue position snapshot is the count of appointments
// still waiting plus one, taken at booking time.
func (s *Service) Book(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.Department == "" {
		return fmt.Errorf("department is required")
	}
	if a.TokenNumber == "" {
		a.TokenNumber = GenerateToken()
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if a.ScheduledDate.IsZero() {
		a.ScheduledDate = time.Now()
	}
	if a.ScheduledTime == "" {
		a.ScheduledTime = time.Now().Format("15:04")
	}

	active, err := s.repo.CountActive(ctx)
	if err != nil {
		return fmt.Errorf("counting active appointments: %w", err)
	}
	a.QueuePosition = active + 1

	return s.repo.Create(ctx, a)
}

// FindByTokenInput tries each normalized form of the user's token input
// against the appointment table.
func (s *Service) FindByTokenInput(ctx context.Context, input string) (*Appointment, error) {
	candidates := NormalizeToken(input)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("token is required")
	}
	for _, cand := range candidates {
		if a, err := s.repo.FindByToken(ctx, cand); err == nil {
			return a, nil
		}
	}
	return nil, fmt.Errorf("no appointment for token %q", input)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// Complete closes the patient's scheduled appointment when their visit ends,
// taking it out of the active count that future booking snapshots build on.
func (s *Service) Complete(ctx context.Context, patientID uuid.UUID) error {
	return s.repo.UpdateStatusByPatient(ctx, patientID, StatusCompleted)
}

// Cancel voids the patient's scheduled appointment.
func (s *Service) Cancel(ctx context.Context, patientID uuid.UUID) error {
	return s.repo.UpdateStatusByPatient(ctx, patientID, StatusCancelled)
}
