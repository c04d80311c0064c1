package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mediflow/mediflow/internal/platform/db"
)

// QueuePurger removes a patient's queue entries. Satisfied by the OPD queue
// repository.
type QueuePurger interface {
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}

// AppointmentPurger removes a patient's appointments. Satisfied by the
// appointment repository.
type AppointmentPurger interface {
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}

type Service struct {
	repo         Repository
	queues       QueuePurger
	appointments AppointmentPurger
	tx           db.TxRunner
}

func NewService(repo Repository, queues QueuePurger, appointments AppointmentPurger, tx db.TxRunner) *Service {
	return &Service{repo: repo, queues: queues, appointments: appointments, tx: tx}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// ListWaiting returns patients eligible for bed assignment.
func (s *Service) ListWaiting(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.ListByStatus(ctx, StatusWaiting, limit, offset)
}

// Search finds patients by id prefix or name fragment.
func (s *Service) Search(ctx context.Context, term string) ([]*Patient, error) {
	if term == "" {
		return nil, fmt.Errorf("search term is required")
	}
	return s.repo.SearchByTerm(ctx, term)
}

// Delete removes a patient together with their queue entries and
// appointments. The whole cascade runs in one transaction.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("patient not found")
	}
	return s.tx(ctx, func(ctx context.Context) error {
		if err := s.queues.DeleteByPatient(ctx, id); err != nil {
			return fmt.Errorf("deleting queue entries: %w", err)
		}
		if err := s.appointments.DeleteByPatient(ctx, id); err != nil {
			return fmt.Errorf("deleting appointments: %w", err)
		}
		return s.repo.Delete(ctx, id)
	})
}
