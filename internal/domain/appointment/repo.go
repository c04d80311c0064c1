package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	// FindByToken matches a token exactly.
	FindByToken(ctx context.Context, token string) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Appointment, error)
	// CountActive counts appointments still waiting to be seen.
	CountActive(ctx context.Context) (int, error)
	// UpdateStatusByPatient closes the patient's scheduled appointments.
	// Appointments already completed or cancelled are left alone.
	UpdateStatusByPatient(ctx context.Context, patientID uuid.UUID, status string) error
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}
