package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	// SetAdmission updates status together with the bed label and assigned
	// doctor. Nil bedLabel/doctor clear the columns (discharge).
	SetAdmission(ctx context.Context, id uuid.UUID, status string, bedLabel, doctor *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Patient, int, error)
	// SearchByTerm matches patients whose id starts with term (text prefix
	// on the UUID) or whose name contains term, case-insensitively.
	SearchByTerm(ctx context.Context, term string) ([]*Patient, error)
	SearchByName(ctx context.Context, name string) ([]*Patient, error)
}
