package bed

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, b *Bed) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bed, error)
	GetByLabel(ctx context.Context, bedNumber string) (*Bed, error)
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*Bed, error)
	// Candidates returns available beds for admission, exact-ward matches
	// first, then general ward overflow.
	Candidates(ctx context.Context, ward string) ([]*Bed, error)
	// Claim marks an available bed occupied by the patient. It reports
	// false when the bed was taken in the meantime; under concurrent
	// admissions for the same bed exactly one claim succeeds.
	Claim(ctx context.Context, bedID, patientID uuid.UUID) (bool, error)
	// Release frees a bed.
	Release(ctx context.Context, bedID uuid.UUID) error
	ListAll(ctx context.Context) ([]*BedWithPatient, error)
	ListAvailable(ctx context.Context) ([]*Bed, error)
	Count(ctx context.Context) (total, occupied int, err error)
}
