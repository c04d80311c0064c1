package opd

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Enqueue(ctx context.Context, e *QueueEntry) error
	GetByQueueID(ctx context.Context, queueID int64) (*QueueEntry, error)
	// GetActiveByPatient returns the patient's newest queue entry that is
	// still waiting or in consultation.
	GetActiveByPatient(ctx context.Context, patientID uuid.UUID) (*QueueEntry, error)
	// GetLatestByPatient returns the patient's newest queue entry in any
	// status.
	GetLatestByPatient(ctx context.Context, patientID uuid.UUID) (*QueueEntry, error)
	FindByToken(ctx context.Context, token string) (*QueueEntry, error)
	UpdateStatusByPatient(ctx context.Context, patientID uuid.UUID, status string) error
	// Position counts active entries up to and including the given queue id.
	Position(ctx context.Context, queueID int64) (int, error)
	List(ctx context.Context, department string) ([]*QueueItem, error)
	Counts(ctx context.Context, department string) (QueueCounts, error)
	DeleteByPatient(ctx context.Context, patientID uuid.UUID) error
}
