package opd

import (
	"fmt"

	"github.com/mediflow/mediflow/internal/domain/patient"
)

// Queue entry statuses. The queue vocabulary is machine-readable and
// deliberately narrower than the patient record vocabulary; the pairing
// table below keeps the two in step.
const (
	QueueWaiting        = "waiting"
	QueueInConsultation = "in_consultation"
	QueueCompleted      = "completed"
	QueueCancelled      = "cancelled"
)

// Action names a front-desk workflow step.
type Action string

const (
	ActionStart     Action = "start"
	ActionComplete  Action = "complete"
	ActionCancel    Action = "cancel"
	ActionAdmit     Action = "admit"
	ActionDischarge Action = "discharge"
)

type statusPair struct {
	Patient string
	Queue   string
}

// transitions pairs each action with the patient status and queue status it
// produces. Admission and discharge close the queue entry; the patient row
// carries the finer-grained outcome.
var transitions = map[Action]statusPair{
	ActionStart:     {patient.StatusInConsultation, QueueInConsultation},
	ActionComplete:  {patient.StatusCompleted, QueueCompleted},
	ActionCancel:    {patient.StatusCancelled, QueueCancelled},
	ActionAdmit:     {patient.StatusAdmitted, QueueCompleted},
	ActionDischarge: {patient.StatusDischarged, QueueCompleted},
}

// StatusesFor returns the patient and queue statuses produced by an action.
func StatusesFor(action Action) (patientStatus, queueStatus string, err error) {
	pair, ok := transitions[action]
	if !ok {
		return "", "", fmt.Errorf("unknown action %q", action)
	}
	return pair.Patient, pair.Queue, nil
}

var statusLabels = map[string]string{
	QueueWaiting:        "Waiting",
	QueueInConsultation: "In Consultation",
	QueueCompleted:      "Completed",
	QueueCancelled:      "Cancelled",
}

// StatusLabel returns the human-readable form of a queue status for display.
func StatusLabel(queueStatus string) string {
	if label, ok := statusLabels[queueStatus]; ok {
		return label
	}
	return queueStatus
}

// ActiveQueueStatuses are the statuses that count toward a live queue
// position.
var ActiveQueueStatuses = []string{QueueWaiting, QueueInConsultation}
