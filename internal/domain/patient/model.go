package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient record statuses. The patient row is the source of truth for where
// a patient is in the visit lifecycle; the queue row carries its own
// machine-readable status alongside.
const (
	StatusWaiting              = "Waiting"
	StatusInConsultation       = "In Consultation"
	StatusCompleted            = "Completed"
	StatusCancelled            = "Cancelled"
	StatusAdmitted             = "Admitted"
	StatusDischarged           = "Discharged"
	StatusReadyForConsultation = "Ready for Consultation"
)

type Patient struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	Phone            string    `json:"phone"`
	Department       string    `json:"department"`
	Email            *string   `json:"email,omitempty"`
	Gender           *string   `json:"gender,omitempty"`
	Address          *string   `json:"address,omitempty"`
	MedicalHistory   *string   `json:"medical_history,omitempty"`
	EmergencyContact *string   `json:"emergency_contact,omitempty"`
	Status           string    `json:"status"`
	BedLabel         *string   `json:"bed_label,omitempty"`
	AssignedDoctor   *string   `json:"assigned_doctor,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
