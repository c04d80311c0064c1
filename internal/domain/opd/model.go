package opd

import (
	"time"

	"github.com/google/uuid"
)

// QueueEntry is one row of the OPD queue. QueueID is a serial that doubles
// as the FIFO ordering key.
type QueueEntry struct {
	QueueID    int64     `json:"queue_id"`
	PatientID  uuid.UUID `json:"patient_id"`
	Department string    `json:"department"`
	Status     string    `json:"status"`
	Token      *string   `json:"token,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// QueueItem is a queue entry joined with its patient, shaped for the queue
// board.
type QueueItem struct {
	QueueID     int64     `json:"queue_id"`
	Token       *string   `json:"token,omitempty"`
	PatientID   uuid.UUID `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	Age         int       `json:"age"`
	Department  string    `json:"department"`
	Status      string    `json:"status"`
	StatusLabel string    `json:"status_label"`
	Position    *int      `json:"position,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// QueueBoard is the full queue listing with per-status counts.
type QueueBoard struct {
	Department string       `json:"department"`
	Items      []*QueueItem `json:"items"`
	Counts     QueueCounts  `json:"counts"`
}

type QueueCounts struct {
	Waiting        int `json:"waiting"`
	InConsultation int `json:"in_consultation"`
	Completed      int `json:"completed"`
	Cancelled      int `json:"cancelled"`
}

// RegistrationInput is the patient registration payload, accepted as JSON
// or an HTML form post.
type RegistrationInput struct {
	Name             string `json:"name" form:"name"`
	Age              int    `json:"age" form:"age"`
	Phone            string `json:"phone" form:"phone"`
	Department       string `json:"department" form:"department"`
	Email            string `json:"email" form:"email"`
	Gender           string `json:"gender" form:"gender"`
	Address          string `json:"address" form:"address"`
	MedicalHistory   string `json:"medical_history" form:"medical_history"`
	EmergencyContact string `json:"emergency_contact" form:"emergency_contact"`
}

// RegistrationResult reports the outcome of a successful registration.
type RegistrationResult struct {
	PatientID uuid.UUID `json:"patient_id"`
	QueueID   int64     `json:"queue_id"`
	Token     string    `json:"token"`
	Position  int       `json:"position"`
}

// TokenStatus is the self-service lookup response. SnapshotPosition is the
// position recorded at booking time; LivePosition is computed from the
// queue right now.
type TokenStatus struct {
	Found                bool   `json:"found"`
	TokenNumber          string `json:"token_number,omitempty"`
	PatientName          string `json:"patient_name,omitempty"`
	Department           string `json:"department,omitempty"`
	PatientStatus        string `json:"patient_status,omitempty"`
	QueueStatus          string `json:"queue_status,omitempty"`
	QueueStatusLabel     string `json:"queue_status_label,omitempty"`
	SnapshotPosition     *int   `json:"snapshot_position,omitempty"`
	LivePosition         *int   `json:"live_position,omitempty"`
	EstimatedWaitMinutes *int   `json:"estimated_wait_minutes,omitempty"`
	Message              string `json:"message,omitempty"`
}
