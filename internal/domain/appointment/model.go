package appointment

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// MinutesPerConsultation is the assumed consultation slot length used for
// wait estimates.
const MinutesPerConsultation = 15

type Appointment struct {
	ID            uuid.UUID `json:"id"`
	PatientID     uuid.UUID `json:"patient_id"`
	TokenNumber   string    `json:"token_number"`
	Department    string    `json:"department"`
	ScheduledDate time.Time `json:"scheduled_date"`
	ScheduledTime string    `json:"scheduled_time"`
	Status        string    `json:"status"`
	// QueuePosition is recorded once at booking time and never recomputed.
	// Live position comes from the OPD queue instead.
	QueuePosition int       `json:"queue_position"`
	CreatedAt     time.Time `json:"created_at"`
}

// GenerateToken produces a display token of the form TOK-NNNNN.
func GenerateToken() string {
	return fmt.Sprintf("TOK-%05d", rand.Intn(100000))
}

// NormalizeToken returns the candidate forms of a user-supplied token, in
// lookup order. "tok-123", "TOK-00123" and "123" all resolve to the same
// canonical token, and the bare digits double as a queue id candidate.
func NormalizeToken(input string) []string {
	raw := strings.ToUpper(strings.TrimSpace(input))
	if raw == "" {
		return nil
	}

	candidates := []string{raw}

	digits := raw
	if strings.HasPrefix(raw, "TOK-") {
		digits = strings.TrimPrefix(raw, "TOK-")
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}

	if n, err := strconv.Atoi(digits); err == nil {
		padded := fmt.Sprintf("TOK-%05d", n)
		if padded != raw {
			candidates = append(candidates, padded)
		}
		bare := strconv.Itoa(n)
		if bare != raw {
			candidates = append(candidates, bare)
		}
	}

	return candidates
}

// EstimateWaitMinutes converts a queue position into a wait estimate.
// Position 1 is next in line and waits zero minutes. A nil position yields
// a nil estimate.
func EstimateWaitMinutes(position *int) *int {
	if position == nil {
		return nil
	}
	mins := (*position - 1) * MinutesPerConsultation
	if mins < 0 {
		mins = 0
	}
	return &mins
}
