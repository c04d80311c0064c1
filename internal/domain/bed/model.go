package bed

import (
	"time"

	"github.com/google/uuid"
)

// Bed statuses.
const (
	StatusAvailable = "available"
	StatusOccupied  = "occupied"
)

// Ward names.
const (
	WardICU         = "ICU"
	WardSemiPrivate = "Semi-Private"
	WardGeneral     = "General Ward"
)

type Bed struct {
	ID          uuid.UUID  `json:"id"`
	BedNumber   string     `json:"bed_number"`
	Ward        string     `json:"ward"`
	Status      string     `json:"status"`
	PatientID   *uuid.UUID `json:"patient_id,omitempty"`
	AllocatedAt *time.Time `json:"allocated_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BedWithPatient is a bed joined with its occupant for the bed board.
type BedWithPatient struct {
	Bed
	PatientName  *string `json:"patient_name,omitempty"`
	PatientAge   *int    `json:"patient_age,omitempty"`
	PatientPhone *string `json:"patient_phone,omitempty"`
}

// Sanitize strips occupant identity for non-staff callers, leaving only the
// occupancy state.
func (b *BedWithPatient) Sanitize() *BedWithPatient {
	clean := *b
	clean.PatientID = nil
	clean.PatientName = nil
	clean.PatientAge = nil
	clean.PatientPhone = nil
	return &clean
}

// wardForDepartment routes admissions to the ward that usually takes the
// department's inpatients. Anything unlisted lands in the general ward.
var wardForDepartment = map[string]string{
	"Cardiology":  WardICU,
	"Neurology":   WardICU,
	"Orthopedics": WardSemiPrivate,
	"Surgery":     WardSemiPrivate,
}

// WardForDepartment returns the target ward for a department, defaulting to
// the general ward.
func WardForDepartment(department string) string {
	if ward, ok := wardForDepartment[department]; ok {
		return ward
	}
	return WardGeneral
}

// AdmissionResult reports a successful admission.
type AdmissionResult struct {
	BedNumber   string `json:"bed_number"`
	WardName    string `json:"ward_name"`
	PatientName string `json:"patient_name"`
}
