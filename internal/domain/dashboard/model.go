package dashboard

import (
	"time"

	"github.com/google/uuid"
)

// DefaultAvgWaitMinutes is reported when no completed consultations exist
// to average over, or when the average query fails.
const DefaultAvgWaitMinutes = 12

// Summary is the dashboard snapshot. Every metric is computed
// independently; a failing metric degrades to its zero value instead of
// failing the snapshot.
type Summary struct {
	PatientsToday      int               `json:"patients_today"`
	WaitingCount       int               `json:"waiting_count"`
	OccupiedBeds       int               `json:"occupied_beds"`
	TotalBeds          int               `json:"total_beds"`
	OccupancyPercent   int               `json:"occupancy_percent"`
	ConsultationsToday int               `json:"consultations_today"`
	AvgWaitMinutes     int               `json:"avg_wait_minutes"`
	RecentPatients     []*RecentPatient  `json:"recent_patients"`
	WardUtilization    []WardUtilization `json:"ward_utilization"`
	GeneratedAt        time.Time         `json:"generated_at"`
}

type RecentPatient struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Department string    `json:"department"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type WardUtilization struct {
	Name     string `json:"name"`
	Occupied int    `json:"occupied"`
	Total    int    `json:"total"`
	Percent  int    `json:"percent"`
}
