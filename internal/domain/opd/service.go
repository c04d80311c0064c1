package opd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mediflow/mediflow/internal/domain/appointment"
	"github.com/mediflow/mediflow/internal/domain/patient"
	"github.com/mediflow/mediflow/internal/platform/db"
)

// AppointmentBooker is the slice of the appointment service the queue
// workflow needs: booking at registration, token lookup, and closing the
// appointment when the visit ends so the active count stays honest.
type AppointmentBooker interface {
	Book(ctx context.Context, a *appointment.Appointment) error
	FindByTokenInput(ctx context.Context, input string) (*appointment.Appointment, error)
	Complete(ctx context.Context, patientID uuid.UUID) error
	Cancel(ctx context.Context, patientID uuid.UUID) error
}

type Service struct {
	repo     Repository
	patients patient.Repository
	appts    AppointmentBooker
	tx       db.TxRunner
}

func NewService(repo Repository, patients patient.Repository, appts AppointmentBooker, tx db.TxRunner) *Service {
	return &Service{repo: repo, patients: patients, appts: appts, tx: tx}
}

// Register creates the patient record, their queue entry, and their
// appointment in one transaction. The returned token is the handle patients
// use for self-service status lookups.
func (s *Service) Register(ctx context.Context, input RegistrationInput) (*RegistrationResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Department = strings.TrimSpace(input.Department)
	input.Phone = strings.TrimSpace(input.Phone)

	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if input.Age < 1 || input.Age > 150 {
		return nil, fmt.Errorf("age must be between 1 and 150")
	}
	if input.Phone == "" {
		return nil, fmt.Errorf("phone is required")
	}
	if input.Department == "" {
		return nil, fmt.Errorf("department is required")
	}

	optional := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}

	p := &patient.Patient{
		ID:               uuid.New(),
		Name:             input.Name,
		Age:              input.Age,
		Phone:            input.Phone,
		Department:       input.Department,
		Email:            optional(input.Email),
		Gender:           optional(input.Gender),
		Address:          optional(input.Address),
		MedicalHistory:   optional(input.MedicalHistory),
		EmergencyContact: optional(input.EmergencyContact),
		Status:           patient.StatusWaiting,
	}

	token := appointment.GenerateToken()
	entry := &QueueEntry{
		PatientID:  p.ID,
		Department: input.Department,
		Status:     QueueWaiting,
		Token:      &token,
	}
	appt := &appointment.Appointment{
		PatientID:   p.ID,
		TokenNumber: token,
		Department:  input.Department,
	}

	err := s.tx(ctx, func(ctx context.Context) error {
		if err := s.patients.Create(ctx, p); err != nil {
			return fmt.Errorf("creating patient: %w", err)
		}
		if err := s.repo.Enqueue(ctx, entry); err != nil {
			return fmt.Errorf("enqueueing patient: %w", err)
		}
		if err := s.appts.Book(ctx, appt); err != nil {
			return fmt.Errorf("booking appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RegistrationResult{
		PatientID: p.ID,
		QueueID:   entry.QueueID,
		Token:     token,
		Position:  appt.QueuePosition,
	}, nil
}

// Transition applies a workflow action, updating the patient status, the
// queue status, and the appointment lifecycle to their paired values in one
// transaction. A missing queue entry is not an error: patients can leave
// the queue (admission, old visits) while their record still moves.
func (s *Service) Transition(ctx context.Context, patientID uuid.UUID, action Action) error {
	patientStatus, queueStatus, err := StatusesFor(action)
	if err != nil {
		return err
	}
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return fmt.Errorf("patient not found")
	}

	return s.tx(ctx, func(ctx context.Context) error {
		if err := s.patients.UpdateStatus(ctx, patientID, patientStatus); err != nil {
			return fmt.Errorf("updating patient status: %w", err)
		}
		if err := s.repo.UpdateStatusByPatient(ctx, patientID, queueStatus); err != nil {
			return fmt.Errorf("updating queue status: %w", err)
		}
		switch action {
		case ActionComplete, ActionAdmit, ActionDischarge:
			if err := s.appts.Complete(ctx, patientID); err != nil {
				return fmt.Errorf("closing appointment: %w", err)
			}
		case ActionCancel:
			if err := s.appts.Cancel(ctx, patientID); err != nil {
				return fmt.Errorf("cancelling appointment: %w", err)
			}
		}
		return nil
	})
}

// Board lists the queue for a department, with per-status counts and live
// positions for the active entries. An empty department or "All
// Departments" lists everything.
func (s *Service) Board(ctx context.Context, department string) (*QueueBoard, error) {
	if strings.EqualFold(department, "All Departments") {
		department = ""
	}

	items, err := s.repo.List(ctx, department)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.Counts(ctx, department)
	if err != nil {
		return nil, err
	}

	active := 0
	for _, it := range items {
		it.StatusLabel = StatusLabel(it.Status)
		if it.Status == QueueWaiting || it.Status == QueueInConsultation {
			active++
			pos := active
			it.Position = &pos
		}
	}

	return &QueueBoard{Department: department, Items: items, Counts: counts}, nil
}

// Position returns the 1-based live position of a queue entry.
func (s *Service) Position(ctx context.Context, queueID int64) (int, error) {
	return s.repo.Position(ctx, queueID)
}

// LookupByToken resolves a self-service status query. The token input is
// tried against appointments first, then the queue (by token or queue id),
// and finally the name is tried as a patient name fragment. The first hit
// wins.
func (s *Service) LookupByToken(ctx context.Context, token, name string) *TokenStatus {
	token = strings.TrimSpace(token)
	name = strings.TrimSpace(name)

	if token != "" {
		if st := s.lookupViaAppointment(ctx, token); st != nil {
			return st
		}
		if st := s.lookupViaQueue(ctx, token); st != nil {
			return st
		}
	}
	if name != "" {
		if st := s.lookupViaName(ctx, name); st != nil {
			return st
		}
	}

	return &TokenStatus{Found: false, Message: "no matching registration found"}
}

func (s *Service) lookupViaAppointment(ctx context.Context, token string) *TokenStatus {
	appt, err := s.appts.FindByTokenInput(ctx, token)
	if err != nil {
		return nil
	}

	st := &TokenStatus{
		Found:            true,
		TokenNumber:      appt.TokenNumber,
		Department:       appt.Department,
		SnapshotPosition: &appt.QueuePosition,
	}
	if p, err := s.patients.GetByID(ctx, appt.PatientID); err == nil {
		st.PatientName = p.Name
		st.PatientStatus = p.Status
	}
	s.attachLivePosition(ctx, appt.PatientID, st)
	return st
}

func (s *Service) lookupViaQueue(ctx context.Context, token string) *TokenStatus {
	var entry *QueueEntry
	for _, cand := range appointment.NormalizeToken(token) {
		if id, err := strconv.ParseInt(cand, 10, 64); err == nil {
			if e, err := s.repo.GetByQueueID(ctx, id); err == nil {
				entry = e
				break
			}
			continue
		}
		if e, err := s.repo.FindByToken(ctx, cand); err == nil {
			entry = e
			break
		}
	}
	if entry == nil {
		return nil
	}
	return s.statusFromEntry(ctx, entry)
}

func (s *Service) lookupViaName(ctx context.Context, name string) *TokenStatus {
	matches, err := s.patients.SearchByName(ctx, name)
	if err != nil || len(matches) == 0 {
		return nil
	}
	p := matches[0]

	entry, err := s.repo.GetLatestByPatient(ctx, p.ID)
	if err != nil {
		return &TokenStatus{Found: true, PatientName: p.Name, Department: p.Department, PatientStatus: p.Status}
	}
	st := s.statusFromEntry(ctx, entry)
	return st
}

func (s *Service) statusFromEntry(ctx context.Context, entry *QueueEntry) *TokenStatus {
	st := &TokenStatus{
		Found:            true,
		Department:       entry.Department,
		QueueStatus:      entry.Status,
		QueueStatusLabel: StatusLabel(entry.Status),
	}
	if entry.Token != nil {
		st.TokenNumber = *entry.Token
	}
	if p, err := s.patients.GetByID(ctx, entry.PatientID); err == nil {
		st.PatientName = p.Name
		st.PatientStatus = p.Status
	}
	if entry.Status == QueueWaiting || entry.Status == QueueInConsultation {
		if pos, err := s.repo.Position(ctx, entry.QueueID); err == nil {
			st.LivePosition = &pos
			st.EstimatedWaitMinutes = appointment.EstimateWaitMinutes(&pos)
		}
	}
	return st
}

func (s *Service) attachLivePosition(ctx context.Context, patientID uuid.UUID, st *TokenStatus) {
	entry, err := s.repo.GetActiveByPatient(ctx, patientID)
	if err != nil {
		st.EstimatedWaitMinutes = appointment.EstimateWaitMinutes(st.SnapshotPosition)
		return
	}
	st.QueueStatus = entry.Status
	st.QueueStatusLabel = StatusLabel(entry.Status)
	if pos, err := s.repo.Position(ctx, entry.QueueID); err == nil {
		st.LivePosition = &pos
		st.EstimatedWaitMinutes = appointment.EstimateWaitMinutes(&pos)
	}
}
