package bed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mediflow/mediflow/internal/domain/opd"
	"github.com/mediflow/mediflow/internal/domain/patient"
	"github.com/mediflow/mediflow/internal/platform/db"
)

// QueueCloser closes a patient's active queue entry on admission or
// discharge. Satisfied by the OPD queue repository.
type QueueCloser interface {
	UpdateStatusByPatient(ctx context.Context, patientID uuid.UUID, status string) error
}

// AppointmentCloser completes the patient's scheduled appointment when
// their visit ends in a bed. Satisfied by the appointment service.
type AppointmentCloser interface {
	Complete(ctx context.Context, patientID uuid.UUID) error
}

type Service struct {
	repo     Repository
	patients patient.Repository
	queue    QueueCloser
	appts    AppointmentCloser
	tx       db.TxRunner
}

func NewService(repo Repository, patients patient.Repository, queue QueueCloser, appts AppointmentCloser, tx db.TxRunner) *Service {
	return &Service{repo: repo, patients: patients, queue: queue, appts: appts, tx: tx}
}

// Admit places the patient in an available bed. The target ward follows the
// patient's department, overflowing into the general ward. Bed selection
// walks the candidate list and claims conditionally, so a candidate lost to
// a concurrent admission just moves the loop to the next bed. The bed
// claim, patient update, queue close, and appointment close commit together.
func (s *Service) Admit(ctx context.Context, patientID uuid.UUID, doctor string) (*AdmissionResult, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("patient not found")
	}
	if p.Status == patient.StatusAdmitted {
		return nil, fmt.Errorf("patient is already admitted")
	}

	ward := WardForDepartment(p.Department)

	var claimed *Bed
	err = s.tx(ctx, func(ctx context.Context) error {
		candidates, err := s.repo.Candidates(ctx, ward)
		if err != nil {
			return fmt.Errorf("listing beds: %w", err)
		}
		for _, b := range candidates {
			ok, err := s.repo.Claim(ctx, b.ID, patientID)
			if err != nil {
				return fmt.Errorf("claiming bed: %w", err)
			}
			if ok {
				claimed = b
				break
			}
		}
		if claimed == nil {
			return fmt.Errorf("no bed available")
		}
		return s.finishAdmission(ctx, patientID, claimed, doctor)
	})
	if err != nil {
		return nil, err
	}

	return &AdmissionResult{
		BedNumber:   claimed.BedNumber,
		WardName:    claimed.Ward,
		PatientName: p.Name,
	}, nil
}

// AssignBed admits the patient to a specific bed chosen by staff. The
// patient must still be waiting and the bed must still be available.
func (s *Service) AssignBed(ctx context.Context, patientID, bedID uuid.UUID, doctor string) (*AdmissionResult, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("patient not found")
	}
	if p.Status != patient.StatusWaiting && p.Status != patient.StatusReadyForConsultation {
		return nil, fmt.Errorf("patient is not waiting for admission")
	}

	b, err := s.repo.GetByID(ctx, bedID)
	if err != nil {
		return nil, fmt.Errorf("bed not found")
	}

	err = s.tx(ctx, func(ctx context.Context) error {
		ok, err := s.repo.Claim(ctx, b.ID, patientID)
		if err != nil {
			return fmt.Errorf("claiming bed: %w", err)
		}
		if !ok {
			return fmt.Errorf("bed %s is no longer available", b.BedNumber)
		}
		return s.finishAdmission(ctx, patientID, b, doctor)
	})
	if err != nil {
		return nil, err
	}

	return &AdmissionResult{
		BedNumber:   b.BedNumber,
		WardName:    b.Ward,
		PatientName: p.Name,
	}, nil
}

func (s *Service) finishAdmission(ctx context.Context, patientID uuid.UUID, b *Bed, doctor string) error {
	var doc *string
	if doctor != "" {
		doc = &doctor
	}
	pStatus, qStatus, err := opd.StatusesFor(opd.ActionAdmit)
	if err != nil {
		return err
	}
	if err := s.patients.SetAdmission(ctx, patientID, pStatus, &b.BedNumber, doc); err != nil {
		return fmt.Errorf("updating patient: %w", err)
	}
	if err := s.queue.UpdateStatusByPatient(ctx, patientID, qStatus); err != nil {
		return fmt.Errorf("closing queue entry: %w", err)
	}
	if err := s.appts.Complete(ctx, patientID); err != nil {
		return fmt.Errorf("closing appointment: %w", err)
	}
	return nil
}

// Discharge frees the patient's bed and marks them discharged.
func (s *Service) Discharge(ctx context.Context, patientID uuid.UUID) (*AdmissionResult, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("patient not found")
	}

	b, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("no occupied bed for patient")
	}

	if err := s.dischargeTx(ctx, p.ID, b); err != nil {
		return nil, err
	}
	return &AdmissionResult{BedNumber: b.BedNumber, WardName: b.Ward, PatientName: p.Name}, nil
}

// DischargeByBed discharges whoever occupies the labeled bed.
func (s *Service) DischargeByBed(ctx context.Context, bedLabel string) (*AdmissionResult, error) {
	if bedLabel == "" {
		return nil, fmt.Errorf("bed_label is required")
	}
	b, err := s.repo.GetByLabel(ctx, bedLabel)
	if err != nil {
		return nil, fmt.Errorf("bed not found")
	}
	if b.Status != StatusOccupied || b.PatientID == nil {
		return nil, fmt.Errorf("bed %s is not occupied", bedLabel)
	}

	p, err := s.patients.GetByID(ctx, *b.PatientID)
	if err != nil {
		return nil, fmt.Errorf("occupant not found")
	}

	if err := s.dischargeTx(ctx, p.ID, b); err != nil {
		return nil, err
	}
	return &AdmissionResult{BedNumber: b.BedNumber, WardName: b.Ward, PatientName: p.Name}, nil
}

func (s *Service) dischargeTx(ctx context.Context, patientID uuid.UUID, b *Bed) error {
	pStatus, qStatus, err := opd.StatusesFor(opd.ActionDischarge)
	if err != nil {
		return err
	}
	return s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.Release(ctx, b.ID); err != nil {
			return fmt.Errorf("releasing bed: %w", err)
		}
		if err := s.patients.SetAdmission(ctx, patientID, pStatus, nil, nil); err != nil {
			return fmt.Errorf("updating patient: %w", err)
		}
		if err := s.queue.UpdateStatusByPatient(ctx, patientID, qStatus); err != nil {
			return fmt.Errorf("closing queue entry: %w", err)
		}
		if err := s.appts.Complete(ctx, patientID); err != nil {
			return fmt.Errorf("closing appointment: %w", err)
		}
		return nil
	})
}

// ListAll returns every bed with occupant details. When sanitize is set the
// occupant identity is stripped, leaving only occupancy.
func (s *Service) ListAll(ctx context.Context, sanitize bool) ([]*BedWithPatient, error) {
	beds, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if !sanitize {
		return beds, nil
	}
	clean := make([]*BedWithPatient, len(beds))
	for i, b := range beds {
		clean[i] = b.Sanitize()
	}
	return clean, nil
}

func (s *Service) ListAvailable(ctx context.Context) ([]*Bed, error) {
	return s.repo.ListAvailable(ctx)
}

// Occupancy reports the bed inventory split for capacity displays.
func (s *Service) Occupancy(ctx context.Context) (total, occupied int, err error) {
	return s.repo.Count(ctx)
}

// WaitingPatients lists patients eligible for bed assignment.
func (s *Service) WaitingPatients(ctx context.Context, limit, offset int) ([]*patient.Patient, int, error) {
	return s.patients.ListByStatus(ctx, patient.StatusWaiting, limit, offset)
}
