package patient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mediflow/mediflow/internal/platform/db"
)

// -- Mock Repository --

type mockRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	p, ok := m.patients[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	p.Status = status
	return nil
}

func (m *mockRepo) SetAdmission(_ context.Context, id uuid.UUID, status string, bedLabel, doctor *string) error {
	p, ok := m.patients[id]
	if !ok {
		return fmt.Errorf("not found")
	}
	p.Status = status
	p.BedLabel = bedLabel
	p.AssignedDoctor = doctor
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		result = append(result, p)
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByStatus(_ context.Context, status string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		if p.Status == status {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) SearchByTerm(_ context.Context, term string) ([]*Patient, error) {
	var result []*Patient
	for _, p := range m.patients {
		if len(term) > 0 && (p.Name == term || len(p.ID.String()) >= len(term) && p.ID.String()[:len(term)] == term) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockRepo) SearchByName(_ context.Context, name string) ([]*Patient, error) {
	var result []*Patient
	for _, p := range m.patients {
		if p.Name == name {
			result = append(result, p)
		}
	}
	return result, nil
}

type mockPurger struct {
	purged []uuid.UUID
	err    error
}

func (m *mockPurger) DeleteByPatient(_ context.Context, patientID uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.purged = append(m.purged, patientID)
	return nil
}

func newTestService(repo *mockRepo, queues, appts *mockPurger) *Service {
	return NewService(repo, queues, appts, db.NoopTxRunner())
}

// -- Tests --

func TestService_ListWaiting(t *testing.T) {
	repo := newMockRepo()
	repo.Create(context.Background(), &Patient{Name: "A", Status: StatusWaiting})
	repo.Create(context.Background(), &Patient{Name: "B", Status: StatusAdmitted})
	repo.Create(context.Background(), &Patient{Name: "C", Status: StatusWaiting})

	svc := newTestService(repo, &mockPurger{}, &mockPurger{})
	items, total, err := svc.ListWaiting(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 waiting patients, got %d", total)
	}
}

func TestService_Search_EmptyTerm(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockPurger{}, &mockPurger{})
	_, err := svc.Search(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for empty search term")
	}
}

func TestService_Update_Validation(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(repo, &mockPurger{}, &mockPurger{})

	if err := svc.Update(context.Background(), &Patient{Name: "X"}); err == nil {
		t.Error("expected error for missing id")
	}
	if err := svc.Update(context.Background(), &Patient{ID: uuid.New()}); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestService_Delete_Cascades(t *testing.T) {
	repo := newMockRepo()
	p := &Patient{Name: "Asha", Status: StatusWaiting}
	repo.Create(context.Background(), p)

	queues := &mockPurger{}
	appts := &mockPurger{}
	svc := newTestService(repo, queues, appts)

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queues.purged) != 1 || queues.purged[0] != p.ID {
		t.Error("expected queue entries purged")
	}
	if len(appts.purged) != 1 || appts.purged[0] != p.ID {
		t.Error("expected appointments purged")
	}
	if _, err := repo.GetByID(context.Background(), p.ID); err == nil {
		t.Error("expected patient removed")
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	svc := newTestService(newMockRepo(), &mockPurger{}, &mockPurger{})
	if err := svc.Delete(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for unknown patient")
	}
}

func TestService_Delete_PurgeFailureAborts(t *testing.T) {
	repo := newMockRepo()
	p := &Patient{Name: "Asha", Status: StatusWaiting}
	repo.Create(context.Background(), p)

	queues := &mockPurger{err: fmt.Errorf("db down")}
	svc := newTestService(repo, queues, &mockPurger{})

	if err := svc.Delete(context.Background(), p.ID); err == nil {
		t.Fatal("expected error when queue purge fails")
	}
}
