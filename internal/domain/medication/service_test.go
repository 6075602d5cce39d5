package medication

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	meds map[uuid.UUID]*Medication
}

func newMockRepo() *mockRepo {
	return &mockRepo{meds: make(map[uuid.UUID]*Medication)}
}

func (m *mockRepo) Create(_ context.Context, med *Medication) error {
	med.ID = uuid.New()
	med.CreatedAt = time.Now()
	med.UpdatedAt = time.Now()
	m.meds[med.ID] = med
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Medication, error) {
	med, ok := m.meds[id]
	if !ok {
		return nil, ErrNotFound
	}
	return med, nil
}

func (m *mockRepo) Update(_ context.Context, med *Medication) error {
	if _, ok := m.meds[med.ID]; !ok {
		return ErrNotFound
	}
	med.UpdatedAt = time.Now()
	m.meds[med.ID] = med
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.meds[id]; !ok {
		return ErrNotFound
	}
	delete(m.meds, id)
	return nil
}

func (m *mockRepo) Search(_ context.Context, _ string, limit, offset int) ([]*Medication, int, error) {
	var result []*Medication
	for _, med := range m.meds {
		result = append(result, med)
	}
	total := len(result)
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

// -- Tests --

func TestCreateMedication(t *testing.T) {
	svc := NewService(newMockRepo())

	m := &Medication{Name: "Metformin"}
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestCreateMedication_MissingName(t *testing.T) {
	svc := NewService(newMockRepo())

	err := svc.Create(context.Background(), &Medication{})
	if err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestGetMedication_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateMedication(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	m := &Medication{Name: "Metformin"}
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.Name = "Metformin XR"
	if err := svc.Update(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Metformin XR" {
		t.Errorf("expected updated name, got %s", got.Name)
	}
}

func TestDeleteMedication(t *testing.T) {
	svc := NewService(newMockRepo())

	m := &Medication{Name: "Aspirin"}
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), m.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), m.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSearchMedications_Pagination(t *testing.T) {
	svc := NewService(newMockRepo())

	for _, name := range []string{"A", "B", "C", "D", "E"} {
		if err := svc.Create(context.Background(), &Medication{Name: name}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	items, total, err := svc.Search(context.Background(), "", 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items, got %d", len(items))
	}
}
