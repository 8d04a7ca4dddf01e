package storage

import (
	"context"
	"sort"
	"sync"

	"cardioguard/internal/models"
)

// MemoryStorage is an in-process Storage for demos and tests.
type MemoryStorage struct {
	mu          sync.RWMutex
	patients    map[string]*models.Patient
	checkIns    map[string][]*models.CheckInRecord
	messages    map[string][]*models.ChatMessage
	escalations []*models.Escalation
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		patients: make(map[string]*models.Patient),
		checkIns: make(map[string][]*models.CheckInRecord),
		messages: make(map[string][]*models.ChatMessage),
	}
}

func (s *MemoryStorage) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patient, exists := s.patients[id]
	if !exists {
		return nil, ErrNotFound
	}

	copied := *patient
	return &copied, nil
}

func (s *MemoryStorage) ListPatients(ctx context.Context) ([]*models.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patients := make([]*models.Patient, 0, len(s.patients))
	for _, p := range s.patients {
		copied := *p
		patients = append(patients, &copied)
	}
	sort.Slice(patients, func(i, j int) bool {
		return patients[i].ID < patients[j].ID
	})
	return patients, nil
}

func (s *MemoryStorage) SavePatient(ctx context.Context, patient *models.Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *patient
	s.patients[patient.ID] = &copied
	return nil
}

func (s *MemoryStorage) AddCheckIn(ctx context.Context, record *models.CheckInRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *record
	history := append([]*models.CheckInRecord{&copied}, s.checkIns[record.PatientID]...)
	if len(history) > maxCheckInHistory {
		history = history[:maxCheckInHistory]
	}
	s.checkIns[record.PatientID] = history
	return nil
}

func (s *MemoryStorage) GetCheckIns(ctx context.Context, patientID string, limit int) ([]*models.CheckInRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.checkIns[patientID]
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}

	out := make([]*models.CheckInRecord, len(history))
	for i, rec := range history {
		copied := *rec
		out[i] = &copied
	}
	return out, nil
}

func (s *MemoryStorage) AddMessage(ctx context.Context, msg *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *msg
	s.messages[msg.PatientID] = append(s.messages[msg.PatientID], &copied)
	return nil
}

func (s *MemoryStorage) GetMessages(ctx context.Context, patientID string, limit int) ([]*models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[patientID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	out := make([]*models.ChatMessage, len(msgs))
	for i, m := range msgs {
		copied := *m
		out[i] = &copied
	}
	return out, nil
}

func (s *MemoryStorage) AddEscalation(ctx context.Context, esc *models.Escalation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *esc
	s.escalations = append(s.escalations, &copied)
	return nil
}

func (s *MemoryStorage) ListEscalations(ctx context.Context, limit int) ([]*models.Escalation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first.
	out := make([]*models.Escalation, 0, len(s.escalations))
	for i := len(s.escalations) - 1; i >= 0; i-- {
		copied := *s.escalations[i]
		out = append(out, &copied)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}
