package storage

import (
	"context"
	"errors"

	"cardioguard/internal/models"
)

// ErrNotFound is returned when a patient record does not exist.
var ErrNotFound = errors.New("patient not found")

// maxCheckInHistory caps how many check-ins are kept per patient.
const maxCheckInHistory = 30

type Storage interface {
	GetPatient(ctx context.Context, id string) (*models.Patient, error)
	ListPatients(ctx context.Context) ([]*models.Patient, error)
	SavePatient(ctx context.Context, patient *models.Patient) error

	AddCheckIn(ctx context.Context, record *models.CheckInRecord) error
	GetCheckIns(ctx context.Context, patientID string, limit int) ([]*models.CheckInRecord, error)

	AddMessage(ctx context.Context, msg *models.ChatMessage) error
	GetMessages(ctx context.Context, patientID string, limit int) ([]*models.ChatMessage, error)

	AddEscalation(ctx context.Context, esc *models.Escalation) error
	ListEscalations(ctx context.Context, limit int) ([]*models.Escalation, error)

	Close() error
}
