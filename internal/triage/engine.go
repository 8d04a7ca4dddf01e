package triage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cardioguard/internal/models"

	"go.uber.org/zap"
)

// PatientSource resolves patient records for the responder.
type PatientSource interface {
	GetPatient(ctx context.Context, id string) (*models.Patient, error)
}

// Engine is the conversational triage responder. It is synchronous and
// stateless per call aside from the injected conversation memory.
type Engine struct {
	patients PatientSource
	memory   ConversationStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewEngine(patients PatientSource, memory ConversationStore, logger *zap.Logger) *Engine {
	if memory == nil {
		memory = NewMemoryConversationStore()
	}
	return &Engine{
		patients: patients,
		memory:   memory,
		logger:   logger,
		now:      time.Now,
	}
}

// fallbackResponse is returned when the patient record cannot be resolved.
// The engine never surfaces an error to the caller for missing patients.
func fallbackResponse() models.SmartResponse {
	return models.SmartResponse{
		Content:        "I'm having trouble accessing your patient information. Please try again or contact support.",
		Intent:         models.IntentUnknown,
		Severity:       models.SeverityLow,
		ShouldEscalate: true,
	}
}

// Respond runs the three responder stages over a patient message: intent
// detection, severity assessment, response generation. Conversation memory
// is updated afterwards and never influences the current call.
func (e *Engine) Respond(ctx context.Context, patientID, message string) models.SmartResponse {
	patient, err := e.patients.GetPatient(ctx, patientID)
	if err != nil || patient == nil {
		e.logger.Warn("patient lookup failed, returning fallback response",
			zap.Error(err),
			zap.String("patient_id", patientID))
		return fallbackResponse()
	}

	// Severity elevation must reflect the computed risk level, not whatever
	// happens to be stored.
	RefreshRisk(patient, e.now())

	intent := DetectIntent(message)
	severity := AssessSeverity(message, intent, patient)
	response := GenerateResponse(message, intent, severity, patient)

	e.memory.Record(patientID, intent, response.ShouldEscalate)

	return response
}

// Memory exposes the conversation store for callers that surface history.
func (e *Engine) Memory() ConversationStore {
	return e.memory
}

// EscalationNote formats the care-team alert line for an escalated response:
// severity, patient, intent, and the first 100 characters of the message.
func EscalationNote(patient *models.Patient, message string, resp models.SmartResponse) string {
	excerpt := message
	if runes := []rune(excerpt); len(runes) > 100 {
		excerpt = string(runes[:100]) + "..."
	}

	severityLabel := strings.ToUpper(string(resp.Severity))
	intentLabel := strings.ToUpper(strings.ReplaceAll(string(resp.Intent), "_", " "))

	return fmt.Sprintf(`[%s ALERT] %s (%s): %s - "%s"`, severityLabel, patient.Name, patient.ID, intentLabel, excerpt)
}
