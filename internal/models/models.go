package models

import "time"

// Intent is the detected purpose category of a free-text patient message.
type Intent string

const (
	IntentSymptomReport      Intent = "symptom_report"
	IntentMedicationQuestion Intent = "medication_question"
	IntentAppointmentRequest Intent = "appointment_request"
	IntentEmotionalSupport   Intent = "emotional_support"
	IntentGeneralHealth      Intent = "general_health"
	IntentEmergency          Intent = "emergency"
	IntentProgressInquiry    Intent = "progress_inquiry"
	IntentLifestyleQuestion  Intent = "lifestyle_question"
	IntentGreeting           Intent = "greeting"
	IntentGratitude          Intent = "gratitude"
	IntentUnknown            Intent = "unknown"
)

// Severity is the urgency tier assigned to a message, independent of intent.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// AtLeast reports whether s is at least as urgent as other.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

// Classification is the three-tier triage outcome of a daily check-in.
type Classification string

const (
	ClassificationGreen  Classification = "green"
	ClassificationYellow Classification = "yellow"
	ClassificationRed    Classification = "red"
)

// SmartResponse is the result of running a chat message through the triage
// responder.
type SmartResponse struct {
	Content          string   `json:"content"`
	Intent           Intent   `json:"intent"`
	Severity         Severity `json:"severity"`
	ShouldEscalate   bool     `json:"shouldEscalate"`
	SuggestedActions []string `json:"suggestedActions,omitempty"`
	FollowUpQuestion string   `json:"followUpQuestion,omitempty"`
}

// ConversationContext is the per-patient rolling conversation memory. It is
// advisory bookkeeping only: decision logic never reads it.
type ConversationContext struct {
	RecentIntents   []Intent  `json:"recent_intents"`
	LastMessageAt   time.Time `json:"last_message_at"`
	EscalationCount int       `json:"escalation_count"`
}
