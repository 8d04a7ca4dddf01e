package models

import "time"

type Sender string

const (
	SenderPatient   Sender = "patient"
	SenderAssistant Sender = "assistant"
	SenderCareTeam  Sender = "care-team"
)

// ChatMessage is one entry in a patient's message history.
type ChatMessage struct {
	ID         string    `json:"id"`
	PatientID  string    `json:"patient_id"`
	Sender     Sender    `json:"sender"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	Read       bool      `json:"read"`
}

// Escalation is a care-team alert raised when a message or check-in needs
// follow-up outside the automated response.
type Escalation struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	Severity  Severity  `json:"severity"`
	Intent    Intent    `json:"intent"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
