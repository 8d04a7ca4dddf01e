package assistant

import (
	"context"

	"cardioguard/internal/models"
	"cardioguard/internal/triage"
)

// Assistant produces the automated reply to a patient chat message. It never
// returns an error: every implementation must degrade to a valid response.
type Assistant interface {
	Respond(ctx context.Context, patientID, message string) models.SmartResponse
}

// RuleAssistant is the default deterministic assistant, backed by the triage
// engine's fixed rule tables.
type RuleAssistant struct {
	engine *triage.Engine
}

func NewRuleAssistant(engine *triage.Engine) *RuleAssistant {
	return &RuleAssistant{engine: engine}
}

func (a *RuleAssistant) Respond(ctx context.Context, patientID, message string) models.SmartResponse {
	return a.engine.Respond(ctx, patientID, message)
}
