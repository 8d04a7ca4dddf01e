package notify

import (
	"context"

	"cardioguard/internal/models"

	"go.uber.org/zap"
)

// Notifier pushes escalation alerts to the care-team-facing surface.
type Notifier interface {
	EscalationRaised(ctx context.Context, esc *models.Escalation, note string) error
}

// LogNotifier writes alerts to the structured log. Used when no outbound
// channel is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) EscalationRaised(ctx context.Context, esc *models.Escalation, note string) error {
	n.logger.Warn("care team escalation",
		zap.String("patient_id", esc.PatientID),
		zap.String("severity", string(esc.Severity)),
		zap.String("intent", string(esc.Intent)),
		zap.String("alert", note))
	return nil
}
