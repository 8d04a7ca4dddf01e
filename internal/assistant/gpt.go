package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cardioguard/internal/models"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// GPTAssistant asks an OpenAI model for a SmartResponse-shaped reply. Any
// API, parse, or validation failure falls back to the deterministic rule
// assistant, so callers always get a safe response.
type GPTAssistant struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float64
	fallback    Assistant
	logger      *zap.Logger
}

func NewGPTAssistant(apiKey, model string, maxTokens int, temperature float64, fallback Assistant, logger *zap.Logger) *GPTAssistant {
	return &GPTAssistant{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		fallback:    fallback,
		logger:      logger,
	}
}

var validIntents = map[models.Intent]bool{
	models.IntentSymptomReport:      true,
	models.IntentMedicationQuestion: true,
	models.IntentAppointmentRequest: true,
	models.IntentEmotionalSupport:   true,
	models.IntentGeneralHealth:      true,
	models.IntentEmergency:          true,
	models.IntentProgressInquiry:    true,
	models.IntentLifestyleQuestion:  true,
	models.IntentGreeting:           true,
	models.IntentGratitude:          true,
	models.IntentUnknown:            true,
}

var validSeverities = map[models.Severity]bool{
	models.SeverityLow:      true,
	models.SeverityMedium:   true,
	models.SeverityHigh:     true,
	models.SeverityCritical: true,
}

func (a *GPTAssistant) Respond(ctx context.Context, patientID, message string) models.SmartResponse {
	prompt := fmt.Sprintf(`You are a post-discharge cardiac care assistant. Analyze the patient's message and reply with a JSON object with this structure:
{
    "content": "your reply to the patient",
    "intent": "one of: symptom_report, medication_question, appointment_request, emotional_support, general_health, emergency, progress_inquiry, lifestyle_question, greeting, gratitude, unknown",
    "severity": "one of: low, medium, high, critical",
    "shouldEscalate": true or false,
    "suggestedActions": ["action1", "action2"],
    "followUpQuestion": "optional follow-up question"
}

If the message describes an emergency or critical symptoms, severity must be critical, shouldEscalate must be true, and the reply must instruct the patient to call 911.

Message: %s`, message)

	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: a.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   a.maxTokens,
			Temperature: float32(a.temperature),
		},
	)
	if err != nil {
		a.logger.Error("failed to get GPT response, falling back to rules",
			zap.Error(err),
			zap.String("patient_id", patientID))
		return a.fallback.Respond(ctx, patientID, message)
	}

	if len(resp.Choices) == 0 {
		a.logger.Warn("GPT returned no choices, falling back to rules",
			zap.String("patient_id", patientID))
		return a.fallback.Respond(ctx, patientID, message)
	}

	var smart models.SmartResponse
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), &smart); err != nil {
		a.logger.Error("failed to parse GPT response, falling back to rules",
			zap.Error(err),
			zap.String("response", raw))
		return a.fallback.Respond(ctx, patientID, message)
	}

	if smart.Content == "" || !validIntents[smart.Intent] || !validSeverities[smart.Severity] {
		a.logger.Warn("GPT response failed validation, falling back to rules",
			zap.String("intent", string(smart.Intent)),
			zap.String("severity", string(smart.Severity)))
		return a.fallback.Respond(ctx, patientID, message)
	}

	return smart
}
