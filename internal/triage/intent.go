package triage

import (
	"strings"

	"cardioguard/internal/models"
)

// intentTable pairs a keyword table with the intent it detects.
type intentTable struct {
	keywords []string
	intent   models.Intent
}

// intentTables is the detection priority order. Unlike the check-in
// classifier, detection is first-match: emergencies beat critical symptoms,
// which beat everything below them.
var intentTables = []intentTable{
	{emergencyKeywords, models.IntentEmergency},
	{criticalSymptoms, models.IntentSymptomReport},
	{greetingKeywords, models.IntentGreeting},
	{gratitudeKeywords, models.IntentGratitude},
	{medicationKeywords, models.IntentMedicationQuestion},
	{appointmentKeywords, models.IntentAppointmentRequest},
	{emotionalKeywords, models.IntentEmotionalSupport},
	{lifestyleKeywords, models.IntentLifestyleQuestion},
	{progressKeywords, models.IntentProgressInquiry},
	{generalSymptomKeywords, models.IntentSymptomReport},
	{generalHealthKeywords, models.IntentGeneralHealth},
}

// DetectIntent returns the first intent whose keyword table matches the
// message, or unknown when nothing matches.
func DetectIntent(message string) models.Intent {
	lower := strings.ToLower(message)
	for _, table := range intentTables {
		if containsAny(lower, table.keywords) {
			return table.intent
		}
	}
	return models.IntentUnknown
}

// AssessSeverity assigns an urgency tier to a message. Emergencies and
// critical-symptom matches short-circuit to critical; otherwise the modifier
// tables are checked most-urgent first, and a symptom report from a high- or
// critical-risk patient is elevated when no modifier matched.
func AssessSeverity(message string, intent models.Intent, patient *models.Patient) models.Severity {
	lower := strings.ToLower(message)

	if intent == models.IntentEmergency {
		return models.SeverityCritical
	}
	if containsAny(lower, criticalSymptoms) {
		return models.SeverityCritical
	}

	if containsAny(lower, criticalSeverityWords) {
		return models.SeverityCritical
	}
	if containsAny(lower, highSeverityWords) {
		return models.SeverityHigh
	}
	if containsAny(lower, mediumSeverityWords) {
		return models.SeverityMedium
	}

	if patient.RiskLevel == models.RiskCritical || patient.RiskLevel == models.RiskHigh {
		if intent == models.IntentSymptomReport {
			return models.SeverityHigh
		}
	}

	return models.SeverityLow
}
