package triage

import (
	"fmt"
	"strings"

	"cardioguard/internal/models"
)

// ClassifyCheckIn scores a daily check-in submission and returns the triage
// tier together with the accumulated red and yellow flag counts. It is a pure
// function: every rule below runs and flags accumulate additively, with the
// final tier decided once at the end.
func ClassifyCheckIn(sub models.CheckInSubmission) (models.Classification, int, int) {
	redFlags := 0
	yellowFlags := 0

	// A symptom matches at most one table, critical checked first.
	for _, symptom := range sub.Symptoms {
		lower := strings.ToLower(symptom)
		if containsAny(lower, checkInCriticalSymptoms) {
			redFlags++
		} else if containsAny(lower, checkInWarningSymptoms) {
			yellowFlags++
		}
	}

	// Free-text answers are scored per topic, keyed by the question text.
	// The three topic checks are independent of each other.
	for _, qa := range sub.Responses {
		question := strings.ToLower(qa.Question)
		answer := strings.ToLower(qa.Answer)

		if strings.Contains(question, "breath") {
			if containsAny(answer, []string{"severe", "very difficult", "cannot"}) {
				redFlags++
			} else if containsAny(answer, []string{"difficult", "harder", "sometimes"}) {
				yellowFlags++
			}
		}

		if strings.Contains(question, "pain") || strings.Contains(question, "chest") {
			if containsAny(answer, []string{"severe", "very bad", "intense"}) {
				redFlags++
			} else if containsAny(answer, []string{"moderate", "some", "mild"}) {
				yellowFlags++
			}
		}

		if strings.Contains(question, "medication") || strings.Contains(question, "medicine") {
			if containsAny(answer, []string{"no", "forgot", "missed"}) {
				yellowFlags++
			}
		}
	}

	// Energy level 1 trips both thresholds.
	if sub.EnergyLevel <= 3 {
		yellowFlags++
	}
	if sub.EnergyLevel <= 1 {
		redFlags++
	}

	if containsAny(strings.ToLower(sub.Mood), negativeMoods) {
		yellowFlags++
	}

	switch {
	case redFlags >= 1:
		return models.ClassificationRed, redFlags, yellowFlags
	case yellowFlags >= 2:
		return models.ClassificationYellow, redFlags, yellowFlags
	default:
		return models.ClassificationGreen, redFlags, yellowFlags
	}
}

// ResolveCheckIn classifies a submission and builds the caller-facing result.
// currentStreak is the patient's recovery streak before this check-in; only a
// green classification advances it, and the returned Streak reflects the
// value the caller should persist.
func ResolveCheckIn(sub models.CheckInSubmission, currentStreak int) models.CheckInResult {
	classification, red, yellow := ClassifyCheckIn(sub)

	result := models.CheckInResult{
		Classification:  classification,
		Streak:          currentStreak,
		RedFlagCount:    red,
		YellowFlagCount: yellow,
	}

	switch classification {
	case models.ClassificationRed:
		result.Message = "We've noticed some concerning symptoms. A care team member will reach out to you shortly. If you feel this is an emergency, please call 911."
		result.RequiresFollowUp = true
	case models.ClassificationYellow:
		result.Message = "Thank you for checking in. We've noted a few changes in your symptoms. A nurse may follow up with you today."
		result.RequiresFollowUp = true
	default:
		result.Streak = currentStreak + 1
		result.Message = fmt.Sprintf("Great job! You're on day %d of your recovery streak. Keep up the excellent work! 🎉", result.Streak)
	}

	return result
}
