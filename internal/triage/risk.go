package triage

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cardioguard/internal/models"
)

// RiskScore computes the predictive readmission risk score (0-100) from the
// patient's age, diagnosis, discharge recency, risk factors and vitals. The
// factors are additive and the total is capped at 100.
func RiskScore(patient *models.Patient, now time.Time) int {
	score := 0

	switch {
	case patient.Age > 75:
		score += 30
	case patient.Age > 65:
		score += 20
	case patient.Age > 55:
		score += 10
	}

	if strings.Contains(patient.Diagnosis, "MI") || strings.Contains(patient.Diagnosis, "Infarction") {
		score += 25
	}
	if strings.Contains(patient.Diagnosis, "Failure") {
		score += 20
	}
	if strings.Contains(patient.Diagnosis, "Arrhythmia") {
		score += 15
	}

	switch days := daysSinceDischarge(patient, now); {
	case days < 7:
		score += 15
	case days < 14:
		score += 10
	}

	score += len(patient.RiskFactors) * 5

	if patient.Vitals != nil {
		if systolic, _, ok := parseBloodPressure(patient.Vitals.BloodPressure); ok && (systolic > 140 || systolic < 90) {
			score += 10
		}
		if patient.Vitals.HeartRate > 100 || patient.Vitals.HeartRate < 50 {
			score += 10
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

// RiskLevelFor maps a risk score onto the four-tier risk level.
func RiskLevelFor(score int) models.RiskLevel {
	switch {
	case score >= 75:
		return models.RiskCritical
	case score >= 50:
		return models.RiskHigh
	case score >= 25:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// RefreshRisk recomputes and stores the patient's risk score and level.
// Callers run this on fetch so stale stored values never drive decisions.
func RefreshRisk(patient *models.Patient, now time.Time) {
	score := RiskScore(patient, now)
	patient.RiskScore = float64(score)
	patient.RiskLevel = RiskLevelFor(score)
}

// Recommendations derives care-team action items from the patient's current
// risk profile. Expects RefreshRisk to have run first.
func Recommendations(patient *models.Patient, now time.Time) []models.Recommendation {
	var recs []models.Recommendation

	if patient.RiskLevel == models.RiskCritical || patient.RiskLevel == models.RiskHigh {
		recs = append(recs, models.Recommendation{
			Action:    "Schedule urgent follow-up within 48 hours",
			Rationale: fmt.Sprintf("Patient has %s risk score (%d). Early intervention critical for preventing readmission.", patient.RiskLevel, int(patient.RiskScore)),
			Priority:  "high",
			Category:  "Follow-up Care",
		})
	}

	if patient.LastCheckIn == nil {
		recs = append(recs, models.Recommendation{
			Action:    "Initiate daily symptom check-in protocol",
			Rationale: "No recent check-ins recorded. Regular monitoring helps detect early warning signs.",
			Priority:  "high",
			Category:  "Patient Engagement",
		})
	}

	if patient.HasRiskFactor("Diabetes") || patient.HasRiskFactor("Hypertension") {
		recs = append(recs, models.Recommendation{
			Action:    "Review medication adherence",
			Rationale: "Comorbidities present. Medication non-adherence is a top readmission driver.",
			Priority:  "medium",
			Category:  "Medication Management",
		})
	}

	if patient.Vitals != nil {
		if systolic, diastolic, ok := parseBloodPressure(patient.Vitals.BloodPressure); ok && (systolic > 140 || diastolic > 90) {
			recs = append(recs, models.Recommendation{
				Action:    "BP management consult",
				Rationale: fmt.Sprintf("Recent BP reading %s exceeds target range.", patient.Vitals.BloodPressure),
				Priority:  "high",
				Category:  "Clinical Intervention",
			})
		}
	}

	if daysSinceDischarge(patient, now) < 7 {
		recs = append(recs, models.Recommendation{
			Action:    "Conduct post-discharge call",
			Rationale: "Patient in critical first week post-discharge. Personal outreach reduces anxiety and catches issues early.",
			Priority:  "high",
			Category:  "Care Coordination",
		})
	}

	return recs
}

func daysSinceDischarge(patient *models.Patient, now time.Time) int {
	return int(now.Sub(patient.DischargeDate).Hours() / 24)
}

func parseBloodPressure(reading string) (int, int, bool) {
	parts := strings.SplitN(reading, "/", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	systolic, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	diastolic, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return systolic, diastolic, true
}
