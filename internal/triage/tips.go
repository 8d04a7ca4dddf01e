package triage

import (
	"time"

	"cardioguard/internal/models"
)

var healthTips = []string{
	"💧 Staying hydrated helps your heart pump more efficiently. Aim for 6-8 glasses of water daily.",
	"🧂 Limiting sodium to 2,000mg/day can significantly reduce fluid retention and strain on your heart.",
	"🚶 Short, gentle walks (even 5 minutes) improve circulation and aid recovery.",
	"💊 Take your medications at the same time each day to build a routine and improve adherence.",
	"😴 Getting 7-8 hours of quality sleep helps your heart heal and reduces stress.",
	"🍎 Eating heart-healthy foods like fruits, vegetables, and lean proteins supports recovery.",
	"📊 Weighing yourself daily helps catch fluid retention early - call your doctor if you gain 2+ lbs in a day.",
	"🧘 Deep breathing exercises can lower stress and improve oxygen flow to your heart.",
}

// HealthTip picks a daily tip for the patient, personalized by risk factors.
// The general pool rotates by calendar day so a patient sees a different tip
// each day but the same one all day.
func HealthTip(patient *models.Patient, day time.Time) string {
	if patient.HasRiskFactor("Hypertension") {
		return "🩺 Monitor your blood pressure regularly. High BP is silent but manageable with medication and lifestyle changes."
	}
	if patient.HasRiskFactor("Diabetes") {
		return "🍬 Managing blood sugar levels is crucial for heart health. Check levels as recommended by your doctor."
	}
	return healthTips[day.YearDay()%len(healthTips)]
}
