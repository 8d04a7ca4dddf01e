package models

import "time"

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

type CheckInStatus string

const (
	CheckInPending   CheckInStatus = "pending"
	CheckInCompleted CheckInStatus = "completed"
)

type ContactInfo struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type VitalSigns struct {
	BloodPressure string `json:"blood_pressure"`
	HeartRate     int    `json:"heart_rate"`
	Weight        int    `json:"weight"`
}

// Patient is a monitored post-discharge cardiac patient record.
type Patient struct {
	ID                      string         `json:"id"`
	Name                    string         `json:"name"`
	Age                     int            `json:"age"`
	Diagnosis               string         `json:"diagnosis"`
	DischargeDate           time.Time      `json:"discharge_date"`
	RiskScore               float64        `json:"risk_score"`
	RiskLevel               RiskLevel      `json:"risk_level"`
	RiskFactors             []string       `json:"risk_factors"`
	Contact                 ContactInfo    `json:"contact_info"`
	Vitals                  *VitalSigns    `json:"vital_signs,omitempty"`
	LastCheckIn             *time.Time     `json:"last_check_in,omitempty"`
	RecoveryStreak          int            `json:"recovery_streak"`
	DailyCheckInStatus      CheckInStatus  `json:"daily_check_in_status"`
	AlertLevel              Classification `json:"alert_level"`
	PatientReportedSymptoms []string       `json:"patient_reported_symptoms,omitempty"`
	Onboarded               bool           `json:"onboarded"`
	NextAppointment         *time.Time     `json:"next_appointment,omitempty"`
}

// Recommendation is a care-team action item derived from a patient's risk
// profile.
type Recommendation struct {
	Action    string `json:"action"`
	Rationale string `json:"rationale"`
	Priority  string `json:"priority"`
	Category  string `json:"category"`
}

// FirstName returns the patient's given name for use in chat copy.
func (p *Patient) FirstName() string {
	for i := 0; i < len(p.Name); i++ {
		if p.Name[i] == ' ' {
			return p.Name[:i]
		}
	}
	return p.Name
}

// HasRiskFactor reports whether the named risk factor is on the record.
func (p *Patient) HasRiskFactor(factor string) bool {
	for _, f := range p.RiskFactors {
		if f == factor {
			return true
		}
	}
	return false
}
