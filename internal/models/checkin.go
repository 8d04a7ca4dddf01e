package models

import "time"

// QuestionAnswer is one free-text prompt/response pair from the daily
// check-in form.
type QuestionAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CheckInSubmission is a patient-submitted daily symptom, mood and energy
// report. Created fresh per submission by the caller; consumed once.
type CheckInSubmission struct {
	PatientID   string           `json:"patient_id"`
	Responses   []QuestionAnswer `json:"responses"`
	Symptoms    []string         `json:"symptoms"`
	Mood        string           `json:"mood"`
	EnergyLevel int              `json:"energy_level"`
}

// CheckInResult is returned to the caller after classification. The caller
// owns persisting and displaying it.
type CheckInResult struct {
	Classification   Classification `json:"classification"`
	Message          string         `json:"message"`
	RequiresFollowUp bool           `json:"requiresFollowUp"`
	Streak           int            `json:"streak"`
	RedFlagCount     int            `json:"-"`
	YellowFlagCount  int            `json:"-"`
}

// CheckInRecord is a stored historical check-in.
type CheckInRecord struct {
	ID             string           `json:"id"`
	PatientID      string           `json:"patient_id"`
	Date           time.Time        `json:"date"`
	Symptoms       []string         `json:"symptoms"`
	Classification Classification   `json:"classification"`
	Responses      []QuestionAnswer `json:"responses"`
	Mood           string           `json:"mood"`
	EnergyLevel    int              `json:"energy_level"`
}
