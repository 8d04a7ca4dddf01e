package triage

import "strings"

// The rule tables below drive both sub-engines. The check-in classifier and
// the chat responder each carry their own critical-symptom table: the two
// lists overlap but are not identical (bare "chest pain" is critical for the
// chat responder but only a warning-level match for check-ins), and the
// classifications depend on that difference.

// Check-in classifier tables.
var (
	checkInCriticalSymptoms = []string{
		"severe chest pain",
		"difficulty breathing",
		"severe shortness of breath",
		"fainting",
		"severe swelling",
		"chest pressure",
		"cannot catch breath",
	}

	checkInWarningSymptoms = []string{
		"shortness of breath",
		"mild chest pain",
		"swelling",
		"fatigue",
		"dizziness",
		"rapid heartbeat",
		"weight gain",
		"reduced appetite",
	}

	negativeMoods = []string{
		"very bad", "terrible", "awful", "extremely anxious", "panicked",
	}
)

// Chat responder intent tables, in detection priority order (see DetectIntent).
var (
	emergencyKeywords = []string{
		"call 911", "emergency", "ambulance", "help me", "dying", "heart attack",
		"stroke", "can't breathe", "severe chest pain", "crushing pain",
	}

	criticalSymptoms = []string{
		"chest pain", "severe pain", "crushing pain", "can't breathe", "cannot breathe",
		"difficulty breathing", "shortness of breath", "dizzy", "dizziness", "faint",
		"fainting", "passed out", "unconscious", "severe headache", "confusion",
		"slurred speech", "numbness", "weakness", "heart racing", "palpitations",
		"irregular heartbeat", "bleeding", "vomiting blood", "severe swelling",
		"blue lips", "blue fingers", "cold sweat",
	}

	greetingKeywords = []string{
		"hello", "hi ", "hey", "good morning", "good afternoon", "good evening",
		"greetings", "howdy",
	}

	gratitudeKeywords = []string{
		"thank you", "thanks", "appreciate", "grateful", "helpful", "great", "good",
		"excellent", "perfect", "wonderful",
	}

	medicationKeywords = []string{
		"medication", "medicine", "pill", "prescription", "dose", "dosage",
		"side effect", "side-effect", "drug", "tablet", "metoprolol", "lisinopril",
		"atorvastatin", "aspirin", "warfarin", "blood thinner", "statin",
	}

	appointmentKeywords = []string{
		"appointment", "schedule", "follow-up", "follow up", "visit", "see doctor",
		"see my doctor", "cardiologist", "clinic", "office visit", "check-up", "checkup",
	}

	emotionalKeywords = []string{
		"anxious", "anxiety", "worried", "scared", "afraid", "depressed", "sad",
		"overwhelmed", "stressed", "stress", "can't sleep", "insomnia", "lonely",
		"hopeless", "frustrated", "angry", "upset",
	}

	lifestyleKeywords = []string{
		"exercise", "walk", "walking", "diet", "food", "eat", "eating", "nutrition",
		"weight", "sleep", "sleeping", "stress", "activity", "sodium", "salt", "water",
		"hydration", "alcohol", "smoking",
	}

	progressKeywords = []string{
		"progress", "recovery", "healing", "improving", "better", "worse",
		"how am i doing", "am i improving", "getting better", "doing okay", "doing well",
	}

	generalSymptomKeywords = []string{
		"pain", "hurts", "ache", "swelling", "tired", "fatigue",
		"nausea", "symptom", "feeling", "uncomfortable",
	}

	generalHealthKeywords = []string{
		"health", "recovery", "heart", "condition", "vitals",
	}
)

// Severity modifier tables, checked critical first. The low tier is listed
// for completeness; the assessment default already returns low.
var (
	criticalSeverityWords = []string{
		"severe", "extreme", "worst", "unbearable", "can't", "cannot",
	}
	highSeverityWords = []string{
		"bad", "serious", "concerning", "worried", "increasing", "getting worse",
	}
	mediumSeverityWords = []string{
		"moderate", "some", "mild", "slight", "occasional",
	}
	lowSeverityWords = []string{
		"minor", "little", "barely", "improving",
	}
)

// containsAny reports whether text contains any entry in the table as a
// substring. Callers pass already lower-cased text.
func containsAny(text string, table []string) bool {
	for _, kw := range table {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
