package triage

import (
	"fmt"
	"strings"

	"cardioguard/internal/models"
)

// responseContext carries everything a response template may interpolate.
type responseContext struct {
	lower     string
	firstName string
	patient   *models.Patient
	intent    models.Intent
	severity  models.Severity
}

// responseRule is one (predicate, template) pair. Each intent with nested
// dispatch keeps an ordered rule list evaluated top to bottom; the first
// matching rule wins and the list ends with a catch-all.
type responseRule struct {
	match func(lower string) bool
	build func(rc responseContext) models.SmartResponse
}

func hasAny(subs ...string) func(string) bool {
	return func(lower string) bool {
		for _, s := range subs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

func hasAll(subs ...string) func(string) bool {
	return func(lower string) bool {
		for _, s := range subs {
			if !strings.Contains(lower, s) {
				return false
			}
		}
		return true
	}
}

func matchAlways(string) bool { return true }

var symptomRules = []responseRule{
	{
		match: hasAny("chest pain"),
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("%s, chest pain needs to be taken seriously. Can you describe it more? Is it sharp, dull, or pressure-like? Does it come with shortness of breath or sweating? I'm alerting your care team now - they'll reach out within the hour. If the pain is severe or worsening, please call 911 immediately.", rc.firstName),
				Intent:           rc.intent,
				Severity:         models.SeverityCritical,
				ShouldEscalate:   true,
				SuggestedActions: []string{"Monitor pain level", "Rest", "Call care team if worsens"},
				FollowUpQuestion: "On a scale of 1-10, how severe is the pain?",
			}
		},
	},
	{
		match: hasAll("short", "breath"),
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("I understand you're experiencing shortness of breath, %s. This is important to address. Are you also experiencing swelling in your legs or sudden weight gain? I'm notifying your care team right away. Please rest and avoid physical activity. If breathing becomes severely difficult, call 911.", rc.firstName),
				Intent:           rc.intent,
				Severity:         models.SeverityHigh,
				ShouldEscalate:   true,
				SuggestedActions: []string{"Rest", "Monitor breathing", "Check for swelling"},
				FollowUpQuestion: "Have you noticed any swelling in your ankles or legs?",
			}
		},
	},
	{
		match: hasAny("dizz", "lightheaded"),
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("%s, dizziness can be concerning after %s. Have you been taking your medications as prescribed? Sometimes blood pressure medications can cause this. I'm letting your care team know. Please sit or lie down, stay hydrated, and avoid sudden movements. They'll review your medications and vitals.", rc.firstName, rc.patient.Diagnosis),
				Intent:           rc.intent,
				Severity:         models.SeverityHigh,
				ShouldEscalate:   true,
				SuggestedActions: []string{"Sit down", "Stay hydrated", "Avoid sudden movements"},
				FollowUpQuestion: "Did you take all your medications today as prescribed?",
			}
		},
	},
	{
		match: hasAny("swell"),
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("Thanks for reporting the swelling, %s. Swelling can indicate fluid retention, which is important to monitor with your condition. Have you weighed yourself today? Any sudden weight gain? I'm alerting your care team - they may want to adjust your medications. In the meantime, try to elevate your legs and reduce salt intake.", rc.firstName),
				Intent:           rc.intent,
				Severity:         models.SeverityMedium,
				ShouldEscalate:   true,
				SuggestedActions: []string{"Weigh yourself daily", "Elevate legs", "Reduce salt"},
				FollowUpQuestion: "Have you gained more than 2-3 pounds in the last few days?",
			}
		},
	},
	{
		match: hasAny("tired", "fatigue"),
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("%s, fatigue is common during recovery from %s, but we want to make sure it's normal. How's your sleep? Are you getting 7-8 hours? Your care team will follow up to check your energy levels and possibly adjust your treatment plan. Make sure you're eating well and staying hydrated.", rc.firstName, rc.patient.Diagnosis),
				Intent:           rc.intent,
				Severity:         models.SeverityMedium,
				ShouldEscalate:   rc.severity.AtLeast(models.SeverityMedium),
				SuggestedActions: []string{"Rest adequately", "Stay hydrated", "Eat nutritious meals"},
				FollowUpQuestion: "Are you able to do your normal daily activities, or is the fatigue limiting you?",
			}
		},
	},
	{
		match: matchAlways,
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("Thank you for sharing that with me, %s. I've recorded your symptoms and notified your care team. They'll review this and reach out within 2 hours. In the meantime, please rest and monitor how you're feeling. If anything changes or gets worse, message us immediately or call the care line.", rc.firstName),
				Intent:           rc.intent,
				Severity:         rc.severity,
				ShouldEscalate:   true,
				SuggestedActions: []string{"Rest", "Monitor symptoms", "Stay hydrated"},
				FollowUpQuestion: "Is there anything else you're experiencing that I should know about?",
			}
		},
	},
}

var medicationRules = []responseRule{
	{
		match: hasAny("side effect"),
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("%s, it's important to address medication side effects. What symptoms are you experiencing? Some side effects are normal and temporary, while others need attention. I'm alerting your care team so they can review your medications. Never stop taking your heart medications without talking to your doctor first - it could be dangerous.", rc.firstName),
				Intent:           rc.intent,
				Severity:         models.SeverityHigh,
				ShouldEscalate:   true,
				SuggestedActions: []string{"Document side effects", "Continue medications", "Wait for care team"},
				FollowUpQuestion: "What specific side effects are you experiencing?",
			}
		},
	},
	{
		match: hasAny("forgot", "missed"),
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("If you missed a dose, %s, don't double up on the next one. Just take your next scheduled dose. For your heart medications, consistency is really important for your recovery. Consider setting phone alarms or using a pill organizer. I'll have your care team reach out about strategies to help you stay on track.", rc.firstName),
				Intent:           rc.intent,
				Severity:         models.SeverityMedium,
				ShouldEscalate:   true,
				SuggestedActions: []string{"Take next dose on schedule", "Set medication reminders", "Use pill organizer"},
			}
		},
	},
	{
		match: hasAny("when", "time"),
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("Great question about medication timing, %s. It's best to take your heart medications at the same time each day. Your care team will reach out with specific guidance for your prescriptions. Generally, morning medications help protect you throughout the day. Check your prescription labels or your discharge instructions for specific timing.", rc.firstName),
				Intent:           rc.intent,
				Severity:         models.SeverityLow,
				ShouldEscalate:   false,
				SuggestedActions: []string{"Check prescription labels", "Set daily reminders", "Create routine"},
			}
		},
	},
	{
		match: matchAlways,
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("That's a great question about your medications, %s. Your heart medications are crucial for your recovery from %s. I'm connecting you with your care team - they have access to your complete medication list and can give you detailed guidance. They'll respond within 2 hours.", rc.firstName, rc.patient.Diagnosis),
				Intent:           rc.intent,
				Severity:         models.SeverityMedium,
				ShouldEscalate:   true,
				SuggestedActions: []string{"Continue current medications", "Wait for care team response"},
			}
		},
	},
}

var emotionalRules = []responseRule{
	{
		match: hasAny("anxious", "anxiety", "worried"),
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("%s, it's completely normal to feel anxious after %s. Your feelings are valid, and you're not alone in this. Recovery is not just physical - your mental health matters too. Try some deep breathing: breathe in for 4 counts, hold for 4, breathe out for 4. I'm connecting you with our care team who can provide counseling resources and possibly medication if needed.", rc.firstName, rc.patient.Diagnosis),
				Intent:           rc.intent,
				Severity:         models.SeverityMedium,
				ShouldEscalate:   true,
				SuggestedActions: []string{"Practice deep breathing", "Talk to care team", "Consider counseling"},
				FollowUpQuestion: "Would you like information about our cardiac counseling services?",
			}
		},
	},
	{
		match: hasAny("depressed", "sad", "hopeless"),
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("%s, I'm really glad you reached out. Depression after a cardiac event is more common than you might think - you're not alone. Your mental health is just as important as your physical recovery. I'm alerting your care team right away. They can connect you with a counselor who specializes in cardiac recovery. If you're having thoughts of self-harm, please call 988 (Suicide Prevention Lifeline) immediately.", rc.firstName),
				Intent:           rc.intent,
				Severity:         models.SeverityHigh,
				ShouldEscalate:   true,
				SuggestedActions: []string{"Talk to care team", "Consider counseling", "Call 988 if needed"},
				FollowUpQuestion: "Would you like me to have someone call you today to talk about this?",
			}
		},
	},
	{
		match: hasAny("sleep", "insomnia"),
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("Sleep problems are frustrating, %s, and they can impact your recovery. Good sleep helps your heart heal. Try keeping a consistent bedtime, avoiding screens an hour before bed, and making your room cool and dark. I'm letting your care team know - they can check if any of your medications might be affecting sleep and suggest solutions.", rc.firstName),
				Intent:           rc.intent,
				Severity:         models.SeverityMedium,
				ShouldEscalate:   true,
				SuggestedActions: []string{"Keep consistent sleep schedule", "Limit screen time before bed", "Review medications"},
			}
		},
	},
	{
		match: matchAlways,
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("Thank you for sharing how you're feeling, %s. Recovering from %s is challenging - both physically and emotionally. It's a sign of strength to talk about it. Your care team is here to support all aspects of your recovery. They'll reach out soon to see how they can help. Remember, you're doing great by staying engaged in your care! 💙", rc.firstName, rc.patient.Diagnosis),
				Intent:           rc.intent,
				Severity:         models.SeverityMedium,
				ShouldEscalate:   true,
				SuggestedActions: []string{"Stay connected", "Talk to care team", "Practice self-compassion"},
			}
		},
	},
}

var lifestyleRules = []responseRule{
	{
		match: hasAny("exercise", "walk"),
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("Great question about exercise, %s! Physical activity is important for your recovery from %s. Start slowly - even 5-10 minute walks are beneficial. Listen to your body and stop if you feel chest pain, severe shortness of breath, or dizziness. Your care team can provide personalized exercise guidelines. Many patients benefit from cardiac rehab programs.", rc.firstName, rc.patient.Diagnosis),
				Intent:           rc.intent,
				Severity:         models.SeverityLow,
				ShouldEscalate:   false,
				SuggestedActions: []string{"Start with short walks", "Listen to your body", "Ask about cardiac rehab"},
				FollowUpQuestion: "Have you been referred to a cardiac rehabilitation program?",
			}
		},
	},
	{
		match: hasAny("diet", "food", "eat"),
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("Nutrition is a key part of your recovery, %s! Focus on a heart-healthy diet: lots of vegetables, fruits, whole grains, lean proteins, and healthy fats. Limit sodium (aim for under 2000mg/day), avoid processed foods, and watch portion sizes. I can have our nutritionist reach out with personalized meal planning if you'd like.", rc.firstName),
				Intent:           rc.intent,
				Severity:         models.SeverityLow,
				ShouldEscalate:   false,
				SuggestedActions: []string{"Eat heart-healthy foods", "Limit sodium", "Read nutrition labels"},
				FollowUpQuestion: "Would you like to speak with our nutritionist for personalized meal planning?",
			}
		},
	},
	{
		match: hasAny("sodium", "salt"),
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("Good thinking about sodium, %s! Excess salt can increase blood pressure and fluid retention, which is especially important to avoid with %s. Aim for less than 2000mg daily. Avoid processed foods, canned soups, and restaurant meals - they're often very high in sodium. Read labels carefully!", rc.firstName, rc.patient.Diagnosis),
				Intent:           rc.intent,
				Severity:         models.SeverityLow,
				ShouldEscalate:   false,
				SuggestedActions: []string{"Read food labels", "Avoid processed foods", "Track daily sodium"},
			}
		},
	},
	{
		match: matchAlways,
		build: func(rc responseContext) models.SmartResponse {
			return models.SmartResponse{
				Content:          fmt.Sprintf("That's a great question about healthy lifestyle, %s! Making positive changes really supports your recovery from %s. Your care team can provide specific guidance tailored to your situation. I'm letting them know you have questions about lifestyle modifications.", rc.firstName, rc.patient.Diagnosis),
				Intent:           rc.intent,
				Severity:         models.SeverityLow,
				ShouldEscalate:   false,
				SuggestedActions: []string{"Focus on heart-healthy habits", "Ask care team for guidance"},
			}
		},
	},
}

var greetingTemplates = []string{
	"Hello %s! How are you feeling today? I'm here to help with any questions or concerns.",
	"Hi %s! Great to hear from you. What can I help you with today?",
	"Good day, %s! I hope your recovery is going well. How can I assist you?",
}

func runRules(rules []responseRule, rc responseContext) models.SmartResponse {
	for _, rule := range rules {
		if rule.match(rc.lower) {
			return rule.build(rc)
		}
	}
	// Unreachable: every list ends with a catch-all.
	return models.SmartResponse{Intent: rc.intent, Severity: rc.severity}
}

// GenerateResponse builds the canned reply for a detected intent and
// severity. Deterministic: the same message, intent, severity and patient
// fields always produce the same response.
func GenerateResponse(message string, intent models.Intent, severity models.Severity, patient *models.Patient) models.SmartResponse {
	rc := responseContext{
		lower:     strings.ToLower(message),
		firstName: patient.FirstName(),
		patient:   patient,
		intent:    intent,
		severity:  severity,
	}

	// Emergencies and critical severity trump every intent branch.
	if intent == models.IntentEmergency || severity.AtLeast(models.SeverityCritical) {
		return models.SmartResponse{
			Content:          fmt.Sprintf("%s, I'm very concerned about what you're experiencing. Please call 911 immediately or go to the nearest emergency room. If you're having chest pain, difficulty breathing, or other severe symptoms, this is a medical emergency that needs immediate attention. I'm also alerting your care team right now.", rc.firstName),
			Intent:           intent,
			Severity:         models.SeverityCritical,
			ShouldEscalate:   true,
			SuggestedActions: []string{"Call 911", "Go to ER", "Contact emergency services"},
		}
	}

	switch intent {
	case models.IntentGreeting:
		// Pick from the greeting pool by message length so repeated
		// identical messages get identical replies.
		template := greetingTemplates[len(message)%len(greetingTemplates)]
		return models.SmartResponse{
			Content:          fmt.Sprintf(template, rc.firstName),
			Intent:           intent,
			Severity:         models.SeverityLow,
			ShouldEscalate:   false,
			FollowUpQuestion: "Is there anything specific I can help you with today?",
		}

	case models.IntentGratitude:
		return models.SmartResponse{
			Content:        fmt.Sprintf("You're very welcome, %s! I'm here whenever you need support. Your commitment to your recovery is inspiring. Keep up the great work! 💙", rc.firstName),
			Intent:         intent,
			Severity:       models.SeverityLow,
			ShouldEscalate: false,
		}

	case models.IntentSymptomReport:
		return runRules(symptomRules, rc)

	case models.IntentMedicationQuestion:
		return runRules(medicationRules, rc)

	case models.IntentAppointmentRequest:
		nextAppt := "not yet scheduled"
		if patient.NextAppointment != nil {
			nextAppt = patient.NextAppointment.Format("1/2/2006")
		}
		return models.SmartResponse{
			Content:          fmt.Sprintf("I can help with that, %s! Your next appointment is currently %s. I'm notifying your care coordinator who will reach out within 4 hours to schedule or reschedule your appointment. Is this for a routine follow-up or do you have specific concerns we should address?", rc.firstName, nextAppt),
			Intent:           intent,
			Severity:         models.SeverityLow,
			ShouldEscalate:   true,
			SuggestedActions: []string{"Wait for care coordinator", "Prepare questions for appointment"},
			FollowUpQuestion: "Is this a routine follow-up or do you have specific symptoms you need to discuss?",
		}

	case models.IntentEmotionalSupport:
		return runRules(emotionalRules, rc)

	case models.IntentLifestyleQuestion:
		return runRules(lifestyleRules, rc)

	case models.IntentProgressInquiry:
		streak := patient.RecoveryStreak
		improving := patient.RiskLevel == models.RiskLow || patient.RiskLevel == models.RiskMedium
		pace := "steady"
		teamNote := "Your care team is closely monitoring your recovery."
		if improving {
			pace = "excellent"
			teamNote = "Your care team is pleased with your recovery trajectory."
		}
		return models.SmartResponse{
			Content:          fmt.Sprintf("%s, you're making %s progress! You've completed %d daily check-ins in a row - that's fantastic commitment. %s Keep up your medications, healthy eating, gentle exercise, and daily check-ins. Your dedication is the key to successful recovery! 💙", rc.firstName, pace, streak, teamNote),
			Intent:           intent,
			Severity:         models.SeverityLow,
			ShouldEscalate:   false,
			SuggestedActions: []string{"Continue daily check-ins", "Maintain healthy habits", "Stay consistent with medications"},
			FollowUpQuestion: "Is there any specific aspect of your recovery you'd like to know more about?",
		}

	case models.IntentGeneralHealth:
		return models.SmartResponse{
			Content:          fmt.Sprintf("Thanks for checking in, %s. Your recovery from %s is important to us. I'm here to help with any questions about your medications, symptoms, appointments, or lifestyle changes. What specific aspect of your health would you like to discuss?", rc.firstName, patient.Diagnosis),
			Intent:           intent,
			Severity:         models.SeverityLow,
			ShouldEscalate:   false,
			FollowUpQuestion: "What would you like to know more about - medications, symptoms, diet, exercise, or appointments?",
		}
	}

	return models.SmartResponse{
		Content:          fmt.Sprintf("Thank you for your message, %s. I want to make sure I understand correctly so I can help you best. Could you tell me a bit more? For example, are you asking about symptoms, medications, appointments, or something else? A care team member is available to chat if you'd prefer to speak with someone directly.", rc.firstName),
		Intent:           models.IntentUnknown,
		Severity:         models.SeverityLow,
		ShouldEscalate:   false,
		FollowUpQuestion: "What would you most like help with today?",
		SuggestedActions: []string{"Provide more details", "Choose a topic", "Request call back"},
	}
}
