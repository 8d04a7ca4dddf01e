package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"cardioguard/internal/models"
	"cardioguard/internal/storage"
	"cardioguard/internal/triage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := s.store.ListPatients(r.Context())
	if err != nil {
		s.logger.Error("failed to list patients", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch patients")
		return
	}

	// Recompute risk for the whole roster and persist the fresh scores.
	now := s.now()
	for _, p := range patients {
		triage.RefreshRisk(p, now)
		if err := s.store.SavePatient(r.Context(), p); err != nil {
			s.logger.Error("failed to save patient", zap.Error(err), zap.String("patient_id", p.ID))
		}
	}

	// Highest risk first.
	sort.Slice(patients, func(i, j int) bool {
		return patients[i].RiskScore > patients[j].RiskScore
	})

	writeJSON(w, http.StatusOK, map[string]any{"patients": patients})
}

func (s *Server) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	patient, err := s.store.GetPatient(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "patient not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get patient", zap.Error(err), zap.String("patient_id", id))
		writeError(w, http.StatusInternalServerError, "failed to fetch patient")
		return
	}

	now := s.now()
	triage.RefreshRisk(patient, now)

	checkIns, err := s.store.GetCheckIns(r.Context(), id, 0)
	if err != nil {
		s.logger.Error("failed to get check-ins", zap.Error(err), zap.String("patient_id", id))
		writeError(w, http.StatusInternalServerError, "failed to fetch patient")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"patient":         patient,
		"recommendations": triage.Recommendations(patient, now),
		"checkIns":        checkIns,
	})
}

type onboardRequest struct {
	ConsentGiven bool `json:"consentGiven"`
}

func (s *Server) handleOnboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req onboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if !req.ConsentGiven {
		writeError(w, http.StatusBadRequest, "consent required")
		return
	}

	patient, err := s.store.GetPatient(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "patient not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get patient", zap.Error(err), zap.String("patient_id", id))
		writeError(w, http.StatusInternalServerError, "failed to complete onboarding")
		return
	}

	patient.Onboarded = true
	patient.RecoveryStreak = 0
	patient.DailyCheckInStatus = models.CheckInPending

	if err := s.store.SavePatient(r.Context(), patient); err != nil {
		s.logger.Error("failed to save patient", zap.Error(err), zap.String("patient_id", id))
		writeError(w, http.StatusInternalServerError, "failed to complete onboarding")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Onboarding complete!"})
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var sub models.CheckInSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	sub.PatientID = id

	patient, err := s.store.GetPatient(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "patient not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get patient", zap.Error(err), zap.String("patient_id", id))
		writeError(w, http.StatusInternalServerError, "failed to submit check-in")
		return
	}

	result := triage.ResolveCheckIn(sub, patient.RecoveryStreak)

	now := s.now()
	patient.LastCheckIn = &now
	patient.DailyCheckInStatus = models.CheckInCompleted
	patient.AlertLevel = result.Classification
	patient.PatientReportedSymptoms = sub.Symptoms
	patient.RecoveryStreak = result.Streak
	triage.RefreshRisk(patient, now)

	if err := s.store.SavePatient(r.Context(), patient); err != nil {
		s.logger.Error("failed to save patient", zap.Error(err), zap.String("patient_id", id))
		writeError(w, http.StatusInternalServerError, "failed to submit check-in")
		return
	}

	record := &models.CheckInRecord{
		ID:             uuid.New().String(),
		PatientID:      id,
		Date:           now,
		Symptoms:       sub.Symptoms,
		Classification: result.Classification,
		Responses:      sub.Responses,
		Mood:           sub.Mood,
		EnergyLevel:    sub.EnergyLevel,
	}
	if err := s.store.AddCheckIn(r.Context(), record); err != nil {
		s.logger.Error("failed to store check-in", zap.Error(err), zap.String("patient_id", id))
		writeError(w, http.StatusInternalServerError, "failed to submit check-in")
		return
	}

	s.metrics.CheckInsTotal.WithLabelValues(string(result.Classification)).Inc()
	s.logger.Info("check-in classified",
		zap.String("patient_id", id),
		zap.String("classification", string(result.Classification)),
		zap.Int("red_flags", result.RedFlagCount),
		zap.Int("yellow_flags", result.YellowFlagCount))

	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"classification":   result.Classification,
		"message":          result.Message,
		"requiresFollowUp": result.RequiresFollowUp,
		"streak":           result.Streak,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	patient, err := s.store.GetPatient(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "patient not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get patient", zap.Error(err), zap.String("patient_id", id))
		writeError(w, http.StatusInternalServerError, "failed to fetch dashboard")
		return
	}

	triage.RefreshRisk(patient, s.now())

	recent, err := s.store.GetCheckIns(r.Context(), id, 7)
	if err != nil {
		s.logger.Error("failed to get check-ins", zap.Error(err), zap.String("patient_id", id))
		writeError(w, http.StatusInternalServerError, "failed to fetch dashboard")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"patient": map[string]any{
			"id":                 patient.ID,
			"name":               patient.Name,
			"diagnosis":          patient.Diagnosis,
			"recoveryStreak":     patient.RecoveryStreak,
			"dailyCheckInStatus": patient.DailyCheckInStatus,
			"aiAlertLevel":       patient.AlertLevel,
			"nextAppointment":    patient.NextAppointment,
			"riskLevel":          patient.RiskLevel,
		},
		"healthTip":            triage.HealthTip(patient, s.now()),
		"recentCheckIns":       recent,
		"checkInCompleteToday": patient.DailyCheckInStatus == models.CheckInCompleted,
	})
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	msgs, err := s.store.GetMessages(r.Context(), id, 0)
	if err != nil {
		s.logger.Error("failed to get messages", zap.Error(err), zap.String("patient_id", id))
		writeError(w, http.StatusInternalServerError, "failed to fetch messages")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content required")
		return
	}

	ctx := r.Context()
	now := s.now()

	patientMsg := &models.ChatMessage{
		ID:        uuid.New().String(),
		PatientID: id,
		Sender:    models.SenderPatient,
		Content:   req.Content,
		CreatedAt: now,
	}
	if err := s.store.AddMessage(ctx, patientMsg); err != nil {
		s.logger.Error("failed to store message", zap.Error(err), zap.String("patient_id", id))
		writeError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	// The assistant always produces a valid response, including the fixed
	// fallback when the patient record cannot be resolved.
	response := s.assist.Respond(ctx, id, req.Content)

	assistantMsg := &models.ChatMessage{
		ID:         uuid.New().String(),
		PatientID:  id,
		Sender:     models.SenderAssistant,
		SenderName: "Care Assistant",
		Content:    response.Content,
		CreatedAt:  s.now(),
	}
	if err := s.store.AddMessage(ctx, assistantMsg); err != nil {
		s.logger.Error("failed to store assistant reply", zap.Error(err), zap.String("patient_id", id))
	}

	if response.FollowUpQuestion != "" {
		followUp := &models.ChatMessage{
			ID:         uuid.New().String(),
			PatientID:  id,
			Sender:     models.SenderAssistant,
			SenderName: "Care Assistant",
			Content:    response.FollowUpQuestion,
			CreatedAt:  s.now(),
		}
		if err := s.store.AddMessage(ctx, followUp); err != nil {
			s.logger.Error("failed to store follow-up question", zap.Error(err), zap.String("patient_id", id))
		}
	}

	s.metrics.ChatMessagesTotal.WithLabelValues(string(response.Intent), string(response.Severity)).Inc()

	if response.ShouldEscalate {
		s.raiseEscalation(r, id, req.Content, response)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  patientMsg,
		"response": response,
	})
}

func (s *Server) raiseEscalation(r *http.Request, patientID, message string, response models.SmartResponse) {
	ctx := r.Context()

	esc := &models.Escalation{
		ID:        uuid.New().String(),
		PatientID: patientID,
		Severity:  response.Severity,
		Intent:    response.Intent,
		CreatedAt: s.now(),
	}

	patient, err := s.store.GetPatient(ctx, patientID)
	if err != nil {
		// Unresolvable patient: record the escalation without the alert line.
		esc.Summary = message
	} else {
		esc.Summary = triage.EscalationNote(patient, message, response)
	}

	if err := s.store.AddEscalation(ctx, esc); err != nil {
		s.logger.Error("failed to store escalation", zap.Error(err), zap.String("patient_id", patientID))
	}

	s.metrics.EscalationsTotal.Inc()

	if err := s.notifier.EscalationRaised(ctx, esc, esc.Summary); err != nil {
		s.logger.Error("failed to notify care team", zap.Error(err), zap.String("patient_id", patientID))
	}
}

func (s *Server) handleListEscalations(w http.ResponseWriter, r *http.Request) {
	escalations, err := s.store.ListEscalations(r.Context(), 100)
	if err != nil {
		s.logger.Error("failed to list escalations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch escalations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"escalations": escalations})
}
