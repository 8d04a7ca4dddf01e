package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cardioguard/internal/assistant"
	"cardioguard/internal/metrics"
	"cardioguard/internal/models"
	"cardioguard/internal/notify"
	"cardioguard/internal/storage"
	"cardioguard/internal/triage"

	"go.uber.org/zap"
)

// Prometheus collectors register globally, so tests share one instance.
var testMetrics = metrics.New()

func newTestServer(t *testing.T) (*Server, storage.Storage) {
	t.Helper()

	store := storage.NewMemoryStorage()
	if err := storage.SeedDemoPatients(context.Background(), store); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	logger := zap.NewNop()
	engine := triage.NewEngine(store, triage.NewMemoryConversationStore(), logger)
	assist := assistant.NewRuleAssistant(engine)

	return New(store, assist, notify.NewLogNotifier(logger), testMetrics, logger), store
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func TestCheckInGreenAdvancesStreak(t *testing.T) {
	srv, store := newTestServer(t)
	router := srv.Router()

	rec, body := doJSON(t, router, http.MethodPost, "/api/patients/P001/check-in", map[string]any{
		"symptoms":     []string{},
		"responses":    []any{},
		"mood":         "okay",
		"energy_level": 7,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body["classification"] != "green" {
		t.Errorf("classification = %v, want green", body["classification"])
	}
	if body["requiresFollowUp"] != false {
		t.Errorf("requiresFollowUp = %v, want false", body["requiresFollowUp"])
	}
	if body["streak"] != float64(1) {
		t.Errorf("streak = %v, want 1", body["streak"])
	}

	patient, err := store.GetPatient(context.Background(), "P001")
	if err != nil {
		t.Fatalf("get patient: %v", err)
	}
	if patient.RecoveryStreak != 1 {
		t.Errorf("stored streak = %d, want 1", patient.RecoveryStreak)
	}
	if patient.DailyCheckInStatus != models.CheckInCompleted {
		t.Errorf("status = %q, want completed", patient.DailyCheckInStatus)
	}
	if patient.AlertLevel != models.ClassificationGreen {
		t.Errorf("alert level = %q, want green", patient.AlertLevel)
	}

	records, err := store.GetCheckIns(context.Background(), "P001", 0)
	if err != nil {
		t.Fatalf("get check-ins: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("check-in history length = %d, want 1", len(records))
	}
}

func TestCheckInRedFreezesStreak(t *testing.T) {
	srv, store := newTestServer(t)
	router := srv.Router()

	rec, body := doJSON(t, router, http.MethodPost, "/api/patients/P003/check-in", map[string]any{
		"symptoms":     []string{"severe chest pain"},
		"responses":    []any{},
		"mood":         "okay",
		"energy_level": 6,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if body["classification"] != "red" {
		t.Errorf("classification = %v, want red", body["classification"])
	}
	if body["requiresFollowUp"] != true {
		t.Errorf("requiresFollowUp = %v, want true", body["requiresFollowUp"])
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "911") {
		t.Errorf("message %q should mention 911", msg)
	}

	// P003 is seeded with a streak of 6; red must not advance it.
	patient, _ := store.GetPatient(context.Background(), "P003")
	if patient.RecoveryStreak != 6 {
		t.Errorf("stored streak = %d, want unchanged 6", patient.RecoveryStreak)
	}
	if patient.AlertLevel != models.ClassificationRed {
		t.Errorf("alert level = %q, want red", patient.AlertLevel)
	}
}

func TestCheckInUnknownPatient(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, _ := doJSON(t, srv.Router(), http.MethodPost, "/api/patients/P999/check-in", map[string]any{
		"symptoms":     []string{},
		"mood":         "okay",
		"energy_level": 5,
	})

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSendMessageEscalates(t *testing.T) {
	srv, store := newTestServer(t)
	router := srv.Router()

	rec, body := doJSON(t, router, http.MethodPost, "/api/patients/P001/messages", map[string]any{
		"content": "I think I'm having a heart attack",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	response, _ := body["response"].(map[string]any)
	if response["intent"] != "emergency" {
		t.Errorf("intent = %v, want emergency", response["intent"])
	}
	if response["severity"] != "critical" {
		t.Errorf("severity = %v, want critical", response["severity"])
	}
	if response["shouldEscalate"] != true {
		t.Error("emergency must escalate")
	}

	escalations, err := store.ListEscalations(context.Background(), 10)
	if err != nil {
		t.Fatalf("list escalations: %v", err)
	}
	if len(escalations) != 1 {
		t.Fatalf("escalation count = %d, want 1", len(escalations))
	}
	if escalations[0].PatientID != "P001" || escalations[0].Severity != models.SeverityCritical {
		t.Errorf("unexpected escalation %+v", escalations[0])
	}
	if !strings.Contains(escalations[0].Summary, "[CRITICAL ALERT] Margaret Johnson (P001)") {
		t.Errorf("summary %q should carry the alert line", escalations[0].Summary)
	}

	// Patient message, assistant reply (emergency responses have no
	// follow-up question).
	msgs, err := store.GetMessages(context.Background(), "P001", 0)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("message count = %d, want 2", len(msgs))
	}
	if msgs[0].Sender != models.SenderPatient || msgs[1].Sender != models.SenderAssistant {
		t.Errorf("unexpected senders %q, %q", msgs[0].Sender, msgs[1].Sender)
	}
}

func TestSendMessageStoresFollowUpQuestion(t *testing.T) {
	srv, store := newTestServer(t)

	rec, _ := doJSON(t, srv.Router(), http.MethodPost, "/api/patients/P001/messages", map[string]any{
		"content": "hello there",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	msgs, _ := store.GetMessages(context.Background(), "P001", 0)
	// Patient message, greeting reply, follow-up question.
	if len(msgs) != 3 {
		t.Fatalf("message count = %d, want 3", len(msgs))
	}
	if msgs[2].Content != "Is there anything specific I can help you with today?" {
		t.Errorf("follow-up message = %q", msgs[2].Content)
	}

	escalations, _ := store.ListEscalations(context.Background(), 10)
	if len(escalations) != 0 {
		t.Errorf("greeting should not escalate, got %d escalations", len(escalations))
	}
}

func TestSendMessageUnknownPatientFallsBack(t *testing.T) {
	srv, store := newTestServer(t)

	rec, body := doJSON(t, srv.Router(), http.MethodPost, "/api/patients/P999/messages", map[string]any{
		"content": "hello",
	})

	// The responder never errors on unresolvable patients.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	response, _ := body["response"].(map[string]any)
	if response["shouldEscalate"] != true {
		t.Error("fallback response must escalate")
	}
	content, _ := response["content"].(string)
	if !strings.Contains(content, "trouble accessing your patient information") {
		t.Errorf("unexpected fallback content %q", content)
	}

	escalations, _ := store.ListEscalations(context.Background(), 10)
	if len(escalations) != 1 {
		t.Fatalf("escalation count = %d, want 1", len(escalations))
	}
	// No patient record, so the summary is the raw message.
	if escalations[0].Summary != "hello" {
		t.Errorf("summary = %q, want raw message", escalations[0].Summary)
	}
}

func TestDashboard(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	// Complete a check-in first so the dashboard has history.
	doJSON(t, router, http.MethodPost, "/api/patients/P001/check-in", map[string]any{
		"symptoms":     []string{},
		"mood":         "okay",
		"energy_level": 8,
	})

	rec, body := doJSON(t, router, http.MethodGet, "/api/patients/P001/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	patient, _ := body["patient"].(map[string]any)
	if patient["id"] != "P001" {
		t.Errorf("patient id = %v, want P001", patient["id"])
	}
	if body["checkInCompleteToday"] != true {
		t.Error("checkInCompleteToday should be true after a check-in")
	}
	if tip, _ := body["healthTip"].(string); tip == "" {
		t.Error("expected a health tip")
	}
	recent, _ := body["recentCheckIns"].([]any)
	if len(recent) != 1 {
		t.Errorf("recent check-ins = %d, want 1", len(recent))
	}
}

func TestOnboardRequiresConsent(t *testing.T) {
	srv, store := newTestServer(t)
	router := srv.Router()

	rec, _ := doJSON(t, router, http.MethodPost, "/api/patients/P001/onboard", map[string]any{
		"consentGiven": false,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status without consent = %d, want 400", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/api/patients/P003/onboard", map[string]any{
		"consentGiven": true,
	})
	if rec.Code != http.StatusOK {
		t.Errorf("status with consent = %d, want 200", rec.Code)
	}

	patient, _ := store.GetPatient(context.Background(), "P003")
	if !patient.Onboarded {
		t.Error("patient should be onboarded")
	}
	if patient.RecoveryStreak != 0 {
		t.Errorf("streak = %d, want reset to 0", patient.RecoveryStreak)
	}
}

func TestListPatientsRankedByRisk(t *testing.T) {
	srv, store := newTestServer(t)

	rec, body := doJSON(t, srv.Router(), http.MethodGet, "/api/patients", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	patients, _ := body["patients"].([]any)
	if len(patients) != 3 {
		t.Fatalf("patient count = %d, want 3", len(patients))
	}

	// Seeded cohort: P001 (infarction, recent discharge, elevated BP) scores
	// 85, P002 (heart failure) 55, P003 (bypass graft) 45.
	wantOrder := []struct {
		id    string
		score float64
		level string
	}{
		{"P001", 85, "critical"},
		{"P002", 55, "high"},
		{"P003", 45, "medium"},
	}
	for i, want := range wantOrder {
		p, _ := patients[i].(map[string]any)
		if p["id"] != want.id {
			t.Errorf("position %d = %v, want %s", i, p["id"], want.id)
		}
		if p["risk_score"] != want.score {
			t.Errorf("%s risk_score = %v, want %v", want.id, p["risk_score"], want.score)
		}
		if p["risk_level"] != want.level {
			t.Errorf("%s risk_level = %v, want %s", want.id, p["risk_level"], want.level)
		}
	}

	// Recomputed scores are persisted.
	stored, err := store.GetPatient(context.Background(), "P001")
	if err != nil {
		t.Fatalf("get patient: %v", err)
	}
	if stored.RiskScore != 85 || stored.RiskLevel != models.RiskCritical {
		t.Errorf("stored risk = (%v, %q), want (85, critical)", stored.RiskScore, stored.RiskLevel)
	}
}

func TestGetPatientIncludesRecommendations(t *testing.T) {
	srv, _ := newTestServer(t)

	rec, body := doJSON(t, srv.Router(), http.MethodGet, "/api/patients/P001", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	patient, _ := body["patient"].(map[string]any)
	if patient["risk_level"] != "critical" {
		t.Errorf("risk_level = %v, want critical", patient["risk_level"])
	}

	// P001 trips every recommendation rule: critical risk, no check-in yet,
	// diabetic, BP above target, inside the first week post-discharge.
	recs, _ := body["recommendations"].([]any)
	if len(recs) != 5 {
		t.Fatalf("recommendation count = %d, want 5: %v", len(recs), recs)
	}
	first, _ := recs[0].(map[string]any)
	if first["action"] != "Schedule urgent follow-up within 48 hours" {
		t.Errorf("first action = %v", first["action"])
	}
}

func TestListPatientsAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	rec, body := doJSON(t, router, http.MethodGet, "/api/patients", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	patients, _ := body["patients"].([]any)
	if len(patients) != 3 {
		t.Errorf("patient count = %d, want 3 seeded", len(patients))
	}

	rec, body = doJSON(t, router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("healthz = %d %v", rec.Code, body)
	}
}
