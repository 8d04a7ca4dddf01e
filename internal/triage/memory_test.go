package triage

import (
	"sync"
	"testing"

	"cardioguard/internal/models"
)

func TestMemoryConversationStore(t *testing.T) {
	store := NewMemoryConversationStore()

	if _, ok := store.Get("P001"); ok {
		t.Error("expected no context before first message")
	}

	intents := []models.Intent{
		models.IntentGreeting,
		models.IntentMedicationQuestion,
		models.IntentSymptomReport,
		models.IntentLifestyleQuestion,
		models.IntentProgressInquiry,
		models.IntentGratitude,
		models.IntentEmergency,
	}
	for _, intent := range intents {
		store.Record("P001", intent, intent == models.IntentEmergency)
	}

	ctx, ok := store.Get("P001")
	if !ok {
		t.Fatal("expected context after recording")
	}

	if len(ctx.RecentIntents) != maxRecentIntents {
		t.Fatalf("recent intents length = %d, want %d", len(ctx.RecentIntents), maxRecentIntents)
	}
	// Oldest two entries dropped.
	want := intents[len(intents)-maxRecentIntents:]
	for i := range want {
		if ctx.RecentIntents[i] != want[i] {
			t.Errorf("recent intents[%d] = %q, want %q", i, ctx.RecentIntents[i], want[i])
		}
	}
	if ctx.EscalationCount != 1 {
		t.Errorf("escalation count = %d, want 1", ctx.EscalationCount)
	}
}

func TestMemoryConversationStoreReturnsCopies(t *testing.T) {
	store := NewMemoryConversationStore()
	store.Record("P001", models.IntentGreeting, false)

	ctx, _ := store.Get("P001")
	ctx.RecentIntents[0] = models.IntentEmergency

	again, _ := store.Get("P001")
	if again.RecentIntents[0] != models.IntentGreeting {
		t.Error("Get must return a copy, not shared state")
	}
}

func TestMemoryConversationStoreConcurrent(t *testing.T) {
	store := NewMemoryConversationStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Record("P001", models.IntentSymptomReport, true)
		}()
	}
	wg.Wait()

	ctx, ok := store.Get("P001")
	if !ok {
		t.Fatal("expected context")
	}
	if len(ctx.RecentIntents) != maxRecentIntents {
		t.Errorf("recent intents length = %d, want %d", len(ctx.RecentIntents), maxRecentIntents)
	}
	if ctx.EscalationCount != 50 {
		t.Errorf("escalation count = %d, want 50", ctx.EscalationCount)
	}
}
