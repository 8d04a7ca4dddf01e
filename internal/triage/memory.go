package triage

import (
	"sync"
	"time"

	"cardioguard/internal/models"
)

// maxRecentIntents bounds the per-patient intent history.
const maxRecentIntents = 5

// ConversationStore keeps short-lived per-patient conversation memory. It is
// purely observational: the responder writes to it after every message but
// never branches on it.
type ConversationStore interface {
	// Get returns a copy of the patient's conversation context, or false
	// when the patient has no history yet.
	Get(patientID string) (models.ConversationContext, bool)
	// Record appends an intent to the patient's rolling history, bumps the
	// escalation counter when escalated, and stamps the message time.
	Record(patientID string, intent models.Intent, escalated bool)
}

// MemoryConversationStore is an in-process ConversationStore. Entries are
// created lazily on first message and live for the process lifetime. The
// mutex guards the read-modify-write of each ring buffer so concurrent
// messages for the same patient keep the history ordered.
type MemoryConversationStore struct {
	mu       sync.Mutex
	contexts map[string]*models.ConversationContext
	now      func() time.Time
}

func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{
		contexts: make(map[string]*models.ConversationContext),
		now:      time.Now,
	}
}

func (s *MemoryConversationStore) Get(patientID string) (models.ConversationContext, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, ok := s.contexts[patientID]
	if !ok {
		return models.ConversationContext{}, false
	}

	out := *ctx
	out.RecentIntents = append([]models.Intent(nil), ctx.RecentIntents...)
	return out, true
}

func (s *MemoryConversationStore) Record(patientID string, intent models.Intent, escalated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, ok := s.contexts[patientID]
	if !ok {
		ctx = &models.ConversationContext{}
		s.contexts[patientID] = ctx
	}

	ctx.RecentIntents = append(ctx.RecentIntents, intent)
	if len(ctx.RecentIntents) > maxRecentIntents {
		ctx.RecentIntents = ctx.RecentIntents[len(ctx.RecentIntents)-maxRecentIntents:]
	}

	if escalated {
		ctx.EscalationCount++
	}
	ctx.LastMessageAt = s.now()
}
