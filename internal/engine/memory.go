package engine

import "time"

// DefaultMaxHistory bounds the conversation window.
const DefaultMaxHistory = 10

// ConversationMemory is a bounded ordered log of role-tagged messages
// plus a named context-variable store. Insertion is append-only; when
// capacity is exceeded the oldest entries are evicted (FIFO window).
// Not safe for concurrent use; callers serialize per agent instance.
type ConversationMemory struct {
	maxHistory int
	messages   []ChatMessage
	contextVar map[string]any
}

// NewConversationMemory creates a memory bounded to maxHistory entries.
// maxHistory <= 0 falls back to DefaultMaxHistory.
func NewConversationMemory(maxHistory int) *ConversationMemory {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &ConversationMemory{
		maxHistory: maxHistory,
		contextVar: make(map[string]any),
	}
}

// Add appends a message, evicting the oldest entries beyond capacity.
func (m *ConversationMemory) Add(role MessageRole, content string, metadata map[string]any) {
	m.messages = append(m.messages, ChatMessage{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	})
	if len(m.messages) > m.maxHistory {
		m.messages = m.messages[len(m.messages)-m.maxHistory:]
	}
}

// Messages returns a copy of the stored window, oldest first.
func (m *ConversationMemory) Messages() []ChatMessage {
	out := make([]ChatMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// Window returns a copy of the most recent n messages, oldest first.
func (m *ConversationMemory) Window(n int) []ChatMessage {
	if n <= 0 {
		return nil
	}
	msgs := m.messages
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	out := make([]ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}

// Len returns the number of stored messages.
func (m *ConversationMemory) Len() int { return len(m.messages) }

// SetContextVar stores a named context variable (last-write-wins).
func (m *ConversationMemory) SetContextVar(key string, value any) {
	m.contextVar[key] = value
}

// ContextVar returns a named context variable, or def if unset.
func (m *ConversationMemory) ContextVar(key string, def any) any {
	if v, ok := m.contextVar[key]; ok {
		return v
	}
	return def
}
