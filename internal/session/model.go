package session

import (
	"time"

	"reckon/internal/engine"
)

// Session is a persisted conversation transcript together with the
// calculations it produced.
type Session struct {
	ID           string                     `json:"id"`
	Title        string                     `json:"title"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
	Messages     []engine.ChatMessage       `json:"messages"`
	Calculations []engine.CalculationResult `json:"calculations,omitempty"`
	Stats        engine.SessionStats        `json:"stats"`
}

// SessionMeta is a lightweight representation for listing.
type SessionMeta struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Calculations int       `json:"calculations"`
}
