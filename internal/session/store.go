package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"reckon/internal/engine"
)

// Store handles persistence of session transcripts.
type Store struct {
	basePath string
}

// NewStore creates a new session store.
// configPath is typically ~/.config/reckon
func NewStore(configPath string) *Store {
	return &Store{
		basePath: filepath.Join(configPath, "sessions"),
	}
}

// New creates a fresh unsaved session with a generated ID.
func New(title string) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Save persists a session to disk, refreshing its UpdatedAt stamp.
func (s *Store) Save(session *Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.UpdatedAt = time.Now()

	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	filename := filepath.Join(s.basePath, fmt.Sprintf("%s.json", session.ID))
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Snapshot captures an agent's current transcript and history into a
// session and saves it.
func (s *Store) Snapshot(session *Session, agent *engine.ReasoningAgent) error {
	session.Messages = agent.Memory().Messages()
	session.Calculations = agent.History()
	session.Stats = agent.Stats()
	return s.Save(session)
}

// Load retrieves a specific session.
func (s *Store) Load(id string) (*Session, error) {
	filename := filepath.Join(s.basePath, fmt.Sprintf("%s.json", id))

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// List returns all stored sessions, sorted by UpdatedAt (newest first).
func (s *Store) List() ([]SessionMeta, error) {
	entries, err := os.ReadDir(s.basePath)
	if os.IsNotExist(err) {
		return []SessionMeta{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list session directory: %w", err)
	}

	var sessions []SessionMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.basePath, entry.Name()))
		if err != nil {
			continue // Skip unreadable files
		}

		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil {
			continue // Skip invalid files
		}

		sessions = append(sessions, SessionMeta{
			ID:           sess.ID,
			Title:        sess.Title,
			CreatedAt:    sess.CreatedAt,
			UpdatedAt:    sess.UpdatedAt,
			Calculations: len(sess.Calculations),
		})
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	return sessions, nil
}
