// Package history keeps the append-only conversation log of the
// assistant, keyed by session id.
package history

import (
	"context"
	"sync"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	// LoadOrCreate returns the session's messages oldest first, creating
	// an empty history when none exists. Calling it again is harmless.
	LoadOrCreate(ctx context.Context, sessionID string) ([]Message, error)

	// Append adds messages in order after the existing ones.
	Append(ctx context.Context, sessionID string, msgs ...Message) error
}

// ===============================
// Memory
// ===============================

type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string][]Message{}}
}

func (s *MemoryStore) LoadOrCreate(ctx context.Context, sessionID string) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msgs, ok := s.sessions[sessionID]
	if !ok {
		s.sessions[sessionID] = []Message{}
		return []Message{}, nil
	}
	return append([]Message(nil), msgs...), nil
}

func (s *MemoryStore) Append(ctx context.Context, sessionID string, msgs ...Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], msgs...)
	return nil
}

var _ Store = (*MemoryStore)(nil)
