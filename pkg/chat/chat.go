// Package chat models conversation sessions between the user and the
// research assistant. Insertion order is display order.
package chat

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ThinkingStep is an intermediate reasoning step the assistant
// surfaced while producing a message.
type ThinkingStep struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Detail  string `json:"detail,omitempty"`
	Done    bool   `json:"done"`
	Ordinal int    `json:"ordinal"`
}

// Message is one turn in a session.
type Message struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Thinking  []ThinkingStep `json:"thinking,omitempty"`
	ReportID  string         `json:"report_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Session is an ordered conversation.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates an empty session titled after the opening prompt.
func NewSession(prompt string) (*Session, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("nanoid: %w", err)
	}

	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Title:     BuildSessionTitle(prompt),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Append adds a message to the end of the session and returns it.
func (s *Session) Append(role Role, content string) (*Message, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("invalid message role %q", role)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("nanoid: %w", err)
	}

	msg := Message{
		ID:        id,
		SessionID: s.ID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.Messages = append(s.Messages, msg)
	s.UpdatedAt = msg.CreatedAt

	return &s.Messages[len(s.Messages)-1], nil
}

// BuildSessionTitle derives a session title from the first prompt.
func BuildSessionTitle(prompt string) string {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return "New conversation"
	}

	const maxTitleLength = 120
	if len(trimmed) <= maxTitleLength {
		return trimmed
	}

	// back up to a rune boundary so the cut never splits a multibyte rune
	cut := maxTitleLength
	for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
		cut--
	}
	return trimmed[:cut]
}
