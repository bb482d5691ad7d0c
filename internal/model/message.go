// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleModel:
		return "Aura"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
//
// A model reply starts out pending: fragments accumulate in an internal
// builder while Pending is true, and Finalize or Fail collapses the message
// into its final Content. A message is never pending and final at once.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Final content, empty while the message is pending.
	Content string `json:"content"`

	// Streaming state.
	// PERFORMANCE: strings.Builder avoids quadratic allocations during streaming
	Pending bool            `json:"-"`
	partial strings.Builder `json:"-"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewPendingMessage creates an empty model message awaiting stream fragments.
func NewPendingMessage() *Message {
	return &Message{
		ID:        generateID(),
		Role:      RoleModel,
		Timestamp: time.Now(),
		Pending:   true,
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// AppendFragment appends a stream fragment to a pending message.
// Fragments arriving after the message was finalized are ignored.
func (m *Message) AppendFragment(fragment string) {
	if m.Pending {
		m.partial.WriteString(fragment)
	}
}

// Finalize completes streaming, fixing the accumulated text as Content.
func (m *Message) Finalize() {
	if !m.Pending {
		return
	}
	m.Content = m.partial.String()
	m.partial.Reset()
	m.Pending = false
}

// Fail completes streaming with replacement text, discarding any partial
// content already accumulated.
func (m *Message) Fail(replacement string) {
	if !m.Pending {
		return
	}
	m.partial.Reset()
	m.Content = replacement
	m.Pending = false
}

// DisplayContent returns the content to display (partial or final).
func (m *Message) DisplayContent() string {
	if m.Pending {
		return m.partial.String()
	}
	return m.Content
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly. Budgets too small
// to fit an ellipsis truncate without one.
func (m *Message) Preview(maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	content := m.DisplayContent()
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0 && m.partial.Len() == 0
}

// Clone returns a copy of the message. The internal fragment builder is
// re-seeded rather than copied so both messages stay independently writable.
func (m *Message) Clone() *Message {
	clone := &Message{
		ID:        m.ID,
		Role:      m.Role,
		Timestamp: m.Timestamp,
		Content:   m.Content,
		Pending:   m.Pending,
	}
	if m.Pending {
		clone.partial.WriteString(m.partial.String())
	}
	return clone
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}
