// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/stech100/luna.aura/internal/gemini"
)

// DefaultTitle is the title of a conversation before its first user message.
const DefaultTitle = "New Chat"

// TitleRunes is how many runes of the first user message become the title.
const TitleRunes = 30

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat conversation with history and metadata.
type Conversation struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages, oldest first.
	Messages []*Message `json:"messages"`
}

// NewConversation creates a new conversation with a generated ID and the
// default title.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        generateConversationID(),
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddUserMessage creates and appends a user message. On the first user
// message the conversation title is derived from its text; later user
// messages never change the title.
func (c *Conversation) AddUserMessage(content string) *Message {
	first := c.LastUserMessage() == nil
	msg := NewUserMessage(content)
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	if first {
		c.Title = prefixRunes(content, TitleRunes)
	}
	return msg
}

// AddPendingMessage creates and appends an empty model message that will
// collect stream fragments.
func (c *Conversation) AddPendingMessage() *Message {
	msg := NewPendingMessage()
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	return msg
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastUserMessage returns the most recent user message, or nil.
func (c *Conversation) LastUserMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i]
		}
	}
	return nil
}

// MessageByID returns a message by its ID, or nil.
func (c *Conversation) MessageByID(id string) *Message {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// Busy reports whether the conversation has a model reply still streaming.
func (c *Conversation) Busy() bool {
	last := c.LastMessage()
	return last != nil && last.Pending
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// GEMINI CONVERSION
// =============================================================================

// ToContents converts the conversation history to the Gemini wire format.
// Empty messages, including a trailing pending placeholder, are skipped.
func (c *Conversation) ToContents() []gemini.Content {
	contents := make([]gemini.Content, 0, len(c.Messages))
	for _, msg := range c.Messages {
		text := msg.DisplayContent()
		if text == "" {
			continue
		}
		contents = append(contents, gemini.Content{
			Role:  msg.Role.String(),
			Parts: []gemini.Part{{Text: text}},
		})
	}
	return contents
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Clone creates a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	clone := &Conversation{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Messages:  make([]*Message, len(c.Messages)),
	}
	for i, msg := range c.Messages {
		clone.Messages[i] = msg.Clone()
	}
	return clone
}

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	return "conv_" + uuid.NewString()
}

// prefixRunes returns the first n runes of s.
func prefixRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
