// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the in-memory conversation store and selection policy.
package store

import (
	"strings"
	"sync"

	"github.com/stech100/luna.aura/internal/model"
)

// =============================================================================
// STORE
// =============================================================================

// Store owns the ordered conversation list and the active selection.
//
// Conversations are kept newest first. The store is never empty: every
// operation that could leave it without conversations replaces the list with
// a single fresh one, and the active ID always points at an existing
// conversation.
//
// All reads hand out deep copies and all writes go through copy-on-write
// transforms, so callers can never mutate stored state behind the lock.
// The Store is safe for concurrent use.
type Store struct {
	mu            sync.RWMutex
	conversations []*model.Conversation
	activeID      string
}

// New creates a store seeded with one fresh active conversation.
func New() *Store {
	s := &Store{}
	s.Create()
	return s
}

// =============================================================================
// CORE OPERATIONS
// =============================================================================

// Create prepends a fresh conversation, makes it active, and returns a copy.
func (s *Store) Create() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := model.NewConversation()
	s.conversations = append([]*model.Conversation{conv}, s.conversations...)
	s.activeID = conv.ID
	return conv.Clone()
}

// List returns copies of all conversations, newest first.
func (s *Store) List() []*model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Conversation, len(s.conversations))
	for i, c := range s.conversations {
		out[i] = c.Clone()
	}
	return out
}

// Get returns a copy of the conversation with the given ID, or nil.
func (s *Store) Get(id string) *model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.conversations[i].Clone()
	}
	return nil
}

// Count returns the number of conversations.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

// Update applies transform to a copy of the identified conversation and
// swaps the copy in. Updates addressed to a conversation that no longer
// exists are silent no-ops, which is what keeps late stream writes after a
// deletion harmless.
func (s *Store) Update(id string, transform func(*model.Conversation)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}

	clone := s.conversations[i].Clone()
	transform(clone)
	s.conversations[i] = clone
}

// Rename sets a conversation's title. A title that trims to empty is
// refused and the current title stays.
func (s *Store) Rename(id, title string) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return
	}
	s.Update(id, func(c *model.Conversation) {
		c.Title = trimmed
	})
}

// =============================================================================
// SELECTION AND LIFECYCLE
// =============================================================================

// ActiveID returns the ID of the active conversation.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

// Active returns a copy of the active conversation.
func (s *Store) Active() *model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(s.activeID); i >= 0 {
		return s.conversations[i].Clone()
	}
	return nil
}

// SetActive selects the conversation with the given ID. Unknown IDs are
// ignored and the current selection stays.
func (s *Store) SetActive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(id) >= 0 {
		s.activeID = id
	}
}

// Delete removes a conversation. Deleting the active conversation moves the
// selection to the previous neighbor in the list, clamped to the first
// entry. Deleting the last remaining conversation replaces it with a fresh
// active one, so the store never goes empty.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}

	wasActive := s.activeID == id
	s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)

	if len(s.conversations) == 0 {
		conv := model.NewConversation()
		s.conversations = []*model.Conversation{conv}
		s.activeID = conv.ID
		return
	}

	if wasActive {
		next := i - 1
		if next < 0 {
			next = 0
		}
		s.activeID = s.conversations[next].ID
	}
}

// ClearAll discards every conversation and replaces them with a single
// fresh active one. Calling it repeatedly always leaves exactly one
// conversation.
func (s *Store) ClearAll() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := model.NewConversation()
	s.conversations = []*model.Conversation{conv}
	s.activeID = conv.ID
	return conv.Clone()
}

// =============================================================================
// SEARCH
// =============================================================================

// Search returns copies of conversations whose title contains the term,
// case-insensitively, preserving store order. An empty term matches all.
func (s *Store) Search(term string) []*model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(term)
	out := make([]*model.Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		if strings.Contains(strings.ToLower(c.Title), needle) {
			out = append(out, c.Clone())
		}
	}
	return out
}

// =============================================================================
// HELPERS
// =============================================================================

// indexLocked returns the index of the conversation with the given ID, or
// -1. Caller must hold the lock.
func (s *Store) indexLocked(id string) int {
	for i, c := range s.conversations {
		if c.ID == id {
			return i
		}
	}
	return -1
}
