// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the in-memory conversation store and selection policy.
package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stech100/luna.aura/internal/model"
)

func TestNew_SeedsOneActiveConversation(t *testing.T) {
	s := New()

	require.Equal(t, 1, s.Count())
	active := s.Active()
	require.NotNil(t, active)
	assert.Equal(t, s.ActiveID(), active.ID)
	assert.Equal(t, model.DefaultTitle, active.Title)
}

func TestCreate_PrependsAndActivates(t *testing.T) {
	s := New()
	first := s.Active()

	second := s.Create()

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "new conversation should be first")
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, second.ID, s.ActiveID())
}

func TestUpdate_CopyOnWrite(t *testing.T) {
	s := New()
	id := s.ActiveID()

	before := s.Get(id)
	s.Update(id, func(c *model.Conversation) {
		c.AddUserMessage("hello there")
	})

	assert.Equal(t, 0, before.MessageCount(), "earlier snapshot must not see the update")
	after := s.Get(id)
	require.Equal(t, 1, after.MessageCount())
	assert.Equal(t, "hello there", after.Messages[0].Content)

	// Mutating a returned copy must not touch the store.
	after.AddUserMessage("rogue")
	assert.Equal(t, 1, s.Get(id).MessageCount())
}

func TestUpdate_MissingIDIsSilentNoOp(t *testing.T) {
	s := New()

	called := false
	s.Update("conv_nonexistent", func(c *model.Conversation) {
		called = true
	})

	assert.False(t, called, "transform should not run for a missing conversation")
	assert.Equal(t, 1, s.Count())
}

func TestUpdate_AfterDeleteIsSilentNoOp(t *testing.T) {
	s := New()
	doomed := s.Create()
	s.Delete(doomed.ID)

	// A late stream write lands after deletion. Nothing should change.
	s.Update(doomed.ID, func(c *model.Conversation) {
		c.AddUserMessage("ghost")
	})

	assert.Nil(t, s.Get(doomed.ID))
	for _, c := range s.List() {
		assert.Equal(t, 0, c.MessageCount())
	}
}

func TestRename(t *testing.T) {
	s := New()
	id := s.ActiveID()

	s.Rename(id, "  Project notes  ")
	assert.Equal(t, "Project notes", s.Get(id).Title)

	// Empty and whitespace-only titles are refused.
	s.Rename(id, "")
	assert.Equal(t, "Project notes", s.Get(id).Title)
	s.Rename(id, "   ")
	assert.Equal(t, "Project notes", s.Get(id).Title)
}

// =============================================================================
// SELECTION POLICY TESTS
// =============================================================================

func TestDelete_NonActiveKeepsSelection(t *testing.T) {
	s := New()
	old := s.ActiveID()
	newer := s.Create()

	s.Delete(old)

	assert.Equal(t, 1, s.Count())
	assert.Equal(t, newer.ID, s.ActiveID())
}

func TestDelete_ActiveSelectsPreviousNeighbor(t *testing.T) {
	s := New()           // c3 (oldest)
	c2 := s.Create()     // middle
	c1 := s.Create()     // newest, active
	s.SetActive(c2.ID)   // delete the middle one while active
	c3 := s.List()[2]

	s.Delete(c2.ID)

	// Previous neighbor of index 1 is index 0 after deletion.
	require.Equal(t, 2, s.Count())
	assert.Equal(t, c1.ID, s.ActiveID())
	assert.Equal(t, c3.ID, s.List()[1].ID)
}

func TestDelete_ActiveFirstClampsToZero(t *testing.T) {
	s := New()
	older := s.ActiveID()
	newest := s.Create() // index 0, active

	s.Delete(newest.ID)

	assert.Equal(t, older, s.ActiveID(), "selection should clamp to the new first entry")
}

func TestDelete_LastConversationReplacesIt(t *testing.T) {
	s := New()
	only := s.ActiveID()

	s.Delete(only)

	require.Equal(t, 1, s.Count(), "store must never be empty")
	fresh := s.Active()
	require.NotNil(t, fresh)
	assert.NotEqual(t, only, fresh.ID)
	assert.Equal(t, model.DefaultTitle, fresh.Title)
	assert.Equal(t, 0, fresh.MessageCount())
}

func TestDelete_UnknownIDIsNoOp(t *testing.T) {
	s := New()
	id := s.ActiveID()

	s.Delete("conv_missing")

	assert.Equal(t, 1, s.Count())
	assert.Equal(t, id, s.ActiveID())
}

func TestClearAll(t *testing.T) {
	s := New()
	s.Create()
	s.Create()
	s.Update(s.ActiveID(), func(c *model.Conversation) {
		c.AddUserMessage("content to be discarded")
	})

	fresh := s.ClearAll()

	require.Equal(t, 1, s.Count())
	assert.Equal(t, fresh.ID, s.ActiveID())
	assert.Equal(t, 0, s.Active().MessageCount())
}

func TestClearAll_Idempotent(t *testing.T) {
	s := New()
	s.Create()

	s.ClearAll()
	s.ClearAll()
	s.ClearAll()

	assert.Equal(t, 1, s.Count())
	assert.NotNil(t, s.Active())
}

func TestSetActive(t *testing.T) {
	s := New()
	first := s.ActiveID()
	s.Create()

	s.SetActive(first)
	assert.Equal(t, first, s.ActiveID())

	// Unknown IDs leave the selection alone.
	s.SetActive("conv_missing")
	assert.Equal(t, first, s.ActiveID())
}

// =============================================================================
// SEARCH TESTS
// =============================================================================

func TestSearch(t *testing.T) {
	s := New()
	s.Rename(s.ActiveID(), "Weather in Berlin")
	c := s.Create()
	s.Rename(c.ID, "Go generics question")
	c = s.Create()
	s.Rename(c.ID, "berlin travel tips")

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"case-insensitive match", "BERLIN", []string{"berlin travel tips", "Weather in Berlin"}},
		{"substring match", "generic", []string{"Go generics question"}},
		{"empty term matches all", "", []string{"berlin travel tips", "Go generics question", "Weather in Berlin"}},
		{"no match", "python", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Search(tc.term)
			titles := make([]string, 0, len(got))
			for _, conv := range got {
				titles = append(titles, conv.Title)
			}
			assert.Equal(t, tc.want, titles, "results must preserve store order")
		})
	}
}

func TestSearch_DoesNotChangeStore(t *testing.T) {
	s := New()
	s.Create()
	active := s.ActiveID()

	s.Search("anything")

	assert.Equal(t, 2, s.Count())
	assert.Equal(t, active, s.ActiveID())
}
