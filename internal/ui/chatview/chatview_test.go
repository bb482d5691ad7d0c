// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stech100/luna.aura/internal/model"
	"github.com/stech100/luna.aura/internal/ui/styles"
)

func testChatview(t *testing.T) Model {
	t.Helper()
	m := New(styles.NewTheme("dark"))
	m.SetSize(80, 24)
	return m
}

func typeRunes(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestEnterEmitsSend(t *testing.T) {
	m := testChatview(t)
	m.Focus()
	m = typeRunes(m, "hello")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}
	msg, ok := cmd().(SendMsg)
	if !ok {
		t.Fatalf("expected SendMsg, got %T", cmd())
	}
	if msg.Text != "hello" {
		t.Errorf("SendMsg.Text = %q", msg.Text)
	}
}

func TestEnterOnEmptyInputDoesNothing(t *testing.T) {
	m := testChatview(t)
	m.Focus()
	m = typeRunes(m, "   ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("whitespace-only input should not emit SendMsg")
	}
}

func TestInputClearedAfterSend(t *testing.T) {
	m := testChatview(t)
	m.Focus()
	m = typeRunes(m, "hi")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = typeRunes(m, "next")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("second enter should emit")
	}
	if msg := cmd().(SendMsg); msg.Text != "next" {
		t.Errorf("SendMsg.Text = %q, want input cleared between sends", msg.Text)
	}
}

func TestUnfocusedIgnoresKeys(t *testing.T) {
	m := testChatview(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("unfocused pane should not emit commands")
	}
}

func TestViewShowsPendingEllipsis(t *testing.T) {
	m := testChatview(t)

	conv := model.NewConversation()
	conv.AddUserMessage("hi")
	pending := conv.AddPendingMessage()
	pending.AppendFragment("partial answer")
	m.SetConversation(conv)

	view := m.viewport.View()
	if !strings.Contains(view, "partial answer...") {
		t.Errorf("pending message should render with trailing ellipsis, got %q", view)
	}
}

func TestViewShowsRoles(t *testing.T) {
	m := testChatview(t)

	conv := model.NewConversation()
	conv.AddUserMessage("question")
	reply := model.NewMessage(model.RoleModel, "answer")
	conv.Messages = append(conv.Messages, reply)
	m.SetConversation(conv)

	view := m.viewport.View()
	if !strings.Contains(view, "You") {
		t.Errorf("transcript should label the user, got %q", view)
	}
	if !strings.Contains(view, "Aura") {
		t.Errorf("transcript should label the assistant, got %q", view)
	}
}

func TestHeader(t *testing.T) {
	m := testChatview(t)

	conv := model.NewConversation()
	conv.AddUserMessage("What is Go?")
	m.SetConversation(conv)

	header := m.Header("gemini-2.5-flash")
	if !strings.Contains(header, "What is Go?") {
		t.Errorf("header should carry the title, got %q", header)
	}
	if !strings.Contains(header, "gemini-2.5-flash") {
		t.Errorf("header should carry the model, got %q", header)
	}
}
