// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sidebar implements the conversation list pane of the luna.aura TUI.
package sidebar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stech100/luna.aura/internal/model"
	"github.com/stech100/luna.aura/internal/ui/styles"
	"github.com/stech100/luna.aura/internal/util"
)

// =============================================================================
// MESSAGES
// =============================================================================

// SelectMsg asks the app to make a conversation active.
type SelectMsg struct{ ID string }

// NewConversationMsg asks the app to create a conversation.
type NewConversationMsg struct{}

// DeleteRequestMsg asks the app to confirm and delete a conversation.
type DeleteRequestMsg struct{ ID string }

// RenameMsg asks the app to rename a conversation.
type RenameMsg struct {
	ID    string
	Title string
}

// SearchMsg asks the app to filter the list by a query.
type SearchMsg struct{ Query string }

// =============================================================================
// MODEL
// =============================================================================

// mode is the sidebar interaction mode.
type mode int

const (
	modeList mode = iota
	modeSearch
	modeRename
)

// Model is the sidebar component. The app owns the conversation data and
// pushes snapshots in with SetItems; the sidebar only emits intent messages.
type Model struct {
	theme *styles.Theme

	items    []*model.Conversation
	activeID string
	cursor   int

	width   int
	height  int
	focused bool

	mode        mode
	searchInput textinput.Model
	renameInput textinput.Model
	renameID    string
}

// New creates a sidebar.
func New(theme *styles.Theme) Model {
	search := textinput.New()
	search.Placeholder = "Search..."
	search.Prompt = "/ "
	search.CharLimit = 100

	rename := textinput.New()
	rename.Prompt = "> "
	rename.CharLimit = 100

	return Model{
		theme:       theme,
		searchInput: search,
		renameInput: rename,
	}
}

// SetTheme swaps the theme.
func (m *Model) SetTheme(theme *styles.Theme) {
	m.theme = theme
}

// SetSize sets the pane dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = width - 6
	m.renameInput.Width = width - 6
}

// Focus gives the sidebar keyboard focus.
func (m *Model) Focus() { m.focused = true }

// Blur removes keyboard focus.
func (m *Model) Blur() {
	m.focused = false
	if m.mode == modeRename {
		m.cancelRename()
	}
}

// Focused reports whether the sidebar has keyboard focus.
func (m *Model) Focused() bool { return m.focused }

// Searching reports whether the search input is capturing keys.
func (m *Model) Searching() bool { return m.mode == modeSearch }

// Query returns the current search query.
func (m *Model) Query() string { return m.searchInput.Value() }

// SetItems replaces the listed conversations and keeps the cursor on the
// active conversation when it is still present.
func (m *Model) SetItems(items []*model.Conversation, activeID string) {
	m.items = items
	m.activeID = activeID

	m.cursor = 0
	for i, conv := range items {
		if conv.ID == activeID {
			m.cursor = i
			break
		}
	}
	if m.cursor >= len(items) {
		m.cursor = maxInt(0, len(items)-1)
	}
}

// Selected returns the conversation under the cursor, or nil.
func (m *Model) Selected() *model.Conversation {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	return m.items[m.cursor]
}

// StartSearch enters search mode.
func (m *Model) StartSearch() tea.Cmd {
	m.mode = modeSearch
	m.searchInput.SetValue("")
	return m.searchInput.Focus()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles key input when the sidebar is focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	switch m.mode {
	case modeSearch:
		return m.updateSearch(keyMsg)
	case modeRename:
		return m.updateRename(keyMsg)
	default:
		return m.updateList(keyMsg)
	}
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		if conv := m.Selected(); conv != nil {
			id := conv.ID
			return m, func() tea.Msg { return SelectMsg{ID: id} }
		}
	case "n":
		return m, func() tea.Msg { return NewConversationMsg{} }
	case "d", "backspace":
		if conv := m.Selected(); conv != nil {
			id := conv.ID
			return m, func() tea.Msg { return DeleteRequestMsg{ID: id} }
		}
	case "r":
		if conv := m.Selected(); conv != nil {
			m.mode = modeRename
			m.renameID = conv.ID
			m.renameInput.SetValue(conv.Title)
			m.renameInput.CursorEnd()
			return m, m.renameInput.Focus()
		}
	case "/":
		return m, m.StartSearch()
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		return m, func() tea.Msg { return SearchMsg{Query: ""} }
	case "enter":
		m.mode = modeList
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	query := m.searchInput.Value()
	return m, tea.Batch(cmd, func() tea.Msg { return SearchMsg{Query: query} })
}

func (m Model) updateRename(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.cancelRename()
		return m, nil
	case "enter":
		id := m.renameID
		title := m.renameInput.Value()
		m.cancelRename()
		return m, func() tea.Msg { return RenameMsg{ID: id, Title: title} }
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	return m, cmd
}

func (m *Model) cancelRename() {
	m.mode = modeList
	m.renameID = ""
	m.renameInput.Blur()
	m.renameInput.SetValue("")
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the sidebar pane.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.theme.SidebarTitle.Render("Conversations"))
	sb.WriteString("\n")

	if m.mode == modeSearch {
		sb.WriteString(m.theme.SearchPrompt.Render(m.searchInput.View()))
		sb.WriteString("\n")
	}

	if len(m.items) == 0 {
		sb.WriteString(m.theme.SearchNoResults.Render("No matches"))
	}

	itemWidth := maxInt(4, m.width-4)
	for i, conv := range m.items {
		line := m.itemLine(conv, itemWidth)

		switch {
		case m.mode == modeRename && conv.ID == m.renameID:
			sb.WriteString(m.theme.ConvItemSelected.Render(m.renameInput.View()))
		case i == m.cursor && m.focused:
			sb.WriteString(m.theme.ConvItemSelected.Render(line))
		case conv.ID == m.activeID:
			sb.WriteString(m.theme.ConvItemActive.Render(line))
		default:
			sb.WriteString(m.theme.ConvItem.Render(line))
		}
		sb.WriteString("\n")
	}

	frame := m.theme.Sidebar
	if m.focused {
		frame = m.theme.SidebarFocused
	}
	return frame.Width(m.width).Height(m.height).Render(sb.String())
}

func (m Model) itemLine(conv *model.Conversation, width int) string {
	title := util.TruncateWidth(conv.Title, width)
	meta := fmt.Sprintf("%d msgs", len(conv.Messages))
	return title + "\n" + m.theme.ConvMeta.Render(meta)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
