// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatview implements the message pane of the luna.aura TUI: the
// transcript viewport, the input line and the streaming indicator.
package chatview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/stech100/luna.aura/internal/model"
	"github.com/stech100/luna.aura/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// SendMsg asks the app to send the typed message.
type SendMsg struct{ Text string }

// =============================================================================
// MODEL
// =============================================================================

// Model is the chat pane component. The app pushes conversation snapshots in
// with SetConversation; the pane renders them and emits SendMsg when the
// user hits enter.
type Model struct {
	theme *styles.Theme

	conversation *model.Conversation
	streaming    bool

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	renderer      *glamour.TermRenderer
	rendererWidth int

	width   int
	height  int
	focused bool
}

// New creates a chat pane.
func New(theme *styles.Theme) Model {
	input := textinput.New()
	input.Placeholder = "Type your message..."
	input.Prompt = "> "
	input.CharLimit = 4000

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = theme.Spinner

	return Model{
		theme:    theme,
		viewport: viewport.New(0, 0),
		input:    input,
		spin:     spin,
	}
}

// SetTheme swaps the theme. The markdown renderer is rebuilt on next render
// since its style depends on the theme.
func (m *Model) SetTheme(theme *styles.Theme) {
	m.theme = theme
	m.spin.Style = theme.Spinner
	m.renderer = nil
	m.refresh()
}

// SetSize sets the pane dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	// Room for the input box and status spacing below the transcript.
	m.viewport.Width = width
	m.viewport.Height = maxInt(1, height-4)
	m.input.Width = width - 6
	m.refresh()
}

// Focus gives the input keyboard focus.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return m.input.Focus()
}

// Blur removes keyboard focus.
func (m *Model) Blur() {
	m.focused = false
	m.input.Blur()
}

// Focused reports whether the input has keyboard focus.
func (m *Model) Focused() bool { return m.focused }

// SetStreaming toggles the streaming indicator.
func (m *Model) SetStreaming(streaming bool) {
	m.streaming = streaming
}

// SpinnerTick starts the spinner animation.
func (m *Model) SpinnerTick() tea.Cmd {
	return m.spin.Tick
}

// SetConversation replaces the rendered conversation snapshot and scrolls
// to the bottom.
func (m *Model) SetConversation(conv *model.Conversation) {
	m.conversation = conv
	m.refresh()
	m.viewport.GotoBottom()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles input and viewport scrolling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.streaming {
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			text := m.input.Value()
			if strings.TrimSpace(text) == "" {
				return m, nil
			}
			m.input.SetValue("")
			return m, func() tea.Msg { return SendMsg{Text: text} }
		case "pgup":
			m.viewport.HalfViewUp()
			return m, nil
		case "pgdown":
			m.viewport.HalfViewDown()
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat pane.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")

	if m.streaming {
		sb.WriteString(m.theme.PendingText.Render(m.spin.View() + " Aura is thinking"))
		sb.WriteString("\n")
	}

	inputFrame := m.theme.InputContainer
	if m.focused {
		inputFrame = m.theme.InputContainerFocused
	}
	sb.WriteString(inputFrame.Width(maxInt(10, m.width-2)).Render(m.input.View()))

	return sb.String()
}

// refresh re-renders the transcript into the viewport.
func (m *Model) refresh() {
	if m.conversation == nil {
		m.viewport.SetContent("")
		return
	}

	atBottom := m.viewport.AtBottom()

	var sb strings.Builder
	for i, msg := range m.conversation.Messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderMessage(msg))
	}
	m.viewport.SetContent(sb.String())

	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderMessage(msg *model.Message) string {
	var sb strings.Builder

	label := m.theme.ModelLabel
	if msg.Role == model.RoleUser {
		label = m.theme.UserLabel
	}
	sb.WriteString(label.Render(msg.Role.DisplayName()))
	sb.WriteString(" ")
	sb.WriteString(m.theme.MessageMeta.Render(msg.Timestamp.Format("15:04")))
	sb.WriteString("\n")

	switch {
	case msg.Pending:
		// Streaming text is shown raw with a trailing ellipsis; markdown
		// rendering waits until the message is final.
		text := msg.DisplayContent()
		sb.WriteString(m.theme.PendingText.Render(text + "..."))
	case msg.Role == model.RoleModel:
		sb.WriteString(m.theme.ModelBubble.Render(m.renderMarkdown(msg.Content)))
	default:
		sb.WriteString(m.theme.UserBubble.Render(msg.Content))
	}
	sb.WriteString("\n")

	return sb.String()
}

// renderMarkdown renders assistant markdown through glamour, falling back
// to the raw text when rendering fails.
func (m *Model) renderMarkdown(content string) string {
	wrap := maxInt(20, m.width-8)
	if m.renderer == nil || m.rendererWidth != wrap {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.theme.GlamourStyle()),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return content
		}
		m.renderer = renderer
		m.rendererWidth = wrap
	}

	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// Header renders the pane header line for the active conversation.
func (m Model) Header(modelName string) string {
	title := "New Chat"
	count := 0
	if m.conversation != nil {
		title = m.conversation.Title
		count = len(m.conversation.Messages)
	}
	return m.theme.HeaderTitle.Render(title) + " " +
		m.theme.HeaderSubtitle.Render(fmt.Sprintf("(%s, %d messages)", modelName, count))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
