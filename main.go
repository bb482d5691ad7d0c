// luna.aura - A terminal chat client for Google Gemini.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stech100/luna.aura/internal/chat"
	"github.com/stech100/luna.aura/internal/cli"
	"github.com/stech100/luna.aura/internal/config"
	"github.com/stech100/luna.aura/internal/export"
	"github.com/stech100/luna.aura/internal/gemini"
	"github.com/stech100/luna.aura/internal/model"
	"github.com/stech100/luna.aura/internal/store"
	"github.com/stech100/luna.aura/internal/telemetry"
	"github.com/stech100/luna.aura/internal/ui/chatview"
	"github.com/stech100/luna.aura/internal/ui/sidebar"
	"github.com/stech100/luna.aura/internal/ui/styles"
	"github.com/stech100/luna.aura/internal/user"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async streaming
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args := cli.Parse(os.Args[1:])

	switch args.Command {
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		runTUI(args)
	}
}

// sendToProgram delivers a message to the running program from a goroutine.
func sendToProgram(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// =============================================================================
// STARTUP
// =============================================================================

func runTUI(args *cli.Args) {
	// Load configuration, honoring a --config override.
	var cfg *config.Config
	var err error
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.Default()
		cfg.ApplyEnvOverrides()
	}

	// Session-only flag overrides.
	if args.Model != "" && model.IsSupported(args.Model) {
		cfg.DefaultModel = args.Model
	}
	if args.Theme == config.ThemeDark || args.Theme == config.ThemeLight {
		cfg.UI.Theme = args.Theme
	}
	config.SetGlobal(cfg)

	if cfg.API.Key == "" {
		fmt.Fprintln(os.Stderr, "Warning: no API key set. Set GEMINI_API_KEY to chat.")
	}

	client := gemini.NewClient(&gemini.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		APIKey:  cfg.API.Key,
		Timeout: time.Duration(cfg.API.TimeoutSecs) * time.Second,
	})

	var events *telemetry.Logger
	if path, err := telemetry.DefaultPath(); err == nil {
		events = telemetry.NewLogger(path)
	}

	st := store.New()
	ctrl := chat.NewController(st, client, events)
	if err := ctrl.SetModel(cfg.DefaultModel); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	app := newApp(cfg, st, ctrl, events)
	p := tea.NewProgram(app, tea.WithAltScreen())

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	// Pick up external config edits while running.
	if path, err := config.ConfigPath(); err == nil && args.ConfigPath == "" {
		if watcher, err := config.Watch(path, func() {
			if config.ReloadGlobal() == nil {
				sendToProgram(configReloadedMsg{})
			}
		}); err == nil {
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// APP MODEL
// =============================================================================

type focusArea int

const (
	focusSidebar focusArea = iota
	focusChat
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmClearAll
)

// Messages internal to the app model.
type (
	streamUpdateMsg struct{}
	streamDoneMsg   struct {
		convID string
		err    error
	}
	configReloadedMsg struct{}
	clearStatusMsg    struct{ seq int }
)

type appModel struct {
	cfg    *config.Config
	st     *store.Store
	ctrl   *chat.Controller
	events *telemetry.Logger
	users  *user.Manager

	theme    *styles.Theme
	sidebar  sidebar.Model
	chatpane chatview.Model

	focus   focusArea
	width   int
	height  int
	query   string
	status  string
	statSeq int

	confirm       confirmKind
	confirmTarget string
	confirmYes    bool

	// One cancel func per in-flight stream, keyed by conversation ID.
	streamCancels map[string]context.CancelFunc
}

func newApp(cfg *config.Config, st *store.Store, ctrl *chat.Controller, events *telemetry.Logger) *appModel {
	theme := styles.NewTheme(cfg.UI.Theme)

	app := &appModel{
		cfg:           cfg,
		st:            st,
		ctrl:          ctrl,
		events:        events,
		users:         user.NewManager(),
		theme:         theme,
		sidebar:       sidebar.New(theme),
		chatpane:      chatview.New(theme),
		focus:         focusChat,
		streamCancels: make(map[string]context.CancelFunc),
	}
	app.refresh()
	return app
}

func (m *appModel) Init() tea.Cmd {
	return tea.Batch(m.chatpane.Focus(), textinput.Blink)
}

// refresh pushes fresh store snapshots into both panes.
func (m *appModel) refresh() {
	var items []*model.Conversation
	if m.query != "" {
		items = m.st.Search(m.query)
	} else {
		items = m.st.List()
	}
	m.sidebar.SetItems(items, m.st.ActiveID())
	m.chatpane.SetConversation(m.st.Active())
	m.chatpane.SetStreaming(m.ctrl.Busy(m.st.ActiveID()))
}

// =============================================================================
// UPDATE
// =============================================================================

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.chatpane, cmd = m.chatpane.Update(msg)
		return m, cmd

	case streamUpdateMsg:
		m.refresh()
		return m, nil

	case streamDoneMsg:
		delete(m.streamCancels, msg.convID)
		m.refresh()
		if msg.err != nil {
			return m, m.setStatus("Response failed")
		}
		return m, nil

	case configReloadedMsg:
		m.cfg = config.Global()
		if m.cfg.UI.Theme != m.theme.Name {
			m.setTheme(m.cfg.UI.Theme)
		}
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statSeq {
			m.status = ""
		}
		return m, nil

	case sidebar.SelectMsg:
		m.st.SetActive(msg.ID)
		m.refresh()
		if m.ctrl.Busy(m.st.ActiveID()) {
			return m, m.chatpane.SpinnerTick()
		}
		return m, nil

	case sidebar.NewConversationMsg:
		m.newConversation()
		return m, nil

	case sidebar.DeleteRequestMsg:
		m.confirm = confirmDelete
		m.confirmTarget = msg.ID
		m.confirmYes = false
		return m, nil

	case sidebar.RenameMsg:
		m.st.Rename(msg.ID, msg.Title)
		m.refresh()
		return m, nil

	case sidebar.SearchMsg:
		m.query = msg.Query
		m.refresh()
		return m, nil

	case chatview.SendMsg:
		return m, m.sendMessage(msg.Text)
	}

	return m, nil
}

func (m *appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Confirmation overlays capture all keys.
	if m.confirm != confirmNone {
		return m.handleConfirmKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		for _, cancel := range m.streamCancels {
			cancel()
		}
		return m, tea.Quit

	case "tab":
		m.toggleFocus()
		if m.focus == focusChat {
			return m, m.chatpane.Focus()
		}
		return m, nil

	case "ctrl+n":
		m.newConversation()
		return m, nil

	case "ctrl+f":
		m.focus = focusSidebar
		m.chatpane.Blur()
		m.sidebar.Focus()
		return m, m.sidebar.StartSearch()

	case "ctrl+e":
		return m, m.exportActive()

	case "ctrl+t":
		return m, m.toggleTheme()

	case "ctrl+g":
		next := model.NextModel(m.ctrl.Model())
		if err := m.ctrl.SetModel(next); err == nil {
			return m, m.setStatus("Model: " + next)
		}
		return m, nil

	case "ctrl+l":
		m.confirm = confirmClearAll
		m.confirmYes = false
		return m, nil

	case "ctrl+o":
		if m.users.SignedIn() {
			m.users.Logout()
			return m, m.setStatus("Signed out")
		}
		u := m.users.Login()
		return m, m.setStatus("Signed in as " + u.Name)
	}

	// Route to the focused pane.
	var cmd tea.Cmd
	if m.focus == focusSidebar {
		m.sidebar, cmd = m.sidebar.Update(msg)
	} else {
		m.chatpane, cmd = m.chatpane.Update(msg)
	}
	return m, cmd
}

func (m *appModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right", "tab", "h", "l":
		m.confirmYes = !m.confirmYes
	case "esc", "n":
		m.confirm = confirmNone
	case "y":
		m.confirmYes = true
		return m.applyConfirm()
	case "enter":
		return m.applyConfirm()
	}
	return m, nil
}

func (m *appModel) applyConfirm() (tea.Model, tea.Cmd) {
	kind := m.confirm
	target := m.confirmTarget
	yes := m.confirmYes
	m.confirm = confirmNone
	m.confirmTarget = ""

	if !yes {
		return m, nil
	}

	switch kind {
	case confirmDelete:
		m.st.Delete(target)
		m.refresh()
		return m, m.setStatus("Conversation deleted")
	case confirmClearAll:
		m.st.ClearAll()
		m.query = ""
		m.refresh()
		return m, m.setStatus("All conversations cleared")
	}
	return m, nil
}

func (m *appModel) toggleFocus() {
	if m.focus == focusSidebar {
		m.focus = focusChat
		m.sidebar.Blur()
	} else {
		m.focus = focusSidebar
		m.chatpane.Blur()
		m.sidebar.Focus()
	}
}

func (m *appModel) newConversation() {
	conv := m.st.Create()
	m.st.SetActive(conv.ID)
	m.query = ""
	m.refresh()
}

// =============================================================================
// ACTIONS
// =============================================================================

// sendMessage hands the typed text to the controller and launches the
// stream goroutine. The store already holds the user message and the
// placeholder when Send returns.
func (m *appModel) sendMessage(text string) tea.Cmd {
	req, err := m.ctrl.Send(m.st.ActiveID(), text)
	if err != nil {
		switch {
		case err == chat.ErrBusy:
			return m.setStatus("Still responding, hang on")
		case err == chat.ErrEmptyMessage:
			return nil
		default:
			return m.setStatus("Could not send message")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.streamCancels[req.ConversationID] = cancel

	go func() {
		defer cancel()
		err := m.ctrl.Stream(ctx, req, func() {
			sendToProgram(streamUpdateMsg{})
		})
		sendToProgram(streamDoneMsg{convID: req.ConversationID, err: err})
	}()

	m.refresh()
	return m.chatpane.SpinnerTick()
}

// exportActive writes the active conversation transcript to a plain text
// file named after the conversation title.
func (m *appModel) exportActive() tea.Cmd {
	conv := m.st.Active()
	if conv == nil || conv.IsEmpty() {
		return m.setStatus("Nothing to export")
	}

	opts := export.DefaultOptions()
	opts.Model = m.ctrl.Model()
	if m.cfg.Export.Directory != "" {
		opts.OutputDir = m.cfg.Export.Directory
	}

	path, err := export.ExportText(conv, opts)
	if err != nil {
		m.events.Record("export_failed", map[string]string{"error": err.Error()})
		return m.setStatus("Export failed")
	}
	return m.setStatus("Exported to " + path)
}

// toggleTheme flips dark/light and persists the choice.
func (m *appModel) toggleTheme() tea.Cmd {
	next := config.ThemeLight
	if m.theme.Name == config.ThemeLight {
		next = config.ThemeDark
	}
	m.setTheme(next)

	m.cfg.UI.Theme = next
	if err := config.Save(m.cfg); err != nil {
		return m.setStatus("Theme changed (not saved)")
	}
	return m.setStatus("Theme: " + next)
}

func (m *appModel) setTheme(name string) {
	m.theme = styles.NewTheme(name)
	m.sidebar.SetTheme(m.theme)
	m.chatpane.SetTheme(m.theme)
}

// setStatus shows a transient status line for a few seconds.
func (m *appModel) setStatus(text string) tea.Cmd {
	m.status = text
	m.statSeq++
	seq := m.statSeq
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// =============================================================================
// VIEW
// =============================================================================

const sidebarWidth = 32

func (m *appModel) layout() {
	chatWidth := maxInt(20, m.width-sidebarWidth-2)
	paneHeight := maxInt(5, m.height-4)
	m.sidebar.SetSize(sidebarWidth, paneHeight)
	m.chatpane.SetSize(chatWidth, paneHeight)
	m.refresh()
}

func (m *appModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := m.viewHeader()
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), " ", m.chatpane.View())
	status := m.viewStatusBar()

	screen := lipgloss.JoinVertical(lipgloss.Left, header, body, status)

	if m.confirm != confirmNone {
		overlay := m.viewConfirm()
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
	}
	return screen
}

func (m *appModel) viewHeader() string {
	brand := m.theme.HeaderTitle.Render("luna.aura")
	sub := m.chatpane.Header(m.ctrl.Model())

	who := "signed out"
	if u := m.users.Current(); u != nil {
		who = u.Name
	}
	account := m.theme.HeaderSubtitle.Render(who)

	left := brand + "  " + sub
	gap := maxInt(1, m.width-lipgloss.Width(left)-lipgloss.Width(account)-2)
	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + account)
}

func (m *appModel) viewStatusBar() string {
	if m.status != "" {
		return m.theme.StatusBar.Width(m.width).Render(m.status)
	}

	shortcuts := []struct{ key, desc string }{
		{"tab", "focus"},
		{"^n", "new"},
		{"^f", "search"},
		{"^e", "export"},
		{"^g", "model"},
		{"^t", "theme"},
		{"^l", "clear"},
		{"^c", "quit"},
	}

	var parts []string
	for _, s := range shortcuts {
		parts = append(parts, m.theme.ShortcutKey.Render(s.key)+" "+m.theme.ShortcutDesc.Render(s.desc))
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m *appModel) viewConfirm() string {
	var title string
	switch m.confirm {
	case confirmDelete:
		title = "Delete this conversation?"
	case confirmClearAll:
		title = "Delete ALL conversations?"
	}

	yes := m.theme.ConfirmButton.Render("Yes")
	no := m.theme.ConfirmButtonActive.Render("No")
	if m.confirmYes {
		yes = m.theme.ConfirmButtonActive.Render("Yes")
		no = m.theme.ConfirmButton.Render("No")
	}

	body := m.theme.ConfirmTitle.Render(title) + "\n\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, yes, "  ", no)
	return m.theme.ConfirmBox.Render(body)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
