// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the luna.aura TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application, built from a
// named palette. Construct a new one when the user toggles themes.
type Theme struct {
	// Name is "dark" or "light".
	Name string

	// Terminal capabilities
	ColorProfile termenv.Profile
	HasTrueColor bool

	Palette Palette

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar          lipgloss.Style
	SidebarFocused   lipgloss.Style
	SidebarTitle     lipgloss.Style
	ConvItem         lipgloss.Style
	ConvItemSelected lipgloss.Style
	ConvItemActive   lipgloss.Style
	ConvMeta         lipgloss.Style
	SearchPrompt     lipgloss.Style
	SearchNoResults  lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel   lipgloss.Style
	ModelLabel  lipgloss.Style
	UserBubble  lipgloss.Style
	ModelBubble lipgloss.Style
	PendingText lipgloss.Style
	ErrorText   lipgloss.Style
	MessageMeta lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer        lipgloss.Style
	InputContainerFocused lipgloss.Style
	InputPrompt           lipgloss.Style
	Spinner               lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// OVERLAY STYLES
	// ==========================================================================

	ConfirmBox          lipgloss.Style
	ConfirmTitle        lipgloss.Style
	ConfirmButton       lipgloss.Style
	ConfirmButtonActive lipgloss.Style
}

// NewTheme creates a theme for the given name ("dark" or "light").
func NewTheme(name string) *Theme {
	colorProfile := termenv.ColorProfile()
	p := PaletteFor(name)

	t := &Theme{
		Name:         name,
		ColorProfile: colorProfile,
		HasTrueColor: colorProfile == termenv.TrueColor,
		Palette:      p,
	}

	// Header
	t.Header = lipgloss.NewStyle().
		Padding(0, 1).
		Background(p.SurfaceBright)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)
	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)
	t.SidebarFocused = t.Sidebar.
		BorderForeground(p.Accent)
	t.SidebarTitle = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Bold(true)
	t.ConvItem = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Padding(0, 1)
	t.ConvItemSelected = lipgloss.NewStyle().
		Foreground(p.TextInverse).
		Background(p.Accent).
		Padding(0, 1).
		Bold(true)
	t.ConvItemActive = lipgloss.NewStyle().
		Foreground(p.Accent).
		Padding(0, 1).
		Bold(true)
	t.ConvMeta = lipgloss.NewStyle().
		Foreground(p.TextMuted)
	t.SearchPrompt = lipgloss.NewStyle().
		Foreground(p.UserAccent)
	t.SearchNoResults = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true).
		Padding(1, 1)

	// Messages
	t.UserLabel = lipgloss.NewStyle().
		Foreground(p.UserAccent).
		Bold(true)
	t.ModelLabel = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)
	t.UserBubble = lipgloss.NewStyle().
		Foreground(p.TextPrimary).
		PaddingLeft(2)
	t.ModelBubble = lipgloss.NewStyle().
		Foreground(p.TextPrimary).
		PaddingLeft(2)
	t.PendingText = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		PaddingLeft(2)
	t.ErrorText = lipgloss.NewStyle().
		Foreground(p.Error).
		PaddingLeft(2)
	t.MessageMeta = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)
	t.InputContainerFocused = t.InputContainer.
		BorderForeground(p.UserAccent)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(p.UserAccent).
		Bold(true)
	t.Spinner = lipgloss.NewStyle().
		Foreground(p.Accent)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Background(p.SurfaceBright).
		Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Overlays
	t.ConfirmBox = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(p.Error).
		Padding(1, 2)
	t.ConfirmTitle = lipgloss.NewStyle().
		Foreground(p.TextPrimary).
		Bold(true)
	t.ConfirmButton = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Padding(0, 2)
	t.ConfirmButtonActive = lipgloss.NewStyle().
		Foreground(p.TextInverse).
		Background(p.Error).
		Padding(0, 2).
		Bold(true)

	return t
}

// GlamourStyle returns the glamour standard style name matching the theme.
func (t *Theme) GlamourStyle() string {
	if t.Name == "light" {
		return "light"
	}
	return "dark"
}
