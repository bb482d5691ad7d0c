// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the luna.aura TUI.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PALETTES
// =============================================================================

// Palette holds the raw colors for one theme. The Theme builds lipgloss
// styles out of these; nothing outside this package should need to touch
// colors directly.
type Palette struct {
	// Accents
	Accent     lipgloss.Color // brand purple, selections, the assistant
	AccentDim  lipgloss.Color
	UserAccent lipgloss.Color // user messages

	// Semantic
	Error   lipgloss.Color
	Success lipgloss.Color

	// Surfaces
	Surface       lipgloss.Color
	SurfaceBright lipgloss.Color
	Border        lipgloss.Color

	// Text
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextInverse   lipgloss.Color
}

// DarkPalette returns the default dark palette.
func DarkPalette() Palette {
	return Palette{
		Accent:     lipgloss.Color("#A78BFA"),
		AccentDim:  lipgloss.Color("#4C1D95"),
		UserAccent: lipgloss.Color("#22D3EE"),

		Error:   lipgloss.Color("#FB7185"),
		Success: lipgloss.Color("#34D399"),

		Surface:       lipgloss.Color("#1E1E2E"),
		SurfaceBright: lipgloss.Color("#313244"),
		Border:        lipgloss.Color("#45475A"),

		TextPrimary:   lipgloss.Color("#CDD6F4"),
		TextSecondary: lipgloss.Color("#A6ADC8"),
		TextMuted:     lipgloss.Color("#6C7086"),
		TextInverse:   lipgloss.Color("#1E1E2E"),
	}
}

// LightPalette returns the light palette.
func LightPalette() Palette {
	return Palette{
		Accent:     lipgloss.Color("#7C3AED"),
		AccentDim:  lipgloss.Color("#DDD6FE"),
		UserAccent: lipgloss.Color("#0891B2"),

		Error:   lipgloss.Color("#E11D48"),
		Success: lipgloss.Color("#059669"),

		Surface:       lipgloss.Color("#FFFFFF"),
		SurfaceBright: lipgloss.Color("#F5F5F5"),
		Border:        lipgloss.Color("#D4D4D4"),

		TextPrimary:   lipgloss.Color("#1F2937"),
		TextSecondary: lipgloss.Color("#6B7280"),
		TextMuted:     lipgloss.Color("#9CA3AF"),
		TextInverse:   lipgloss.Color("#FFFFFF"),
	}
}

// PaletteFor returns the palette for a theme name. Unknown names fall back
// to dark.
func PaletteFor(name string) Palette {
	if name == "light" {
		return LightPalette()
	}
	return DarkPalette()
}
