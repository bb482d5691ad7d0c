// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the luna.aura TUI.
//
// A Theme is built from a named Palette ("dark" or "light") and holds every
// lipgloss style the UI needs. Theme switching is just constructing a new
// Theme and handing it to the components; styles are never mutated in place.
package styles
