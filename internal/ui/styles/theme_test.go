// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestPaletteFor(t *testing.T) {
	if PaletteFor("light") != LightPalette() {
		t.Error("PaletteFor(light) should return the light palette")
	}
	if PaletteFor("dark") != DarkPalette() {
		t.Error("PaletteFor(dark) should return the dark palette")
	}
	if PaletteFor("bogus") != DarkPalette() {
		t.Error("unknown theme names should fall back to dark")
	}
}

func TestNewTheme(t *testing.T) {
	dark := NewTheme("dark")
	if dark.Name != "dark" {
		t.Errorf("Name = %q, want dark", dark.Name)
	}
	if dark.GlamourStyle() != "dark" {
		t.Errorf("GlamourStyle = %q, want dark", dark.GlamourStyle())
	}

	light := NewTheme("light")
	if light.GlamourStyle() != "light" {
		t.Errorf("GlamourStyle = %q, want light", light.GlamourStyle())
	}
	if light.Palette.Surface == dark.Palette.Surface {
		t.Error("light and dark themes should use different surfaces")
	}
}
