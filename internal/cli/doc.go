// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses command line arguments for luna.aura.
//
// The surface is deliberately small: the TUI is the default command, with
// version and help alongside it, plus a few session override flags.
package cli
