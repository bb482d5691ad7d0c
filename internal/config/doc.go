// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for luna.aura.
//
// Configuration is a small TOML file at ~/.luna-aura/config.toml holding
// preferences: the theme, the default Gemini model, the API key and the
// export directory. Saves are atomic and the file can be watched for
// external edits with Watch.
//
// Environment variables override the file: GEMINI_API_KEY, AURA_MODEL,
// AURA_THEME and AURA_BASE_URL.
package config
