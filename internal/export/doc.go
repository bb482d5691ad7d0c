// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export provides conversation export functionality for luna.aura.
//
// Two formats are supported: plain text, where each message becomes a
// "ROLE: content" block separated by blank lines, and Markdown with an
// optional metadata frontmatter. Files are named after the conversation
// title with spaces replaced by underscores, and written atomically.
package export
