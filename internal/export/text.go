// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/stech100/luna.aura/internal/model"
)

// =============================================================================
// TEXT EXPORTER
// =============================================================================

// TextExporter exports conversations to plain text. Each message becomes a
// "ROLE: content" block, with blank lines between messages. Pending messages
// are skipped since their content is not final.
type TextExporter struct{}

// NewTextExporter creates a new plain text exporter.
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Export converts a conversation to plain text.
func (e *TextExporter) Export(conv *model.Conversation) ([]byte, error) {
	if conv == nil {
		return nil, fmt.Errorf("conversation is nil")
	}

	blocks := make([]string, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		if msg.Pending {
			continue
		}
		label := strings.ToUpper(string(msg.Role))
		blocks = append(blocks, fmt.Sprintf("%s: %s", label, msg.Content))
	}

	return []byte(strings.Join(blocks, "\n\n") + "\n"), nil
}

// FileExtension returns the file extension for plain text.
func (e *TextExporter) FileExtension() string {
	return ".txt"
}

// MimeType returns the MIME type for plain text.
func (e *TextExporter) MimeType() string {
	return "text/plain"
}
