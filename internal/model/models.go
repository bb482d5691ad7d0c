// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// ModelInfo describes a selectable Gemini model.
type ModelInfo struct {
	ID          string
	DisplayName string
	Description string
}

// supportedModels is the fixed set of models the client can talk to.
// Order matters: the UI cycles through the slice in this order.
var supportedModels = []ModelInfo{
	{
		ID:          "gemini-2.5-flash",
		DisplayName: "Gemini 2.5 Flash",
		Description: "Fast, balanced model for everyday chat",
	},
	{
		ID:          "gemini-2.5-flash-lite",
		DisplayName: "Gemini 2.5 Flash Lite",
		Description: "Lowest latency, lightweight replies",
	},
	{
		ID:          "gemini-2.5-pro",
		DisplayName: "Gemini 2.5 Pro",
		Description: "Strongest reasoning, slower and pricier",
	},
}

// SupportedModels returns the selectable models in display order.
func SupportedModels() []ModelInfo {
	out := make([]ModelInfo, len(supportedModels))
	copy(out, supportedModels)
	return out
}

// IsSupported reports whether id names a known model.
func IsSupported(id string) bool {
	for _, m := range supportedModels {
		if m.ID == id {
			return true
		}
	}
	return false
}

// NextModel returns the model following id in display order, wrapping
// around. Unknown ids map to the default model.
func NextModel(id string) string {
	for i, m := range supportedModels {
		if m.ID == id {
			return supportedModels[(i+1)%len(supportedModels)].ID
		}
	}
	return DefaultModel
}
