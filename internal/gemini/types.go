// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the HTTP client for the Gemini generation API.
package gemini

// =============================================================================
// REQUEST TYPES
// =============================================================================

// Part is a single piece of message content.
type Part struct {
	Text string `json:"text"`
}

// Content represents one turn of the conversation in wire format.
type Content struct {
	Role  string `json:"role"` // "user" or "model"
	Parts []Part `json:"parts"`
}

// GenerateRequest is the request body for the streamGenerateContent endpoint.
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// GenerateResponse is one decoded SSE event from streamGenerateContent.
type GenerateResponse struct {
	Candidates    []Candidate    `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
	ModelVersion  string         `json:"modelVersion,omitempty"`
}

// Candidate is one generated reply variant. The API returns a single
// candidate unless configured otherwise.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
	Index        int     `json:"index,omitempty"`
}

// UsageMetadata carries token accounting from the final event.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount,omitempty"`
	CandidatesTokenCount int `json:"candidatesTokenCount,omitempty"`
	TotalTokenCount      int `json:"totalTokenCount,omitempty"`
}

// Text returns the concatenated text parts of the first candidate.
func (r *GenerateResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

// FinishReason returns the finish reason of the first candidate, if any.
func (r *GenerateResponse) FinishReason() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	return r.Candidates[0].FinishReason
}

// =============================================================================
// STREAMING TYPES
// =============================================================================

// StreamChunk represents a single chunk from the streaming response.
type StreamChunk struct {
	// Text fragment from this chunk.
	Text string

	// Done is true on the final chunk of the stream.
	Done bool

	// FinishReason from the API, populated on the final content chunk
	// (e.g. "STOP", "MAX_TOKENS", "SAFETY").
	FinishReason string

	// Token counts, populated when the API reports usage.
	PromptTokens     int
	CompletionTokens int

	// Error if any occurred during streaming.
	Error error
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// APIError is the error body returned by the Gemini API.
type APIError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
