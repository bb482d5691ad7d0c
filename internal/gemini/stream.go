// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the HTTP client for the Gemini generation API.
package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
)

// =============================================================================
// STREAM READER
// =============================================================================

// ssePrefix marks a data line in a server-sent events stream.
var ssePrefix = []byte("data:")

// StreamReader handles line-by-line SSE parsing of a streaming response.
// Each "data:" line carries one JSON GenerateResponse event.
type StreamReader struct {
	reader *bufio.Reader
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	accumulator  strings.Builder
	chunkCount   int
	finishReason string
}

// NewStreamReader creates a new stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{
		reader: bufio.NewReader(r),
	}
}

// Process reads the stream and calls the callback for each chunk.
// A final chunk with Done set is delivered when the stream ends.
// Blocks until the stream is complete or the context is cancelled.
func (s *StreamReader) Process(ctx context.Context, callback StreamCallback) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			chunk, err := s.readChunk()
			if err != nil {
				if err == io.EOF {
					callback(StreamChunk{Done: true, FinishReason: s.finishReason})
					return nil
				}
				return err
			}

			if chunk != nil {
				callback(*chunk)
			}
		}
	}
}

// readChunk reads and parses a single SSE line from the stream.
// Returns nil, nil for lines that carry no content (blank separators,
// comments, malformed events).
func (s *StreamReader) readChunk() (*StreamChunk, error) {
	line, err := s.reader.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(bytes.TrimSpace(line)) == 0 {
			return nil, io.EOF
		}
		if len(line) == 0 {
			return nil, err
		}
	}

	line = bytes.TrimSpace(line)
	if !bytes.HasPrefix(line, ssePrefix) {
		return nil, nil
	}
	payload := bytes.TrimSpace(bytes.TrimPrefix(line, ssePrefix))
	if len(payload) == 0 {
		return nil, nil
	}

	var response GenerateResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		// Skip malformed events
		return nil, nil
	}

	text := response.Text()
	if text != "" {
		s.accumulator.WriteString(text)
		s.chunkCount++
	}
	if reason := response.FinishReason(); reason != "" {
		s.finishReason = reason
	}

	chunk := &StreamChunk{
		Text:         text,
		FinishReason: response.FinishReason(),
	}
	if response.UsageMetadata != nil {
		chunk.PromptTokens = response.UsageMetadata.PromptTokenCount
		chunk.CompletionTokens = response.UsageMetadata.CandidatesTokenCount
	}

	return chunk, nil
}

// Accumulated returns all text received so far.
func (s *StreamReader) Accumulated() string {
	return s.accumulator.String()
}

// ChunkCount returns the number of non-empty chunks received.
func (s *StreamReader) ChunkCount() int {
	return s.chunkCount
}

// =============================================================================
// STREAM ACCUMULATOR
// =============================================================================

// StreamAccumulator collects streaming chunks into a full reply.
type StreamAccumulator struct {
	// PERFORMANCE: strings.Builder avoids quadratic allocations
	content      strings.Builder
	finishReason string
	done         bool
	err          error
}

// NewStreamAccumulator creates a new accumulator.
func NewStreamAccumulator() *StreamAccumulator {
	return &StreamAccumulator{}
}

// Add processes a new chunk.
func (a *StreamAccumulator) Add(chunk StreamChunk) {
	if chunk.Error != nil {
		a.err = chunk.Error
		a.done = true
		return
	}

	a.content.WriteString(chunk.Text)
	if chunk.FinishReason != "" {
		a.finishReason = chunk.FinishReason
	}
	if chunk.Done {
		a.done = true
	}
}

// Content returns the accumulated text.
func (a *StreamAccumulator) Content() string {
	return a.content.String()
}

// IsDone returns whether streaming is complete.
func (a *StreamAccumulator) IsDone() bool {
	return a.done
}

// Err returns any error that occurred.
func (a *StreamAccumulator) Err() error {
	return a.err
}

// FinishReason returns the last finish reason seen.
func (a *StreamAccumulator) FinishReason() string {
	return a.finishReason
}
