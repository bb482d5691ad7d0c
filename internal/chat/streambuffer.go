// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation controller state machine.
//
// This file implements fragment batching for smooth, flicker-free rendering
// during response streaming. The StreamBuffer coalesces fragments so the
// store and the UI see a few larger writes per second instead of one write
// per token.
package chat

import (
	"strings"
	"sync"
	"time"
)

// =============================================================================
// STREAM BUFFER
// =============================================================================

// StreamBuffer batches stream fragments. Fragments accumulate until either
// the batch size threshold is reached or enough time has passed since the
// last flush.
//
// Thread-safety: all operations are protected by a mutex since streaming
// happens in a goroutine while flushing happens elsewhere.
type StreamBuffer struct {
	mu            sync.Mutex
	buffer        strings.Builder
	fragmentCount int
	lastFlush     time.Time

	batchSize  int
	minFlushMs time.Duration
}

// NewStreamBuffer creates a buffer with default settings: 15 fragments per
// batch, flushes no more than ~30 times per second.
func NewStreamBuffer() *StreamBuffer {
	return NewStreamBufferWithConfig(15, 30)
}

// NewStreamBufferWithConfig creates a buffer with a custom batch size and
// maximum flush rate.
func NewStreamBufferWithConfig(batchSize, maxFPS int) *StreamBuffer {
	if batchSize <= 0 {
		batchSize = 15
	}
	if maxFPS <= 0 || maxFPS > 60 {
		maxFPS = 30
	}

	return &StreamBuffer{
		batchSize:  batchSize,
		minFlushMs: time.Duration(1000/maxFPS) * time.Millisecond,
		lastFlush:  time.Now(),
	}
}

// Write adds a fragment to the buffer.
func (sb *StreamBuffer) Write(fragment string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.buffer.WriteString(fragment)
	sb.fragmentCount++
}

// Flush returns accumulated content if either threshold has been reached.
// Returns ("", false) when there is nothing to flush yet.
func (sb *StreamBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if !sb.shouldFlushLocked() {
		return "", false
	}
	return sb.drainLocked()
}

// ForceFlush immediately returns all buffered content regardless of
// thresholds. Use when a stream completes so no fragment is left behind.
func (sb *StreamBuffer) ForceFlush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.drainLocked()
}

// Reset clears the buffer without flushing. Use when a stream is abandoned.
func (sb *StreamBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.buffer.Reset()
	sb.fragmentCount = 0
	sb.lastFlush = time.Now()
}

// Pending returns the number of fragments waiting to be flushed.
func (sb *StreamBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.fragmentCount
}

// shouldFlushLocked checks flush conditions. Caller must hold the lock.
func (sb *StreamBuffer) shouldFlushLocked() bool {
	if sb.buffer.Len() == 0 {
		return false
	}
	if sb.fragmentCount >= sb.batchSize {
		return true
	}
	return time.Since(sb.lastFlush) >= sb.minFlushMs
}

// drainLocked extracts buffered content and resets. Caller must hold the lock.
func (sb *StreamBuffer) drainLocked() (string, bool) {
	if sb.buffer.Len() == 0 {
		return "", false
	}

	content := sb.buffer.String()
	sb.buffer.Reset()
	sb.fragmentCount = 0
	sb.lastFlush = time.Now()
	return content, true
}
