// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry records diagnostics events to a local log file.
package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// =============================================================================
// EVENT LOG
// =============================================================================

// Event is one diagnostics record, serialized as a JSON line.
type Event struct {
	Time   time.Time         `json:"time"`
	Type   string            `json:"type"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Logger appends diagnostics events to a JSON-lines file.
//
// Events stay on the local machine. A nil *Logger is valid and drops all
// events, so callers never need to guard their Record calls.
type Logger struct {
	mu   sync.Mutex
	path string
}

// NewLogger creates a logger writing to the given file.
func NewLogger(path string) *Logger {
	return &Logger{path: path}
}

// DefaultPath returns the standard event log location under the user's
// home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".luna-aura", "events.log"), nil
}

// Record appends one event. Failures are swallowed: diagnostics must never
// take the application down with them.
func (l *Logger) Record(eventType string, fields map[string]string) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	event := Event{
		Time:   time.Now(),
		Type:   eventType,
		Fields: fields,
	}

	line, err := json.Marshal(event)
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	f.Write(append(line, '\n'))
}

// Path returns the log file location.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}
