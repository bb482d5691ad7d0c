// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation controller state machine.
//
// The Controller owns the send pipeline: validate the message, append it
// with an empty pending reply, stream fragments from the backend, and fold
// them into the store keyed by conversation ID. Because updates are keyed
// rather than positional, streams keep landing in the right conversation
// while the user browses others, and a stream whose conversation was
// deleted fades out as a series of no-ops.
//
// # Phases
//
// Each conversation is in exactly one phase:
//
//	Idle -> Sending -> Streaming -> Idle
//
// A conversation that is not Idle refuses new sends with ErrBusy. The
// phase map is the single source of truth for busyness; the UI only
// reflects it.
package chat
