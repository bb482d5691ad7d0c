// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the in-memory conversation store and selection policy.
//
// The store keeps conversations newest first and guarantees there is always
// at least one conversation with a valid active selection. Deleting the
// active conversation falls back to its previous neighbor, deleting the
// last one replaces it, and ClearAll resets to a single fresh conversation.
//
// Conversations live only for the lifetime of the process. The one piece of
// state that survives restarts is the user preference file handled by the
// config package.
package store
