// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types used throughout the application
// for representing chat conversations, messages, and model information.
//
// # Key Types
//
//   - Conversation: Container for a chat session with messages and metadata
//   - Message: Single message with role, content, timestamp, and pending state
//   - ModelInfo: Information about a selectable Gemini model
//   - Role: Message role enumeration (user, model)
//
// # Usage
//
// Create a new conversation and send a message:
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("Hello!")
//	reply := conv.AddPendingMessage()
//	reply.AppendFragment("Hi ")
//	reply.AppendFragment("there!")
//	reply.Finalize()
package model
