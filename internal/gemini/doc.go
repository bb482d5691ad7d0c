// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the HTTP client for the Gemini generation API.
//
// The client speaks the streamGenerateContent endpoint over server-sent
// events. Responses arrive as a sequence of StreamChunk values, either
// through a synchronous callback (GenerateStream) or a channel
// (GenerateStreamChan).
//
// # Error Model
//
// Building a stream never fails. Errors of any kind, from an unreachable
// host to an API rejection, surface as a chunk with Error set when the
// stream is first consumed. Callers classify them with IsTimeout,
// IsUnavailable and IsAPIError.
package gemini
