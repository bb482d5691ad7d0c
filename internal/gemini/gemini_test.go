// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini provides the HTTP client for the Gemini generation API.
package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseEvent formats a single SSE data line.
func sseEvent(json string) string {
	return "data: " + json + "\n\n"
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&ClientConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
	})
}

// =============================================================================
// STREAM READER TESTS
// =============================================================================

func TestStreamReader_ParsesEvents(t *testing.T) {
	body := sseEvent(`{"candidates":[{"content":{"parts":[{"text":"Hello"}],"role":"model"}}]}`) +
		sseEvent(`{"candidates":[{"content":{"parts":[{"text":", world"}],"role":"model"},"finishReason":"STOP"}]}`)

	reader := NewStreamReader(strings.NewReader(body))

	var chunks []StreamChunk
	err := reader.Process(context.Background(), func(c StreamChunk) {
		chunks = append(chunks, c)
	})
	require.NoError(t, err)

	require.Len(t, chunks, 3)
	assert.Equal(t, "Hello", chunks[0].Text)
	assert.Equal(t, ", world", chunks[1].Text)
	assert.Equal(t, "STOP", chunks[1].FinishReason)
	assert.True(t, chunks[2].Done)
	assert.Equal(t, "STOP", chunks[2].FinishReason)
	assert.Equal(t, "Hello, world", reader.Accumulated())
	assert.Equal(t, 2, reader.ChunkCount())
}

func TestStreamReader_SkipsNonDataLines(t *testing.T) {
	body := ": comment\n\n" +
		sseEvent(`{"candidates":[{"content":{"parts":[{"text":"ok"}],"role":"model"}}]}`) +
		"data: not-json\n\n"

	reader := NewStreamReader(strings.NewReader(body))

	var texts []string
	err := reader.Process(context.Background(), func(c StreamChunk) {
		if c.Text != "" {
			texts = append(texts, c.Text)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, texts)
}

func TestStreamReader_MultiPartCandidate(t *testing.T) {
	body := sseEvent(`{"candidates":[{"content":{"parts":[{"text":"a"},{"text":"b"}],"role":"model"}}]}`)

	reader := NewStreamReader(strings.NewReader(body))
	var got string
	err := reader.Process(context.Background(), func(c StreamChunk) {
		got += c.Text
	})
	require.NoError(t, err)
	assert.Equal(t, "ab", got)
}

func TestStreamReader_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := NewStreamReader(strings.NewReader(sseEvent(`{}`)))
	err := reader.Process(ctx, func(StreamChunk) {})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStreamReader_UsageMetadata(t *testing.T) {
	body := sseEvent(`{"candidates":[{"content":{"parts":[{"text":"x"}],"role":"model"}}],"usageMetadata":{"promptTokenCount":7,"candidatesTokenCount":3}}`)

	reader := NewStreamReader(strings.NewReader(body))
	var chunks []StreamChunk
	err := reader.Process(context.Background(), func(c StreamChunk) {
		chunks = append(chunks, c)
	})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, 7, chunks[0].PromptTokens)
	assert.Equal(t, 3, chunks[0].CompletionTokens)
}

// =============================================================================
// CLIENT TESTS
// =============================================================================

func TestGenerateStream_SendsRequest(t *testing.T) {
	var gotPath, gotKey, gotQuery string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sseEvent(`{"candidates":[{"content":{"parts":[{"text":"hi"}],"role":"model"},"finishReason":"STOP"}]}`)))
	})

	contents := []Content{{Role: "user", Parts: []Part{{Text: "hello"}}}}
	acc := NewStreamAccumulator()
	err := client.GenerateStream(context.Background(), "gemini-2.5-flash", contents, acc.Add)

	require.NoError(t, err)
	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:streamGenerateContent", gotPath)
	assert.Equal(t, "alt=sse", gotQuery)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "hi", acc.Content())
	assert.True(t, acc.IsDone())
	assert.Equal(t, "STOP", acc.FinishReason())
}

func TestGenerateStream_APIError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	})

	err := client.GenerateStream(context.Background(), "gemini-2.5-flash", nil, func(StreamChunk) {})

	require.Error(t, err)
	assert.True(t, IsAPIError(err))
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGenerateStreamChan_ConstructionNeverFails(t *testing.T) {
	// Point at a closed port. The channel must still be handed back and the
	// failure must arrive as an error chunk on first receive.
	client := NewClient(&ClientConfig{
		BaseURL: "http://127.0.0.1:1",
		APIKey:  "k",
	})

	ch := client.GenerateStreamChan(context.Background(), "gemini-2.5-flash", nil)
	require.NotNil(t, ch)

	chunk, ok := <-ch
	require.True(t, ok)
	require.Error(t, chunk.Error)
	assert.True(t, chunk.Done)
	assert.True(t, IsUnavailable(chunk.Error))

	_, open := <-ch
	assert.False(t, open, "channel should close after the error chunk")
}

func TestGenerateStreamChan_DeliversChunksInOrder(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(
			sseEvent(`{"candidates":[{"content":{"parts":[{"text":"one "}],"role":"model"}}]}`) +
				sseEvent(`{"candidates":[{"content":{"parts":[{"text":"two "}],"role":"model"}}]}`) +
				sseEvent(`{"candidates":[{"content":{"parts":[{"text":"three"}],"role":"model"},"finishReason":"STOP"}]}`)))
	})

	ch := client.GenerateStreamChan(context.Background(), "gemini-2.5-flash", nil)

	acc := NewStreamAccumulator()
	for chunk := range ch {
		acc.Add(chunk)
	}

	require.NoError(t, acc.Err())
	assert.Equal(t, "one two three", acc.Content())
	assert.True(t, acc.IsDone())
}

func TestGenerateStreamChan_ContextCancel(t *testing.T) {
	release := make(chan struct{})
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sseEvent(`{"candidates":[{"content":{"parts":[{"text":"start"}],"role":"model"}}]}`)))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	ch := client.GenerateStreamChan(ctx, "gemini-2.5-flash", nil)

	chunk := <-ch
	assert.Equal(t, "start", chunk.Text)

	cancel()

	// The goroutine must shut the channel down promptly after cancellation.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, open := <-ch:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after context cancellation")
		}
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(nil)
	cfg := client.Config()
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)

	client = NewClient(&ClientConfig{APIKey: "k"})
	assert.Equal(t, DefaultBaseURL, client.Config().BaseURL)
	assert.Equal(t, "k", client.Config().APIKey)
}
