// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation controller state machine.
package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stech100/luna.aura/internal/gemini"
	"github.com/stech100/luna.aura/internal/model"
	"github.com/stech100/luna.aura/internal/store"
)

// fakeStreamer plays back a scripted chunk sequence.
type fakeStreamer struct {
	chunks       []gemini.StreamChunk
	lastModel    string
	lastContents []gemini.Content
}

func (f *fakeStreamer) GenerateStreamChan(ctx context.Context, modelID string, contents []gemini.Content) <-chan gemini.StreamChunk {
	f.lastModel = modelID
	f.lastContents = contents

	ch := make(chan gemini.StreamChunk)
	go func() {
		defer close(ch)
		for _, chunk := range f.chunks {
			select {
			case ch <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func textChunk(text string) gemini.StreamChunk {
	return gemini.StreamChunk{Text: text}
}

func doneChunk() gemini.StreamChunk {
	return gemini.StreamChunk{Done: true, FinishReason: "STOP"}
}

func newTestController(chunks ...gemini.StreamChunk) (*Controller, *store.Store, *fakeStreamer) {
	st := store.New()
	streamer := &fakeStreamer{chunks: chunks}
	return NewController(st, streamer, nil), st, streamer
}

// =============================================================================
// SEND VALIDATION
// =============================================================================

func TestSend_EmptyMessageRefused(t *testing.T) {
	ctrl, st, _ := newTestController()
	convID := st.ActiveID()

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"newlines and tabs", "\n\t "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := ctrl.Send(convID, tc.text)
			if !errors.Is(err, ErrEmptyMessage) {
				t.Errorf("Send(%q) error = %v, want ErrEmptyMessage", tc.text, err)
			}
			if req != nil {
				t.Error("refused send should not return a request")
			}
		})
	}

	if got := st.Get(convID).MessageCount(); got != 0 {
		t.Errorf("refused sends wrote %d messages to the store", got)
	}
	if ctrl.Busy(convID) {
		t.Error("refused send should leave the conversation idle")
	}
}

func TestSend_BusyConversationRefused(t *testing.T) {
	ctrl, st, _ := newTestController()
	convID := st.ActiveID()

	if _, err := ctrl.Send(convID, "first"); err != nil {
		t.Fatalf("first Send failed: %v", err)
	}

	_, err := ctrl.Send(convID, "second while busy")
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("second Send error = %v, want ErrBusy", err)
	}

	// Only the first send's two messages should be present.
	if got := st.Get(convID).MessageCount(); got != 2 {
		t.Errorf("MessageCount() = %d, want 2", got)
	}
}

func TestSend_UnknownConversation(t *testing.T) {
	ctrl, _, _ := newTestController()

	_, err := ctrl.Send("conv_missing", "hello")
	if !errors.Is(err, ErrUnknownConversation) {
		t.Errorf("Send to missing conversation error = %v, want ErrUnknownConversation", err)
	}
	if ctrl.Busy("conv_missing") {
		t.Error("failed send must not leave a stuck phase entry")
	}
}

func TestSend_AppendsUserAndPlaceholder(t *testing.T) {
	ctrl, st, _ := newTestController()
	convID := st.ActiveID()

	req, err := ctrl.Send(convID, "  hello world  ")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	conv := st.Get(convID)
	if conv.MessageCount() != 2 {
		t.Fatalf("MessageCount() = %d, want 2", conv.MessageCount())
	}
	if conv.Messages[0].Role != model.RoleUser || conv.Messages[0].Content != "hello world" {
		t.Errorf("user message = %+v, want trimmed 'hello world'", conv.Messages[0])
	}
	if conv.Messages[1].Role != model.RoleModel || !conv.Messages[1].Pending {
		t.Error("second message should be a pending model placeholder")
	}
	if req.MessageID != conv.Messages[1].ID {
		t.Error("request should target the placeholder message")
	}

	// The history snapshot carries the user message but not the empty
	// placeholder.
	if len(req.Contents) != 1 || req.Contents[0].Role != "user" {
		t.Errorf("request contents = %+v", req.Contents)
	}
}

func TestSend_TitleFromFirstMessage(t *testing.T) {
	ctrl, st, _ := newTestController()
	convID := st.ActiveID()

	if _, err := ctrl.Send(convID, "Tell me about lighthouses"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if got := st.Get(convID).Title; got != "Tell me about lighthouses" {
		t.Errorf("title = %q", got)
	}
}

// =============================================================================
// STREAMING
// =============================================================================

func TestStream_FragmentConcatenation(t *testing.T) {
	ctrl, st, streamer := newTestController(
		textChunk("Hel"),
		textChunk("lo"),
		textChunk(" there"),
		doneChunk(),
	)
	convID := st.ActiveID()

	req, err := ctrl.Send(convID, "hi")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if err := ctrl.Stream(context.Background(), req, nil); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	reply := st.Get(convID).MessageByID(req.MessageID)
	if reply == nil {
		t.Fatal("reply message missing")
	}
	if reply.Pending {
		t.Error("reply should be finalized")
	}
	if reply.Content != "Hello there" {
		t.Errorf("reply content = %q, want %q", reply.Content, "Hello there")
	}
	if ctrl.Busy(convID) {
		t.Error("conversation should be idle after stream completes")
	}
	if streamer.lastModel != model.DefaultModel {
		t.Errorf("streamed with model %q, want default", streamer.lastModel)
	}
}

func TestStream_ErrorReplacesPartialWithApology(t *testing.T) {
	streamErr := &gemini.ClientError{Type: gemini.ErrTypeConnection, Message: "connection reset"}
	ctrl, st, _ := newTestController(
		textChunk("partial answer in prog"),
		gemini.StreamChunk{Error: streamErr, Done: true},
	)
	convID := st.ActiveID()

	req, err := ctrl.Send(convID, "hi")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	err = ctrl.Stream(context.Background(), req, nil)
	if err == nil {
		t.Fatal("Stream should surface the error")
	}

	reply := st.Get(convID).MessageByID(req.MessageID)
	if reply.Content != Apology {
		t.Errorf("reply content = %q, want apology", reply.Content)
	}
	if reply.Pending {
		t.Error("failed reply should not stay pending")
	}
	if ctrl.Busy(convID) {
		t.Error("conversation should return to idle after a failure")
	}
}

func TestStream_ErrorOnFirstChunk(t *testing.T) {
	ctrl, st, _ := newTestController(
		gemini.StreamChunk{Error: gemini.ErrUnavailable, Done: true},
	)
	convID := st.ActiveID()

	req, err := ctrl.Send(convID, "hi")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if err := ctrl.Stream(context.Background(), req, nil); !gemini.IsUnavailable(err) {
		t.Errorf("Stream error = %v, want unavailable", err)
	}
	if got := st.Get(convID).MessageByID(req.MessageID).Content; got != Apology {
		t.Errorf("reply content = %q, want apology", got)
	}
}

func TestStream_DeletedConversationIsSilent(t *testing.T) {
	ctrl, st, _ := newTestController(
		textChunk("landing nowhere"),
		doneChunk(),
	)
	doomed := st.Create()

	req, err := ctrl.Send(doomed.ID, "hi")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	st.Delete(doomed.ID)
	survivorID := st.ActiveID()

	if err := ctrl.Stream(context.Background(), req, nil); err != nil {
		t.Fatalf("Stream into deleted conversation errored: %v", err)
	}

	// Nothing anywhere should have picked up the stray fragments.
	if st.Get(doomed.ID) != nil {
		t.Error("deleted conversation reappeared")
	}
	if got := st.Get(survivorID).MessageCount(); got != 0 {
		t.Errorf("survivor conversation gained %d messages", got)
	}
	if ctrl.Busy(doomed.ID) {
		t.Error("phase entry should be cleared")
	}
}

func TestStream_FailureScopedToOneConversation(t *testing.T) {
	st := store.New()
	healthy := st.ActiveID()
	broken := st.Create()

	// First stream succeeds, second fails.
	okStreamer := &fakeStreamer{chunks: []gemini.StreamChunk{textChunk("fine"), doneChunk()}}
	ctrl := NewController(st, okStreamer, nil)

	reqOK, err := ctrl.Send(healthy, "hello")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := ctrl.Stream(context.Background(), reqOK, nil); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	okStreamer.chunks = []gemini.StreamChunk{{Error: gemini.ErrTimeout, Done: true}}
	reqBad, err := ctrl.Send(broken.ID, "hello")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := ctrl.Stream(context.Background(), reqBad, nil); err == nil {
		t.Fatal("expected stream failure")
	}

	if got := st.Get(healthy).MessageByID(reqOK.MessageID).Content; got != "fine" {
		t.Errorf("healthy conversation content = %q, want untouched reply", got)
	}
	if got := st.Get(broken.ID).MessageByID(reqBad.MessageID).Content; got != Apology {
		t.Errorf("broken conversation content = %q, want apology", got)
	}
}

func TestStream_TruncatedStreamFails(t *testing.T) {
	// Channel closes without a Done chunk.
	ctrl, st, _ := newTestController(textChunk("cut off mid-"))
	convID := st.ActiveID()

	req, err := ctrl.Send(convID, "hi")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if err := ctrl.Stream(context.Background(), req, nil); err == nil {
		t.Fatal("truncated stream should be treated as a failure")
	}
	if got := st.Get(convID).MessageByID(req.MessageID).Content; got != Apology {
		t.Errorf("reply content = %q, want apology", got)
	}
}

func TestStream_OnUpdateInvoked(t *testing.T) {
	ctrl, st, _ := newTestController(textChunk("hello"), doneChunk())
	convID := st.ActiveID()

	req, err := ctrl.Send(convID, "hi")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	updates := 0
	if err := ctrl.Stream(context.Background(), req, func() { updates++ }); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if updates == 0 {
		t.Error("onUpdate was never invoked")
	}
}

func TestStream_ConversationIdleAgainAcceptsNextSend(t *testing.T) {
	ctrl, st, streamer := newTestController(textChunk("one"), doneChunk())
	convID := st.ActiveID()

	req, err := ctrl.Send(convID, "first")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := ctrl.Stream(context.Background(), req, nil); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	streamer.chunks = []gemini.StreamChunk{textChunk("two"), doneChunk()}
	req2, err := ctrl.Send(convID, "second")
	if err != nil {
		t.Fatalf("Send after completed stream failed: %v", err)
	}
	if err := ctrl.Stream(context.Background(), req2, nil); err != nil {
		t.Fatalf("second Stream failed: %v", err)
	}

	conv := st.Get(convID)
	if conv.MessageCount() != 4 {
		t.Errorf("MessageCount() = %d, want 4", conv.MessageCount())
	}

	// History snapshot for the second send includes the whole first round.
	if len(req2.Contents) != 3 {
		t.Errorf("second request history length = %d, want 3", len(req2.Contents))
	}
}

// =============================================================================
// MODEL SELECTION
// =============================================================================

func TestSetModel(t *testing.T) {
	ctrl, st, streamer := newTestController(doneChunk())

	if err := ctrl.SetModel("gemini-2.5-pro"); err != nil {
		t.Fatalf("SetModel failed: %v", err)
	}
	if err := ctrl.SetModel("not-a-model"); !errors.Is(err, ErrUnsupportedModel) {
		t.Errorf("SetModel(bad) error = %v, want ErrUnsupportedModel", err)
	}
	if got := ctrl.Model(); got != "gemini-2.5-pro" {
		t.Errorf("Model() = %q, rejected model must not stick", got)
	}

	req, err := ctrl.Send(st.ActiveID(), "hi")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if err := ctrl.Stream(context.Background(), req, nil); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if streamer.lastModel != "gemini-2.5-pro" {
		t.Errorf("streamed with %q, want selected model", streamer.lastModel)
	}
}
