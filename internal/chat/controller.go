// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the conversation controller state machine.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/stech100/luna.aura/internal/gemini"
	"github.com/stech100/luna.aura/internal/model"
	"github.com/stech100/luna.aura/internal/store"
	"github.com/stech100/luna.aura/internal/telemetry"
)

// Apology replaces a model reply whose stream failed. Partial content is
// discarded, never shown alongside it.
const Apology = "Sorry, I encountered an error."

// Validation errors returned by Send. They mean the message was refused and
// nothing was written to the store.
var (
	ErrEmptyMessage        = errors.New("message is empty")
	ErrBusy                = errors.New("conversation already has a reply in flight")
	ErrUnknownConversation = errors.New("conversation does not exist")
	ErrUnsupportedModel    = errors.New("model is not supported")
)

// =============================================================================
// PHASES
// =============================================================================

// Phase is the streaming state of a single conversation.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSending
	PhaseStreaming
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseSending:
		return "sending"
	case PhaseStreaming:
		return "streaming"
	default:
		return "idle"
	}
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Streamer produces a lazy chunk sequence for a generation request.
// *gemini.Client satisfies it; tests substitute scripted streams.
type Streamer interface {
	GenerateStreamChan(ctx context.Context, model string, contents []gemini.Content) <-chan gemini.StreamChunk
}

// StreamRequest carries everything needed to run one reply stream: the
// target conversation and placeholder message, plus a snapshot of the
// history taken at send time.
type StreamRequest struct {
	ConversationID string
	MessageID      string
	Model          string
	Contents       []gemini.Content
}

// Controller runs the send pipeline for conversations.
//
// Each conversation moves Idle -> Sending -> Streaming -> Idle, tracked in a
// phase map guarded by a mutex. The guard lives here rather than in the UI
// so a busy conversation refuses a second send no matter where the attempt
// comes from. Distinct conversations stream independently.
type Controller struct {
	store    *store.Store
	streamer Streamer
	events   *telemetry.Logger

	mu      sync.Mutex
	phases  map[string]Phase
	modelID string
}

// NewController creates a controller over the given store and streamer.
// events may be nil.
func NewController(st *store.Store, streamer Streamer, events *telemetry.Logger) *Controller {
	return &Controller{
		store:    st,
		streamer: streamer,
		events:   events,
		phases:   make(map[string]Phase),
		modelID:  model.DefaultModel,
	}
}

// Model returns the model used for new sends.
func (c *Controller) Model() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modelID
}

// SetModel switches the model used for new sends. Unknown models are
// refused; in-flight streams keep the model they started with.
func (c *Controller) SetModel(id string) error {
	if !model.IsSupported(id) {
		return ErrUnsupportedModel
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modelID = id
	return nil
}

// Phase returns the streaming phase of a conversation.
func (c *Controller) Phase(convID string) Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phases[convID]
}

// Busy reports whether a conversation has a send or stream in flight.
func (c *Controller) Busy(convID string) bool {
	return c.Phase(convID) != PhaseIdle
}

// =============================================================================
// SEND PIPELINE
// =============================================================================

// Send validates and commits a user message, returning the request for the
// reply stream. The message text is trimmed and NFC-normalized first. A
// message that trims to empty is refused with ErrEmptyMessage; a
// conversation with a reply already in flight is refused with ErrBusy. On
// success the user message and an empty pending reply are already appended
// to the conversation when Send returns.
func (c *Controller) Send(convID, text string) (*StreamRequest, error) {
	cleaned := norm.NFC.String(strings.TrimSpace(text))
	if cleaned == "" {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.phases[convID] != PhaseIdle {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.phases[convID] = PhaseSending
	modelID := c.modelID
	c.mu.Unlock()

	var req *StreamRequest
	c.store.Update(convID, func(conv *model.Conversation) {
		conv.AddUserMessage(cleaned)
		placeholder := conv.AddPendingMessage()
		req = &StreamRequest{
			ConversationID: convID,
			MessageID:      placeholder.ID,
			Model:          modelID,
			Contents:       conv.ToContents(),
		}
	})

	if req == nil {
		// The conversation vanished between the phase check and the write.
		c.clearPhase(convID)
		return nil, ErrUnknownConversation
	}

	return req, nil
}

// Stream consumes the reply stream for a request and folds it into the
// store, batching fragments through a StreamBuffer. onUpdate, if not nil,
// is invoked after every store write so the UI can refresh.
//
// On a clean finish the pending reply is finalized with the accumulated
// text. On any error the reply's partial content is replaced with Apology
// and the error is returned; other conversations are unaffected. Either
// way the conversation returns to Idle.
func (c *Controller) Stream(ctx context.Context, req *StreamRequest, onUpdate func()) error {
	c.setPhase(req.ConversationID, PhaseStreaming)
	defer c.clearPhase(req.ConversationID)

	notify := func() {
		if onUpdate != nil {
			onUpdate()
		}
	}

	buf := NewStreamBuffer()
	done := false

	for chunk := range c.streamer.GenerateStreamChan(ctx, req.Model, req.Contents) {
		if chunk.Error != nil {
			c.fail(req, chunk.Error)
			notify()
			return chunk.Error
		}

		if chunk.Text != "" {
			buf.Write(chunk.Text)
			if content, ok := buf.Flush(); ok {
				c.append(req, content)
				notify()
			}
		}

		if chunk.Done {
			done = true
			if content, ok := buf.ForceFlush(); ok {
				c.append(req, content)
			}
			c.finalize(req)
			notify()
		}
	}

	if !done {
		// The channel closed without completing, e.g. the context was
		// cancelled mid-stream. Treat it like any other stream failure.
		err := ctx.Err()
		if err == nil {
			err = gemini.ErrUnavailable
		}
		c.fail(req, err)
		notify()
		return err
	}

	return nil
}

// =============================================================================
// FOLDING
// =============================================================================

// append folds a batch of fragments into the pending reply. If the
// conversation was deleted meanwhile this is a silent no-op.
func (c *Controller) append(req *StreamRequest, text string) {
	c.store.Update(req.ConversationID, func(conv *model.Conversation) {
		if msg := conv.MessageByID(req.MessageID); msg != nil {
			msg.AppendFragment(text)
		}
	})
}

// finalize marks the pending reply complete.
func (c *Controller) finalize(req *StreamRequest) {
	c.store.Update(req.ConversationID, func(conv *model.Conversation) {
		if msg := conv.MessageByID(req.MessageID); msg != nil {
			msg.Finalize()
		}
	})
}

// fail replaces the pending reply with the apology text and records a
// diagnostics event. The failure stays scoped to this one conversation.
func (c *Controller) fail(req *StreamRequest, cause error) {
	c.store.Update(req.ConversationID, func(conv *model.Conversation) {
		if msg := conv.MessageByID(req.MessageID); msg != nil {
			msg.Fail(Apology)
		}
	})

	c.events.Record("stream_failed", map[string]string{
		"conversation": req.ConversationID,
		"model":        req.Model,
		"error":        cause.Error(),
	})
}

// =============================================================================
// PHASE BOOKKEEPING
// =============================================================================

func (c *Controller) setPhase(convID string, p Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phases[convID] = p
}

func (c *Controller) clearPhase(convID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.phases, convID)
}
