package bridge

import (
	"context"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/guilhermegouw/chatdesk/internal/debug"
	"github.com/guilhermegouw/chatdesk/internal/events"
	"github.com/guilhermegouw/chatdesk/internal/pubsub"
)

// Sender receives Bubble Tea messages. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// TUIBridge subscribes to the Hub brokers the UI renders and forwards
// their events to a tea.Program. The chat broker is not forwarded; it
// belongs to the generation pipeline.
type TUIBridge struct { //nolint:govet // fieldalignment: preserving logical field order
	hub     *pubsub.Hub
	program Sender

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu              sync.RWMutex
	assistantFilter string // Only forward topic events for this assistant
}

// TUIBridgeOption configures the TUIBridge.
type TUIBridgeOption func(*TUIBridge)

// WithAssistantFilter only forwards topic events for the specified assistant.
func WithAssistantFilter(assistantID string) TUIBridgeOption {
	return func(b *TUIBridge) {
		b.assistantFilter = assistantID
	}
}

// NewTUIBridge creates a new TUI bridge.
func NewTUIBridge(hub *pubsub.Hub, program Sender, opts ...TUIBridgeOption) *TUIBridge {
	b := &TUIBridge{
		hub:     hub,
		program: program,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Start begins forwarding events to the TUI.
// Call Stop() to gracefully shut down.
func (b *TUIBridge) Start(ctx context.Context) {
	b.ctx, b.cancel = context.WithCancel(ctx)

	b.wg.Add(3)
	go forward(b, b.hub.Topic, func(e pubsub.Event[events.TopicEvent]) tea.Msg {
		if f := b.filter(); f != "" && e.Payload.AssistantID != f {
			return nil
		}
		return TopicEventMsg{Event: e}
	})
	go forward(b, b.hub.Generation, func(e pubsub.Event[events.GenerationEvent]) tea.Msg {
		return GenerationEventMsg{Event: e}
	})
	go forward(b, b.hub.Notice, func(e pubsub.Event[events.NoticeEvent]) tea.Msg {
		return NoticeEventMsg{Event: e}
	})

	debug.Event("bridge", "start", "TUI bridge started")
}

// Stop gracefully shuts down the bridge.
func (b *TUIBridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
	debug.Event("bridge", "stop", "TUI bridge stopped")
}

// forward relays one broker until the bridge stops or the broker closes.
// A nil message from wrap drops the event.
func forward[T any](b *TUIBridge, broker *pubsub.Broker[T], wrap func(pubsub.Event[T]) tea.Msg) {
	defer b.wg.Done()

	sub := broker.Subscribe(b.ctx)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-sub:
			if !ok {
				return
			}
			if msg := wrap(event); msg != nil {
				b.program.Send(msg)
			}
		}
	}
}

func (b *TUIBridge) filter() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.assistantFilter
}

// SetAssistantFilter updates the assistant filter at runtime.
func (b *TUIBridge) SetAssistantFilter(assistantID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.assistantFilter = assistantID
}

// ClearAssistantFilter removes the assistant filter.
func (b *TUIBridge) ClearAssistantFilter() {
	b.SetAssistantFilter("")
}
