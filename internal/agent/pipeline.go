package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/guilhermegouw/chatdesk/internal/debug"
	"github.com/guilhermegouw/chatdesk/internal/events"
	"github.com/guilhermegouw/chatdesk/internal/message"
	"github.com/guilhermegouw/chatdesk/internal/pubsub"
	"github.com/guilhermegouw/chatdesk/internal/session"
)

const component = "agent"

// Pipeline consumes the chat broker and produces assistant replies. Replies
// are generated one at a time in submission order.
type Pipeline struct { //nolint:govet // fieldalignment: preserving logical field order
	cfg    Config
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
	now    func() time.Time
}

// New creates a pipeline. Call Start to begin consuming submissions.
func New(cfg Config) *Pipeline {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	return &Pipeline{cfg: cfg, now: time.Now}
}

// Start subscribes to the chat broker and processes events until ctx is
// done or the hub shuts down.
func (p *Pipeline) Start(ctx context.Context) {
	sub := p.cfg.Hub.Chat.Subscribe(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for ev := range sub {
			p.Handle(ctx, ev.Payload)
		}
	}()
}

// Wait blocks until the consumer started by Start has exited.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// Handle processes a single chat event.
func (p *Pipeline) Handle(ctx context.Context, ev events.ChatEvent) {
	switch ev.Type {
	case events.ChatEventMessageSubmitted:
		if ev.Message == nil {
			return
		}
		if err := p.Generate(ctx, ev.Message); err != nil {
			debug.Error(component, err, "generating reply")
		}
	case events.ChatEventTopicCleared:
		if err := p.cfg.Messages.Clear(ctx, ev.TopicID); err != nil {
			debug.Error(component, err, "clearing topic "+ev.TopicID)
			p.notifyError("Could not clear topic: "+err.Error(), "clear-topic")
		}
	}
}

// Generate stores the user's message, engages the session's gate, streams
// the reply, and stores it. The gate is released on every path once engaged.
func (p *Pipeline) Generate(ctx context.Context, userMsg *message.Message) error {
	if err := p.cfg.Messages.Add(ctx, userMsg); err != nil {
		p.notifyError("Could not save message: "+err.Error(), "save-message")
		return fmt.Errorf("saving user message: %w", err)
	}

	if p.cfg.Streamer == nil {
		p.publish(events.NewErrorEvent(userMsg.TopicID, "", ErrNoStreamer))
		p.notifyError(ErrNoStreamer.Error(), "no-model")
		return ErrNoStreamer
	}

	if !p.cfg.Sessions.Engage() {
		// Only possible with submission gating disabled and a second caller
		// driving Generate concurrently.
		debug.Event(component, "Generate", "gate already engaged, continuing")
	} else {
		defer p.cfg.Sessions.Release()
	}

	ctx, cancel := context.WithCancel(ctx)
	p.setActive(cancel)
	defer func() {
		p.clearActive()
		cancel()
	}()

	history, err := p.cfg.Messages.GetContext(ctx, userMsg.TopicID)
	if err != nil {
		p.publish(events.NewErrorEvent(userMsg.TopicID, "", err))
		return fmt.Errorf("loading history: %w", err)
	}
	history = withoutMessage(history, userMsg.ID)

	reply := message.New(message.RoleAssistant, userMsg.AssistantID, userMsg.TopicID, "", p.now())
	reply.Provider, reply.Model = p.cfg.Streamer.Name()

	req := StreamRequest{
		System:      p.systemPrompt(),
		History:     history,
		Prompt:      userMsg.Content,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
	}
	content, err := p.cfg.Streamer.Stream(ctx, req, func(text string) error {
		p.publish(events.NewTextDeltaEvent(reply.TopicID, reply.ID, text))
		return nil
	})
	reply.Content = content

	switch {
	case err == nil:
		if saveErr := p.saveReply(ctx, reply); saveErr != nil {
			return saveErr
		}
		p.publish(events.NewCompleteEvent(reply.TopicID, reply.ID, content))
		return nil
	case errors.Is(err, context.Canceled):
		// Keep what was streamed before the cancel.
		if content != "" {
			if saveErr := p.saveReply(context.WithoutCancel(ctx), reply); saveErr != nil {
				debug.Error(component, saveErr, "saving partial reply")
			}
		}
		p.publish(events.NewCancelledEvent(reply.TopicID, reply.ID))
		return nil
	default:
		p.publish(events.NewErrorEvent(reply.TopicID, reply.ID, err))
		p.notifyError("Generation failed: "+err.Error(), "generation")
		return fmt.Errorf("streaming reply: %w", err)
	}
}

// Cancel aborts the reply being generated, if any.
func (p *Pipeline) Cancel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel == nil {
		return false
	}
	p.cancel()
	p.cancel = nil
	return true
}

func (p *Pipeline) setActive(cancel context.CancelFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancel = cancel
}

func (p *Pipeline) clearActive() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancel = nil
}

func (p *Pipeline) saveReply(ctx context.Context, reply *message.Message) error {
	if err := p.cfg.Messages.Add(ctx, reply); err != nil {
		p.publish(events.NewErrorEvent(reply.TopicID, reply.ID, err))
		p.notifyError("Could not save reply: "+err.Error(), "save-message")
		return fmt.Errorf("saving assistant message: %w", err)
	}
	return nil
}

func (p *Pipeline) systemPrompt() string {
	if prompt := p.cfg.Sessions.Assistant().Prompt; prompt != "" {
		return prompt
	}
	return DefaultSystemPrompt
}

func (p *Pipeline) publish(e events.GenerationEvent) {
	if p.cfg.Hub != nil {
		p.cfg.Hub.Generation.Publish(pubsub.GenerationEventType(e), e)
	}
}

func (p *Pipeline) notifyError(msg, key string) {
	if p.cfg.Hub != nil {
		p.cfg.Hub.Notice.Publish(pubsub.EventFailed, events.NewErrorNotice(msg, key))
	}
}

func withoutMessage(msgs []*message.Message, id string) []*message.Message {
	out := msgs[:0:0]
	for _, m := range msgs {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}
