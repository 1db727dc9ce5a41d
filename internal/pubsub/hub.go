package pubsub

import (
	"sync"

	"github.com/guilhermegouw/chatdesk/internal/events"
)

// ChatBufferSize is the subscriber buffer of the outbound chat broker.
const ChatBufferSize = 256

// Hub holds the brokers shared by one running session.
type Hub struct { //nolint:govet // fieldalignment: preserving logical field order
	// Topic carries topic list changes and active topic switches.
	Topic *Broker[events.TopicEvent]
	// Chat is the outbound channel to the generation pipeline. It never
	// drops: a lost submission would leave the user waiting forever.
	Chat *Broker[events.ChatEvent]
	// Generation carries gate transitions and streamed output.
	Generation *Broker[events.GenerationEvent]
	// Notice carries user-visible warnings.
	Notice *Broker[events.NoticeEvent]

	registry *Registry
	once     sync.Once
}

type shutdowner interface {
	Shutdown()
}

// NewHub creates a new Hub with all brokers initialized.
func NewHub() *Hub {
	h := &Hub{
		Topic: NewBroker[events.TopicEvent]("topic"),
		Chat: NewBroker[events.ChatEvent]("chat",
			WithBufferSize[events.ChatEvent](ChatBufferSize),
			WithDropPolicy[events.ChatEvent](false),
		),
		Generation: NewBroker[events.GenerationEvent]("generation"),
		Notice:     NewBroker[events.NoticeEvent]("notice"),
		registry:   NewRegistry(),
	}

	h.registry.Register("topic", h.Topic)
	h.registry.Register("chat", h.Chat)
	h.registry.Register("generation", h.Generation)
	h.registry.Register("notice", h.Notice)

	return h
}

func (h *Hub) brokers() []shutdowner {
	return []shutdowner{h.Topic, h.Chat, h.Generation, h.Notice}
}

// Shutdown shuts every broker down concurrently. It is safe to call twice.
func (h *Hub) Shutdown() {
	h.once.Do(func() {
		var wg sync.WaitGroup
		for _, b := range h.brokers() {
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.Shutdown()
			}()
		}
		wg.Wait()
	})
}

// DebugString returns a formatted debug string for all brokers.
func (h *Hub) DebugString() string {
	return h.registry.DebugString()
}
