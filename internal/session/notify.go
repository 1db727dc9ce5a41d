package session

import (
	"github.com/guilhermegouw/chatdesk/internal/events"
	"github.com/guilhermegouw/chatdesk/internal/pubsub"
)

// BrokerNotifier publishes warnings on a notice broker. Deduplication is
// left to whoever displays them.
type BrokerNotifier struct {
	broker pubsub.Publisher[events.NoticeEvent]
}

// NewBrokerNotifier creates a Notifier publishing to broker.
func NewBrokerNotifier(broker pubsub.Publisher[events.NoticeEvent]) *BrokerNotifier {
	return &BrokerNotifier{broker: broker}
}

// Warn publishes a warning notice.
func (n *BrokerNotifier) Warn(msg, key string) {
	n.broker.Publish(pubsub.EventCreated, events.NewWarnNotice(msg, key))
}
