package pubsub

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// BrokerInfo is the type-erased view of a broker used for introspection.
type BrokerInfo interface {
	Name() string
	SubscriberCount() int
	IsShutdown() bool
	Metrics() BrokerMetrics
}

// Registry tracks brokers by name for the debug log.
type Registry struct {
	brokers map[string]BrokerInfo
	mu      sync.RWMutex
}

// NewRegistry creates a new broker registry.
func NewRegistry() *Registry {
	return &Registry{
		brokers: make(map[string]BrokerInfo),
	}
}

// Register adds a broker, replacing any broker with the same name.
func (r *Registry) Register(name string, broker BrokerInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.brokers[name] = broker
}

// List returns the registered broker names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := slices.Sorted(maps.Keys(r.brokers))
	if names == nil {
		names = []string{}
	}
	return names
}

// DebugString renders one line per broker, sorted by name.
func (r *Registry) DebugString() string {
	names := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "brokers (%d)\n", len(names))
	for _, name := range names {
		broker, ok := r.brokers[name]
		if !ok {
			continue
		}
		m := broker.Metrics()
		fmt.Fprintf(&sb, "  %-10s subs=%d peak=%d published=%d dropped=%d shutdown=%v\n",
			name, m.SubscriberCount, m.SubscriberPeak, m.PublishCount, m.DropCount, broker.IsShutdown())
	}
	return sb.String()
}
