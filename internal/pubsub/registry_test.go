package pubsub

import (
	"slices"
	"strings"
	"testing"
)

type fakeBrokerInfo struct {
	name     string
	shutdown bool
	metrics  BrokerMetrics
}

func (f *fakeBrokerInfo) Name() string           { return f.name }
func (f *fakeBrokerInfo) SubscriberCount() int   { return f.metrics.SubscriberCount }
func (f *fakeBrokerInfo) IsShutdown() bool       { return f.shutdown }
func (f *fakeBrokerInfo) Metrics() BrokerMetrics { return f.metrics }

func TestRegistry(t *testing.T) {
	t.Run("empty registry lists nothing", func(t *testing.T) {
		reg := NewRegistry()

		list := reg.List()
		if list == nil || len(list) != 0 {
			t.Errorf("List() = %v, want empty non-nil slice", list)
		}
	})

	t.Run("list is sorted and names are unique", func(t *testing.T) {
		reg := NewRegistry()
		for _, name := range []string{"notice", "chat", "topic", "chat"} {
			reg.Register(name, &fakeBrokerInfo{name: name})
		}

		want := []string{"chat", "notice", "topic"}
		if got := reg.List(); !slices.Equal(got, want) {
			t.Errorf("List() = %v, want %v", got, want)
		}
	})

	t.Run("debug string shows metrics", func(t *testing.T) {
		reg := NewRegistry()
		reg.Register("chat", &fakeBrokerInfo{
			name:    "chat",
			metrics: BrokerMetrics{Name: "chat", PublishCount: 3},
		})
		reg.Register("topic", &fakeBrokerInfo{name: "topic", shutdown: true})

		s := reg.DebugString()
		if !strings.Contains(s, "brokers (2)") {
			t.Errorf("DebugString() missing header: %q", s)
		}
		if strings.Index(s, "chat") > strings.Index(s, "topic") {
			t.Errorf("DebugString() not sorted: %q", s)
		}
		if !strings.Contains(s, "published=3") || !strings.Contains(s, "shutdown=true") {
			t.Errorf("DebugString() missing metrics: %q", s)
		}
	})
}
