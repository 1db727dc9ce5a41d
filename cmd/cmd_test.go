package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/guilhermegouw/chatdesk/internal/topic"
)

func threeTopics() []*topic.Topic {
	return []*topic.Topic{
		{ID: "aaaa1111", Name: "First"},
		{ID: "aaaa2222", Name: "Second"},
		{ID: "bbbb3333", Name: "Third"},
	}
}

func TestResolveTopic(t *testing.T) {
	topics := threeTopics()

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{name: "position", ref: "2", want: "aaaa2222"},
		{name: "exact id", ref: "bbbb3333", want: "bbbb3333"},
		{name: "unique prefix", ref: "bbbb", want: "bbbb3333"},
		{name: "ambiguous prefix", ref: "aaaa", wantErr: true},
		{name: "position out of range", ref: "4", wantErr: true},
		{name: "position zero", ref: "0", wantErr: true},
		{name: "unknown id", ref: "cccc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTopic(topics, tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Errorf("resolveTopic(%q) = %q, want error", tt.ref, got.ID)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveTopic(%q) error = %v", tt.ref, err)
			}
			if got.ID != tt.want {
				t.Errorf("resolveTopic(%q) = %q, want %q", tt.ref, got.ID, tt.want)
			}
		})
	}
}

func TestResolveTopic_NotFoundWraps(t *testing.T) {
	_, err := resolveTopic(threeTopics(), "zzzz")
	if !errors.Is(err, topic.ErrTopicNotFound) {
		t.Errorf("error = %v, want ErrTopicNotFound", err)
	}
}

func TestMoveID(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}

	tests := []struct {
		name string
		id   string
		to   int
		want string
	}{
		{name: "to front", id: "c", to: 0, want: "c,a,b,d"},
		{name: "to end", id: "a", to: 3, want: "b,c,d,a"},
		{name: "same place", id: "b", to: 1, want: "a,b,c,d"},
		{name: "clamped high", id: "a", to: 99, want: "b,c,d,a"},
		{name: "clamped low", id: "d", to: -5, want: "d,a,b,c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(moveID(ids, tt.id, tt.to), ",")
			if got != tt.want {
				t.Errorf("moveID(%q, %d) = %q, want %q", tt.id, tt.to, got, tt.want)
			}
		})
	}

	if strings.Join(ids, ",") != "a,b,c,d" {
		t.Errorf("moveID modified its input: %v", ids)
	}
}

func TestPrintTopics(t *testing.T) {
	a := &topic.Assistant{Name: "Helper", Topics: threeTopics()}
	var buf bytes.Buffer

	printTopics(&buf, a, map[string]int64{"aaaa2222": 4})

	out := buf.String()
	for _, want := range []string{"Helper", "  1  First", "  2  Second", "4 messages", "bbbb3333"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := buf.String(); got != "chatdesk "+Version+"\n" {
		t.Errorf("output = %q, want %q", got, "chatdesk "+Version+"\n")
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"topics", "status", "version"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, c, err)
		}
	}

	topicsCmd, _, err := root.Find([]string{"topics"})
	if err != nil {
		t.Fatalf("Find(topics) error = %v", err)
	}
	for _, name := range []string{"list", "new", "rename", "delete", "move"} {
		if c, _, err := topicsCmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("topics Find(%q) = %v, %v", name, c, err)
		}
	}
}
