package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/chatdesk/internal/config"
	"github.com/guilhermegouw/chatdesk/internal/topic"
)

// newTopicsCmd creates the topics command group.
func newTopicsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Manage the topics of the default assistant",
		Long: `Manage the topics of the default assistant without opening the TUI.

Topics are addressed by their position in the list (starting at 1) or by
their ID or a unique ID prefix.

Examples:
  chatdesk topics list
  chatdesk topics new "Trip planning"
  chatdesk topics rename 2 "Recipes"
  chatdesk topics move 3 1
  chatdesk topics delete 2`,
	}

	cmd.AddCommand(newTopicsListCmd())
	cmd.AddCommand(newTopicsNewCmd())
	cmd.AddCommand(newTopicsRenameCmd())
	cmd.AddCommand(newTopicsDeleteCmd())
	cmd.AddCommand(newTopicsMoveCmd())

	return cmd
}

func newTopicsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List topics in sidebar order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				counts := make(map[string]int64)
				for _, t := range a.assistant.Topics {
					n, err := a.messages.Count(ctx, t.ID)
					if err != nil {
						return fmt.Errorf("counting messages: %w", err)
					}
					counts[t.ID] = n
				}
				printTopics(cmd.OutOrStdout(), a.assistant, counts)
				return nil
			})
		},
	}
}

func newTopicsNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new [name]",
		Short: "Create a topic at the end of the list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				svc := a.session()
				t, err := svc.AddTopic(ctx)
				if err != nil {
					return fmt.Errorf("creating topic: %w", err)
				}
				if len(args) == 1 {
					if _, err := svc.RenameTopic(ctx, t.ID, args[0]); err != nil {
						return fmt.Errorf("naming topic: %w", err)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created topic %s\n", t.ID)
				return nil
			})
		},
	}
}

func newTopicsRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <topic> <name>",
		Short: "Rename a topic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				t, err := resolveTopic(a.assistant.Topics, args[0])
				if err != nil {
					return err
				}
				oldName := t.Name
				changed, err := a.session().RenameTopic(ctx, t.ID, args[1])
				if err != nil {
					return fmt.Errorf("renaming topic: %w", err)
				}
				if !changed {
					fmt.Fprintln(cmd.OutOrStdout(), "Name unchanged")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q\n", oldName, strings.TrimSpace(args[1]))
				return nil
			})
		},
	}
}

func newTopicsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <topic>",
		Short: "Delete a topic and its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				t, err := resolveTopic(a.assistant.Topics, args[0])
				if err != nil {
					return err
				}
				if err := a.session().DeleteTopic(ctx, t.ID); err != nil {
					if errors.Is(err, topic.ErrLastTopic) {
						return errors.New("cannot delete the last topic")
					}
					return fmt.Errorf("deleting topic: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", t.Name)
				return nil
			})
		},
	}
}

func newTopicsMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <topic> <position>",
		Short: "Move a topic to a position in the list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				t, err := resolveTopic(a.assistant.Topics, args[0])
				if err != nil {
					return err
				}
				pos, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid position %q", args[1])
				}
				order := moveID(a.assistant.IDs(), t.ID, pos-1)
				svc := a.session()
				if err := svc.ReorderTopics(ctx, order); err != nil {
					return fmt.Errorf("moving topic: %w", err)
				}
				printTopics(cmd.OutOrStdout(), svc.Assistant(), nil)
				return nil
			})
		},
	}
}

// withApp loads the configuration and stores, runs fn, and closes them.
func withApp(cmd *cobra.Command, fn func(context.Context, *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	stopDebug := enableDebug(cmd, cfg)
	defer stopDebug()

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

// resolveTopic finds a topic by 1-based position, exact ID, or unique ID
// prefix.
func resolveTopic(topics []*topic.Topic, ref string) (*topic.Topic, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(topics) {
			return nil, fmt.Errorf("no topic at position %d", n)
		}
		return topics[n-1], nil
	}

	var found *topic.Topic
	for _, t := range topics {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			if found != nil {
				return nil, fmt.Errorf("topic id prefix %q is ambiguous", ref)
			}
			found = t
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", topic.ErrTopicNotFound, ref)
	}
	return found, nil
}

// moveID returns ids with id moved to index to, clamped to the list bounds.
func moveID(ids []string, id string, to int) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	to = min(max(to, 0), len(out))
	out = append(out[:to], append([]string{id}, out[to:]...)...)
	return out
}

func printTopics(w io.Writer, a *topic.Assistant, counts map[string]int64) {
	fmt.Fprintf(w, "%s\n", a.Name)
	fmt.Fprintln(w, strings.Repeat("─", 40))
	for i, t := range a.Topics {
		line := fmt.Sprintf("%3d  %-28s %s", i+1, t.Name, shortID(t.ID))
		if counts != nil {
			line += fmt.Sprintf("  %d messages", counts[t.ID])
		}
		fmt.Fprintln(w, line)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
