// Package cmd provides the CLI commands for chatdesk.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/chatdesk/internal/agent"
	"github.com/guilhermegouw/chatdesk/internal/config"
	"github.com/guilhermegouw/chatdesk/internal/debug"
	"github.com/guilhermegouw/chatdesk/internal/provider"
	"github.com/guilhermegouw/chatdesk/internal/pubsub"
	"github.com/guilhermegouw/chatdesk/internal/session"
	"github.com/guilhermegouw/chatdesk/internal/summary"
	"github.com/guilhermegouw/chatdesk/internal/tui"
	"github.com/guilhermegouw/chatdesk/internal/tui/components/topics"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chatdesk",
		Short: "Chat with an assistant, one topic at a time",
		Long: `chatdesk is a terminal chat client. Conversations are grouped into
topics belonging to an assistant; switch, rename, reorder and delete them
from the sidebar or with the topics command.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging to the chatdesk data directory")
	cmd.AddCommand(newTopicsCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if config.IsFirstRun() {
		path := config.GlobalConfigPath()
		if err := config.WriteStarter(path); err != nil && !errors.Is(err, config.ErrConfigExists) {
			fmt.Fprintf(os.Stderr, "Warning: Failed to write starter config: %v\n", err)
		} else if err == nil {
			fmt.Fprintf(os.Stderr, "Created %s\n", path)
		}
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

	hub := pubsub.NewHub()
	defer hub.Shutdown()

	deps := tui.Deps{
		Config:   cfg,
		History:  a.messages,
		Hub:      hub,
		Prompter: topics.NewPrompter(),
		EnvVars:  cfg.KeyEnvVars(),
	}

	var chatStreamer, summaryStreamer agent.Streamer
	chatModel, summaryModel, err := provider.NewBuilder(cfg).BuildModels(ctx)
	if err != nil {
		debug.Error("cmd", err, "building models")
		deps.SetupReason = err.Error()
	} else {
		chatStreamer = agent.NewFantasyStreamer(chatModel.Model)
		summaryStreamer = agent.NewFantasyStreamer(summaryModel.Model)
		deps.ModelName = chatModel.ModelCfg.Model
	}

	svc := a.session(
		session.WithHub(hub),
		session.WithSummarizer(summary.New(summaryStreamer)),
		session.WithPrompter(deps.Prompter),
		session.WithNotifier(session.NewBrokerNotifier(hub.Notice)),
	)
	deps.Session = svc

	pipeline := agent.New(agent.Config{
		Streamer:    chatStreamer,
		Sessions:    svc,
		Messages:    a.messages,
		Hub:         hub,
		MaxTokens:   chatModel.ModelCfg.MaxTokens,
		Temperature: chatModel.ModelCfg.Temperature,
	})
	deps.Pipeline = pipeline

	runCtx, cancel := context.WithCancel(ctx)
	pipeline.Start(runCtx)

	err = tui.Run(deps)

	pipeline.Cancel()
	cancel()
	pipeline.Wait()
	debug.Log("%s", hub.DebugString())

	return err
}

// enableDebug turns on the debug log when --debug or options.debug is set
// and returns the function that turns it off.
func enableDebug(cmd *cobra.Command, cfg *config.Config) func() {
	on, err := cmd.Flags().GetBool("debug")
	if err != nil {
		on = false
	}
	if cfg != nil && cfg.Options != nil && cfg.Options.Debug {
		on = true
	}
	if !on {
		return func() {}
	}

	logPath := debug.DefaultPath(config.AppName)
	if err := debug.Enable(logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to enable debug logging: %v\n", err)
		return func() {}
	}
	fmt.Fprintf(os.Stderr, "Debug: %s\n", logPath)
	return debug.Disable
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
