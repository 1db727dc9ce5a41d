package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/chatdesk/internal/config"
	"github.com/guilhermegouw/chatdesk/internal/debug"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, models and stored topics",
		Long: `Display the current chatdesk status including:
  - Configured chat and summary models
  - Provider key status
  - Preferences
  - Database location and topic count`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if config.IsFirstRun() {
		fmt.Fprintln(out, "Status: Not configured")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'chatdesk' to create a starter configuration.")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Fprintln(out, "chatdesk Status")
	fmt.Fprintln(out, strings.Repeat("─", 40))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Models:")
	printModelConfig(out, cfg, config.ModelRoleChat, "  Chat")
	printModelConfig(out, cfg, config.ModelRoleSummary, "  Summary")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Providers:")
	if len(cfg.Providers) == 0 {
		fmt.Fprintln(out, "  No providers configured")
	} else {
		ids := make([]string, 0, len(cfg.Providers))
		for id := range cfg.Providers {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			printProviderStatus(out, id, cfg.Providers[id])
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Preferences:")
	if cfg.Preferences != nil {
		fmt.Fprintf(out, "  Send shortcut: %s\n", cfg.Preferences.SendShortcut)
	}
	fmt.Fprintf(out, "  Sidebar: %s\n", cfg.TopicPosition())
	fmt.Fprintf(out, "  Block sending while generating: %t\n", cfg.GateSubmissions())
	fmt.Fprintln(out)

	a, err := openApp(cmd.Context(), cfg)
	if err != nil {
		fmt.Fprintf(out, "Database: %s (%v)\n", cfg.DatabasePath(), err)
	} else {
		defer a.Close()
		fmt.Fprintf(out, "Database: %s\n", a.db.Path())
		fmt.Fprintf(out, "Assistant: %s (%d topics)\n", a.assistant.Name, a.assistant.Len())
	}

	fmt.Fprintf(out, "Config File: %s\n", cfg.Path())
	fmt.Fprintf(out, "Debug Log: %s\n", debug.DefaultPath(config.AppName))

	return nil
}

func printModelConfig(out io.Writer, cfg *config.Config, role config.ModelRole, label string) {
	model, ok := cfg.Model(role)
	if !ok {
		fmt.Fprintf(out, "%s: (not configured)\n", label)
		return
	}
	fmt.Fprintf(out, "%s: %s (%s)\n", label, model.Model, model.Provider)
}

func printProviderStatus(out io.Writer, id string, provider *config.ProviderConfig) {
	name := provider.Name
	if name == "" {
		name = id
	}

	status := "API Key"
	if provider.APIKey == "" {
		status = "Not configured"
	}
	if provider.Disable {
		status = "Disabled"
	}

	fmt.Fprintf(out, "  %s: %s (%s)\n", name, status, provider.Type)
}
