package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/catwalk/pkg/catwalk"
)

// ErrConfigExists is returned by WriteStarter when a config file is present.
var ErrConfigExists = errors.New("config file already exists")

// IsFirstRun reports whether no global config file exists yet.
func IsFirstRun() bool {
	return isFirstRunAt(GlobalConfigPath())
}

func isFirstRunAt(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}

// Starter returns the configuration written on first run. Provider keys
// reference environment variables so no secret lands on disk.
func Starter() *Config {
	cfg := NewConfig()
	cfg.Preferences.SendShortcut = "Enter"
	cfg.Preferences.TopicPosition = TopicPositionRight
	cfg.Providers["anthropic"] = &ProviderConfig{
		Type:   catwalk.TypeAnthropic,
		APIKey: "$ANTHROPIC_API_KEY",
	}
	cfg.Providers["openai"] = &ProviderConfig{
		Type:   catwalk.TypeOpenAI,
		APIKey: "$OPENAI_API_KEY",
	}
	cfg.Assistants["default"] = AssistantConfig{
		Name:   DefaultAssistantName,
		Prompt: "You are a helpful assistant.",
	}
	return cfg
}

// WriteStarter writes the starter configuration to path unless a file is
// already there.
func WriteStarter(path string) error {
	if !isFirstRunAt(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	return SaveToFile(Starter(), path)
}
