package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/catwalk/pkg/catwalk"

	"github.com/guilhermegouw/chatdesk/internal/keys"
)

const (
	configFileName = "chatdesk.json"

	// Default API endpoints for providers.
	defaultAnthropicEndpoint = "https://api.anthropic.com"
	defaultOpenAIEndpoint    = "https://api.openai.com/v1"
)

// Default models per provider type, used when no models are configured.
var defaultModels = map[catwalk.Type][2]string{
	catwalk.TypeAnthropic: {"claude-sonnet-4-5", "claude-haiku-4-5"},
	catwalk.TypeOpenAI:    {"gpt-4.1", "gpt-4.1-mini"},
}

// ErrInvalidPreference is returned when a preference holds an unknown value.
var ErrInvalidPreference = errors.New("invalid preference")

// Load finds and loads configuration from standard locations.
// It merges global config with project config (project takes precedence),
// then resolves provider credentials and picks default models.
func Load() (*Config, error) {
	cfg := NewConfig()
	if err := loadFile(GlobalConfigPath(), cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	cwd, err := os.Getwd()
	if err == nil {
		if projectPath := findProjectConfig(cwd); projectPath != "" {
			projectCfg := NewConfig()
			if err := loadFile(projectPath, projectCfg); err != nil {
				return nil, fmt.Errorf("loading project config: %w", err)
			}
			mergeConfig(cfg, projectCfg)
		}
	}

	return finish(cfg)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	cfg := NewConfig()
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.path = path
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	applyDefaults(cfg)
	if err := validatePreferences(cfg.Preferences); err != nil {
		return nil, err
	}
	configureProviders(cfg, NewResolver())
	configureDefaultModels(cfg)
	if err := validateModels(cfg); err != nil {
		return nil, fmt.Errorf("configuring models: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	//nolint:gosec // G304: Path is from trusted config locations, not user input.
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func findProjectConfig(start string) string {
	dir := start
	for {
		// Check for chatdesk.json.
		path := filepath.Join(dir, configFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		// Check for .chatdesk.json (hidden).
		hiddenPath := filepath.Join(dir, "."+configFileName)
		if _, err := os.Stat(hiddenPath); err == nil {
			return hiddenPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func mergeConfig(dst, src *Config) {
	for role := range src.Models {
		dst.Models[role] = src.Models[role]
	}
	for name := range src.Providers {
		dst.Providers[name] = src.Providers[name]
	}
	for name := range src.Assistants {
		dst.Assistants[name] = src.Assistants[name]
	}

	if src.Preferences != nil {
		if dst.Preferences == nil {
			dst.Preferences = &Preferences{}
		}
		if src.Preferences.SendShortcut != "" {
			dst.Preferences.SendShortcut = src.Preferences.SendShortcut
		}
		if src.Preferences.TopicPosition != "" {
			dst.Preferences.TopicPosition = src.Preferences.TopicPosition
		}
	}

	if src.Options != nil {
		if dst.Options == nil {
			dst.Options = &Options{}
		}
		if src.Options.DataDir != "" {
			dst.Options.DataDir = src.Options.DataDir
		}
		if src.Options.Debug {
			dst.Options.Debug = true
		}
		if src.Options.GateSubmissions != nil {
			gate := *src.Options.GateSubmissions
			dst.Options.GateSubmissions = &gate
		}
	}
}

func configureProviders(cfg *Config, resolver *Resolver) {
	for id, p := range cfg.Providers {
		if p == nil {
			delete(cfg.Providers, id)
			continue
		}
		p.ID = id
		if p.Name == "" {
			p.Name = id
		}
		if p.Type == "" {
			p.Type = guessType(id)
		}
		if p.ExtraHeaders == nil {
			p.ExtraHeaders = make(map[string]string)
		}
		if p.APIKey != "" {
			p.apiKeyTemplate = p.APIKey
			resolved, err := resolver.Resolve(p.APIKey)
			if err != nil {
				// An unset variable leaves the provider unusable.
				p.APIKey = ""
			} else {
				p.APIKey = resolved
			}
		}
		if p.BaseURL != "" {
			if resolved, err := resolver.Resolve(p.BaseURL); err == nil {
				p.BaseURL = resolved
			}
		} else {
			p.BaseURL = defaultAPIEndpoint(p.Type)
		}
	}
}

func guessType(id string) catwalk.Type {
	switch strings.ToLower(id) {
	case "anthropic":
		return catwalk.TypeAnthropic
	case "openai":
		return catwalk.TypeOpenAI
	default:
		return catwalk.TypeOpenAICompat
	}
}

// configureDefaultModels selects models from the first provider with a key
// when none are configured.
func configureDefaultModels(cfg *Config) {
	if _, ok := cfg.Model(ModelRoleChat); ok {
		return
	}
	for _, id := range []string{"anthropic", "openai"} {
		p, ok := cfg.Provider(id)
		if !ok || p.APIKey == "" {
			continue
		}
		defaults, ok := defaultModels[p.Type]
		if !ok {
			continue
		}
		cfg.Models[ModelRoleChat] = SelectedModel{Provider: id, Model: defaults[0]}
		if _, ok := cfg.Models[ModelRoleSummary]; !ok {
			cfg.Models[ModelRoleSummary] = SelectedModel{Provider: id, Model: defaults[1]}
		}
		return
	}
}

func validateModels(cfg *Config) error {
	for role, model := range cfg.Models {
		if model.Model == "" {
			continue
		}
		provider, ok := cfg.Providers[model.Provider]
		if !ok {
			return fmt.Errorf("role %s: provider %q not configured", role, model.Provider)
		}
		if provider.Disable {
			return fmt.Errorf("role %s: provider %q is disabled", role, model.Provider)
		}
	}
	return nil
}

func validatePreferences(p *Preferences) error {
	if _, err := keys.ParseSendShortcut(p.SendShortcut); err != nil {
		return fmt.Errorf("%w: send_shortcut %q", ErrInvalidPreference, p.SendShortcut)
	}
	switch p.TopicPosition {
	case TopicPositionLeft, TopicPositionRight:
		return nil
	default:
		return fmt.Errorf("%w: topic_position %q", ErrInvalidPreference, p.TopicPosition)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Preferences == nil {
		cfg.Preferences = &Preferences{}
	}
	if cfg.Preferences.SendShortcut == "" {
		cfg.Preferences.SendShortcut = string(keys.SendEnter)
	}
	if cfg.Preferences.TopicPosition == "" {
		cfg.Preferences.TopicPosition = TopicPositionRight
	}
	if cfg.Options == nil {
		cfg.Options = &Options{}
	}
	if cfg.Options.DataDir == "" {
		cfg.Options.DataDir = filepath.Join(xdg.DataHome, appName)
	}
	if cfg.Models == nil {
		cfg.Models = make(map[ModelRole]SelectedModel)
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]*ProviderConfig)
	}
	if cfg.Assistants == nil {
		cfg.Assistants = make(map[string]AssistantConfig)
	}
}

func defaultAPIEndpoint(providerType catwalk.Type) string {
	switch providerType {
	case catwalk.TypeAnthropic:
		return defaultAnthropicEndpoint
	case catwalk.TypeOpenAI, catwalk.TypeOpenAICompat, catwalk.TypeOpenRouter:
		return defaultOpenAIEndpoint
	default:
		// Other providers require user-configured endpoints.
		return ""
	}
}
