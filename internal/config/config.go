// Package config provides configuration management for chatdesk.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/catwalk/pkg/catwalk"
	"github.com/tidwall/sjson"

	"github.com/guilhermegouw/chatdesk/internal/db"
)

const appName = "chatdesk"

// AppName is the application name used for XDG directories.
const AppName = appName

// ModelRole selects what a configured model is used for.
type ModelRole string

// Model roles.
const (
	ModelRoleChat    ModelRole = "chat"
	ModelRoleSummary ModelRole = "summary"
)

// Topic sidebar positions.
const (
	TopicPositionLeft  = "left"
	TopicPositionRight = "right"
)

// DefaultAssistantName names the assistant created on first start.
const DefaultAssistantName = "Default Assistant"

// SelectedModel is the model used for one role.
type SelectedModel struct {
	Temperature *float64 `json:"temperature,omitempty"`
	Provider    string   `json:"provider"`
	Model       string   `json:"model"`
	MaxTokens   int64    `json:"max_tokens,omitempty"`
}

// ProviderConfig holds provider authentication and settings.
//
//nolint:govet // Field order is intentional for JSON readability.
type ProviderConfig struct {
	ExtraHeaders map[string]string `json:"extra_headers,omitempty"`
	ID           string            `json:"id,omitempty"`
	Name         string            `json:"name,omitempty"`
	Type         catwalk.Type      `json:"type,omitempty"`
	BaseURL      string            `json:"base_url,omitempty"`
	APIKey       string            `json:"api_key,omitempty"`
	Disable      bool              `json:"disable,omitempty"`

	// apiKeyTemplate keeps the unresolved value ("$OPENAI_API_KEY") for saving.
	apiKeyTemplate string
}

// Preferences are user interface choices persisted across runs.
type Preferences struct {
	SendShortcut  string `json:"send_shortcut,omitempty"`
	TopicPosition string `json:"topic_position,omitempty"`
}

// AssistantConfig describes the persona chatting in every topic.
type AssistantConfig struct {
	Name   string `json:"name,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}

// Options holds optional configuration settings.
//
//nolint:govet // Field order is intentional for JSON readability.
type Options struct {
	DataDir         string `json:"data_directory,omitempty"`
	Debug           bool   `json:"debug,omitempty"`
	GateSubmissions *bool  `json:"gate_submissions,omitempty"`
}

// Config is the top-level configuration structure.
type Config struct {
	Preferences *Preferences                `json:"preferences,omitempty"`
	Models      map[ModelRole]SelectedModel `json:"models,omitempty"`
	Providers   map[string]*ProviderConfig  `json:"providers,omitempty"`
	Assistants  map[string]AssistantConfig  `json:"assistants,omitempty"`
	Options     *Options                    `json:"options,omitempty"`

	path string
}

// NewConfig creates a new Config with initialized maps.
func NewConfig() *Config {
	return &Config{
		Preferences: &Preferences{},
		Models:      make(map[ModelRole]SelectedModel),
		Providers:   make(map[string]*ProviderConfig),
		Assistants:  make(map[string]AssistantConfig),
		Options:     &Options{},
	}
}

// Model returns the model selected for role. The summary role falls back to
// the chat model.
func (c *Config) Model(role ModelRole) (SelectedModel, bool) {
	if m, ok := c.Models[role]; ok && m.Model != "" {
		return m, true
	}
	if role == ModelRoleSummary {
		return c.Model(ModelRoleChat)
	}
	return SelectedModel{}, false
}

// Provider returns an enabled provider by ID.
func (c *Config) Provider(id string) (*ProviderConfig, bool) {
	p, ok := c.Providers[id]
	if !ok || p.Disable {
		return nil, false
	}
	return p, true
}

// Assistant returns the default assistant settings.
func (c *Config) Assistant() AssistantConfig {
	a := c.Assistants["default"]
	if a.Name == "" {
		a.Name = DefaultAssistantName
	}
	return a
}

// GateSubmissions reports whether sending is blocked while a reply is
// being generated. It defaults to true.
func (c *Config) GateSubmissions() bool {
	if c.Options == nil || c.Options.GateSubmissions == nil {
		return true
	}
	return *c.Options.GateSubmissions
}

// Path returns the file SetConfigField writes to.
func (c *Config) Path() string {
	if c.path != "" {
		return c.path
	}
	return GlobalConfigPath()
}

// SetConfigField updates a single field in the config file using JSON path notation.
// This uses sjson for surgical updates - only the specified field is modified.
func (c *Config) SetConfigField(key string, value any) error {
	configPath := c.Path()

	//nolint:gosec // G304: configPath comes from the loaded config, not user input.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading config file: %w", err)
		}
		data = []byte("{}")
	}

	newData, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("setting config field %q: %w", key, err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	//nolint:gosec // 0o600 is intentionally restrictive for security.
	if err := os.WriteFile(configPath, []byte(newData), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// SetSendShortcut stores the send shortcut preference in memory and on disk.
func (c *Config) SetSendShortcut(shortcut string) error {
	if err := c.SetConfigField("preferences.send_shortcut", shortcut); err != nil {
		return err
	}
	if c.Preferences == nil {
		c.Preferences = &Preferences{}
	}
	c.Preferences.SendShortcut = shortcut
	return nil
}

// SetTopicPosition stores the sidebar side in memory and on disk.
func (c *Config) SetTopicPosition(position string) error {
	if position != TopicPositionLeft && position != TopicPositionRight {
		return fmt.Errorf("%w: topic_position %q", ErrInvalidPreference, position)
	}
	if err := c.SetConfigField("preferences.topic_position", position); err != nil {
		return err
	}
	if c.Preferences == nil {
		c.Preferences = &Preferences{}
	}
	c.Preferences.TopicPosition = position
	return nil
}

// TopicPosition returns the sidebar side, right unless set to left.
func (c *Config) TopicPosition() string {
	if c.Preferences != nil && c.Preferences.TopicPosition == TopicPositionLeft {
		return TopicPositionLeft
	}
	return TopicPositionRight
}

// KeyEnvVars returns the environment variables provider API keys are read
// from, sorted.
func (c *Config) KeyEnvVars() []string {
	var vars []string
	for _, p := range c.Providers {
		tmpl := p.apiKeyTemplate
		if tmpl == "" {
			tmpl = p.APIKey
		}
		if name, ok := strings.CutPrefix(tmpl, "$"); ok && name != "" {
			vars = append(vars, strings.Trim(name, "{}"))
		}
	}
	slices.Sort(vars)
	return slices.Compact(vars)
}

// GlobalConfigPath returns the path to the global configuration file.
func GlobalConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}

// DataDir returns the data directory path from configuration.
func (c *Config) DataDir() string {
	if c.Options != nil && c.Options.DataDir != "" {
		return c.Options.DataDir
	}
	return filepath.Join(xdg.DataHome, appName)
}

// DatabasePath returns the SQLite database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir(), db.FileName)
}
