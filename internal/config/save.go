package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/catwalk/pkg/catwalk"
)

// saveConfig contains only the fields written back to disk.
// Provider keys are stored as their templates, never resolved values.
type saveConfig struct {
	Preferences *Preferences                   `json:"preferences,omitempty"`
	Models      map[ModelRole]SelectedModel    `json:"models,omitempty"`
	Providers   map[string]*saveProviderConfig `json:"providers,omitempty"`
	Assistants  map[string]AssistantConfig     `json:"assistants,omitempty"`
	Options     *Options                       `json:"options,omitempty"`
}

type saveProviderConfig struct {
	ExtraHeaders map[string]string `json:"extra_headers,omitempty"`
	Type         catwalk.Type      `json:"type,omitempty"`
	BaseURL      string            `json:"base_url,omitempty"`
	APIKey       string            `json:"api_key,omitempty"`
	Disable      bool              `json:"disable,omitempty"`
}

// Save writes the configuration to its file.
func Save(cfg *Config) error {
	return SaveToFile(cfg, cfg.Path())
}

// SaveToFile writes the configuration to a specific file path.
func SaveToFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	out := &saveConfig{
		Preferences: cfg.Preferences,
		Models:      cfg.Models,
		Providers:   make(map[string]*saveProviderConfig),
		Assistants:  cfg.Assistants,
		Options:     cfg.Options,
	}
	for id, p := range cfg.Providers {
		key := p.apiKeyTemplate
		if key == "" {
			key = p.APIKey
		}
		baseURL := p.BaseURL
		if baseURL == defaultAPIEndpoint(p.Type) {
			baseURL = ""
		}
		out.Providers[id] = &saveProviderConfig{
			ExtraHeaders: p.ExtraHeaders,
			Type:         p.Type,
			BaseURL:      baseURL,
			APIKey:       key,
			Disable:      p.Disable,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil { //nolint:gosec // Restrictive permissions for security.
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// ProviderIDs returns the configured provider IDs in sorted order.
func (c *Config) ProviderIDs() []string {
	ids := make([]string, 0, len(c.Providers))
	for id := range c.Providers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
