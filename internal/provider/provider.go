// Package provider builds fantasy language models from configuration.
package provider

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/charmbracelet/catwalk/pkg/catwalk"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"
	"charm.land/fantasy/providers/openai"

	"github.com/guilhermegouw/chatdesk/internal/config"
)

// ErrNoChatModel is returned when no chat model is configured.
var ErrNoChatModel = errors.New("no chat model configured")

// Model wraps a fantasy language model with its selection.
type Model struct {
	// Model is the fantasy language model interface.
	Model fantasy.LanguageModel
	// ModelCfg holds the user's selected configuration.
	ModelCfg config.SelectedModel
}

// Builder creates fantasy providers from configuration.
type Builder struct {
	cfg   *config.Config
	cache map[string]fantasy.Provider
}

// NewBuilder creates a new provider Builder.
func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		cfg:   cfg,
		cache: make(map[string]fantasy.Provider),
	}
}

// BuildModels creates the chat and summary models from configuration.
// The summary model falls back to the chat model.
func (b *Builder) BuildModels(ctx context.Context) (chat, summary Model, err error) {
	chatCfg, ok := b.cfg.Model(config.ModelRoleChat)
	if !ok {
		return Model{}, Model{}, ErrNoChatModel
	}
	chat, err = b.buildModel(ctx, chatCfg)
	if err != nil {
		return Model{}, Model{}, fmt.Errorf("building chat model: %w", err)
	}

	summaryCfg, _ := b.cfg.Model(config.ModelRoleSummary)
	if summaryCfg == chatCfg {
		return chat, chat, nil
	}
	summary, err = b.buildModel(ctx, summaryCfg)
	if err != nil {
		return Model{}, Model{}, fmt.Errorf("building summary model: %w", err)
	}

	return chat, summary, nil
}

// buildModel creates a Model from a selected model configuration.
func (b *Builder) buildModel(ctx context.Context, modelCfg config.SelectedModel) (Model, error) {
	providerCfg, ok := b.cfg.Provider(modelCfg.Provider)
	if !ok {
		return Model{}, fmt.Errorf("provider %q not configured", modelCfg.Provider)
	}
	if providerCfg.APIKey == "" {
		return Model{}, fmt.Errorf("provider %q has no API key", modelCfg.Provider)
	}

	provider, err := b.getOrBuildProvider(providerCfg)
	if err != nil {
		return Model{}, err
	}

	lm, err := provider.LanguageModel(ctx, modelCfg.Model)
	if err != nil {
		return Model{}, fmt.Errorf("getting language model %q: %w", modelCfg.Model, err)
	}

	return Model{
		Model:    lm,
		ModelCfg: modelCfg,
	}, nil
}

// getOrBuildProvider returns a cached provider or builds a new one.
func (b *Builder) getOrBuildProvider(providerCfg *config.ProviderConfig) (fantasy.Provider, error) {
	if p, ok := b.cache[providerCfg.ID]; ok {
		return p, nil
	}

	p, err := buildProvider(providerCfg)
	if err != nil {
		return nil, err
	}

	b.cache[providerCfg.ID] = p
	return p, nil
}

// buildProvider creates a fantasy provider from configuration.
func buildProvider(providerCfg *config.ProviderConfig) (fantasy.Provider, error) {
	headers := maps.Clone(providerCfg.ExtraHeaders)

	//nolint:exhaustive // Only openai and anthropic are supported.
	switch providerCfg.Type {
	case openai.Name, catwalk.TypeOpenAICompat, catwalk.TypeOpenRouter:
		return buildOpenAIProvider(providerCfg.BaseURL, providerCfg.APIKey, headers)
	case anthropic.Name:
		return buildAnthropicProvider(providerCfg.BaseURL, providerCfg.APIKey, headers)
	default:
		return nil, fmt.Errorf("unsupported provider type: %q", providerCfg.Type)
	}
}

func buildOpenAIProvider(baseURL, apiKey string, headers map[string]string) (fantasy.Provider, error) {
	var opts []openai.Option

	if apiKey != "" {
		opts = append(opts, openai.WithAPIKey(apiKey))
	}
	if len(headers) > 0 {
		opts = append(opts, openai.WithHeaders(headers))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	return openai.New(opts...)
}

func buildAnthropicProvider(baseURL, apiKey string, headers map[string]string) (fantasy.Provider, error) {
	var opts []anthropic.Option

	if apiKey != "" {
		opts = append(opts, anthropic.WithAPIKey(apiKey))
	}
	if len(headers) > 0 {
		opts = append(opts, anthropic.WithHeaders(headers))
	}
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}

	return anthropic.New(opts...)
}
