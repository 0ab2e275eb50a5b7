// Package openai implements the provider.openai module, backing all three
// pipeline stages: Whisper transcription, Chat Completions, and speech
// synthesis.
package openai

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dverbeek/mockmate/internal/core"
	"github.com/dverbeek/mockmate/internal/provider"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Provider{})
}

// Compile-time interface guards.
var (
	_ provider.SpeechProvider = (*Provider)(nil)
	_ core.Module             = (*Provider)(nil)
	_ core.Configurable       = (*Provider)(nil)
	_ core.Provisioner        = (*Provider)(nil)
	_ core.Validator          = (*Provider)(nil)
)

// Provider implements provider.SpeechProvider against the OpenAI API.
type Provider struct {
	config Config
	logger *slog.Logger
	client *http.Client
}

// ModuleInfo implements core.Module.
func (p *Provider) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "provider.openai",
		New: func() core.Module { return &Provider{} },
	}
}

// Configure implements core.Configurable.
func (p *Provider) Configure(node *yaml.Node) error {
	if err := node.Decode(&p.config); err != nil {
		return err
	}
	p.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (p *Provider) Provision(ctx *core.AppContext) error {
	p.logger = ctx.Logger

	// One timeout bounds each blocking round trip; there is no streaming,
	// so http.Client.Timeout is the right tool.
	p.client = &http.Client{
		Timeout: p.config.parsedTimeout(),
	}

	ctx.RegisterService("provider.speech", p)

	return nil
}

// Validate implements core.Validator. Credentials are checked here, once,
// at construction — an unset key refuses to load the module instead of
// failing on the first provider call.
func (p *Provider) Validate() error {
	if p.config.APIKey == "" {
		return fmt.Errorf("provider.openai: api_key is required: %w", provider.ErrNotConfigured)
	}
	if err := p.config.validateTimeout(); err != nil {
		return err
	}
	return nil
}
