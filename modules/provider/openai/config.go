package openai

import (
	"fmt"
	"time"
)

// Config holds the configuration for the OpenAI provider module.
type Config struct {
	APIKey             string   `yaml:"api_key"`
	BaseURL            string   `yaml:"base_url"`
	ChatModel          string   `yaml:"chat_model"`
	Temperature        *float64 `yaml:"temperature"`
	MaxTokens          int      `yaml:"max_tokens"`
	TranscriptionModel string   `yaml:"transcription_model"`
	TTSModel           string   `yaml:"tts_model"`
	TTSVoice           string   `yaml:"tts_voice"`
	Timeout            string   `yaml:"timeout"`
}

// defaults fills zero-valued fields with the values the original service
// shipped with.
func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com"
	}
	if c.ChatModel == "" {
		c.ChatModel = "gpt-4o"
	}
	if c.Temperature == nil {
		t := 0.7
		c.Temperature = &t
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 500
	}
	if c.TranscriptionModel == "" {
		c.TranscriptionModel = "whisper-1"
	}
	if c.TTSModel == "" {
		c.TTSModel = "tts-1"
	}
	if c.TTSVoice == "" {
		c.TTSVoice = "alloy"
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
}

// parsedTimeout returns the timeout as a time.Duration.
// Assumes the value has been validated by validateTimeout.
func (c *Config) parsedTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// validateTimeout checks that the timeout string is a valid Go duration.
func (c *Config) validateTimeout() error {
	_, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("provider.openai: invalid timeout %q: %w", c.Timeout, err)
	}
	return nil
}
