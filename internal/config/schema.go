// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for mockmate.
package config

import "gopkg.in/yaml.v3"

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// Modules maps module IDs to their raw YAML configuration.
	// Keys must match registered module IDs (e.g. "gateway.http").
	Modules map[string]yaml.Node `yaml:"modules"`

	// Interview holds settings for the answer pipeline that do not belong
	// to any single module (persona and preset-question overrides).
	Interview InterviewConfig `yaml:"interview,omitempty"`
}

// InterviewConfig configures the interview pipeline resources.
type InterviewConfig struct {
	// PersonaFile overrides the embedded persona prompt with the contents
	// of the given file.
	PersonaFile string `yaml:"persona_file,omitempty"`

	// QuestionsFile overrides the embedded preset interview questions,
	// one question per line.
	QuestionsFile string `yaml:"questions_file,omitempty"`
}
