package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestValidate(t *testing.T) {
	personaPath := filepath.Join(t.TempDir(), "persona.txt")
	if err := os.WriteFile(personaPath, []byte("You are a candidate."), 0o600); err != nil {
		t.Fatalf("writing persona file: %v", err)
	}

	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{
			name:    "missing version",
			cfg:     &Config{Modules: map[string]yaml.Node{}},
			wantErr: "version field is required",
		},
		{
			name:    "unsupported version",
			cfg:     &Config{Version: "2", Modules: map[string]yaml.Node{}},
			wantErr: "unsupported version",
		},
		{
			name:    "no modules",
			cfg:     &Config{Version: "1"},
			wantErr: "at least one module",
		},
		{
			name: "unknown module",
			cfg: &Config{
				Version: "1",
				Modules: map[string]yaml.Node{"no.such": {}},
			},
			wantErr: `unknown module "no.such"`,
		},
		{
			name: "missing persona file",
			cfg: &Config{
				Version:   "1",
				Modules:   map[string]yaml.Node{"no.such": {}},
				Interview: InterviewConfig{PersonaFile: "/does/not/exist.txt"},
			},
			wantErr: "persona_file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReadablePersonaFile(t *testing.T) {
	personaPath := filepath.Join(t.TempDir(), "persona.txt")
	if err := os.WriteFile(personaPath, []byte("You are a candidate."), 0o600); err != nil {
		t.Fatalf("writing persona file: %v", err)
	}

	cfg := &Config{
		Version:   "1",
		Modules:   map[string]yaml.Node{"also.unknown": {}},
		Interview: InterviewConfig{PersonaFile: personaPath},
	}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error for unknown module")
	}
	if strings.Contains(err.Error(), "persona_file") {
		t.Errorf("readable persona file should not produce an error, got %q", err)
	}
}
