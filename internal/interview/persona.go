// Package interview implements the answer generator and the
// transcribe → generate → synthesize pipeline.
package interview

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed prompts/persona.txt
var defaultPersona string

// LoadPersona returns the persona instruction text. When path is empty the
// embedded default is used; otherwise the file contents are read once at
// startup. The persona is immutable for the process lifetime.
func LoadPersona(path string) (string, error) {
	if path == "" {
		return defaultPersona, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("interview: reading persona file %s: %w", path, err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("interview: persona file %s is empty", path)
	}
	return text, nil
}
