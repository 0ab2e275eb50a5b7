package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/dverbeek/mockmate/internal/core"
)

// Validate checks the structural validity of a Config. It verifies the
// version field, ensures modules are present, checks that all referenced
// module IDs exist in the registry, and that any file overrides point at
// readable files.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	if len(cfg.Modules) == 0 {
		errs = append(errs, errors.New("config: at least one module must be configured"))
	}

	for id := range cfg.Modules {
		if _, ok := core.GetModule(id); !ok {
			errs = append(errs, fmt.Errorf("config: unknown module %q", id))
		}
	}

	if cfg.Interview.PersonaFile != "" {
		if err := checkReadable(cfg.Interview.PersonaFile); err != nil {
			errs = append(errs, fmt.Errorf("config: interview.persona_file: %w", err))
		}
	}
	if cfg.Interview.QuestionsFile != "" {
		if err := checkReadable(cfg.Interview.QuestionsFile); err != nil {
			errs = append(errs, fmt.Errorf("config: interview.questions_file: %w", err))
		}
	}

	return errors.Join(errs...)
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
