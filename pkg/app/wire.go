package app

import (
	"fmt"
	"log/slog"

	"github.com/dverbeek/mockmate/internal/config"
	"github.com/dverbeek/mockmate/internal/core"
	"github.com/dverbeek/mockmate/internal/interview"
	"github.com/dverbeek/mockmate/internal/memory"
	"github.com/dverbeek/mockmate/internal/provider"
)

// pipelineModule wraps the interview pipeline so it shows up in the app's
// module list. The pipeline itself has no lifecycle.
type pipelineModule struct {
	pipeline *interview.Pipeline
}

func (m *pipelineModule) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{ID: "interview.pipeline"}
}

// wirePipeline builds the interview pipeline from the services registered
// by the provider and history modules and publishes it for the gateway.
// Must be called after LoadModules and before Start.
func wirePipeline(app *core.App, appCtx *core.AppContext, cfg *config.Config, logger *slog.Logger) error {
	svc, ok := appCtx.Service("provider.speech")
	if !ok {
		return fmt.Errorf("wiring pipeline: service provider.speech not registered (is the provider module configured?)")
	}
	speech, ok := svc.(provider.SpeechProvider)
	if !ok {
		return fmt.Errorf("wiring pipeline: service provider.speech has unexpected type %T", svc)
	}

	svc, ok = appCtx.Service("memory.history")
	if !ok {
		return fmt.Errorf("wiring pipeline: service memory.history not registered (is the memory module configured?)")
	}
	store, ok := svc.(memory.HistoryStore)
	if !ok {
		return fmt.Errorf("wiring pipeline: service memory.history has unexpected type %T", svc)
	}

	persona, err := interview.LoadPersona(cfg.Interview.PersonaFile)
	if err != nil {
		return fmt.Errorf("wiring pipeline: %w", err)
	}

	pipeline := interview.NewPipeline(speech, store, persona, cfg.Interview.QuestionsFile, logger)
	appCtx.RegisterService("interview.pipeline", pipeline)
	app.AppendModule(&pipelineModule{pipeline: pipeline})

	logger.Info("interview pipeline wired",
		"persona_file", cfg.Interview.PersonaFile,
		"questions_file", cfg.Interview.QuestionsFile,
	)
	return nil
}
