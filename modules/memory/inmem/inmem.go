// Package inmem implements the memory.history module: an in-memory,
// per-session conversation history with a scheduled prune of idle sessions.
// History does not survive process restarts.
package inmem

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dverbeek/mockmate/internal/core"
	"github.com/dverbeek/mockmate/internal/memory"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

func init() {
	core.RegisterModule(&Module{})
}

// Compile-time interface guards.
var (
	_ core.Module       = (*Module)(nil)
	_ core.Configurable = (*Module)(nil)
	_ core.Provisioner  = (*Module)(nil)
	_ core.Validator    = (*Module)(nil)
	_ core.Starter      = (*Module)(nil)
	_ core.Stopper      = (*Module)(nil)
)

// Module wires an InMemoryHistoryStore into the app and prunes idle
// sessions on a cron schedule.
type Module struct {
	config Config
	logger *slog.Logger
	store  *memory.InMemoryHistoryStore
	cron   *cron.Cron
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "memory.history",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return fmt.Errorf("memory.history: decode config: %w", err)
	}
	m.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.config.defaults()
	m.logger = ctx.Logger
	m.store = memory.NewInMemoryHistoryStore(m.config.MaxExchanges)

	ctx.RegisterService("memory.history", m.store)

	m.logger.Info("history store provisioned",
		"max_exchanges", m.config.MaxExchanges,
		"prune_after", m.config.parsedPruneAfter(),
	)
	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	return m.config.validate()
}

// Start implements core.Starter. It schedules the idle-session prune job.
func (m *Module) Start() error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	m.cron = cron.New(cron.WithParser(parser))

	maxIdle := m.config.parsedPruneAfter()
	if _, err := m.cron.AddFunc(m.config.PruneSchedule, func() {
		if pruned := m.store.Prune(maxIdle); pruned > 0 {
			m.logger.Info("pruned idle sessions", "sessions", pruned)
		}
	}); err != nil {
		return fmt.Errorf("memory.history: invalid prune_schedule %q: %w", m.config.PruneSchedule, err)
	}

	m.cron.Start()
	return nil
}

// Stop implements core.Stopper. It waits for a running prune to finish.
func (m *Module) Stop(ctx context.Context) error {
	if m.cron == nil {
		return nil
	}
	select {
	case <-m.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
