package interview

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dverbeek/mockmate/internal/memory"
	"github.com/dverbeek/mockmate/internal/provider"
)

// Generator produces persona-consistent answers and maintains the session's
// conversation history.
type Generator struct {
	completer provider.Completer
	history   memory.HistoryStore
	persona   string
	logger    *slog.Logger
}

// NewGenerator creates a Generator. The persona instruction is fixed for
// the process lifetime.
func NewGenerator(completer provider.Completer, history memory.HistoryStore, persona string, logger *slog.Logger) *Generator {
	return &Generator{
		completer: completer,
		history:   history,
		persona:   persona,
		logger:    logger,
	}
}

// Generate answers the utterance for the given session. The history
// snapshot sent to the provider reflects turns before this exchange; on
// success the user/assistant pair is appended. Snapshot, provider call, and
// appends run as one per-session critical section, so concurrent calls for
// the same session serialize while other sessions proceed.
// On failure the history is left unchanged.
func (g *Generator) Generate(ctx context.Context, sessionID, utterance string) (string, error) {
	var answer string
	err := g.history.Exchange(sessionID, func(history []provider.Message) (provider.Message, provider.Message, error) {
		reply, err := g.completer.Complete(ctx, provider.ChatRequest{
			System:  g.persona,
			History: history,
			User:    utterance,
		})
		if err != nil {
			return provider.Message{}, provider.Message{}, err
		}
		answer = reply
		return provider.Message{Role: provider.MessageRoleUser, Content: utterance},
			provider.Message{Role: provider.MessageRoleAssistant, Content: reply},
			nil
	})
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}

	g.logger.Debug("answer generated",
		"session", sessionID,
		"chars", len(answer),
		"pairs", g.history.PairCount(sessionID),
	)
	return answer, nil
}
