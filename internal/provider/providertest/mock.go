// Package providertest provides test helpers for the provider package.
package providertest

import (
	"context"
	"sync"

	"github.com/dverbeek/mockmate/internal/provider"
)

// MockSpeechProvider is a configurable test double for provider.SpeechProvider.
// Set the Func fields to control behavior. Unset funcs panic on call.
// All methods are safe for concurrent use.
type MockSpeechProvider struct {
	TranscribeFunc func(ctx context.Context, audio []byte, filename string) (string, error)
	CompleteFunc   func(ctx context.Context, req provider.ChatRequest) (string, error)
	SynthesizeFunc func(ctx context.Context, text string) (provider.Speech, error)

	mu              sync.Mutex
	TranscribeCalls int
	CompleteCalls   int
	SynthesizeCalls int
}

// Transcribe delegates to TranscribeFunc and tracks call count.
func (m *MockSpeechProvider) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	m.mu.Lock()
	m.TranscribeCalls++
	m.mu.Unlock()
	return m.TranscribeFunc(ctx, audio, filename)
}

// Complete delegates to CompleteFunc and tracks call count.
func (m *MockSpeechProvider) Complete(ctx context.Context, req provider.ChatRequest) (string, error) {
	m.mu.Lock()
	m.CompleteCalls++
	m.mu.Unlock()
	return m.CompleteFunc(ctx, req)
}

// Synthesize delegates to SynthesizeFunc and tracks call count.
func (m *MockSpeechProvider) Synthesize(ctx context.Context, text string) (provider.Speech, error) {
	m.mu.Lock()
	m.SynthesizeCalls++
	m.mu.Unlock()
	return m.SynthesizeFunc(ctx, text)
}

// Calls returns a consistent snapshot of the call counters.
func (m *MockSpeechProvider) Calls() (transcribe, complete, synthesize int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.TranscribeCalls, m.CompleteCalls, m.SynthesizeCalls
}

// Interface guard.
var _ provider.SpeechProvider = (*MockSpeechProvider)(nil)
