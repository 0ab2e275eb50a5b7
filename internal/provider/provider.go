// Package provider defines the contract between the interview pipeline and
// external speech/language services. Concrete implementations live in
// separate packages (e.g., provider.openai) and typically also implement
// core.Module for lifecycle management.
package provider

import "context"

// Transcriber converts spoken audio to text.
type Transcriber interface {
	// Transcribe performs a single blocking speech-to-text call.
	// The filename hint lets the service detect the container format.
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Completer generates an assistant reply from a chat request.
type Completer interface {
	// Complete sends a chat completion request and returns the reply text.
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Synthesizer converts text to spoken audio.
type Synthesizer interface {
	// Synthesize performs a single blocking text-to-speech call.
	// It fails with ErrEmptyText before any network I/O when text is blank.
	Synthesize(ctx context.Context, text string) (Speech, error)
}

// SpeechProvider bundles the three operations the interview pipeline needs.
type SpeechProvider interface {
	Transcriber
	Completer
	Synthesizer
}
