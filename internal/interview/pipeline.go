package interview

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dverbeek/mockmate/internal/memory"
	"github.com/dverbeek/mockmate/internal/provider"
)

// Stage names a pipeline stage for error reporting and tracing.
type Stage string

// Pipeline stages in execution order.
const (
	StageTranscribe Stage = "transcribe"
	StageGenerate   Stage = "generate"
	StageSynthesize Stage = "synthesize"
)

// StageError reports which pipeline stage failed. Later stages are not
// invoked after a failure.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("interview pipeline: %s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one pipeline run.
type Result struct {
	// Transcript is the recognized question text. For text questions it
	// echoes the input verbatim.
	Transcript string

	// Answer is the generated answer text.
	Answer string

	// Audio is the synthesized answer audio.
	Audio []byte

	// MIME is the media type of Audio.
	MIME string
}

// StageObserver receives the duration of each completed pipeline stage.
type StageObserver interface {
	ObserveStage(stage string, d time.Duration)
}

// Pipeline composes transcription, answer generation, and speech synthesis
// into one operation per question.
type Pipeline struct {
	transcriber provider.Transcriber
	synthesizer provider.Synthesizer
	generator   *Generator
	history     memory.HistoryStore
	questions   *questionList
	tracer      trace.Tracer
	logger      *slog.Logger
	observer    StageObserver
}

// SetStageObserver wires stage timing into a metrics sink. Must be called
// before the pipeline serves requests.
func (p *Pipeline) SetStageObserver(o StageObserver) {
	p.observer = o
}

// NewPipeline creates a Pipeline around a speech provider and a history
// store. questionsPath optionally overrides the embedded preset questions.
func NewPipeline(speech provider.SpeechProvider, history memory.HistoryStore, persona, questionsPath string, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		transcriber: speech,
		synthesizer: speech,
		generator:   NewGenerator(speech, history, persona, logger),
		history:     history,
		questions:   &questionList{path: questionsPath, logger: logger},
		tracer:      otel.Tracer("mockmate/interview"),
		logger:      logger,
	}
}

// ProcessAudio runs the full pipeline for a spoken question:
// transcribe → generate → synthesize.
func (p *Pipeline) ProcessAudio(ctx context.Context, sessionID string, audio []byte, filename string) (Result, error) {
	ctx, span := p.tracer.Start(ctx, "interview.process_audio",
		trace.WithAttributes(attribute.Int("audio.bytes", len(audio))))
	defer span.End()

	transcript, err := p.transcribe(ctx, audio, filename)
	if err != nil {
		return Result{}, p.fail(span, StageTranscribe, err)
	}
	p.logger.Info("question transcribed", "session", sessionID, "chars", len(transcript))

	return p.respond(ctx, span, sessionID, transcript)
}

// ProcessText runs the pipeline for a typed or preset question, skipping
// transcription. The result's Transcript echoes the question verbatim.
func (p *Pipeline) ProcessText(ctx context.Context, sessionID, question string) (Result, error) {
	ctx, span := p.tracer.Start(ctx, "interview.process_text")
	defer span.End()

	return p.respond(ctx, span, sessionID, question)
}

// respond runs the generate and synthesize stages shared by both entry
// points.
func (p *Pipeline) respond(ctx context.Context, span trace.Span, sessionID, question string) (Result, error) {
	answer, err := p.generate(ctx, sessionID, question)
	if err != nil {
		return Result{}, p.fail(span, StageGenerate, err)
	}

	speech, err := p.synthesize(ctx, answer)
	if err != nil {
		return Result{}, p.fail(span, StageSynthesize, err)
	}

	p.logger.Info("question answered",
		"session", sessionID,
		"answer_chars", len(answer),
		"audio_bytes", len(speech.Audio),
	)
	return Result{
		Transcript: question,
		Answer:     answer,
		Audio:      speech.Audio,
		MIME:       speech.MIME,
	}, nil
}

func (p *Pipeline) transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	ctx, span := p.tracer.Start(ctx, "interview.transcribe")
	defer span.End()
	defer p.observe(StageTranscribe, time.Now())
	text, err := p.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transcription failed")
	}
	return text, err
}

func (p *Pipeline) generate(ctx context.Context, sessionID, question string) (string, error) {
	ctx, span := p.tracer.Start(ctx, "interview.generate")
	defer span.End()
	defer p.observe(StageGenerate, time.Now())
	answer, err := p.generator.Generate(ctx, sessionID, question)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
	}
	return answer, err
}

func (p *Pipeline) synthesize(ctx context.Context, answer string) (provider.Speech, error) {
	ctx, span := p.tracer.Start(ctx, "interview.synthesize")
	defer span.End()
	defer p.observe(StageSynthesize, time.Now())
	speech, err := p.synthesizer.Synthesize(ctx, answer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "synthesis failed")
	}
	return speech, err
}

// observe reports the stage duration to the configured observer.
func (p *Pipeline) observe(stage Stage, started time.Time) {
	if p.observer != nil {
		p.observer.ObserveStage(string(stage), time.Since(started))
	}
}

// fail records the stage failure on the parent span and wraps the error.
func (p *Pipeline) fail(span trace.Span, stage Stage, err error) error {
	stageErr := &StageError{Stage: stage, Err: err}
	span.RecordError(stageErr)
	span.SetStatus(codes.Error, string(stage)+" stage failed")
	p.logger.Error("pipeline stage failed", "stage", string(stage), "error", err)
	return stageErr
}

// Reset clears the session's conversation history. Unknown sessions are a
// no-op.
func (p *Pipeline) Reset(sessionID string) {
	p.history.Reset(sessionID)
	p.logger.Info("conversation reset", "session", sessionID)
}

// PairCount returns the number of completed exchanges for the session.
func (p *Pipeline) PairCount(sessionID string) int {
	return p.history.PairCount(sessionID)
}

// Questions returns the preset interview questions.
func (p *Pipeline) Questions() []string {
	return p.questions.Load()
}
