package gateway

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/dverbeek/mockmate/internal/interview"
	"github.com/dverbeek/mockmate/internal/memory"
	"github.com/dverbeek/mockmate/internal/provider"
	"github.com/dverbeek/mockmate/internal/provider/providertest"
)

// happyMock returns a provider double that succeeds at every stage.
func happyMock() *providertest.MockSpeechProvider {
	return &providertest.MockSpeechProvider{
		TranscribeFunc: func(ctx context.Context, audio []byte, filename string) (string, error) {
			return "Tell me about yourself.", nil
		},
		CompleteFunc: func(ctx context.Context, req provider.ChatRequest) (string, error) {
			return "I am a software engineer.", nil
		},
		SynthesizeFunc: func(ctx context.Context, text string) (provider.Speech, error) {
			return provider.Speech{Audio: []byte("mp3"), MIME: "audio/mpeg"}, nil
		},
	}
}

// newTestGateway builds a gateway with its router, bypassing the module
// lifecycle. mutate tweaks the config before the router is built.
func newTestGateway(t *testing.T, mock *providertest.MockSpeechProvider, mutate func(*Config)) (*Gateway, http.Handler) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewInMemoryHistoryStore(0)
	pipeline := interview.NewPipeline(mock, store, "persona", "", logger)

	g := &Gateway{
		logger:   logger,
		metrics:  NewMetrics(),
		pipeline: pipeline,
	}
	g.config.defaults()
	if mutate != nil {
		mutate(&g.config)
	}
	pipeline.SetStageObserver(g.metrics)

	return g, g.buildRouter()
}

// audioForm builds a multipart body with one audio part.
func audioForm(t *testing.T, field, filename, contentType string, data []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	if contentType != "" {
		hdr.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}
