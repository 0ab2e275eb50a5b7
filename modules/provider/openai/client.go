package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dverbeek/mockmate/internal/provider"
)

// maxResponseSize is the maximum response body size (10 MB).
// Protects against OOM from malformed or huge responses.
const maxResponseSize = 10 * 1024 * 1024

// synthesizedMIME is the media type of speech synthesis output; the request
// always asks for mp3.
const synthesizedMIME = "audio/mpeg"

// chatMessage mirrors the Chat Completions message wire format.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the Chat Completions request payload.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatResponse is the subset of the Chat Completions response we read.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// transcriptionResponse is the Whisper response payload. Text is a pointer
// so a response missing the field is distinguishable from an empty one.
type transcriptionResponse struct {
	Text *string `json:"text"`
}

// speechRequest is the text-to-speech request payload.
type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// doRequest sends the request and returns the response body and status code.
// The response body is limited to maxResponseSize bytes.
func (p *Provider) doRequest(req *http.Request) ([]byte, int, error) {
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, mapConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("openai: read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// doJSONPost marshals payload and POSTs it to path under the base URL.
func (p *Provider) doJSONPost(ctx context.Context, path string, payload any) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return p.doRequest(req)
}

// Transcribe sends the audio to the Whisper transcriptions endpoint and
// returns the recognized text.
func (p *Provider) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("openai: build multipart: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("openai: build multipart: %w", err)
	}
	if err := mw.WriteField("model", p.config.TranscriptionModel); err != nil {
		return "", fmt.Errorf("openai: build multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("openai: build multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/v1/audio/transcriptions", &buf)
	if err != nil {
		return "", fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	body, statusCode, err := p.doRequest(req)
	if err != nil {
		return "", err
	}
	if httpErr := mapHTTPError(statusCode, body); httpErr != nil {
		return "", fmt.Errorf("openai: transcription: %w", httpErr)
	}

	var resp transcriptionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("openai: unmarshal transcription: %w", err)
	}
	if resp.Text == nil {
		return "", fmt.Errorf("openai: transcription response has no text field: %w", provider.ErrBadResponse)
	}

	p.logger.Debug("transcription complete", "chars", len(*resp.Text))
	return *resp.Text, nil
}

// Complete sends a Chat Completions request with the message order
// [system, history..., user] and returns the assistant reply.
func (p *Provider) Complete(ctx context.Context, req provider.ChatRequest) (string, error) {
	cr := chatRequest{
		Model:       p.config.ChatModel,
		Messages:    toMessages(req),
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	}

	body, statusCode, err := p.doJSONPost(ctx, "/v1/chat/completions", cr)
	if err != nil {
		return "", err
	}
	if httpErr := mapHTTPError(statusCode, body); httpErr != nil {
		return "", fmt.Errorf("openai: chat completion: %w", httpErr)
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("openai: unmarshal completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: completion response has no choices: %w", provider.ErrBadResponse)
	}

	content := resp.Choices[0].Message.Content
	p.logger.Debug("completion generated", "chars", len(content))
	return content, nil
}

// Synthesize converts text to mp3 audio via the speech endpoint. Blank text
// fails fast with ErrEmptyText before any network call.
func (p *Provider) Synthesize(ctx context.Context, text string) (provider.Speech, error) {
	if strings.TrimSpace(text) == "" {
		return provider.Speech{}, provider.ErrEmptyText
	}

	sr := speechRequest{
		Model:          p.config.TTSModel,
		Input:          text,
		Voice:          p.config.TTSVoice,
		ResponseFormat: "mp3",
	}

	body, statusCode, err := p.doJSONPost(ctx, "/v1/audio/speech", sr)
	if err != nil {
		return provider.Speech{}, err
	}
	if httpErr := mapHTTPError(statusCode, body); httpErr != nil {
		return provider.Speech{}, fmt.Errorf("openai: speech synthesis: %w", httpErr)
	}

	p.logger.Debug("speech synthesized", "bytes", len(body))
	return provider.Speech{Audio: body, MIME: synthesizedMIME}, nil
}

// toMessages converts a ChatRequest to the wire message list.
func toMessages(req provider.ChatRequest) []chatMessage {
	src := req.Messages()
	msgs := make([]chatMessage, len(src))
	for i, m := range src {
		msgs[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}
	return msgs
}
