package gateway

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// maxQuestionChars bounds typed questions.
const maxQuestionChars = 1000

// speakResponse is returned by POST /speak and POST /ask.
type speakResponse struct {
	Transcription string `json:"transcription"`
	Response      string `json:"response"`
	AudioData     string `json:"audioData"`
	AudioFormat   string `json:"audioFormat"`
}

// handleSpeak answers a spoken question: multipart audio in, JSON with the
// transcript, the answer text, and base64 answer audio out.
func (g *Gateway) handleSpeak() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		audio, filename, ok := g.readAudioUpload(w, r)
		if !ok {
			return
		}

		result, err := g.pipeline.ProcessAudio(r.Context(), sessionID(r), audio, filename)
		if err != nil {
			g.writePipelineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, speakResponse{
			Transcription: result.Transcript,
			Response:      result.Answer,
			AudioData:     base64.StdEncoding.EncodeToString(result.Audio),
			AudioFormat:   result.MIME,
		})
	}
}

// handleSpeakAudio runs the same pipeline but streams the answer audio
// directly, for clients that feed it straight into playback.
func (g *Gateway) handleSpeakAudio() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		audio, filename, ok := g.readAudioUpload(w, r)
		if !ok {
			return
		}

		result, err := g.pipeline.ProcessAudio(r.Context(), sessionID(r), audio, filename)
		if err != nil {
			g.writePipelineError(w, err)
			return
		}

		w.Header().Set("Content-Type", result.MIME)
		w.Header().Set("Content-Disposition", `inline; filename="answer.mp3"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Audio)
	}
}

// readAudioUpload extracts the multipart audio field, enforcing the size
// cap and the content-type allow-list. On failure it writes the error
// response and returns ok=false.
func (g *Gateway) readAudioUpload(w http.ResponseWriter, r *http.Request) (audio []byte, filename string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, g.config.MaxAudioBytes)

	if err := r.ParseMultipartForm(g.config.MaxAudioBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("audio exceeds the %d byte limit", g.config.MaxAudioBytes))
			return nil, "", false
		}
		writeError(w, http.StatusBadRequest, "request is not valid multipart form data")
		return nil, "", false
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'audio' is required")
		return nil, "", false
	}
	defer file.Close()

	if ct := header.Header.Get("Content-Type"); !g.audioTypeAllowed(ct) {
		writeError(w, http.StatusBadRequest, "unsupported audio format: "+ct)
		return nil, "", false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading audio upload failed")
		return nil, "", false
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "audio upload is empty")
		return nil, "", false
	}

	return data, header.Filename, true
}

// audioTypeAllowed checks the upload content type against the allow-list.
// An empty content type is accepted since browsers do not always set one
// per part.
func (g *Gateway) audioTypeAllowed(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, allowed := range g.config.AudioTypes {
		if strings.EqualFold(mediaType, allowed) {
			return true
		}
	}
	return false
}

// askRequest is the body of POST /ask.
type askRequest struct {
	Question string `json:"question"`
}

// handleAsk answers a typed question, skipping transcription.
func (g *Gateway) handleAsk() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req askRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "request body must be JSON with a 'question' field")
			return
		}
		question := strings.TrimSpace(req.Question)
		if question == "" {
			writeError(w, http.StatusBadRequest, "question must not be blank")
			return
		}
		if utf8.RuneCountInString(question) > maxQuestionChars {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("question exceeds %d characters", maxQuestionChars))
			return
		}

		result, err := g.pipeline.ProcessText(r.Context(), sessionID(r), question)
		if err != nil {
			g.writePipelineError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, speakResponse{
			Transcription: result.Transcript,
			Response:      result.Answer,
			AudioData:     base64.StdEncoding.EncodeToString(result.Audio),
			AudioFormat:   result.MIME,
		})
	}
}

// handleQuestions returns the preset interview questions.
func (g *Gateway) handleQuestions() http.HandlerFunc {
	type response struct {
		Questions []string `json:"questions"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		questions := g.pipeline.Questions()
		if questions == nil {
			questions = []string{}
		}
		writeJSON(w, http.StatusOK, response{Questions: questions})
	}
}

// handleReset clears the caller's conversation history.
func (g *Gateway) handleReset() http.HandlerFunc {
	type response struct {
		Message string `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		g.pipeline.Reset(sessionID(r))
		writeJSON(w, http.StatusOK, response{Message: "conversation reset"})
	}
}

// handleInfo reports the caller's session state.
func (g *Gateway) handleInfo() http.HandlerFunc {
	type response struct {
		ConversationHistorySize int    `json:"conversationHistorySize"`
		Status                  string `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, response{
			ConversationHistorySize: g.pipeline.PairCount(sessionID(r)),
			Status:                  "ready",
		})
	}
}

// handleHealth reports liveness. It bypasses auth so probes work without
// credentials.
func (g *Gateway) handleHealth() http.HandlerFunc {
	type response struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
		Version   string `json:"version"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, response{
			Status:    "ok",
			Timestamp: now().UTC().Format(time.RFC3339),
			Version:   Version,
		})
	}
}

// writeJSON sends v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
