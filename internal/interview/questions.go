package interview

import (
	_ "embed"
	"log/slog"
	"os"
	"strings"
	"sync"
)

//go:embed prompts/questions.txt
var defaultQuestions string

// questionList lazily loads the preset interview questions. The parsed list
// is cached after the first successful load; a load failure yields an empty
// list and is retried on the next call.
type questionList struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	cached []string
	loaded bool
}

// Load returns the preset questions, one per non-blank line of the source.
func (q *questionList) Load() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.loaded {
		return q.cached
	}

	content := defaultQuestions
	if q.path != "" {
		raw, err := os.ReadFile(q.path)
		if err != nil {
			q.logger.Error("loading preset questions failed", "path", q.path, "error", err)
			return nil
		}
		content = string(raw)
	}

	q.cached = parseQuestions(content)
	q.loaded = true
	return q.cached
}

// parseQuestions splits content into trimmed, non-empty lines.
func parseQuestions(content string) []string {
	var questions []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			questions = append(questions, line)
		}
	}
	return questions
}
