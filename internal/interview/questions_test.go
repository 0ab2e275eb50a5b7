package interview

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseQuestions(t *testing.T) {
	t.Parallel()

	got := parseQuestions("Q1\n\nQ2\r\n  \nQ3")
	want := []string{"Q1", "Q2", "Q3"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("questions[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestQuestionListEmbeddedDefault(t *testing.T) {
	t.Parallel()

	q := &questionList{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	got := q.Load()
	if len(got) == 0 {
		t.Fatal("embedded question list is empty")
	}
	for i, line := range got {
		if line == "" {
			t.Errorf("questions[%d] is blank", i)
		}
	}
}

func TestQuestionListFileOverride(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "questions.txt")
	if err := os.WriteFile(path, []byte("Why us?\nWhy now?\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	q := &questionList{path: path, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	got := q.Load()
	if len(got) != 2 || got[0] != "Why us?" || got[1] != "Why now?" {
		t.Errorf("Load() = %v", got)
	}
}

func TestQuestionListUnreadableFileRetries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "questions.txt")
	q := &questionList{path: path, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	if got := q.Load(); got != nil {
		t.Errorf("Load() with missing file = %v, want nil", got)
	}

	// File appears later; the failed load was not cached.
	if err := os.WriteFile(path, []byte("Q1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := q.Load(); len(got) != 1 || got[0] != "Q1" {
		t.Errorf("Load() after file created = %v", got)
	}
}
