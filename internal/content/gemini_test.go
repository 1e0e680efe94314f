package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/learning/quiz"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

func geminiServer(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method=%s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/v1beta/models/test-model:generateContent") {
			t.Errorf("path=%s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "k" {
			t.Errorf("api key not sent")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		body, _ := json.Marshal(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{map[string]any{"text": text}}},
			}},
		})
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGemini(t *testing.T, srv *httptest.Server) *GeminiGenerator {
	t.Helper()
	g, err := NewGeminiGenerator(GeminiConfig{APIKey: "k", BaseURL: srv.URL, Model: "test-model"}, logger.Nop())
	if err != nil {
		t.Fatalf("NewGeminiGenerator: %v", err)
	}
	return g
}

func TestGeminiLessons(t *testing.T) {
	text := "Intro\nLESSON_TITLE: Light reactions\nLESSON_CONTENT:\nChlorophyll absorbs light.\nWater splits.\n" +
		"LESSON_TITLE: Calvin cycle\nLESSON_CONTENT: Carbon is fixed.\n"
	g := newTestGemini(t, geminiServer(t, http.StatusOK, text))

	lessons, err := g.Lessons(context.Background(), LessonRequest{Topic: "Photosynthesis", Mode: api.ModeQuick})
	if err != nil {
		t.Fatalf("Lessons: %v", err)
	}
	if len(lessons) != 2 {
		t.Fatalf("len=%d want 2", len(lessons))
	}
	if lessons[0].Title != "Light reactions" || lessons[0].Order != 1 {
		t.Fatalf("lesson 0=%+v", lessons[0])
	}
	if lessons[0].Content != "Chlorophyll absorbs light.\nWater splits." {
		t.Fatalf("lesson 0 content=%q", lessons[0].Content)
	}
	if lessons[1].Content != "Carbon is fixed." || lessons[1].Order != 2 {
		t.Fatalf("lesson 1=%+v", lessons[1])
	}
}

func TestGeminiQuiz(t *testing.T) {
	text := "Here you go:\n```json\n" + `{"questions":[
		{"type":"mcq","question":"Q1","options":["a","b"],"correct_answer":1,"explanation":"e"},
		{"type":"mcq","question":"Q2","options":["a"],"correct_answer":4,"explanation":"bad index"},
		{"type":"true_false","question":"Q3","correct_answer":false,"explanation":"e"}
	]}` + "\n```"
	g := newTestGemini(t, geminiServer(t, http.StatusOK, text))

	qs, err := g.Quiz(context.Background(), api.Lesson{Title: "L", Content: "C"})
	if err != nil {
		t.Fatalf("Quiz: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("len=%d want 2 (bad index dropped)", len(qs))
	}
	if qs[0].Type != quiz.TypeMultipleChoice || qs[0].Correct.Index() != 1 {
		t.Fatalf("q0=%+v", qs[0])
	}
	if qs[1].Type != quiz.TypeTrueFalse || qs[1].Correct.Bool() {
		t.Fatalf("q1=%+v", qs[1])
	}
}

func TestGeminiNon200(t *testing.T) {
	g := newTestGemini(t, geminiServer(t, http.StatusInternalServerError, ""))
	if _, err := g.Lessons(context.Background(), LessonRequest{Topic: "x"}); err == nil {
		t.Fatalf("expected error on 500")
	}
}

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(GeminiConfig{}, logger.Nop())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err=%v want ErrNotConfigured", err)
	}
}

func TestParseQuizMalformed(t *testing.T) {
	cases := []string{"no json here", `{"questions":[]}`, `{"questions":[{"type":"essay","question":"?"}]}`}
	for _, in := range cases {
		if _, err := ParseQuiz(in); !errors.Is(err, ErrMalformedOutput) {
			t.Fatalf("ParseQuiz(%q) err=%v want ErrMalformedOutput", in, err)
		}
	}
}
