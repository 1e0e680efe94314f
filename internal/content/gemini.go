package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/learning/quiz"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-2.0-flash"
	transcriptPromptCap  = 3000
)

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// GeminiGenerator generates lessons and quizzes with the generateContent REST
// endpoint.
type GeminiGenerator struct {
	http  *resty.Client
	model string
	key   string
	log   *logger.Logger
}

func NewGeminiGenerator(cfg GeminiConfig, log *logger.Logger) (*GeminiGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: %w", ErrNotConfigured)
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultGeminiBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &GeminiGenerator{
		http:  client,
		model: model,
		key:   cfg.APIKey,
		log:   log.With("service", "GeminiGenerator"),
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	var out geminiResponse
	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParam("key", g.key).
		SetBody(geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}).
		SetResult(&out).
		Post("/v1beta/models/" + g.model + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("gemini status %d", resp.StatusCode())
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: %w: no candidates", ErrMalformedOutput)
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

func (g *GeminiGenerator) Lessons(ctx context.Context, req LessonRequest) ([]api.Lesson, error) {
	transcript := req.Transcript
	if len(transcript) > transcriptPromptCap {
		transcript = transcript[:transcriptPromptCap]
	}
	prompt := fmt.Sprintf(`Create %d structured lessons from this transcript about %s.

Mode: %s
- Quick: Short, focused lessons (2-3 paragraphs each)
- Detailed: In-depth lessons (4-5 paragraphs each)
- Mixed: Balanced approach (3-4 paragraphs each)

Write the lessons in %s.

Transcript: %s...

Format each lesson as:
LESSON_TITLE: [Clear, descriptive title]
LESSON_CONTENT: [Educational content with examples, explanations, and key points]

Make the lessons progressive, building upon each other.`,
		LessonCount(req.Mode), req.Topic, req.Mode, languageOr(req.Language), transcript)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	lessons := ParseLessons(text)
	if len(lessons) == 0 {
		return nil, fmt.Errorf("gemini lessons: %w", ErrMalformedOutput)
	}
	g.log.Debug("Generated lessons", "topic", req.Topic, "count", len(lessons))
	return lessons, nil
}

func (g *GeminiGenerator) Quiz(ctx context.Context, lesson api.Lesson) ([]quiz.Question, error) {
	prompt := fmt.Sprintf(`Create 5-7 quiz questions based on this lesson about %s.

Lesson Content: %s

Create a mix of question types:
- Multiple choice (4 options)
- True/False
- Fill in the blank

Format as JSON:
{"questions": [
  {"type": "mcq", "question": "Question text?", "options": ["A", "B", "C", "D"], "correct_answer": 0, "explanation": "Why this is correct"},
  {"type": "true_false", "question": "Statement to evaluate", "correct_answer": true, "explanation": "Explanation"},
  {"type": "fill_blank", "question": "Complete this: Python is a _____ language", "correct_answer": "programming", "explanation": "Explanation"}
]}`, lesson.Title, lesson.Content)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseQuiz(text)
}

// ParseLessons reads LESSON_TITLE / LESSON_CONTENT blocks. Orders start at 1.
func ParseLessons(text string) []api.Lesson {
	blocks := strings.Split(text, "LESSON_TITLE:")
	var lessons []api.Lesson
	for _, block := range blocks[1:] {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		title := strings.TrimSpace(lines[0])
		var body []string
		for i, line := range lines[1:] {
			if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "LESSON_CONTENT:"); ok {
				body = append([]string{strings.TrimSpace(rest)}, lines[i+2:]...)
				break
			}
		}
		if title == "" {
			continue
		}
		lessons = append(lessons, api.Lesson{
			Title:   title,
			Content: strings.TrimSpace(strings.Join(body, "\n")),
			Order:   len(lessons) + 1,
		})
	}
	return lessons
}

// ParseQuiz extracts the first-to-last brace span and decodes its questions.
func ParseQuiz(text string) ([]quiz.Question, error) {
	raw := jsonObject.FindString(text)
	if raw == "" {
		return nil, fmt.Errorf("quiz json: %w", ErrMalformedOutput)
	}
	var payload struct {
		Questions []quiz.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("quiz json: %w: %v", ErrMalformedOutput, err)
	}
	qs := ValidQuestions(payload.Questions)
	if len(qs) == 0 {
		return nil, fmt.Errorf("quiz json: %w: no usable questions", ErrMalformedOutput)
	}
	return qs, nil
}
