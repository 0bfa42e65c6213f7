package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"studysphere/internal/apperr"
	"studysphere/internal/config"
)

// GeneratedQuestion is one multiple-choice question as returned by the model.
type GeneratedQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
	Explanation        string   `json:"explanation"`
	TopicCovered       string   `json:"topicCovered"`
	Difficulty         string   `json:"difficulty"`
}

// GeneratedLesson is a full lesson plan as returned by the model.
type GeneratedLesson struct {
	Topic             string              `json:"topic"`
	TopicTitle        string              `json:"topicTitle"`
	MainContent       string              `json:"mainContent"`
	SummaryPoints     []string            `json:"summaryPoints"`
	PracticeQuestions []GeneratedQuestion `json:"practiceQuestions"`
}

// LessonRequest selects what to generate a lesson about.
type LessonRequest struct {
	Subject    string
	ClassLevel string
	Topic      string
}

// ExamRequest carries the aggregated study material the questions must be
// grounded on.
type ExamRequest struct {
	Subject       string
	ClassLevel    string
	Topics        []string
	Content       string
	SummaryPoints []string
	QuestionCount int
}

// Generator produces curriculum content through an external model.
// Implementations are slow and may fail; callers get a single attempt with
// no fallback content.
type Generator interface {
	GenerateLessonContent(ctx context.Context, req LessonRequest) (*GeneratedLesson, error)
	GenerateExamQuestions(ctx context.Context, req ExamRequest) ([]GeneratedQuestion, error)
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

var _ Generator = (*Client)(nil)

func NewClient(cfg config.AI, log *zap.SugaredLogger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (c *Client) GenerateLessonContent(ctx context.Context, req LessonRequest) (*GeneratedLesson, error) {
	prompt := buildLessonPrompt(req)

	raw, err := c.complete(ctx, lessonSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON object in model reply: %w", apperr.ErrGeneration)
	}

	var lesson GeneratedLesson
	if err := json.Unmarshal([]byte(jsonStr), &lesson); err != nil {
		return nil, fmt.Errorf("unparsable lesson from model: %v: %w", err, apperr.ErrGeneration)
	}
	if lesson.Topic == "" && lesson.MainContent == "" {
		return nil, fmt.Errorf("model returned an empty lesson: %w", apperr.ErrGeneration)
	}
	return &lesson, nil
}

func (c *Client) GenerateExamQuestions(ctx context.Context, req ExamRequest) ([]GeneratedQuestion, error) {
	prompt := buildExamPrompt(req)

	raw, err := c.complete(ctx, examSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	jsonStr := extractJSONArray(raw)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON array in model reply: %w", apperr.ErrGeneration)
	}

	var questions []GeneratedQuestion
	if err := json.Unmarshal([]byte(jsonStr), &questions); err != nil {
		return nil, fmt.Errorf("unparsable questions from model: %v: %w", err, apperr.ErrGeneration)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("model returned no questions: %w", apperr.ErrGeneration)
	}
	return questions, nil
}

const (
	lessonSystemPrompt = "You are a curriculum author. Reply with a single JSON object and nothing else."
	examSystemPrompt   = "You are an exam author. Reply with a single JSON array and nothing else."
)

func buildLessonPrompt(req LessonRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a complete lesson for a class %s student.\n", req.ClassLevel)
	fmt.Fprintf(&b, "Subject: %s\nTopic: %s\n\n", req.Subject, req.Topic)
	b.WriteString(`Return JSON with this shape:
{
  "topic": "...",
  "topicTitle": "...",
  "mainContent": "markdown lesson body",
  "summaryPoints": ["..."],
  "practiceQuestions": [
    {"question": "...", "options": ["a","b","c","d"], "correctOptionIndex": 0, "explanation": "..."}
  ]
}
Every question must have exactly 4 options.`)
	return b.String()
}

func buildExamPrompt(req ExamRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d exam-style questions for a class %s student in %s.\n",
		req.QuestionCount, req.ClassLevel, req.Subject)
	if len(req.Topics) > 0 {
		fmt.Fprintf(&b, "Topics covered: %s\n", strings.Join(req.Topics, ", "))
	}
	if len(req.SummaryPoints) > 0 {
		fmt.Fprintf(&b, "Key points:\n- %s\n", strings.Join(req.SummaryPoints, "\n- "))
	}
	fmt.Fprintf(&b, "\nBase every question on this material:\n\n%s\n\n", req.Content)
	b.WriteString(`Return a JSON array where each element has this shape:
{"question": "...", "options": ["a","b","c","d"], "correctOptionIndex": 0,
 "explanation": "...", "topicCovered": "...", "difficulty": "easy|medium|hard"}
Every question must have exactly 4 options. Mix difficulties.`)
	return b.String()
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// complete performs one chat-completions call. A transient failure is the
// caller's problem: there is no retry and no fallback content.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %v: %w", err, apperr.ErrGeneration)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading generation response: %v: %w", err, apperr.ErrGeneration)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation endpoint returned %d: %s: %w",
			resp.StatusCode, truncate(string(data), 200), apperr.ErrGeneration)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("unparsable generation response: %v: %w", err, apperr.ErrGeneration)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("generation endpoint error: %s: %w", parsed.Error.Message, apperr.ErrGeneration)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("generation response has no choices: %w", apperr.ErrGeneration)
	}

	c.log.Debugw("generation call finished", "model", c.model, "elapsed", time.Since(start))
	return parsed.Choices[0].Message.Content, nil
}

// extractJSON pulls the first balanced JSON object out of a model reply,
// tolerating prose or code fences around it.
func extractJSON(s string) string {
	return extractBalanced(s, '{', '}')
}

// extractJSONArray pulls the first balanced JSON array out of a model reply.
func extractJSONArray(s string) string {
	return extractBalanced(s, '[', ']')
}

func extractBalanced(s string, open, closing byte) string {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
