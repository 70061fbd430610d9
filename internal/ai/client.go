package ai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/llm"
	"github.com/studyace/studyace-server/internal/metrics"
)

// ErrMissingAPIKey is returned when no Gemini API key is configured.
var ErrMissingAPIKey = errors.New("missing gemini api key")

// ErrProvider marks a failure reported by the Gemini API itself. The raw
// provider message stays in the chain for logs but never reaches clients.
var ErrProvider = errors.New("ai provider request failed")

// Task selects the generation settings for a relay call.
type Task string

const (
	TaskAnalyze   Task = "analyze"
	TaskRecommend Task = "recommend"
	TaskChat      Task = "chat"
	TaskStudyPlan Task = "studyplan"
)

type taskSettings struct {
	temperature     float32
	maxOutputTokens int32
}

// Analytical tasks run cold, conversation runs warmer. A zero token budget
// falls back to the configured default.
var settingsByTask = map[Task]taskSettings{
	TaskAnalyze:   {temperature: 0.2},
	TaskRecommend: {temperature: 0.2, maxOutputTokens: 256},
	TaskChat:      {temperature: 0.7},
	TaskStudyPlan: {temperature: 0.3},
}

// Request is one relay call to the model.
type Request struct {
	Prompt       string
	SystemPrompt string
	History      []llm.Message
	Task         Task
}

// Client relays requests to the Gemini API, rotating across configured keys.
type Client struct {
	cfg     *config.Config
	metrics *metrics.Store
	prompts *Prompts

	mu        sync.Mutex
	clients   map[string]*genai.Client
	apiKeys   []string
	apiKeyIdx int
}

// NewClient builds the relay client. Construction succeeds without API keys;
// calls fail with ErrMissingAPIKey until a key is configured.
func NewClient(cfg *config.Config, metricsStore *metrics.Store) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if metricsStore == nil {
		return nil, errors.New("metrics store is nil")
	}
	prompts, err := NewPrompts()
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg:     cfg,
		metrics: metricsStore,
		prompts: prompts,
		clients: make(map[string]*genai.Client),
		apiKeys: cfg.Gemini.APIKeys,
	}, nil
}

// Ready reports whether at least one API key is configured.
func (c *Client) Ready() bool {
	return len(c.apiKeys) > 0
}

// AnalyzePaper produces a structured analysis of a question paper.
func (c *Client) AnalyzePaper(ctx context.Context, paperContent string, subject string) (*AnalysisResult, error) {
	prompt, err := c.prompts.AnalyzeUser(paperContent, subject)
	if err != nil {
		return nil, err
	}

	text, err := c.Generate(ctx, Request{Prompt: prompt, Task: TaskAnalyze})
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := ExtractJSONObject(text, &raw); err != nil {
		return nil, err
	}
	return DecodeAnalysisResult(raw)
}

// RecommendTopics suggests study topics for a question paper.
func (c *Client) RecommendTopics(ctx context.Context, paperContent string, subject string) ([]string, error) {
	prompt, err := c.prompts.RecommendUser(paperContent, subject)
	if err != nil {
		return nil, err
	}

	text, err := c.Generate(ctx, Request{Prompt: prompt, Task: TaskRecommend})
	if err != nil {
		return nil, err
	}

	var topics []string
	if err := ExtractJSONArray(text, &topics); err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, &ParseError{Reason: "empty topic list", Raw: text}
	}
	return topics, nil
}

// Chat answers a student message with the prior conversation as context.
func (c *Client) Chat(ctx context.Context, message string, history []llm.Message) (string, error) {
	system, err := c.prompts.ChatSystem()
	if err != nil {
		return "", err
	}

	text, err := c.Generate(ctx, Request{
		Prompt:       message,
		SystemPrompt: system,
		History:      history,
		Task:         TaskChat,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", &ParseError{Reason: "empty chat response"}
	}
	return text, nil
}

// GenerateStudyPlan builds a day-by-day plan for an upcoming exam.
func (c *Client) GenerateStudyPlan(ctx context.Context, examName string, daysUntilExam int, topics []string) (*StudyPlan, error) {
	prompt, err := c.prompts.StudyPlanUser(examName, daysUntilExam, topics)
	if err != nil {
		return nil, err
	}

	text, err := c.Generate(ctx, Request{Prompt: prompt, Task: TaskStudyPlan})
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := ExtractJSONObject(text, &raw); err != nil {
		return nil, err
	}
	return DecodeStudyPlan(raw)
}

// Generate performs one model call and returns the raw response text.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	response, err := c.generate(ctx, req)
	if err != nil {
		c.metrics.RecordError(string(req.Task), time.Since(start))
		return "", err
	}

	usage := extractUsage(response)
	c.metrics.RecordSuccess(string(req.Task), time.Since(start), usage)
	return response.Text(), nil
}

func (c *Client) generate(ctx context.Context, req Request) (*genai.GenerateContentResponse, error) {
	client, err := c.selectClient(ctx)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(c.cfg.Gemini.TimeoutSeconds) * time.Second
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	genConfig := c.buildGenerateConfig(req.SystemPrompt, req.Task)
	contents := buildContents(req.Prompt, req.History)
	response, err := client.Models.GenerateContent(callCtx, c.cfg.Gemini.Model, contents, genConfig)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w: %w", ErrProvider, err)
	}
	return response, nil
}

func (c *Client) selectClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.apiKeys) == 0 {
		return nil, ErrMissingAPIKey
	}

	key := c.apiKeys[c.apiKeyIdx%len(c.apiKeys)]
	c.apiKeyIdx++
	if client, ok := c.clients[key]; ok {
		return client, nil
	}

	timeout := time.Duration(c.cfg.Gemini.TimeoutSeconds) * time.Second
	client, err := genai.NewClient(context.WithoutCancel(ctx), &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			Timeout: genai.Ptr(timeout),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	c.clients[key] = client
	return client, nil
}

func (c *Client) buildGenerateConfig(systemPrompt string, task Task) *genai.GenerateContentConfig {
	settings, ok := settingsByTask[task]
	if !ok {
		settings = settingsByTask[TaskChat]
	}
	maxTokens := settings.maxOutputTokens
	if maxTokens == 0 {
		maxTokens = int32(c.cfg.Gemini.MaxOutputTokens)
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(settings.temperature),
		MaxOutputTokens: maxTokens,
	}
	if systemPrompt != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	return genConfig
}

func buildContents(prompt string, history []llm.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, entry := range history {
		var role genai.Role = genai.RoleUser
		if strings.EqualFold(entry.Role, llm.RoleAssistant) {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(entry.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))
	return contents
}

func extractUsage(response *genai.GenerateContentResponse) llm.Usage {
	if response == nil || response.UsageMetadata == nil {
		return llm.Usage{}
	}
	usage := response.UsageMetadata
	return llm.Usage{
		InputTokens:  int(usage.PromptTokenCount),
		OutputTokens: int(usage.CandidatesTokenCount) + int(usage.ThoughtsTokenCount),
		TotalTokens:  int(usage.TotalTokenCount),
	}
}

// DaysUntil returns how many whole days remain before the exam date,
// rounding partial days up and never reporting less than one.
func DaysUntil(examDate time.Time, now time.Time) int {
	days := int(math.Ceil(examDate.Sub(now).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
