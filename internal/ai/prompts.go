package ai

import (
	"embed"
	"fmt"
	"strings"

	"github.com/studyace/studyace-server/internal/prompt"
)

//go:embed prompts/*.yml
var promptsFS embed.FS

// Prompts holds the relay's instruction templates.
type Prompts struct {
	prompts map[string]map[string]string
}

// NewPrompts loads the embedded prompt templates.
func NewPrompts() (*Prompts, error) {
	loaded, err := prompt.LoadYAMLDir(promptsFS, "prompts")
	if err != nil {
		return nil, fmt.Errorf("load ai prompts: %w", err)
	}
	return &Prompts{prompts: loaded}, nil
}

// AnalyzeUser renders the paper-analysis instruction prompt.
func (p *Prompts) AnalyzeUser(paperContent string, subject string) (string, error) {
	return p.render("analyze", "user", map[string]string{
		"subject":      subject,
		"paperContent": paperContent,
	})
}

// RecommendUser renders the topic-recommendation prompt.
func (p *Prompts) RecommendUser(paperContent string, subject string) (string, error) {
	return p.render("recommend", "user", map[string]string{
		"subject":      subject,
		"paperContent": paperContent,
	})
}

// StudyPlanUser renders the study-plan prompt.
func (p *Prompts) StudyPlanUser(examName string, daysUntilExam int, topics []string) (string, error) {
	return p.render("studyplan", "user", map[string]string{
		"examName":      examName,
		"daysUntilExam": fmt.Sprintf("%d", daysUntilExam),
		"topics":        strings.Join(topics, ", "),
	})
}

// ChatSystem returns the assistant system prompt.
func (p *Prompts) ChatSystem() (string, error) {
	data, err := prompt.Get(p.prompts, "chat")
	if err != nil {
		return "", err
	}
	return prompt.Field(data, "system", "chat.system")
}

func (p *Prompts) render(name string, key string, values map[string]string) (string, error) {
	data, err := prompt.Get(p.prompts, name)
	if err != nil {
		return "", err
	}
	template, err := prompt.Field(data, key, name+"."+key)
	if err != nil {
		return "", err
	}
	rendered, err := prompt.FormatTemplate(template, values)
	if err != nil {
		return "", fmt.Errorf("format %s.%s: %w", name, key, err)
	}
	return rendered, nil
}
