// Package generator produces newsletter drafts through a hosted LLM
// provider. The provider is a capability behind the Generator interface,
// selected once by configuration; calls either return markdown or fail, and
// failures are never retried here.
package generator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"creatorpulse/internal/model"
	"creatorpulse/pkg/config"
)

const (
	requestTimeout   = 60 * time.Second
	maxTokens        = 3000
	temperature      = 0.7
	defaultGroqModel = "llama-3.3-70b-versatile"
)

// Request carries everything the generator needs for one draft.
type Request struct {
	ContentItems  []model.ContentItem
	Title         string
	StyleProfile  *model.StyleProfile
	NumArticles   int
	IncludeTrends bool
}

// Generator turns aggregated content into a markdown newsletter.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Provider() string
}

// New builds the configured provider.
func New(cfg config.LLMConfig) (Generator, error) {
	client := &http.Client{Timeout: requestTimeout}

	switch cfg.Provider {
	case "groq", "":
		name := cfg.Model
		if name == "" {
			name = defaultGroqModel
		}
		return newChatClient("groq", "https://api.groq.com/openai/v1/chat/completions", cfg.GroqKey, name, client), nil
	case "openai":
		name := cfg.Model
		if name == "" {
			name = "gpt-4"
		}
		return newChatClient("openai", "https://api.openai.com/v1/chat/completions", cfg.OpenAIKey, name, client), nil
	case "anthropic":
		name := cfg.Model
		if name == "" {
			name = "claude-3-sonnet-20240229"
		}
		return newAnthropicClient(cfg.AnthropicKey, name, client), nil
	}
	return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
}
