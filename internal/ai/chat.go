package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portfolio/internal/content"
	"portfolio/internal/database"
)

// ErrDisabled is returned when the admin switched the assistant off.
var ErrDisabled = errors.New("ai assistant is disabled")

const defaultPortfolioContext = "Professional software developer portfolio"

const advisorPrompt = `You are an experienced career advisor and portfolio reviewer. You provide constructive, actionable feedback on portfolios, resumes, and career development. Your responses are professional, encouraging, and specific.`

const guidelines = `Guidelines for feedback:
- Be specific and actionable
- Highlight strengths first
- Suggest concrete improvements
- Consider current industry trends
- Keep responses conversational but professional
- Focus on practical advice`

// Generator is satisfied by *Client.
type Generator interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

// ConfigSource is satisfied by *content.Repository.
type ConfigSource interface {
	GetAiConfig(ctx context.Context) (*database.AiConfig, error)
}

// ChatService 组合系统提示词、作品集上下文与用户问题。
type ChatService struct {
	gen           Generator
	configs       ConfigSource
	defaultAPIKey string
}

func NewChatService(gen Generator, configs ConfigSource, defaultAPIKey string) *ChatService {
	return &ChatService{gen: gen, configs: configs, defaultAPIKey: strings.TrimSpace(defaultAPIKey)}
}

// Chat answers one visitor question. A missing AiConfig row means defaults:
// enabled, built-in prompt, key from the environment.
func (s *ChatService) Chat(ctx context.Context, message, portfolioContext string) (string, error) {
	systemPrompt := advisorPrompt
	apiKey := s.defaultAPIKey

	cfg, err := s.configs.GetAiConfig(ctx)
	switch {
	case errors.Is(err, content.ErrNotFound):
	case err != nil:
		return "", fmt.Errorf("load ai config: %w", err)
	default:
		if !cfg.Enabled {
			return "", ErrDisabled
		}
		if p := strings.TrimSpace(cfg.SystemPrompt); p != "" && p != content.DefaultSystemPrompt {
			systemPrompt = p
		}
		if cfg.APIKey != nil && strings.TrimSpace(*cfg.APIKey) != "" {
			apiKey = strings.TrimSpace(*cfg.APIKey)
		}
	}

	reply, err := s.gen.Generate(ctx, apiKey, buildPrompt(systemPrompt, portfolioContext, message))
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	return reply, nil
}

func buildPrompt(systemPrompt, portfolioContext, question string) string {
	if strings.TrimSpace(portfolioContext) == "" {
		portfolioContext = defaultPortfolioContext
	}
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nPortfolio Context: ")
	b.WriteString(portfolioContext)
	b.WriteString("\n\n")
	b.WriteString(guidelines)
	b.WriteString("\n\nUser Question: ")
	b.WriteString(question)
	return b.String()
}
