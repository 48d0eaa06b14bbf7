// Package ai proxies portfolio chat questions to Gemini through the genai SDK.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"portfolio/internal/config"
)

// FallbackReply is returned when the provider answers without any text.
const FallbackReply = "I apologize, but I couldn't generate a response at this time. Please try again."

// apiVersion 与 Gemini Developer API 的默认版本一致，显式写出便于指向测试服务器。
const apiVersion = "v1beta"

var ErrNoAPIKey = errors.New("ai api key is not configured")

// Client 调用 generateContent。API key 可能来自数据库配置，所以每次调用按 key 构造 SDK 客户端。
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

func NewClient(cfg config.AIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		model:      cfg.Model,
	}
}

// Generate sends a single user turn and returns the response text.
func (c *Client) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return "", ErrNoAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    c.baseURL,
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		return "", fmt.Errorf("init genai client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return FallbackReply, nil
	}
	return text, nil
}
