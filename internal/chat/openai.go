package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// OpenAIResponder calls an OpenAI-compatible chat completions endpoint
// with the spa knowledge base as the system prompt.
type OpenAIResponder struct {
	cfg    OpenAIConfig
	system string
	client *openai.Client
	logger *slog.Logger
}

func NewOpenAIResponder(cfg OpenAIConfig, system string, logger *slog.Logger) *OpenAIResponder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimRight(cfg.BaseURL, "/"); base != "" {
		clientConfig.BaseURL = base
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIResponder{
		cfg:    cfg,
		system: system,
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger,
	}
}

func (r *OpenAIResponder) Generate(ctx context.Context, message string, history []Exchange) (string, error) {
	if len(history) > HistoryExchanges {
		history = history[len(history)-HistoryExchanges:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2+2*len(history))
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: r.system})
	for _, h := range history {
		messages = append(messages,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: h.User},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: h.Assistant})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	start := time.Now()
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.cfg.Model,
		Messages:    messages,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("completion endpoint returned status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", errors.New("completion response is empty")
	}
	r.logger.Debug("Completion generated", "model", r.cfg.Model, "history", len(history), "elapsed", time.Since(start))
	return reply, nil
}
