package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/nutriplan/backend/config"
)

// Oracle is a hosted text-completion model. It returns raw text that must be validated.
type Oracle interface {
	Complete(ctx context.Context, systemInstruction, userPrompt string, temperature float64) (string, error)
}

// LLMService talks to the DeepSeek chat-completions API
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	logger *zap.Logger
}

// NewLLMService creates a new LLMService from the loaded configuration
func NewLLMService(cfg *config.Config, logger *zap.Logger) (*LLMService, error) {
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("DEEPSEEK_API_KEY or DEEPSEEK_API_KEY_FILE must be set")
	}
	return &LLMService{
		apiKey: cfg.LLMAPIKey,
		apiURL: cfg.LLMAPIURL,
		model:  cfg.LLMModel,
		// The caller's context carries the real deadline.
		client: &http.Client{Timeout: 2 * time.Minute},
		logger: logger,
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a request to the DeepSeek API
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends a single chat completion and returns the content of the first choice
func (s *LLMService) Complete(ctx context.Context, systemInstruction, userPrompt string, temperature float64) (string, error) {
	reqBody := Request{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
		Temperature: temperature,
		MaxTokens:   8000,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOracle, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrOracle, err)
	}

	s.logger.Debug("oracle responded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(body)))

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrOracle, resp.StatusCode, truncate(string(body), 200))
	}

	var result completionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrOracle, err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrOracle, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: no response from API", ErrOracle)
	}

	return result.Choices[0].Message.Content, nil
}

// UnavailableOracle is used when no API key is configured. Every call fails,
// so generation always falls back to the catalog.
type UnavailableOracle struct{}

func (UnavailableOracle) Complete(ctx context.Context, _, _ string, _ float64) (string, error) {
	return "", ErrOracleUnavailable
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
