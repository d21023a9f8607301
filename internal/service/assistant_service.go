package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"learning-service/internal/config"
)

// AssistantService proxies study questions to an OpenAI-compatible
// chat-completions endpoint. The contract is deliberately thin: send prompt,
// receive text, or fail with ErrUpstream.
type AssistantService struct {
	Client       *http.Client
	BaseURL      string
	APIKey       string
	Model        string
	SystemPrompt string
}

func NewAssistantService() *AssistantService {
	return &AssistantService{
		Client:       &http.Client{Timeout: 120 * time.Second},
		BaseURL:      config.AppConfig.LLMBaseURL,
		APIKey:       config.AppConfig.LLMAPIKey,
		Model:        config.AppConfig.LLMModel,
		SystemPrompt: config.AppConfig.LLMSystemPrompt,
	}
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string                  `json:"model"`
	Messages []chatCompletionMessage `json:"messages"`
	Stream   bool                    `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
}

func (s *AssistantService) Ask(ctx context.Context, message string) (string, error) {
	request := chatCompletionRequest{
		Model: s.Model,
		Messages: []chatCompletionMessage{
			{Role: "system", Content: s.SystemPrompt},
			{Role: "user", Content: message},
		},
	}
	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrUpstream)
	}
	return response.Choices[0].Message.Content, nil
}
