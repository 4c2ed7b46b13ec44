package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"cashly/config"
)

// AdviceClient calls the generative-text provider's chat-completions
// endpoint to turn a spending summary into advice copy.
type AdviceClient struct {
	cfg        *config.AdviceConfig
	httpClient *http.Client
}

// NewAdviceClient builds a client from configuration.
func NewAdviceClient(cfg *config.AdviceConfig) *AdviceClient {
	return &AdviceClient{cfg: cfg, httpClient: &http.Client{}}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends the prompt and returns the generated copy.
func (a *AdviceClient) Generate(prompt string) (string, error) {
	if !a.cfg.Enabled || a.cfg.APIKey == "" {
		return "", fmt.Errorf("advice service not configured")
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a personal finance assistant. Give short, concrete advice."},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequest("POST", a.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("advice provider request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read advice response: %w", err)
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("parse advice response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("advice provider error: %s", out.Error.Message)
	}
	if resp.StatusCode >= 300 || len(out.Choices) == 0 {
		return "", fmt.Errorf("advice provider error (%d)", resp.StatusCode)
	}
	return out.Choices[0].Message.Content, nil
}
