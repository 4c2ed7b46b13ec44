package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"cashly/config"
)

// PluggyClient mints short-lived connect tokens against the bank
// aggregation provider. Client credentials exchange for an API key,
// the API key for a connect token.
type PluggyClient struct {
	cfg        *config.PluggyConfig
	httpClient *http.Client
}

// NewPluggyClient builds a client from configuration.
func NewPluggyClient(cfg *config.PluggyConfig) *PluggyClient {
	return &PluggyClient{cfg: cfg, httpClient: &http.Client{}}
}

type pluggyAuthResponse struct {
	APIKey string `json:"apiKey"`
}

type pluggyConnectTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// CreateConnectToken returns a connect token, optionally scoped to an
// existing linked item for update flows.
func (p *PluggyClient) CreateConnectToken(itemID string) (string, error) {
	if p.cfg.ClientID == "" || p.cfg.ClientSecret == "" {
		return "", fmt.Errorf("pluggy credentials not configured")
	}

	apiKey, err := p.authenticate()
	if err != nil {
		return "", err
	}

	payload := map[string]any{}
	if itemID != "" {
		payload["itemId"] = itemID
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequest("POST", p.cfg.BaseURL+"/connect_token", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", apiKey)

	var tokenResp pluggyConnectTokenResponse
	if err := p.do(req, &tokenResp); err != nil {
		return "", err
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("aggregation provider returned no connect token")
	}
	return tokenResp.AccessToken, nil
}

func (p *PluggyClient) authenticate() (string, error) {
	body, _ := json.Marshal(map[string]string{
		"clientId":     p.cfg.ClientID,
		"clientSecret": p.cfg.ClientSecret,
	})
	req, err := http.NewRequest("POST", p.cfg.BaseURL+"/auth", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var authResp pluggyAuthResponse
	if err := p.do(req, &authResp); err != nil {
		return "", err
	}
	if authResp.APIKey == "" {
		return "", fmt.Errorf("aggregation provider rejected credentials")
	}
	return authResp.APIKey, nil
}

func (p *PluggyClient) do(req *http.Request, out any) error {
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("aggregation provider request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read aggregation response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("aggregation provider error (%d): %s", resp.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse aggregation response: %w", err)
	}
	return nil
}
