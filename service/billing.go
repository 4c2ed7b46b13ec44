package service

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"cashly/config"
)

// BillingClient talks to the subscription provider's REST API using
// form-encoded requests authenticated with the secret key.
type BillingClient struct {
	cfg        *config.BillingConfig
	httpClient *http.Client
}

// NewBillingClient builds a client from configuration.
func NewBillingClient(cfg *config.BillingConfig) *BillingClient {
	return &BillingClient{cfg: cfg, httpClient: &http.Client{}}
}

// CheckoutSession is the subset of the provider's checkout session the
// confirm flow needs.
type CheckoutSession struct {
	ID            string            `json:"id"`
	PaymentStatus string            `json:"payment_status"`
	Customer      string            `json:"customer"`
	Subscription  string            `json:"subscription"`
	Metadata      map[string]string `json:"metadata"`
}

// Subscription is the subset of the provider's subscription object the
// cancel flow needs.
type Subscription struct {
	ID                string `json:"id"`
	Customer          string `json:"customer"`
	Status            string `json:"status"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GetCheckoutSession fetches a completed checkout session by id.
func (c *BillingClient) GetCheckoutSession(sessionID string) (*CheckoutSession, error) {
	if c.cfg.SecretKey == "" {
		return nil, fmt.Errorf("billing secret key not configured")
	}
	req, err := http.NewRequest("GET", c.cfg.BaseURL+"/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.SecretKey, "")

	var session CheckoutSession
	if err := c.do(req, &session); err != nil {
		return nil, err
	}
	if session.ID == "" {
		return nil, fmt.Errorf("billing provider returned no session")
	}
	return &session, nil
}

// CancelAtPeriodEnd asks the provider to end the subscription at the
// current period boundary instead of immediately.
func (c *BillingClient) CancelAtPeriodEnd(subscriptionID string) (*Subscription, error) {
	if c.cfg.SecretKey == "" {
		return nil, fmt.Errorf("billing secret key not configured")
	}
	form := url.Values{}
	form.Set("cancel_at_period_end", "true")

	req, err := http.NewRequest("POST",
		c.cfg.BaseURL+"/subscriptions/"+url.PathEscape(subscriptionID),
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.cfg.SecretKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var sub Subscription
	if err := c.do(req, &sub); err != nil {
		return nil, err
	}
	if sub.ID == "" {
		return nil, fmt.Errorf("billing provider returned no subscription")
	}
	return &sub, nil
}

func (c *BillingClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("billing provider request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read billing response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var perr providerError
		_ = json.Unmarshal(data, &perr)
		msg := perr.Error.Message
		if msg == "" {
			msg = string(data)
		}
		return fmt.Errorf("billing provider error (%d): %s", resp.StatusCode, msg)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse billing response: %w", err)
	}
	return nil
}
