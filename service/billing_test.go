package service

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cashly/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillingClient_GetCheckoutSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/checkout/sessions/cs_test_1", r.URL.Path)
		user, _, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "sk_test_key", user)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cs_test_1",
			"payment_status": "paid",
			"customer": "cus_123",
			"subscription": "sub_456",
			"metadata": {"user_id": "1"}
		}`))
	}))
	defer srv.Close()

	client := NewBillingClient(&config.BillingConfig{SecretKey: "sk_test_key", BaseURL: srv.URL})
	session, err := client.GetCheckoutSession("cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, "paid", session.PaymentStatus)
	assert.Equal(t, "cus_123", session.Customer)
	assert.Equal(t, "sub_456", session.Subscription)
	assert.Equal(t, "1", session.Metadata["user_id"])
}

func TestBillingClient_GetCheckoutSession_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"message": "No such checkout session"}}`))
	}))
	defer srv.Close()

	client := NewBillingClient(&config.BillingConfig{SecretKey: "sk_test_key", BaseURL: srv.URL})
	_, err := client.GetCheckoutSession("cs_missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No such checkout session")
}

func TestBillingClient_GetCheckoutSession_NoKey(t *testing.T) {
	client := NewBillingClient(&config.BillingConfig{})
	_, err := client.GetCheckoutSession("cs_test_1")
	assert.Error(t, err)
}

func TestBillingClient_CancelAtPeriodEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/subscriptions/sub_456", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "true", r.PostForm.Get("cancel_at_period_end"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "sub_456",
			"customer": "cus_123",
			"status": "active",
			"cancel_at_period_end": true
		}`))
	}))
	defer srv.Close()

	client := NewBillingClient(&config.BillingConfig{SecretKey: "sk_test_key", BaseURL: srv.URL})
	sub, err := client.CancelAtPeriodEnd("sub_456")
	require.NoError(t, err)
	assert.True(t, sub.CancelAtPeriodEnd)
	assert.Equal(t, "active", sub.Status)
}
