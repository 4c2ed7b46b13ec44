package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cashly/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluggyClient_CreateConnectToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth":
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "client-id", creds["clientId"])
			assert.Equal(t, "client-secret", creds["clientSecret"])
			w.Write([]byte(`{"apiKey": "api-key-123"}`))
		case "/connect_token":
			assert.Equal(t, "api-key-123", r.Header.Get("X-API-KEY"))
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "item-1", payload["itemId"])
			w.Write([]byte(`{"accessToken": "connect-token-abc"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewPluggyClient(&config.PluggyConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		BaseURL:      srv.URL,
	})
	token, err := client.CreateConnectToken("item-1")
	require.NoError(t, err)
	assert.Equal(t, "connect-token-abc", token)
}

func TestPluggyClient_CreateConnectToken_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "invalid credentials"}`))
	}))
	defer srv.Close()

	client := NewPluggyClient(&config.PluggyConfig{
		ClientID:     "client-id",
		ClientSecret: "wrong",
		BaseURL:      srv.URL,
	})
	_, err := client.CreateConnectToken("")
	assert.Error(t, err)
}

func TestPluggyClient_CreateConnectToken_NotConfigured(t *testing.T) {
	client := NewPluggyClient(&config.PluggyConfig{})
	_, err := client.CreateConnectToken("")
	assert.Error(t, err)
}
