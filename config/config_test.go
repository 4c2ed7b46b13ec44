package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "operation failed"
	testErr := errors.New("internal database error")

	// nil err falls back
	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	// release mode hides the detail
	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))

	// debug mode returns err.Error()
	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))

	// nil GlobalConfig counts as development
	GlobalConfig = nil
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	defer func() { GlobalConfig = nil }()

	assert.NotEmpty(t, cfg.Server.Port)
	assert.NotEmpty(t, cfg.Server.Mode)
	assert.Greater(t, cfg.JWT.ExpireHours, 0)
	assert.Equal(t, time.Duration(cfg.JWT.ExpireHours)*time.Hour, cfg.JWT.ExpireTime)

	// integrations ship disabled
	assert.False(t, cfg.Email.Enabled)
	assert.False(t, cfg.Billing.Enabled)
	assert.False(t, cfg.Pluggy.Enabled)
	assert.False(t, cfg.Advice.Enabled)
}
