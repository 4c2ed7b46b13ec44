package config

import _ "embed"

// DefaultConfigYAML is the embedded default configuration. External
// config files and CASHLY_* environment variables override it.
//
//go:embed default.yaml
var DefaultConfigYAML []byte
