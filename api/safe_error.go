package api

import (
	"cashly/config"
)

// SafeErrorMessage keeps internal error detail out of client responses
// in release mode.
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}
