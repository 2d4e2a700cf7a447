// Package env is the raw environment accessor used before pkg/config is
// loaded, and for late overrides such as PORT.
package env

import "os"

// Get returns the value of the given environment variable or a fallback.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
