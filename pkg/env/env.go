// Package env reads process settings needed before config.Load runs.
package env

import (
	"os"
	"strings"
)

// Prefix namespaces every service variable.
const Prefix = "ARGVISION_"

// Get returns ARGVISION_<key>, then the bare key, then fallback.
func Get(key, fallback string) string {
	key = strings.TrimPrefix(key, Prefix)
	for _, name := range []string{Prefix + key, key} {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return fallback
}
