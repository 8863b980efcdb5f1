// Package api holds the HTTP surface of the service.
package api

import (
	"net/http"
	"os"
	"time"

	"github.com/argvision/argvision-backend/pkg/config"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 120 * time.Second
)

// Addr resolves the listen address, preferring the platform PORT variable.
func Addr(cfg *config.Config) string {
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	return ":" + port
}

// NewServer wraps handler in the server cmd/api runs. Write timeouts stay
// unset so websocket streams are not cut off.
func NewServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              Addr(cfg),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}
