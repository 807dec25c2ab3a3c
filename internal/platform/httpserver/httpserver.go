package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with defaults sized for the registry's
// JSON payloads, which include inline logo uploads of up to 1MiB.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
