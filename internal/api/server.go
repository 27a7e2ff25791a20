package api

import (
	"net/http"

	"activity-registry/internal/common/config"
)

// NewServer wraps the router with the configured listener timeouts.
func NewServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadTimeout:       config.GetDuration(cfg.ReadTimeout),
		ReadHeaderTimeout: config.GetDuration(cfg.ReadTimeout),
		WriteTimeout:      config.GetDuration(cfg.WriteTimeout),
		IdleTimeout:       config.GetDuration(cfg.IdleTimeout),
	}
}
