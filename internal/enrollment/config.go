// internal/enrollment/config.go
package enrollment

import "time"

type Config struct {
	// PublishTimeout bounds event delivery and confirmation emails after a
	// roster change has been committed.
	PublishTimeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{PublishTimeout: 2 * time.Second}
}
