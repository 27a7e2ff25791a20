// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	Server        ServerConfig       `mapstructure:"server"`
	Catalog       CatalogConfig      `mapstructure:"catalog"`
	Redis         RedisConfig        `mapstructure:"redis"`
	Events        EventsConfig       `mapstructure:"events"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	AWS           AWSConfig          `mapstructure:"aws"`
	Tracing       TracingConfig      `mapstructure:"tracing"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds HTTP listener settings. Timeouts are milliseconds.
type ServerConfig struct {
	Address         string   `mapstructure:"address"`
	ReadTimeout     int      `mapstructure:"read_timeout"`
	WriteTimeout    int      `mapstructure:"write_timeout"`
	IdleTimeout     int      `mapstructure:"idle_timeout"`
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"`
	IndexPath       string   `mapstructure:"index_path"`
	CORSOrigins     []string `mapstructure:"cors_origins"`
}

// CatalogConfig selects the seed data. An empty path uses the embedded catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// EventsConfig controls where enrollment events are published.
type EventsConfig struct {
	Redis struct {
		Enabled bool   `mapstructure:"enabled"`
		Channel string `mapstructure:"channel"`
	} `mapstructure:"redis"`
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
	PublishTimeout int `mapstructure:"publish_timeout"` // milliseconds
}

// NotificationConfig holds settings for signup confirmation emails.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

// TracingConfig enables the Jaeger span exporter.
type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
	ServiceName    string `mapstructure:"service_name"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
