package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/inamate/canvas/internal/collab"
)

type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	DatabaseURL    string        `envconfig:"DATABASE_URL" default:""`
	AssetDir       string        `envconfig:"ASSET_DIR" default:"./data/assets"`
	AllowedOrigins string        `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	MaxLayers      int           `envconfig:"MAX_LAYERS" default:"100"`
	SaveInterval   time.Duration `envconfig:"SAVE_INTERVAL" default:"30s"`
	LogLevel       slog.Level    `envconfig:"LOG_LEVEL" default:"info"`
	MDNSEnabled    bool          `envconfig:"MDNS_ENABLED" default:"false"`
	MDNSName       string        `envconfig:"MDNS_NAME" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) Hub() collab.Options {
	return collab.Options{
		MaxLayers:    c.MaxLayers,
		SaveInterval: c.SaveInterval,
	}
}
