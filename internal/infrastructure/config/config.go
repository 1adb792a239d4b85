package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Share     ShareConfig
	Upload    UploadConfig
	Image     ImageConfig
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ShareConfig holds the hand-off settings shared by every host.
type ShareConfig struct {
	// StorePath is the shared key/value store written by the settings
	// command. Empty means the per-user default location.
	StorePath       string `envconfig:"SHARE_STORE_PATH"`
	AppScheme       string `envconfig:"SHARE_APP_SCHEME" default:"logsense"`
	PageBaseURL     string `envconfig:"SHARE_PAGE_BASE_URL" default:"https://scrapbox.io"`
	DefaultProject  string `envconfig:"SHARE_DEFAULT_PROJECT" default:"YOUR_PROJECT"`
	FallbackCommand string `envconfig:"SHARE_FALLBACK_COMMAND"`
	PrintFallback   bool   `envconfig:"SHARE_PRINT_FALLBACK" default:"true"`
}

// UploadConfig holds image host settings.
type UploadConfig struct {
	Endpoint  string        `envconfig:"UPLOAD_ENDPOINT" default:"https://upload.gyazo.com/api/upload"`
	Timeout   time.Duration `envconfig:"UPLOAD_TIMEOUT" default:"0s"`
	UserAgent string        `envconfig:"UPLOAD_USER_AGENT" default:"ShareBridge/1.0"`
	// RequestsPerSecond caps uploads from one process, 0 for no cap.
	RequestsPerSecond float64 `envconfig:"UPLOAD_RPS" default:"2"`
	// The server stops calling the image host after BreakerFailures
	// consecutive failures, for BreakerCooldown.
	BreakerFailures uint32        `envconfig:"UPLOAD_BREAKER_FAILURES" default:"5"`
	BreakerCooldown time.Duration `envconfig:"UPLOAD_BREAKER_COOLDOWN" default:"30s"`
}

// ImageConfig holds image normalization settings.
type ImageConfig struct {
	JPEGQuality int `envconfig:"IMAGE_JPEG_QUALITY" default:"90"`
	MaxWidth    int `envconfig:"IMAGE_MAX_WIDTH" default:"0"`
	// MaxPixels caps width*height before decoding; 0 disables the check.
	MaxPixels int `envconfig:"IMAGE_MAX_PIXELS" default:"100000000"`
}

// ServerConfig holds HTTP share-target configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	// LocalOpen lets the server open links on its own desktop for clients
	// that cannot follow a redirect.
	LocalOpen bool `envconfig:"SERVER_LOCAL_OPEN" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"10"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"20"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	// GlobalRequestsPerSecond bounds the whole server; 0 leaves it unbounded.
	GlobalRequestsPerSecond int `envconfig:"RATE_LIMIT_GLOBAL_RPS" default:"0"`
	GlobalBurst             int `envconfig:"RATE_LIMIT_GLOBAL_BURST" default:"50"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadWithDotenv reads the given .env files (missing files are ignored) and
// then loads configuration from the environment. Variables already present
// in the environment win over the files.
func LoadWithDotenv(files ...string) (*Config, error) {
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) > 0 {
		if err := godotenv.Load(present...); err != nil {
			return nil, fmt.Errorf("failed to read env file: %w", err)
		}
	}
	return Load()
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Share: ShareConfig{
			AppScheme:      "logsense",
			PageBaseURL:    "https://scrapbox.io",
			DefaultProject: "YOUR_PROJECT",
			PrintFallback:  true,
		},
		Upload: UploadConfig{
			Endpoint:          "https://upload.gyazo.com/api/upload",
			UserAgent:         "ShareBridge/1.0",
			RequestsPerSecond: 2,
			BreakerFailures:   5,
			BreakerCooldown:   30 * time.Second,
		},
		Image: ImageConfig{
			JPEGQuality: 90,
			MaxPixels:   100_000_000,
		},
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
			Enabled:           true,
			GlobalBurst:       50,
		},
	}
}

// ResolveStorePath returns the configured store path, or the per-user
// default under the OS config directory.
func (s ShareConfig) ResolveStorePath() string {
	if s.StorePath != "" {
		return s.StorePath
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "sharebridge", "settings.json")
}
