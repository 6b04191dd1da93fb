package textgen

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/Laisky/zap"
	"github.com/joho/godotenv"
)

// DefaultURL is where a locally running service listens out of the box.
const DefaultURL = "http://localhost:5000"

// EnvURL names the environment variable read by ConfigFromEnv.
const EnvURL = "TEXTGEN_URL"

// Config holds everything a Client needs. It is a value type; a Client
// copies it on construction and never changes it afterwards.
type Config struct {
	// URL is the service base URL, without the /api/v1/chat suffix
	URL string

	// HTTPClient is optional. Redirect following is always switched off
	// on the copy the Client keeps.
	HTTPClient *http.Client

	// Logger receives debug diagnostics. Nil means no-op.
	Logger *zap.Logger
}

// ConfigOption customizes a Config.
type ConfigOption func(*Config)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) ConfigOption {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) ConfigOption {
	return func(c *Config) {
		c.HTTPClient = client
	}
}

// NewConfig creates a configuration for the given base URL.
func NewConfig(url string, opts ...ConfigOption) Config {
	cfg := Config{URL: url}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DefaultConfig creates a configuration pointing at DefaultURL.
func DefaultConfig(opts ...ConfigOption) Config {
	cfg := NewConfig(DefaultURL, opts...)
	cfg.logger().Debug("generated default config", zap.String("url", cfg.URL))
	return cfg
}

// ConfigFromEnv reads the base URL from TEXTGEN_URL, loading a .env file from
// the working directory first if one exists. Variables already set in the
// process environment win over the file. Falls back to DefaultURL.
func ConfigFromEnv(opts ...ConfigOption) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	url := strings.TrimSpace(os.Getenv(EnvURL))
	if url == "" {
		return DefaultConfig(opts...), nil
	}
	return NewConfig(url, opts...), nil
}

// baseURL returns the configured URL with defaults applied.
func (c Config) baseURL() string {
	url := strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if url == "" {
		return DefaultURL
	}
	return url
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
