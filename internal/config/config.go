// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultHost                = "0.0.0.0"
	DefaultPort                = 8080
	DefaultLogLevel            = "INFO"
	DefaultNumCandidates       = 10
	DefaultNumFinal            = 3
	DefaultEmbedBatchSize      = 10
	DefaultEndpointTimeout     = 60 * time.Second
	DefaultEndpointMaxRetries  = 3
	DefaultEndpointRetryDelay  = 2 * time.Second
	DefaultEndpointMinInterval = 500 * time.Millisecond
	DefaultChatModel           = "gpt-4o-mini"
	DefaultEmbeddingModel      = "text-embedding-3-small"
)

// Endpoint configures one AI service endpoint.
type Endpoint struct {
	baseURL     string
	apiKey      string
	model       string
	timeout     time.Duration
	maxRetries  int
	retryDelay  time.Duration
	minInterval time.Duration
}

// NewEndpoint creates an Endpoint with defaults.
func NewEndpoint(model string) Endpoint {
	return Endpoint{
		model:       model,
		timeout:     DefaultEndpointTimeout,
		maxRetries:  DefaultEndpointMaxRetries,
		retryDelay:  DefaultEndpointRetryDelay,
		minInterval: DefaultEndpointMinInterval,
	}
}

// BaseURL returns the endpoint base URL ("" means the provider default).
func (e Endpoint) BaseURL() string { return e.baseURL }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Model returns the model identifier.
func (e Endpoint) Model() string { return e.model }

// Timeout returns the per-request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the capped retry count.
func (e Endpoint) MaxRetries() int { return e.maxRetries }

// RetryDelay returns the fixed delay between retries.
func (e Endpoint) RetryDelay() time.Duration { return e.retryDelay }

// MinInterval returns the minimum gap enforced between outbound calls.
func (e Endpoint) MinInterval() time.Duration { return e.minInterval }

// IsConfigured reports whether the endpoint has credentials.
func (e Endpoint) IsConfigured() bool { return e.apiKey != "" }

// EndpointOption is a functional option for Endpoint.
type EndpointOption func(*Endpoint)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) EndpointOption {
	return func(e *Endpoint) { e.baseURL = url }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) EndpointOption {
	return func(e *Endpoint) { e.apiKey = key }
}

// WithModel sets the model identifier.
func WithModel(model string) EndpointOption {
	return func(e *Endpoint) {
		if model != "" {
			e.model = model
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) EndpointOption {
	return func(e *Endpoint) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMaxRetries sets the capped retry count.
func WithMaxRetries(n int) EndpointOption {
	return func(e *Endpoint) {
		if n >= 0 {
			e.maxRetries = n
		}
	}
}

// WithRetryDelay sets the fixed retry delay.
func WithRetryDelay(d time.Duration) EndpointOption {
	return func(e *Endpoint) {
		if d > 0 {
			e.retryDelay = d
		}
	}
}

// WithMinInterval sets the minimum inter-call interval.
func WithMinInterval(d time.Duration) EndpointOption {
	return func(e *Endpoint) {
		if d >= 0 {
			e.minInterval = d
		}
	}
}

// NewEndpointWithOptions creates an Endpoint with functional options applied.
func NewEndpointWithOptions(model string, opts ...EndpointOption) Endpoint {
	e := NewEndpoint(model)
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// AppConfig holds the application configuration. It is immutable; derive
// variants with Apply.
type AppConfig struct {
	host              string
	port              int
	dataDir           string
	dbURL             string
	logLevel          string
	logFormat         string
	catalogPath       string
	attributesPath    string
	generationConfig  string
	chatEndpoint      Endpoint
	embeddingEndpoint Endpoint
	numCandidates     int
	numFinal          int
	embedBatchSize    int
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".reelrec"
	}
	return filepath.Join(home, ".reelrec")
}

// NewAppConfig creates an AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:              DefaultHost,
		port:              DefaultPort,
		dataDir:           dataDir,
		dbURL:             "sqlite:///" + filepath.Join(dataDir, "reelrec.db"),
		logLevel:          DefaultLogLevel,
		logFormat:         "pretty",
		catalogPath:       filepath.Join(dataDir, "games.json"),
		attributesPath:    filepath.Join(dataDir, "attributes.json"),
		chatEndpoint:      NewEndpoint(DefaultChatModel),
		embeddingEndpoint: NewEndpoint(DefaultEmbeddingModel),
		numCandidates:     DefaultNumCandidates,
		numFinal:          DefaultNumFinal,
		embedBatchSize:    DefaultEmbedBatchSize,
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string { return fmt.Sprintf("%s:%d", c.host, c.port) }

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format (pretty or json).
func (c AppConfig) LogFormat() string { return c.logFormat }

// CatalogPath returns the game catalog JSON path.
func (c AppConfig) CatalogPath() string { return c.catalogPath }

// AttributesPath returns the generated attributes JSON path.
func (c AppConfig) AttributesPath() string { return c.attributesPath }

// GenerationConfigPath returns the optional generation tunables YAML path.
func (c AppConfig) GenerationConfigPath() string { return c.generationConfig }

// ChatEndpoint returns the chat completion endpoint config.
func (c AppConfig) ChatEndpoint() Endpoint { return c.chatEndpoint }

// EmbeddingEndpoint returns the embedding endpoint config.
func (c AppConfig) EmbeddingEndpoint() Endpoint { return c.embeddingEndpoint }

// NumCandidates returns the default vector-search candidate count.
func (c AppConfig) NumCandidates() int { return c.numCandidates }

// NumFinal returns the default final recommendation count.
func (c AppConfig) NumFinal() int { return c.numFinal }

// EmbedBatchSize returns the number of games embedded per batch.
func (c AppConfig) EmbedBatchSize() int { return c.embedBatchSize }

// EnsureDataDir creates the data directory if it does not exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// LogAttrs returns slog attributes describing the configuration. API keys
// are reported as presence only.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("db_url", c.maskedDBURL()),
		slog.String("log_level", c.logLevel),
		slog.String("chat_model", c.chatEndpoint.Model()),
		slog.String("embedding_model", c.embeddingEndpoint.Model()),
		slog.Bool("chat_configured", c.chatEndpoint.IsConfigured()),
		slog.Bool("embedding_configured", c.embeddingEndpoint.IsConfigured()),
	}
}

func (c AppConfig) maskedDBURL() string {
	if len(c.dbURL) >= 7 && c.dbURL[:7] == "sqlite:" {
		return c.dbURL
	}
	return "postgres://***@***"
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory, updating derived default paths that
// still point into the old directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		old := c.dataDir
		c.dataDir = dir
		if c.dbURL == "sqlite:///"+filepath.Join(old, "reelrec.db") {
			c.dbURL = "sqlite:///" + filepath.Join(dir, "reelrec.db")
		}
		if c.catalogPath == filepath.Join(old, "games.json") {
			c.catalogPath = filepath.Join(dir, "games.json")
		}
		if c.attributesPath == filepath.Join(old, "attributes.json") {
			c.attributesPath = filepath.Join(dir, "attributes.json")
		}
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format string) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithCatalogPath sets the catalog JSON path.
func WithCatalogPath(path string) AppConfigOption {
	return func(c *AppConfig) { c.catalogPath = path }
}

// WithAttributesPath sets the attributes JSON path.
func WithAttributesPath(path string) AppConfigOption {
	return func(c *AppConfig) { c.attributesPath = path }
}

// WithGenerationConfigPath sets the generation tunables YAML path.
func WithGenerationConfigPath(path string) AppConfigOption {
	return func(c *AppConfig) { c.generationConfig = path }
}

// WithChatEndpoint sets the chat completion endpoint.
func WithChatEndpoint(e Endpoint) AppConfigOption {
	return func(c *AppConfig) { c.chatEndpoint = e }
}

// WithEmbeddingEndpoint sets the embedding endpoint.
func WithEmbeddingEndpoint(e Endpoint) AppConfigOption {
	return func(c *AppConfig) { c.embeddingEndpoint = e }
}

// WithNumCandidates sets the default candidate count.
func WithNumCandidates(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.numCandidates = n
		}
	}
}

// WithNumFinal sets the default final recommendation count.
func WithNumFinal(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.numFinal = n
		}
	}
}

// WithEmbedBatchSize sets the embedding batch size.
func WithEmbedBatchSize(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.embedBatchSize = n
		}
	}
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	return NewAppConfig().Apply(opts...)
}
