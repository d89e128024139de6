package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration. Nested endpoint
// structs use an underscore delimiter (e.g. CHAT_ENDPOINT_API_KEY).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.reelrec
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///{data_dir}/reelrec.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// CatalogPath is the game catalog JSON path.
	// Env: CATALOG_PATH
	// Default: {data_dir}/games.json
	CatalogPath string `envconfig:"CATALOG_PATH"`

	// AttributesPath is the generated attributes JSON path.
	// Env: ATTRIBUTES_PATH
	// Default: {data_dir}/attributes.json
	AttributesPath string `envconfig:"ATTRIBUTES_PATH"`

	// GenerationConfig is the generation tunables YAML path.
	// Env: GENERATION_CONFIG
	GenerationConfig string `envconfig:"GENERATION_CONFIG"`

	// ChatEndpoint configures the chat completion AI service.
	ChatEndpoint EndpointEnv `envconfig:"CHAT_ENDPOINT"`

	// EmbeddingEndpoint configures the embedding AI service.
	EmbeddingEndpoint EndpointEnv `envconfig:"EMBEDDING_ENDPOINT"`

	// NumCandidates is the default vector-search candidate count.
	// Env: NUM_CANDIDATES (default: 10)
	NumCandidates int `envconfig:"NUM_CANDIDATES" default:"10"`

	// NumFinal is the default final recommendation count.
	// Env: NUM_FINAL (default: 3)
	NumFinal int `envconfig:"NUM_FINAL" default:"3"`

	// EmbedBatchSize is the number of games embedded per batch.
	// Env: EMBED_BATCH_SIZE (default: 10)
	EmbedBatchSize int `envconfig:"EMBED_BATCH_SIZE" default:"10"`
}

// EndpointEnv holds environment configuration for an AI endpoint.
type EndpointEnv struct {
	// BaseURL is the base URL for the endpoint.
	// Env: *_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the model identifier.
	// Env: *_MODEL
	Model string `envconfig:"MODEL"`

	// APIKey is the API key for authentication.
	// Env: *_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Timeout is the request timeout in seconds.
	// Env: *_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// MaxRetries is the maximum number of retries.
	// Env: *_MAX_RETRIES (default: 3)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"3"`

	// RetryDelay is the fixed retry delay in seconds.
	// Env: *_RETRY_DELAY (default: 2.0)
	RetryDelay float64 `envconfig:"RETRY_DELAY" default:"2.0"`

	// MinInterval is the minimum gap between outbound calls in seconds.
	// Env: *_MIN_INTERVAL (default: 0.5)
	MinInterval float64 `envconfig:"MIN_INTERVAL" default:"0.5"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "REELREC" would require REELREC_DATA_DIR instead of
// DATA_DIR.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	opts := []AppConfigOption{}

	if e.Host != "" {
		opts = append(opts, WithHost(e.Host))
	}
	if e.Port != 0 {
		opts = append(opts, WithPort(e.Port))
	}
	if e.DataDir != "" {
		opts = append(opts, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		opts = append(opts, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		opts = append(opts, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		opts = append(opts, WithLogFormat(e.LogFormat))
	}
	if e.CatalogPath != "" {
		opts = append(opts, WithCatalogPath(e.CatalogPath))
	}
	if e.AttributesPath != "" {
		opts = append(opts, WithAttributesPath(e.AttributesPath))
	}
	if e.GenerationConfig != "" {
		opts = append(opts, WithGenerationConfigPath(e.GenerationConfig))
	}

	opts = append(opts,
		WithChatEndpoint(e.ChatEndpoint.ToEndpoint(DefaultChatModel)),
		WithEmbeddingEndpoint(e.EmbeddingEndpoint.ToEndpoint(DefaultEmbeddingModel)),
		WithNumCandidates(e.NumCandidates),
		WithNumFinal(e.NumFinal),
		WithEmbedBatchSize(e.EmbedBatchSize),
	)

	return NewAppConfigWithOptions(opts...)
}

// ToEndpoint converts EndpointEnv to Endpoint, falling back to defaultModel
// when no model is configured.
func (e EndpointEnv) ToEndpoint(defaultModel string) Endpoint {
	model := e.Model
	if model == "" {
		model = defaultModel
	}

	opts := []EndpointOption{
		WithTimeout(time.Duration(e.Timeout * float64(time.Second))),
		WithMaxRetries(e.MaxRetries),
		WithRetryDelay(time.Duration(e.RetryDelay * float64(time.Second))),
		WithMinInterval(time.Duration(e.MinInterval * float64(time.Second))),
	}
	if e.BaseURL != "" {
		opts = append(opts, WithBaseURL(e.BaseURL))
	}
	if e.APIKey != "" {
		opts = append(opts, WithAPIKey(e.APIKey))
	}

	return NewEndpointWithOptions(model, opts...)
}
