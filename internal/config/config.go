package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, database connection,
// quick-entry parsing, confirmation delivery and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level when set
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// DocsPath defines the URL path where the API playground is served
		DocsPath string `env:"HTTP_DOCS_PATH" env-default:"/v1/docs/" yaml:"docsPath"`
		// CORSOrigins lists the browser origins allowed to call the API; empty allows any origin
		CORSOrigins []string `env:"HTTP_CORS_ORIGINS" env-separator:"," yaml:"corsOrigins"`
		// PprofEnabled exposes the net/http/pprof handlers under /debug/pprof/
		PprofEnabled bool `env:"HTTP_PPROF_ENABLED" env-default:"false" yaml:"pprofEnabled"`
	} `yaml:"http"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"bookkeeper" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// JWT holds the RS256 key pair. An empty public key disables bearer authentication.
	JWT struct {
		PublicKey  string `env:"JWT_PUBLIC_KEY" yaml:"publicKey"`
		PrivateKey string `env:"JWT_PRIVATE_KEY" yaml:"privateKey"`
	} `yaml:"jwt"`

	// QuickEntry tunes the natural-language entry parser and the id allocator
	QuickEntry struct {
		// MinAmountDigits is the minimum digit count for a run to be preferred as the amount
		MinAmountDigits int `env:"QUICK_ENTRY_MIN_AMOUNT_DIGITS" env-default:"3" yaml:"minAmountDigits"`
		// FuzzyThreshold is the minimum fuzzy score accepted by the category resolver
		FuzzyThreshold float64 `env:"QUICK_ENTRY_FUZZY_THRESHOLD" env-default:"0.7" yaml:"fuzzyThreshold"`
		// NameScoreCap caps fuzzy scores of sub-name matches
		NameScoreCap float64 `env:"QUICK_ENTRY_NAME_SCORE_CAP" env-default:"0.9" yaml:"nameScoreCap"`
		// SynonymScoreCap caps fuzzy scores of synonym matches
		SynonymScoreCap float64 `env:"QUICK_ENTRY_SYNONYM_SCORE_CAP" env-default:"0.95" yaml:"synonymScoreCap"`
		// SynonymExactScore is the score of an exact synonym hit
		SynonymExactScore float64 `env:"QUICK_ENTRY_SYNONYM_EXACT_SCORE" env-default:"0.99" yaml:"synonymExactScore"`
		// Timezone is the IANA location used for date parts and user-facing timestamps
		Timezone string `env:"QUICK_ENTRY_TIMEZONE" env-default:"Asia/Taipei" yaml:"timezone"`
		// DirectoryTimeout bounds a single category directory fetch
		DirectoryTimeout time.Duration `env:"QUICK_ENTRY_DIRECTORY_TIMEOUT" env-default:"50ms" yaml:"directoryTimeout"`
		// AllowFallbackID records entries under a timestamp id when the sequence store is down
		AllowFallbackID bool `env:"QUICK_ENTRY_ALLOW_FALLBACK_ID" env-default:"false" yaml:"allowFallbackID"`
		// IncomeMajorCodes lists major-code prefixes treated as income
		IncomeMajorCodes []string `env:"QUICK_ENTRY_INCOME_MAJOR_CODES" env-default:"4" yaml:"incomeMajorCodes"`
		// MaxSuggestions limits "did you mean" suggestions on a category miss
		MaxSuggestions int `env:"QUICK_ENTRY_MAX_SUGGESTIONS" env-default:"3" yaml:"maxSuggestions"`
	} `yaml:"quickEntry"`

	// Notifier configures delivery of entry confirmations to a webhook
	Notifier struct {
		// Enabled turns confirmation jobs on
		Enabled bool `env:"NOTIFIER_ENABLED" env-default:"false" yaml:"enabled"`
		// URL is the webhook endpoint receiving confirmations
		URL string `env:"NOTIFIER_URL" yaml:"url"`
		// Token is sent as a bearer token when set
		Token string `env:"NOTIFIER_TOKEN" yaml:"token"`
		// Timeout bounds a single webhook call
		Timeout time.Duration `env:"NOTIFIER_TIMEOUT" env-default:"10s" yaml:"timeout"`
		// MaxAttempts is the number of delivery attempts per confirmation
		MaxAttempts int `env:"NOTIFIER_MAX_ATTEMPTS" env-default:"5" yaml:"maxAttempts"`
	} `yaml:"notifier"`

	// Worker configures the background job processor
	Worker struct {
		// MaxWorkers is the number of concurrent confirmation workers
		MaxWorkers int `env:"WORKER_MAX_WORKERS" env-default:"10" yaml:"maxWorkers"`
	} `yaml:"worker"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
