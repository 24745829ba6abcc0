// internal/pkg/config/config.go
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverHTTP     = "http"
)

// ErrMissingRequiredConfig is returned when a required value is empty or a placeholder.
var ErrMissingRequiredConfig = errors.New("missing required configuration")

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Remote   RemoteConfig
	Redis    RedisConfig
	Asynq    AsynqConfig
	AWS      AWSConfig
	Reports  ReportsConfig
	Security SecurityConfig
	Server   ServerConfig
	Secrets  SecretsConfig
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `required:"true"`
	Environment string // development, staging, production
	Version     string
	LogLevel    string
	LogFormat   string // json, text
	Debug       bool
}

// StoreConfig selects and bounds the document store
type StoreConfig struct {
	Driver           string `required:"true"`
	Collections      []string
	MaxDocumentBytes int
	MaxBodyBytes     int64
	CacheTTL         time.Duration
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI              string
	Database         string
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
	MaxPoolSize      uint64
}

// PostgresConfig holds PostgreSQL configuration for the JSONB store
type PostgresConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxConnections     int32
	MinConnections     int32
	MaxConnLifetime    time.Duration
	MaxConnIdleTime    time.Duration
	HealthCheckPeriod  time.Duration
	ConnectTimeout     time.Duration
	EnableQueryLogging bool
	RunMigrations      bool
}

// RemoteConfig points the http driver at another instance of this API
type RemoteConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled         bool
	Host            string
	Port            string
	Password        string
	DB              int
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PoolSize        int
	MinIdleConns    int
	PoolTimeout     time.Duration
	TTL             time.Duration
}

// AsynqConfig holds Asynq configuration
type AsynqConfig struct {
	Enabled             bool
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	Concurrency         int
	Queues              map[string]int // queue name -> priority
	StrictPriority      bool
	RetryMax            int
	ShutdownTimeout     time.Duration
	HealthCheckInterval time.Duration
}

// AWSConfig holds AWS configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string // For MinIO in development
	UsePathStyle    bool   // For MinIO compatibility
}

// ReportsConfig controls sales exports
type ReportsConfig struct {
	Storage         string // s3, local
	LocalDir        string
	Prefix          string
	URLExpiry       time.Duration
	StatusTTL       time.Duration
	Retention       time.Duration
	CleanupSchedule string
	Timeout         time.Duration
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimitRequests int
	RateLimitDuration time.Duration
	AllowedOrigins    []string
	TrustedProxies    []string
	SecureHeaders     bool
	RequestIDHeader   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string `required:"true"`
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	MaxHeaderBytes  int
	GracefulTimeout time.Duration
	TLSEnabled      bool
	TLSCertFile     string
	TLSKeyFile      string
}

// SecretsConfig selects where credentials come from
type SecretsConfig struct {
	Provider   string // env, aws
	SecretName string
}

// Load loads configuration from the environment, an optional config file and
// an optional .env file.
func Load(logger *slog.Logger) (*Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env == "development" || env == "local" {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using environment variables",
				slog.String("error", err.Error()))
		} else {
			logger.Info(".env file loaded successfully")
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		logger.Info("config file loaded", slog.String("file", v.ConfigFileUsed()))
	}

	r := reader{v: v}
	redisHost := r.str("REDIS_HOST", "localhost")
	redisPort := r.str("REDIS_PORT", "6379")

	cfg := &Config{
		App: AppConfig{
			Name:        r.str("APP_NAME", "catalog-api"),
			Environment: env,
			Version:     r.str("APP_VERSION", "dev"),
			LogLevel:    r.str("LOG_LEVEL", "debug"),
			LogFormat:   r.str("LOG_FORMAT", "json"),
			Debug:       r.boolean("APP_DEBUG", env == "development"),
		},
		Store: StoreConfig{
			Driver:           strings.ToLower(r.str("STORE_DRIVER", DriverMongo)),
			Collections:      r.slice("STORE_COLLECTIONS", []string{"products", "sales"}),
			MaxDocumentBytes: r.integer("STORE_MAX_DOCUMENT_BYTES", 16<<20),
			MaxBodyBytes:     int64(r.integer("STORE_MAX_BODY_BYTES", 50<<20)),
			CacheTTL:         r.duration("CATALOG_CACHE_TTL", 5*time.Minute),
		},
		Mongo: MongoConfig{
			URI:              r.str("MONGO_URI", "mongodb://localhost:27017"),
			Database:         r.str("MONGO_DATABASE", "catalogo1"),
			ConnectTimeout:   r.duration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
			OperationTimeout: r.duration("MONGO_OPERATION_TIMEOUT", 30*time.Second),
			MaxPoolSize:      uint64(r.integer("MONGO_MAX_POOL_SIZE", 20)),
		},
		Postgres: PostgresConfig{
			Host:               r.str("DB_HOST", "localhost"),
			Port:               r.str("DB_PORT", "5432"),
			User:               r.str("DB_USER", "catalog"),
			Password:           r.str("DB_PASSWORD", "catalog_dev"),
			Name:               r.str("DB_NAME", "catalogo1"),
			SSLMode:            r.str("DB_SSL_MODE", "disable"),
			MaxConnections:     int32(r.integer("DB_MAX_CONNECTIONS", 10)),
			MinConnections:     int32(r.integer("DB_MIN_CONNECTIONS", 2)),
			MaxConnLifetime:    r.duration("DB_CONNECTION_LIFETIME", time.Hour),
			MaxConnIdleTime:    r.duration("DB_IDLE_TIME", 30*time.Minute),
			HealthCheckPeriod:  r.duration("DB_HEALTH_CHECK_PERIOD", time.Minute),
			ConnectTimeout:     r.duration("DB_CONNECT_TIMEOUT", 10*time.Second),
			EnableQueryLogging: r.boolean("DB_QUERY_LOGGING", false),
			RunMigrations:      r.boolean("DB_RUN_MIGRATIONS", true),
		},
		Remote: RemoteConfig{
			BaseURL: r.str("REMOTE_BASE_URL", "http://localhost:8080"),
			Timeout: r.duration("REMOTE_TIMEOUT", 15*time.Second),
		},
		Redis: RedisConfig{
			Enabled:         r.boolean("REDIS_ENABLED", true),
			Host:            redisHost,
			Port:            redisPort,
			Password:        r.str("REDIS_PASSWORD", ""),
			DB:              r.integer("REDIS_DB", 0),
			MaxRetries:      r.integer("REDIS_MAX_RETRIES", 3),
			MinRetryBackoff: r.duration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
			MaxRetryBackoff: r.duration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
			DialTimeout:     r.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     r.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    r.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolSize:        r.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns:    r.integer("REDIS_MIN_IDLE_CONNS", 2),
			PoolTimeout:     r.duration("REDIS_POOL_TIMEOUT", 4*time.Second),
			TTL:             r.duration("REDIS_TTL", time.Hour),
		},
		Asynq: AsynqConfig{
			Enabled:             r.boolean("ASYNQ_ENABLED", true),
			RedisAddr:           fmt.Sprintf("%s:%s", redisHost, redisPort),
			RedisPassword:       r.str("REDIS_PASSWORD", ""),
			RedisDB:             r.integer("ASYNQ_REDIS_DB", 1),
			Concurrency:         r.integer("ASYNQ_CONCURRENCY", 5),
			Queues:              parseQueues(r.str("ASYNQ_QUEUES", "critical:6,default:3,low:1")),
			StrictPriority:      r.boolean("ASYNQ_STRICT_PRIORITY", false),
			RetryMax:            r.integer("ASYNQ_RETRY_MAX", 3),
			ShutdownTimeout:     r.duration("ASYNQ_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthCheckInterval: r.duration("ASYNQ_HEALTH_CHECK_INTERVAL", 30*time.Second),
		},
		AWS: AWSConfig{
			Region:          r.str("AWS_REGION", "us-east-1"),
			AccessKeyID:     r.str("AWS_ACCESS_KEY_ID", "minioadmin"),
			SecretAccessKey: r.str("AWS_SECRET_ACCESS_KEY", "minioadmin123"),
			S3Bucket:        r.str("AWS_S3_BUCKET", "catalog-reports"),
			S3Endpoint:      r.str("AWS_S3_ENDPOINT", ""),
			UsePathStyle:    r.boolean("AWS_S3_PATH_STYLE", env == "development"),
		},
		Reports: ReportsConfig{
			Storage:         strings.ToLower(r.str("REPORTS_STORAGE", "s3")),
			LocalDir:        r.str("REPORTS_LOCAL_DIR", os.TempDir()),
			Prefix:          r.str("REPORTS_PREFIX", "reports/sales"),
			URLExpiry:       r.duration("REPORTS_URL_EXPIRY", 24*time.Hour),
			StatusTTL:       r.duration("REPORTS_STATUS_TTL", 48*time.Hour),
			Retention:       r.duration("REPORTS_RETENTION", 7*24*time.Hour),
			CleanupSchedule: r.str("REPORTS_CLEANUP_SCHEDULE", "0 3 * * *"),
			Timeout:         r.duration("REPORTS_TIMEOUT", 5*time.Minute),
		},
		Security: SecurityConfig{
			RateLimitRequests: r.integer("RATE_LIMIT_REQUESTS", 100),
			RateLimitDuration: r.duration("RATE_LIMIT_DURATION", time.Minute),
			AllowedOrigins:    r.slice("ALLOWED_ORIGINS", []string{"*"}),
			TrustedProxies:    r.slice("TRUSTED_PROXIES", []string{}),
			SecureHeaders:     r.boolean("SECURE_HEADERS", env == "production"),
			RequestIDHeader:   r.str("REQUEST_ID_HEADER", "X-Request-ID"),
		},
		Server: ServerConfig{
			Host:            r.str("SERVER_HOST", "0.0.0.0"),
			Port:            r.str("SERVER_PORT", "8080"),
			ReadTimeout:     r.duration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    r.duration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     r.duration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			MaxHeaderBytes:  r.integer("SERVER_MAX_HEADER_BYTES", 1<<20),
			GracefulTimeout: r.duration("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
			TLSEnabled:      r.boolean("TLS_ENABLED", false),
			TLSCertFile:     r.str("TLS_CERT_FILE", ""),
			TLSKeyFile:      r.str("TLS_KEY_FILE", ""),
		},
		Secrets: SecretsConfig{
			Provider:   strings.ToLower(r.str("SECRETS_PROVIDER", "env")),
			SecretName: r.str("SECRETS_NAME", "catalog/production"),
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var secrets SecretSource = envSecrets{}
	if cfg.Secrets.Provider == "aws" {
		awsSecrets, err := NewAWSSecrets(ctx, cfg.AWS.Region, cfg.Secrets.SecretName, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to init secrets provider: %w", err)
		}
		secrets = awsSecrets
	}
	if err := cfg.ApplySecrets(ctx, secrets); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// secretTargets maps provider keys to the settings they override.
func (c *Config) secretTargets() map[string][]*string {
	return map[string][]*string{
		"MONGO_URI":             {&c.Mongo.URI},
		"DB_PASSWORD":           {&c.Postgres.Password},
		"REDIS_PASSWORD":        {&c.Redis.Password, &c.Asynq.RedisPassword},
		"AWS_SECRET_ACCESS_KEY": {&c.AWS.SecretAccessKey},
	}
}

// ApplySecrets overrides credentials with values held by the secrets provider.
func (c *Config) ApplySecrets(ctx context.Context, source SecretSource) error {
	targets := c.secretTargets()
	keys := make([]string, 0, len(targets))
	for key := range targets {
		keys = append(keys, key)
	}

	values, err := source.Secrets(ctx, keys)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}
	for key, v := range values {
		for _, target := range targets[key] {
			*target = v
		}
	}
	return nil
}

// Validate runs every validator that applies to the current environment and
// reports all failures together.
func (c *Config) Validate() error {
	validators := baseValidators
	if c.IsProduction() {
		validators = append(append([]Validator{}, baseValidators...), productionValidators...)
	}

	var errs []error
	for _, v := range validators {
		if err := v.Validate(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GetDatabaseURL returns the formatted database connection string
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.Name,
		c.Postgres.SSLMode,
	)
}

// GetServerAddress returns the formatted server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// GetRedisAddress returns host:port of the cache
func (c *Config) GetRedisAddress() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local"
}

// reader registers each default with viper and reads the resolved value, so
// environment variables and config file keys share one name.
type reader struct {
	v *viper.Viper
}

func (r reader) str(key, def string) string {
	r.v.SetDefault(key, def)
	return r.v.GetString(key)
}

func (r reader) boolean(key string, def bool) bool {
	r.v.SetDefault(key, def)
	if b, err := strconv.ParseBool(r.v.GetString(key)); err == nil {
		return b
	}
	return def
}

func (r reader) integer(key string, def int) int {
	r.v.SetDefault(key, def)
	if i, err := strconv.Atoi(r.v.GetString(key)); err == nil {
		return i
	}
	return def
}

func (r reader) duration(key string, def time.Duration) time.Duration {
	r.v.SetDefault(key, def.String())
	if d, err := time.ParseDuration(r.v.GetString(key)); err == nil {
		return d
	}
	return def
}

func (r reader) slice(key string, def []string) []string {
	raw := r.v.GetString(key)
	if raw == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseQueues(queuesStr string) map[string]int {
	queues := make(map[string]int)
	for _, pair := range strings.Split(queuesStr, ",") {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			name := strings.TrimSpace(parts[0])
			priority, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err == nil {
				queues[name] = priority
			}
		}
	}
	if len(queues) == 0 {
		queues["default"] = 1
	}
	return queues
}
