package config

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := Load(discardLogger())
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, []string{"products", "sales"}, cfg.Store.Collections)
	assert.Equal(t, int64(50<<20), cfg.Store.MaxBodyBytes)
	assert.Equal(t, "catalogo1", cfg.Mongo.Database)
	assert.Equal(t, "localhost:6379", cfg.Asynq.RedisAddr)
	assert.Equal(t, map[string]int{"critical": 6, "default": 3, "low": 1}, cfg.Asynq.Queues)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("STORE_COLLECTIONS", "products, sales ,orders")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("CATALOG_CACHE_TTL", "90s")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("ASYNQ_QUEUES", "reports:2")

	cfg, err := Load(discardLogger())
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, []string{"products", "sales", "orders"}, cfg.Store.Collections)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 90*time.Second, cfg.Store.CacheTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, map[string]int{"reports": 2}, cfg.Asynq.Queues)
	assert.Contains(t, cfg.GetDatabaseURL(), "@db.internal:5432/catalogo1")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_DRIVER", "cassandra")

	_, err := Load(discardLogger())
	assert.ErrorContains(t, err, "unknown store driver")
}

func TestValidateStore(t *testing.T) {
	base := func() *Config {
		return &Config{
			Store:   StoreConfig{Driver: DriverMemory, MaxBodyBytes: 1},
			Mongo:   MongoConfig{URI: "mongodb://localhost", Database: "catalogo1"},
			Remote:  RemoteConfig{BaseURL: "http://localhost:8080"},
			Reports: ReportsConfig{Storage: "local"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "memory_needs_nothing", mutate: func(c *Config) {}},
		{name: "mongo_requires_uri", mutate: func(c *Config) { c.Store.Driver = DriverMongo; c.Mongo.URI = "" }, wantErr: true},
		{name: "http_requires_absolute_url", mutate: func(c *Config) { c.Store.Driver = DriverHTTP; c.Remote.BaseURL = "localhost" }, wantErr: true},
		{name: "collection_names_cannot_hold_paths", mutate: func(c *Config) { c.Store.Collections = []string{"a/b"} }, wantErr: true},
		{name: "unknown_report_storage", mutate: func(c *Config) { c.Reports.Storage = "ftp" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := validateStore(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateProduction_RejectsMemoryStore(t *testing.T) {
	cfg := &Config{
		Store:    StoreConfig{Driver: DriverMemory},
		Security: SecurityConfig{SecureHeaders: true, AllowedOrigins: []string{"https://tienda.example"}},
	}
	assert.ErrorContains(t, validateProduction(cfg), "memory store")
}

type fakeSecretsClient struct {
	calls  int
	secret string
	err    error
}

func (f *fakeSecretsClient) GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.secret)}, nil
}

func TestAWSSecrets_CachesSecret(t *testing.T) {
	client := &fakeSecretsClient{secret: `{"MONGO_URI":"mongodb://prod","DB_PASSWORD":"s3cret"}`}
	sm := newAWSSecrets(client, "catalog/production", discardLogger())
	ctx := context.Background()

	uri, err := sm.Secret(ctx, "MONGO_URI")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://prod", uri)

	pw, err := sm.Secret(ctx, "DB_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
	assert.Equal(t, 1, client.calls)

	_, err = sm.Secret(ctx, "MISSING")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestConfig_ApplySecrets(t *testing.T) {
	client := &fakeSecretsClient{secret: `{"MONGO_URI":"mongodb://prod","REDIS_PASSWORD":"r3dis"}`}
	sm := newAWSSecrets(client, "catalog/production", discardLogger())

	cfg := &Config{Postgres: PostgresConfig{Password: "unchanged"}}
	require.NoError(t, cfg.ApplySecrets(context.Background(), sm))

	assert.Equal(t, "mongodb://prod", cfg.Mongo.URI)
	assert.Equal(t, "unchanged", cfg.Postgres.Password)
	assert.Equal(t, "r3dis", cfg.Redis.Password)
	assert.Equal(t, "r3dis", cfg.Asynq.RedisPassword)
}

func TestConfig_ApplySecrets_ProviderError(t *testing.T) {
	sm := newAWSSecrets(&fakeSecretsClient{err: errors.New("access denied")}, "x", discardLogger())

	err := (&Config{}).ApplySecrets(context.Background(), sm)
	assert.ErrorContains(t, err, "access denied")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := &Config{
		App:     AppConfig{Name: "catalog-be", Environment: "production"},
		Store:   StoreConfig{Driver: DriverMemory},
		Redis:   RedisConfig{PoolSize: 1},
		Reports: ReportsConfig{Storage: "local"},
		Server:  ServerConfig{Port: "8080"},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "rate limit requests")
	assert.ErrorContains(t, err, "max body bytes")
	assert.ErrorContains(t, err, "memory store cannot be used in production")
	assert.ErrorContains(t, err, "secure headers")
}

func TestValidateRequired(t *testing.T) {
	cfg := &Config{
		App:    AppConfig{Name: "MISSING_APP_NAME"},
		Store:  StoreConfig{Driver: DriverMemory},
		Server: ServerConfig{Port: "8080"},
	}

	err := validateRequired(cfg)
	assert.ErrorIs(t, err, ErrMissingRequiredConfig)
	assert.ErrorContains(t, err, "App.Name")
}
