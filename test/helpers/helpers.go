// test/helpers/helpers.go
package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/catalog-be/internal/adapters/db"
	"github.com/ammerola/catalog-be/internal/adapters/mongodb"
	"github.com/ammerola/catalog-be/internal/core/domain"
	"github.com/ammerola/catalog-be/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func newDockerPool(t *testing.T) *dockertest.Pool {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")
	pool.MaxWait = 2 * time.Minute
	return pool
}

// SetupTestPostgres starts a PostgreSQL container and applies the embedded
// migrations.
func SetupTestPostgres(t *testing.T) *TestDB {
	t.Helper()

	pool := newDockerPool(t)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_catalog",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_catalog",
		SSLMode:            "disable",
		MaxConnections:     5,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		EnableQueryLogging: testing.Verbose(),
	}

	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")
	t.Cleanup(database.Close)

	err = db.MigrateDocuments(context.Background(), db.MigrationConfig{
		DatabaseURL: dbConfig.URL(),
		MaxAttempts: 3,
	}, TestLogger())
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// TruncateDocuments empties the documents table
func TruncateDocuments(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	_, err := sqlDB.ExecContext(context.Background(), "TRUNCATE TABLE documents")
	require.NoError(t, err, "Failed to truncate documents")
}

// SetupTestMongo starts a MongoDB container and returns a connected store.
func SetupTestMongo(t *testing.T) *mongodb.DocumentStore {
	t.Helper()

	pool := newDockerPool(t)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start MongoDB container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	cfg := &mongodb.Config{
		URI:              fmt.Sprintf("mongodb://localhost:%s", resource.GetPort("27017/tcp")),
		Database:         "catalog_test",
		ConnectTimeout:   5 * time.Second,
		OperationTimeout: 10 * time.Second,
		MaxDocumentBytes: 16 << 20,
	}

	var store *mongodb.DocumentStore
	err = pool.Retry(func() error {
		var err error
		store, err = mongodb.Connect(context.Background(), cfg, TestLogger())
		return err
	})
	require.NoError(t, err, "Could not connect to MongoDB")

	t.Cleanup(func() {
		_ = store.Close(context.Background())
	})

	return store
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// SetupMockDB creates a mock database for unit testing
func SetupMockDB(t *testing.T) (sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create mock DB")

	t.Cleanup(func() {
		db.Close()
	})

	return mock, db
}

// LoadTestConfig returns a test configuration backed by the memory store
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "catalog-test",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Store: config.StoreConfig{
			Driver:           config.DriverMemory,
			Collections:      []string{domain.CollectionProducts, domain.CollectionSales},
			MaxDocumentBytes: 16 << 20,
			MaxBodyBytes:     50 << 20,
			CacheTTL:         time.Minute,
		},
		Mongo: config.MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "catalogo1",
		},
		Postgres: config.PostgresConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "test",
			Password:       "test",
			Name:           "test_catalog",
			SSLMode:        "disable",
			MaxConnections: 10,
			MinConnections: 2,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			TTL:      time.Hour,
			PoolSize: 10,
		},
		Reports: config.ReportsConfig{
			Storage:   "local",
			LocalDir:  os.TempDir(),
			Prefix:    "reports/sales",
			URLExpiry: time.Hour,
			StatusTTL: time.Hour,
			Retention: 7 * 24 * time.Hour,
			Timeout:   time.Minute,
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
			RequestIDHeader:   "X-Request-ID",
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestProduct creates a valid product
func CreateTestProduct(overrides ...func(*domain.Product)) *domain.Product {
	p := &domain.Product{
		Name:        "Camiseta de Prueba",
		Category:    domain.CategoryFootball,
		Subcategory: "camisetas",
		Brand:       "Adidas",
		Color:       "blanco",
		Season:      domain.SeasonAllSeason,
		Gender:      domain.GenderUnisex,
		Team:        "Real Madrid",
		Country:     "España",
		PlayerType:  domain.PlayerTypeFan,
		Price:       decimal.NewFromInt(150),
		Description: "Camiseta oficial de local",
		Images:      []string{"https://images.example/camiseta.jpg"},
		Sizes:       []string{"S", "M", "L"},
		Inventory:   map[string]int{"S": 5, "M": 10, "L": 3},
	}

	for _, override := range overrides {
		override(p)
	}

	return p
}

// CreateTestProducts creates count products with distinct names and prices
func CreateTestProducts(count int) []*domain.Product {
	categories := []domain.Category{
		domain.CategoryFootball,
		domain.CategoryCasual,
		domain.CategoryFormal,
		domain.CategorySportswear,
	}

	products := make([]*domain.Product, count)
	for i := 0; i < count; i++ {
		products[i] = CreateTestProduct(func(p *domain.Product) {
			p.Name = fmt.Sprintf("Producto %d", i+1)
			p.Category = categories[i%len(categories)]
			p.Price = decimal.NewFromInt(int64(100 + i*50))
		})
	}
	return products
}

// CreateTestSaleInput creates a sale input for productID
func CreateTestSaleInput(productID string, overrides ...func(*domain.SaleInput)) domain.SaleInput {
	in := domain.SaleInput{
		ProductID:     productID,
		Size:          "S",
		Quantity:      1,
		PaymentMethod: domain.PaymentCash,
		CustomerName:  "Ana López",
		SaleDate:      "2024-05-10",
	}

	for _, override := range overrides {
		override(&in)
	}

	return in
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}
