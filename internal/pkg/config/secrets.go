// internal/pkg/config/secrets.go
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// ErrSecretNotFound is returned when a provider does not hold a key.
var ErrSecretNotFound = errors.New("secret not found")

// SecretSource resolves credentials by key. Keys the source does not hold
// are left out of the result.
type SecretSource interface {
	Secrets(ctx context.Context, keys []string) (map[string]string, error)
}

// secretValueAPI is the part of the Secrets Manager client in use.
type secretValueAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecrets reads one Secrets Manager secret holding a JSON object of
// credentials and keeps it for ttl.
type AWSSecrets struct {
	client     secretValueAPI
	secretName string
	ttl        time.Duration
	logger     *slog.Logger

	mu        sync.Mutex
	values    map[string]string
	fetchedAt time.Time
}

var (
	_ SecretSource = (*AWSSecrets)(nil)
	_ SecretSource = envSecrets{}
)

// NewAWSSecrets creates a source backed by the named secret
func NewAWSSecrets(ctx context.Context, region, secretName string, logger *slog.Logger) (*AWSSecrets, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newAWSSecrets(secretsmanager.NewFromConfig(cfg), secretName, logger), nil
}

func newAWSSecrets(client secretValueAPI, secretName string, logger *slog.Logger) *AWSSecrets {
	return &AWSSecrets{
		client:     client,
		secretName: secretName,
		ttl:        5 * time.Minute,
		logger:     logger.With(slog.String("component", "secrets")),
	}
}

// Secret returns a single key
func (s *AWSSecrets) Secret(ctx context.Context, key string) (string, error) {
	values, err := s.Secrets(ctx, []string{key})
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", fmt.Errorf("%s in %s: %w", key, s.secretName, ErrSecretNotFound)
	}
	return v, nil
}

// Secrets returns the requested keys, refetching once the cached copy is
// older than the ttl.
func (s *AWSSecrets) Secrets(ctx context.Context, keys []string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values == nil || time.Since(s.fetchedAt) >= s.ttl {
		values, err := s.fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.values, s.fetchedAt = values, time.Now()
	}

	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, ok := s.values[key]; ok {
			out[key] = v
		}
	}
	return out, nil
}

func (s *AWSSecrets) fetch(ctx context.Context) (map[string]string, error) {
	s.logger.InfoContext(ctx, "fetching secrets", slog.String("secret_name", s.secretName))

	result, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(s.secretName),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read secret %s: %w", s.secretName, err)
	}
	if result.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", s.secretName)
	}

	var values map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &values); err != nil {
		return nil, fmt.Errorf("secret %s is not a JSON object of strings: %w", s.secretName, err)
	}
	return values, nil
}

// envSecrets reads credentials straight from the environment
type envSecrets struct{}

func (envSecrets) Secrets(_ context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			out[key] = v
		}
	}
	return out, nil
}
