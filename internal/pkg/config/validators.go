// internal/pkg/config/validators.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
)

// Validator checks one aspect of a loaded configuration
type Validator interface {
	Validate(cfg *Config) error
}

// ValidatorFunc adapts a function to Validator
type ValidatorFunc func(cfg *Config) error

func (f ValidatorFunc) Validate(cfg *Config) error { return f(cfg) }

// Validators applied to every environment, and on top in production.
var (
	baseValidators       = []Validator{ValidatorFunc(validateRequired), ValidatorFunc(validateLimits), ValidatorFunc(validateStore)}
	productionValidators = []Validator{ValidatorFunc(validateProduction)}
)

func validateRequired(cfg *Config) error {
	return requiredFields(reflect.ValueOf(cfg).Elem(), "")
}

func validateLimits(cfg *Config) error {
	var errs []error
	if cfg.Postgres.MaxConnections < cfg.Postgres.MinConnections {
		errs = append(errs, errors.New("database max connections must be >= min connections"))
	}
	if cfg.Redis.PoolSize <= 0 {
		errs = append(errs, errors.New("redis pool size must be positive"))
	}
	if cfg.Security.RateLimitRequests <= 0 {
		errs = append(errs, errors.New("rate limit requests must be positive"))
	}
	if cfg.Store.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("store max body bytes must be positive"))
	}
	return errors.Join(errs...)
}

// validateStore ensures the selected driver and report storage can be opened
func validateStore(cfg *Config) error {
	var errs []error
	switch cfg.Store.Driver {
	case DriverMongo:
		if cfg.Mongo.URI == "" || cfg.Mongo.Database == "" {
			errs = append(errs, fmt.Errorf("%w: MONGO_URI and MONGO_DATABASE", ErrMissingRequiredConfig))
		}
	case DriverPostgres:
		if cfg.Postgres.Host == "" || cfg.Postgres.Name == "" {
			errs = append(errs, fmt.Errorf("%w: DB_HOST and DB_NAME", ErrMissingRequiredConfig))
		}
	case DriverHTTP:
		if u, err := url.Parse(cfg.Remote.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("remote base url %q is not an absolute URL", cfg.Remote.BaseURL))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", cfg.Store.Driver))
	}

	for _, c := range cfg.Store.Collections {
		if c == "" || strings.ContainsAny(c, "/?#") {
			errs = append(errs, fmt.Errorf("invalid collection name %q", c))
		}
	}

	if cfg.Reports.Storage != "s3" && cfg.Reports.Storage != "local" {
		errs = append(errs, fmt.Errorf("unknown reports storage %q", cfg.Reports.Storage))
	}
	return errors.Join(errs...)
}

func validateProduction(cfg *Config) error {
	var errs []error
	if strings.HasPrefix(cfg.Postgres.Password, "MISSING_") {
		errs = append(errs, fmt.Errorf("%w: database password", ErrMissingRequiredConfig))
	}
	if cfg.Store.Driver == DriverMemory {
		errs = append(errs, errors.New("memory store cannot be used in production"))
	}
	if cfg.Store.Driver == DriverPostgres && cfg.Postgres.SSLMode == "disable" {
		errs = append(errs, errors.New("database SSL must be enabled in production"))
	}
	if !cfg.Security.SecureHeaders {
		errs = append(errs, errors.New("secure headers must be enabled in production"))
	}
	if len(cfg.Security.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("allowed origins must be configured in production"))
	}
	if cfg.Server.TLSEnabled && (cfg.Server.TLSCertFile == "" || cfg.Server.TLSKeyFile == "") {
		errs = append(errs, errors.New("TLS cert and key files must be provided when TLS is enabled"))
	}
	return errors.Join(errs...)
}

// requiredFields walks nested structs and reports fields tagged
// `required:"true"` that are empty or still hold a MISSING_ placeholder.
func requiredFields(v reflect.Value, prefix string) error {
	var errs []error
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field, name := v.Field(i), t.Field(i).Name
		if prefix != "" {
			name = prefix + "." + name
		}

		if t.Field(i).Tag.Get("required") == "true" && isUnset(field) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingRequiredConfig, name))
		}
		if field.Kind() == reflect.Struct {
			if err := requiredFields(field, name); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func isUnset(v reflect.Value) bool {
	if v.Kind() == reflect.String {
		return v.String() == "" || strings.HasPrefix(v.String(), "MISSING_")
	}
	return v.IsZero()
}
