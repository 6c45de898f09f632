// Package config resolves inkpot's settings from defaults, an optional
// config file, a .env file and INKPOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Backends accepted by the backend key.
const (
	BackendPostgREST = "postgrest"
	BackendPostgres  = "postgres"
	BackendBadger    = "badger"
)

// Config is the resolved, typed view of the settings.
type Config struct {
	HTTPAddr         string
	Backend          string
	PostgRESTURL     string
	PostgRESTAPIKey  string
	PostgRESTTimeout time.Duration
	PostgresDSN      string
	BadgerPath       string
	PageSize         int
	RequestTimeout   time.Duration
	SessionSecret    string
	SessionTTL       time.Duration
	SessionMax       int
	SessionSecure    bool
	LogLevel         string
	LogFormat        string
	AllowedOrigins   []string
}

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < .env < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(v *viper.Viper) error {
	// .env never overrides variables already set in the environment.
	_ = godotenv.Load()

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("inkpot")
		v.AddConfigPath(".")
	}
	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("inkpot")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return nil
}

// FromViper builds a Config from a loaded Viper instance.
func FromViper(v *viper.Viper) Config {
	return Config{
		HTTPAddr:         v.GetString("http_addr"),
		Backend:          strings.ToLower(strings.TrimSpace(v.GetString("backend"))),
		PostgRESTURL:     v.GetString("postgrest.url"),
		PostgRESTAPIKey:  v.GetString("postgrest.api_key"),
		PostgRESTTimeout: v.GetDuration("postgrest.timeout"),
		PostgresDSN:      v.GetString("postgres.dsn"),
		BadgerPath:       v.GetString("badger.path"),
		PageSize:         v.GetInt("page_size"),
		RequestTimeout:   v.GetDuration("request_timeout"),
		SessionSecret:    v.GetString("session.secret"),
		SessionTTL:       v.GetDuration("session.ttl"),
		SessionMax:       v.GetInt("session.max"),
		SessionSecure:    v.GetBool("session.secure"),
		LogLevel:         v.GetString("log.level"),
		LogFormat:        v.GetString("log.format"),
		AllowedOrigins:   splitCSV(v.GetStringSlice("cors.allowed_origins")),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	switch c.Backend {
	case BackendPostgREST:
		if u, err := url.Parse(c.PostgRESTURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, errors.New("postgrest.url must be an absolute URL"))
		}
		if c.PostgRESTAPIKey == "" {
			errs = append(errs, errors.New("postgrest.api_key is required"))
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres.dsn is required"))
		}
	case BackendBadger:
	default:
		errs = append(errs, fmt.Errorf("backend %q is not one of postgrest, postgres, badger", c.Backend))
	}
	if c.PageSize <= 0 {
		errs = append(errs, errors.New("page_size must be greater than 0"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be greater than 0"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be greater than 0"))
	}
	if c.SessionMax <= 0 {
		errs = append(errs, errors.New("session.max must be greater than 0"))
	}
	return errors.Join(errs...)
}

// splitCSV flattens comma-separated entries, which is how a list arrives from env.
func splitCSV(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if item := strings.TrimSpace(part); item != "" {
				out = append(out, item)
			}
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
