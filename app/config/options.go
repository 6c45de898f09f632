package config

import "time"

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "http_addr", Default: ":8080", Comment: "HTTP listen address"},
		{Key: "backend", Default: "badger", Comment: "Blog service backend: postgrest, postgres or badger"},

		{Key: "postgrest.url", Default: "", Comment: "PostgREST base URL, e.g. https://project.supabase.co/rest/v1"},
		{Key: "postgrest.api_key", Default: "", Comment: "Public API key sent as apikey and bearer token"},
		{Key: "postgrest.timeout", Default: 10 * time.Second, Comment: "Per-request timeout for the PostgREST client"},
		{Key: "postgres.dsn", Default: "", Comment: "Postgres connection string for the postgres backend"},
		{Key: "badger.path", Default: "data/inkpot", Comment: "Directory of the embedded badger store; empty for a temporary one"},

		{Key: "page_size", Default: 6, Comment: "Posts fetched per page by the home and tag views"},
		{Key: "request_timeout", Default: 15 * time.Second, Comment: "Deadline applied to each collaborator call made for a request"},

		{Key: "session.secret", Default: "", Comment: "HMAC key for session cookies; a random key is used when empty"},
		{Key: "session.ttl", Default: 30 * time.Minute, Comment: "Idle lifetime of a visitor's view state"},
		{Key: "session.max", Default: 10000, Comment: "Maximum number of live sessions"},
		{Key: "session.secure", Default: false, Comment: "Mark session cookies Secure (serve over HTTPS)"},

		{Key: "log.level", Default: "info", Comment: "debug, info, warn, error or none"},
		{Key: "log.format", Default: "text", Comment: "text or json"},

		{Key: "cors.allowed_origins", Default: []string{"*"}, Comment: "Origins allowed to call /api"},
	}
}
