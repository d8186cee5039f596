// Package config provides application configuration management with support for
// command-line flags, environment variables, .env files, and an optional YAML file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreBadger = "badger"
	StoreSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	App          AppConfig
	Logger       LoggerConfig
	Server       ServerConfig
	Store        StoreConfig
	Ticketmaster TicketmasterConfig
	Spotify      SpotifyConfig
	Geo          GeoConfig
	Upstream     UpstreamConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string        // Listen port (default: 8080)
	ReadTimeout    time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout   time.Duration // HTTP write timeout (default: 30s)
	IdleTimeout    time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins    []string      // Allowed origins (default: *)
	RateLimitRPS   float64       // Inbound requests per second per client IP (0 disables)
	RateLimitBurst int
}

// StoreConfig selects and locates the favorites store.
type StoreConfig struct {
	Backend  string // badger or sqlite
	DataPath string // Base directory for the database and search index
	DSN      string // Optional SQLite path override (DATABASE_URL)
}

// BadgerPath returns the Badger database directory.
func (s StoreConfig) BadgerPath() string {
	return filepath.Join(s.DataPath, "db")
}

// SQLitePath returns the SQLite database file path.
func (s StoreConfig) SQLitePath() string {
	if s.DSN != "" {
		return strings.TrimPrefix(s.DSN, "sqlite://")
	}
	return filepath.Join(s.DataPath, "favorites.db")
}

// TicketmasterConfig holds Ticketmaster Discovery API settings.
type TicketmasterConfig struct {
	APIKey  string
	BaseURL string
}

// SpotifyConfig holds Spotify Web API settings.
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	APIURL       string
	Market       string
}

// GeoConfig holds location provider credentials.
type GeoConfig struct {
	GeocodingAPIKey string
	GeocodingURL    string
	IPInfoToken     string
	IPInfoURL       string
}

// UpstreamConfig holds settings shared by all outbound clients.
type UpstreamConfig struct {
	Timeout time.Duration // default: 15s
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. YAML config file.
// 5. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("eventscope", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	envFile := fs.String("env-file", ".env", "Path to .env file")
	configFile := fs.String("config", "", "Path to YAML config file")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated allowed origins (default: *)")

	dataPath := fs.String("data-path", "", "Base path for database and search index")
	storeBackend := fs.String("store", "", "Favorites store backend: badger or sqlite")
	upstreamTimeout := fs.String("upstream-timeout", "", "Timeout for provider requests (default: 15s)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Missing .env is fine; set env vars are never overridden.
	_ = godotenv.Load(*envFile)

	file, err := loadFile(getConfigValue(*configFile, "CONFIG_FILE", "", nil))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development", file),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info", file),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*serverPort, "SERVER_PORT", getConfigValue("", "PORT", "8080", file), file),
			CORSOrigins:    splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*", file)),
			RateLimitRPS:   getFloatConfigValue("", "RATE_LIMIT_RPS", 20, file),
			RateLimitBurst: getIntConfigValue("", "RATE_LIMIT_BURST", 40, file),
		},
		Store: StoreConfig{
			Backend:  strings.ToLower(getConfigValue(*storeBackend, "STORE_BACKEND", StoreBadger, file)),
			DataPath: getConfigValue(*dataPath, "DATA_PATH", "", file),
			DSN:      getConfigValue("", "DATABASE_URL", "", file),
		},
		Ticketmaster: TicketmasterConfig{
			APIKey:  cleanSecret(getConfigValue("", "TM_API_KEY", getConfigValue("", "TICKETMASTER_API_KEY", "", file), file)),
			BaseURL: getConfigValue("", "TICKETMASTER_BASE_URL", "https://app.ticketmaster.com/discovery/v2", file),
		},
		Spotify: SpotifyConfig{
			ClientID:     cleanSecret(getConfigValue("", "SPOTIFY_CLIENT_ID", "", file)),
			ClientSecret: cleanSecret(getConfigValue("", "SPOTIFY_CLIENT_SECRET", "", file)),
			TokenURL:     getConfigValue("", "SPOTIFY_TOKEN_URL", "https://accounts.spotify.com/api/token", file),
			APIURL:       getConfigValue("", "SPOTIFY_API_URL", "https://api.spotify.com/v1", file),
			Market:       getConfigValue("", "SPOTIFY_MARKET", "US", file),
		},
		Geo: GeoConfig{
			GeocodingAPIKey: cleanSecret(getConfigValue("", "GOOGLE_GEOCODING_API_KEY", "", file)),
			GeocodingURL:    getConfigValue("", "GOOGLE_GEOCODING_URL", "https://maps.googleapis.com/maps/api/geocode/json", file),
			IPInfoToken:     cleanSecret(getConfigValue("", "IPINFO_TOKEN", "", file)),
			IPInfoURL:       getConfigValue("", "IPINFO_URL", "https://ipinfo.io/json", file),
		},
	}

	durations := []struct {
		flagValue string
		envKey    string
		def       string
		target    *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "30s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*upstreamTimeout, "UPSTREAM_TIMEOUT", "15s", &cfg.Upstream.Timeout},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def, file)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.target = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
// Provider credentials are not checked here: a missing key is reported
// as a configuration error by the component that needs it.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Store.Backend != StoreBadger && c.Store.Backend != StoreSQLite {
		return fmt.Errorf("invalid store backend: %s (must be badger or sqlite)", c.Store.Backend)
	}

	if c.Store.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %s", c.Server.Port)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults the data path to ~/EventScope/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "EventScope", "data")

	expanded, err := expandPath(c.Store.DataPath, defaultPath)
	if err != nil {
		return err
	}
	c.Store.DataPath = expanded
	return nil
}

// fileValues holds values read from the YAML config file, keyed by env var name.
type fileValues map[string]string

// yamlFile mirrors the YAML config file layout.
type yamlFile struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	Server   struct {
		Port        string   `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Store struct {
		Backend  string `yaml:"backend"`
		DataPath string `yaml:"data_path"`
		DSN      string `yaml:"dsn"`
	} `yaml:"store"`
	Ticketmaster struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"ticketmaster"`
	Spotify struct {
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
		Market       string `yaml:"market"`
	} `yaml:"spotify"`
	Geo struct {
		GeocodingAPIKey string `yaml:"geocoding_api_key"`
		IPInfoToken     string `yaml:"ipinfo_token"`
	} `yaml:"geo"`
	UpstreamTimeout string `yaml:"upstream_timeout"`
}

// loadFile reads an optional YAML config file.
func loadFile(path string) (fileValues, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return fileValues{
		"ENV":                      f.Env,
		"LOG_LEVEL":                f.LogLevel,
		"SERVER_PORT":              f.Server.Port,
		"CORS_ORIGINS":             strings.Join(f.Server.CORSOrigins, ","),
		"STORE_BACKEND":            f.Store.Backend,
		"DATA_PATH":                f.Store.DataPath,
		"DATABASE_URL":             f.Store.DSN,
		"TM_API_KEY":               f.Ticketmaster.APIKey,
		"TICKETMASTER_BASE_URL":    f.Ticketmaster.BaseURL,
		"SPOTIFY_CLIENT_ID":        f.Spotify.ClientID,
		"SPOTIFY_CLIENT_SECRET":    f.Spotify.ClientSecret,
		"SPOTIFY_MARKET":           f.Spotify.Market,
		"GOOGLE_GEOCODING_API_KEY": f.Geo.GeocodingAPIKey,
		"IPINFO_TOKEN":             f.Geo.IPInfoToken,
		"UPSTREAM_TIMEOUT":         f.UpstreamTimeout,
	}, nil
}

// getConfigValue returns the first non-empty value from flag, env var, config file, or default.
func getConfigValue(flagValue, envKey, defaultValue string, file fileValues) string {
	if flagValue != "" {
		return flagValue
	}

	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	if v := file[envKey]; v != "" {
		return v
	}

	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, config file, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int, file fileValues) int {
	strValue := getConfigValue(flagValue, envKey, "", file)
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, config file, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64, file fileValues) float64 {
	strValue := getConfigValue(flagValue, envKey, "", file)
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

// cleanSecret strips surrounding quotes and whitespace that often sneak into pasted keys.
func cleanSecret(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimPrefix(s, `'`)
	s = strings.TrimSuffix(s, `"`)
	s = strings.TrimSuffix(s, `'`)
	return strings.TrimSpace(s)
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
