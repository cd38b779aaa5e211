// Package config provides application configuration management with support for
// command-line flags, environment variables, .env files and an optional YAML file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alertdash/alertdash-server/internal/domain"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	Upload  UploadConfig
	Archive ArchiveConfig
	Report  ReportConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           string        // Server port (default: 8080)
	ReadTimeout    time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout   time.Duration // HTTP write timeout (default: 30s)
	IdleTimeout    time.Duration // HTTP idle timeout (default: 60s)
	MaxUploadBytes int64         // Largest accepted archive (default: 256 MiB)
	CORSOrigins    []string      // Origins allowed to call the JSON API (default: none)
}

// UploadConfig holds per-client upload rate limits.
type UploadConfig struct {
	RatePerMinute int // Sustained uploads per minute (default: 10)
	Burst         int // Uploads allowed in a burst (default: 3)
}

// ArchiveConfig holds extraction settings.
type ArchiveConfig struct {
	WorkDir   string // Fixed extraction directory, replaced on every upload (default: extracted_alerts)
	AlertsDir string // Subdirectory holding the day files (default: alerts)
}

// ReportConfig holds pipeline settings.
type ReportConfig struct {
	// Timezone is an IANA zone name, or "Local", used to break down ts values.
	Timezone       string
	Location       *time.Location
	DefaultVariant string
}

const defaultMaxUploadBytes = 256 << 20

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env.local and .env files.
// 4. YAML config file.
// 5. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("alertdash", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated origins allowed to call the API")
	maxUpload := fs.String("max-upload-bytes", "", "Largest accepted archive in bytes (default: 268435456)")

	// Upload flags
	uploadRate := fs.String("upload-rate", "", "Uploads per minute per client (default: 10)")
	uploadBurst := fs.String("upload-burst", "", "Upload burst per client (default: 3)")

	// Pipeline flags
	workDir := fs.String("work-dir", "", "Extraction directory (default: extracted_alerts)")
	alertsDir := fs.String("alerts-dir", "", "Alerts subdirectory inside the archive (default: alerts)")
	timezone := fs.String("timezone", "", "Time zone for ts derivation (default: Local)")
	variant := fs.String("variant", "", "Default dashboard variant (default: bot-activity)")

	envFile := fs.String("env-file", "", "Path to .env file (default: .env.local, .env)")
	configFile := fs.String("config", "", "Path to YAML config file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	loadDotEnv(*envFile)

	if path := getConfigValue(*configFile, "CONFIG_FILE", ""); path != "" {
		if err := loadYAMLFile(path); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port: getConfigValue(*serverPort, "SERVER_PORT", "8080"),
		},
		Upload: UploadConfig{
			RatePerMinute: getIntConfigValue(*uploadRate, "UPLOAD_RATE_PER_MINUTE", 10),
			Burst:         getIntConfigValue(*uploadBurst, "UPLOAD_BURST", 3),
		},
		Archive: ArchiveConfig{
			WorkDir:   getConfigValue(*workDir, "ARCHIVE_WORK_DIR", "extracted_alerts"),
			AlertsDir: getConfigValue(*alertsDir, "ARCHIVE_ALERTS_DIR", "alerts"),
		},
		Report: ReportConfig{
			Timezone:       getConfigValue(*timezone, "REPORT_TIMEZONE", "Local"),
			DefaultVariant: getConfigValue(*variant, "REPORT_DEFAULT_VARIANT", string(domain.DefaultVariant)),
		},
	}

	maxUploadStr := getConfigValue(*maxUpload, "SERVER_MAX_UPLOAD_BYTES", strconv.Itoa(defaultMaxUploadBytes))
	maxUploadBytes, err := strconv.ParseInt(maxUploadStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid max upload bytes %q: %w", maxUploadStr, err)
	}
	cfg.Server.MaxUploadBytes = maxUploadBytes
	cfg.Server.CORSOrigins = splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", ""))

	// Parse server timeouts.
	if cfg.Server.ReadTimeout, err = getDurationConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = getDurationConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = getDurationConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
// It resolves Report.Location from Report.Timezone.
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

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}

	if c.Upload.RatePerMinute <= 0 || c.Upload.Burst <= 0 {
		return errors.New("upload rate and burst must be positive")
	}

	if c.Archive.WorkDir == "" {
		return errors.New("archive work dir cannot be empty")
	}
	if c.Archive.AlertsDir == "" || strings.ContainsAny(c.Archive.AlertsDir, `/\`) {
		return fmt.Errorf("invalid alerts dir %q (must be a single directory name)", c.Archive.AlertsDir)
	}

	if _, ok := domain.LookupProfile(c.Report.DefaultVariant); !ok {
		return fmt.Errorf("unknown default variant: %s", c.Report.DefaultVariant)
	}

	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Report.Timezone, err)
	}
	c.Report.Location = loc

	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return defaultValue
	}
	return result
}

func getDurationConfigValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	s := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, err)
	}
	return d, nil
}

// loadDotEnv loads .env files without overwriting variables already set.
// An explicit path wins; otherwise .env.local is read before .env.
func loadDotEnv(path string) []string {
	candidates := []string{".env.local", ".env"}
	if path != "" {
		candidates = []string{path}
	}

	var loaded []string
	for _, f := range candidates {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}

// loadYAMLFile reads a flat KEY: value YAML document and exports keys that are
// not already set in the environment.
func loadYAMLFile(path string) error {
	data, err := os.ReadFile(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for key, raw := range values {
		if raw == nil {
			continue
		}
		if _, isMap := raw.(map[string]any); isMap {
			return fmt.Errorf("parse %s: key %s must be a scalar", path, key)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(raw)); err != nil {
			return fmt.Errorf("failed to set env var %s: %w", key, err)
		}
	}
	return nil
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
