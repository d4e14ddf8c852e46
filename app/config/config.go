package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the identity service
type Config struct {
	// Server
	AppEnv    string
	Port      string
	Host      string
	LogLevel  string
	APIPrefix string

	// Database
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseSSLMode  string

	// AWS / Cognito
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	CognitoUserPoolID   string
	CognitoClientID     string
	CognitoClientSecret string
	CognitoEndpointURL  string

	// Features
	EnableMetrics bool
}

// secretsFile mirrors the optional YAML secrets overlay. Values present in
// the file take precedence over environment variables, which keeps local
// development and secret-manager deployments on the same code path.
type secretsFile struct {
	Database struct {
		Password string `yaml:"password"`
	} `yaml:"database"`
	Cognito struct {
		ClientSecret string `yaml:"client_secret"`
	} `yaml:"cognito"`
	AWS struct {
		AccessKeyID     string `yaml:"access_key_id"`
		SecretAccessKey string `yaml:"secret_access_key"`
	} `yaml:"aws"`
}

// Load reads configuration from environment variables and the optional
// secrets file named by SECRETS_FILE.
func Load() (*Config, error) {
	config := &Config{}

	// Server configuration
	config.AppEnv = getEnvOrDefault("APP_ENV", "development")
	config.Port = getEnvOrDefault("PORT", "9000")
	config.Host = getEnvOrDefault("HOST", "0.0.0.0")
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	config.APIPrefix = getEnvOrDefault("API_PREFIX", "/api/v1")

	// Database configuration
	config.DatabaseHost = getEnvOrDefault("DB_HOST", "localhost")
	config.DatabasePort = getEnvOrDefault("DB_PORT", "5432")
	config.DatabaseName = getEnvOrDefault("DB_NAME", "identity_db")
	config.DatabaseUser = getEnvOrDefault("DB_USER", "identity_user")
	config.DatabasePassword = os.Getenv("DB_PASSWORD")
	config.DatabaseSSLMode = getEnvOrDefault("DB_SSL_MODE", "disable")

	// AWS / Cognito configuration
	config.AWSRegion = getEnvOrDefault("AWS_REGION", "us-east-1")
	config.AWSAccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	config.AWSSecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	config.CognitoUserPoolID = os.Getenv("COGNITO_USER_POOL_ID")
	config.CognitoClientID = os.Getenv("COGNITO_CLIENT_ID")
	config.CognitoClientSecret = os.Getenv("COGNITO_CLIENT_SECRET")
	config.CognitoEndpointURL = os.Getenv("COGNITO_ENDPOINT_URL")

	// Feature flags
	config.EnableMetrics = getBoolEnv("ENABLE_METRICS", false)

	// Secrets file overlay
	if path := os.Getenv("SECRETS_FILE"); path != "" {
		if err := config.applySecretsFile(path); err != nil {
			return nil, fmt.Errorf("failed to load secrets file: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// applySecretsFile overlays secrets from a YAML file onto the config
func (c *Config) applySecretsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var secrets secretsFile
	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return fmt.Errorf("invalid secrets file %s: %w", path, err)
	}

	if secrets.Database.Password != "" {
		c.DatabasePassword = secrets.Database.Password
	}
	if secrets.Cognito.ClientSecret != "" {
		c.CognitoClientSecret = secrets.Cognito.ClientSecret
	}
	if secrets.AWS.AccessKeyID != "" {
		c.AWSAccessKeyID = secrets.AWS.AccessKeyID
	}
	if secrets.AWS.SecretAccessKey != "" {
		c.AWSSecretAccessKey = secrets.AWS.SecretAccessKey
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535: %s", c.Port)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("API prefix must start with /: %s", c.APIPrefix)
	}

	if c.DatabasePassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}

	if c.CognitoUserPoolID == "" {
		return fmt.Errorf("COGNITO_USER_POOL_ID is required")
	}
	if c.CognitoClientID == "" {
		return fmt.Errorf("COGNITO_CLIENT_ID is required")
	}

	return nil
}

// IsDevelopment reports whether the service runs in development mode.
// Development mode enables the administrative auto-confirm after sign-up.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.AppEnv)
	return env == "development" || env == "dev" || env == "local"
}

// DatabaseDSN builds the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// CognitoIssuer returns the issuer URL of the configured user pool
func (c *Config) CognitoIssuer() string {
	if c.CognitoEndpointURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(c.CognitoEndpointURL, "/"), c.CognitoUserPoolID)
	}
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.AWSRegion, c.CognitoUserPoolID)
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
