package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("COGNITO_USER_POOL_ID", "us-east-1_testpool")
	t.Setenv("COGNITO_CLIENT_ID", "client-abc")
	t.Setenv("SECRETS_FILE", "")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_MissingPoolID(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COGNITO_USER_POOL_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COGNITO_USER_POOL_ID")
}

func TestLoad_MissingDBPassword(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestLoad_InvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "99999")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_SecretsFileOverlay(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "secrets.yaml")
	content := `
database:
  password: from-file
cognito:
  client_secret: secret-from-file
aws:
  access_key_id: AKIAFILE
  secret_access_key: file-secret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("SECRETS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.DatabasePassword)
	assert.Equal(t, "secret-from-file", cfg.CognitoClientSecret)
	assert.Equal(t, "AKIAFILE", cfg.AWSAccessKeyID)
}

func TestLoad_SecretsFileMissing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SECRETS_FILE", "/nonexistent/secrets.yaml")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_DatabaseDSN(t *testing.T) {
	cfg := &Config{
		DatabaseUser:     "svc",
		DatabasePassword: "pw",
		DatabaseHost:     "db.internal",
		DatabasePort:     "5432",
		DatabaseName:     "identity",
		DatabaseSSLMode:  "require",
	}

	assert.Equal(t, "postgres://svc:pw@db.internal:5432/identity?sslmode=require", cfg.DatabaseDSN())
}

func TestConfig_CognitoIssuer(t *testing.T) {
	cfg := &Config{
		AWSRegion:         "eu-west-1",
		CognitoUserPoolID: "eu-west-1_pool",
	}
	assert.Equal(t, "https://cognito-idp.eu-west-1.amazonaws.com/eu-west-1_pool", cfg.CognitoIssuer())

	cfg.CognitoEndpointURL = "http://localhost:4566/"
	assert.Equal(t, "http://localhost:4566/eu-west-1_pool", cfg.CognitoIssuer())
}

func TestConfig_IsDevelopment(t *testing.T) {
	for _, env := range []string{"development", "dev", "local", "Development"} {
		cfg := &Config{AppEnv: env}
		assert.True(t, cfg.IsDevelopment(), env)
	}

	cfg := &Config{AppEnv: "production"}
	assert.False(t, cfg.IsDevelopment())
}
