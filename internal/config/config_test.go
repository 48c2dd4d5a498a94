package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "./data/analyses.db", cfg.Database.Path)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, "secret", cfg.AI.APIKey)
	assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, `
server:
  port: 9090
  allowedOrigins: ["http://localhost:5173"]
  writeTimeout: 45s
database:
  driver: postgres
  host: db
  user: app
  password: pw
  name: med
ai:
  apiKey: from-file
  model: gemini-2.5-pro
minio:
  endpoint: minio:9000
  bucketName: analyses
`)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("AI_MODEL", "gemini-2.5-flash")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "from-file", cfg.AI.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=med sslmode=disable", cfg.PostgresDSN())
	assert.True(t, cfg.ArchiveEnabled())
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load(writeFile(t, "server:\n  port: 8000\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ai.apiKey is required")
}

func TestLoad_BadDriver(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")

	_, err := Load(writeFile(t, "database:\n  driver: oracle\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver must be one of [sqlite mysql postgres]")
}

func TestLoad_MySQLNeedsHost(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.host is required")
	assert.Contains(t, err.Error(), "database.name is required")
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeFile(t, "server: [\n"))
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	cfg := Default()
	cfg.Database.Host = "db"
	cfg.Database.User = "u"
	cfg.Database.Password = "p"
	cfg.Database.Name = "med"

	assert.Equal(t, "u:p@tcp(db:3306)/med?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
}

func TestFormatFieldPath(t *testing.T) {
	assert.Equal(t, "ai.apiKey", formatFieldPath("Config.AI.APIKey"))
	assert.Equal(t, "minio.bucketName", formatFieldPath("Config.Minio.BucketName"))
	assert.Equal(t, "server.port", formatFieldPath("Config.Server.Port"))
}
