package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":5000", c.HTTPAddr)
	assert.Equal(t, "postgres", c.MetadataBackend)
	assert.Equal(t, "/tmp/files_manager", c.FolderPath)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.Equal(t, []int{500, 250, 100}, c.ThumbnailWidths)
	assert.Equal(t, 20, c.PageSize)
	require.NoError(t, Validate(&c))
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	c, err := LoadConfig(nil)
	require.NoError(t, err)

	var want Config
	want.LoadDefaults()
	assert.Empty(t, cmp.Diff(&want, c))
}

func TestParseFile_YAML(t *testing.T) {
	path := writeTempFile(t, "cfg.yaml", `
http_addr: ":8080"
metadata_backend: memory
session_ttl: 2h
thumbnail_widths: [300, 50]
cors_origins:
  - http://localhost:3000
`)
	var c Config
	c.LoadDefaults()
	require.NoError(t, parseFile(&c, path))

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "memory", c.MetadataBackend)
	assert.Equal(t, 2*time.Hour, c.SessionTTL)
	assert.Equal(t, []int{300, 50}, c.ThumbnailWidths)
	assert.Equal(t, []string{"http://localhost:3000"}, c.CORSOrigins)
	// untouched keys keep defaults
	assert.Equal(t, "/tmp/files_manager", c.FolderPath)
}

func TestParseFile_JSON(t *testing.T) {
	path := writeTempFile(t, "cfg.json", `{"folder_path": "/data", "worker_count": 4, "shutdown_timeout": "3s"}`)
	var c Config
	c.LoadDefaults()
	require.NoError(t, parseFile(&c, path))

	assert.Equal(t, "/data", c.FolderPath)
	assert.Equal(t, 4, c.WorkerCount)
	assert.Equal(t, 3*time.Second, c.ShutdownTimeout)
}

func TestParseFile_Missing(t *testing.T) {
	var c Config
	assert.Error(t, parseFile(&c, filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestParseEnv_OverridesSetVariablesOnly(t *testing.T) {
	t.Setenv("FOLDER_PATH", "/srv/files")
	t.Setenv("THUMBNAIL_WIDTHS", "640,320")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("MAX_IMAGE_PIXELS", "1000000")

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c))

	assert.Equal(t, "/srv/files", c.FolderPath)
	assert.Equal(t, []int{640, 320}, c.ThumbnailWidths)
	assert.Equal(t, 30*time.Minute, c.SessionTTL)
	assert.Equal(t, int64(1_000_000), c.MaxImagePixels)
	assert.Equal(t, ":5000", c.HTTPAddr)
}

func TestParseFlags(t *testing.T) {
	var c Config
	c.LoadDefaults()

	args := []string{"-c", "ignored.yaml", "-a", "127.0.0.1:9090", "-m", "memory", "-w", "5", "-t", "1", "-unknown", "x"}
	require.NoError(t, parseFlags(&c, args))

	assert.Equal(t, "127.0.0.1:9090", c.HTTPAddr)
	assert.Equal(t, "memory", c.MetadataBackend)
	assert.Equal(t, 5, c.WorkerCount)
	assert.Equal(t, time.Hour, c.SessionTTL)
}

func TestParseFlags_BadValue(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assert.Error(t, parseFlags(&c, []string{"-w", "many"}))
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempFile(t, "cfg.yaml", "http_addr: \":7000\"\nfolder_path: /from-file\nworker_count: 3\n")
	t.Setenv("FOLDER_PATH", "/from-env")

	c, err := LoadConfig([]string{"-config", path, "-w", "9"})
	require.NoError(t, err)

	assert.Equal(t, ":7000", c.HTTPAddr)
	assert.Equal(t, "/from-env", c.FolderPath)
	assert.Equal(t, 9, c.WorkerCount)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad backend", func(c *Config) { c.MetadataBackend = "sqlite" }},
		{"postgres without dsn", func(c *Config) { c.DatabaseDSN = "" }},
		{"s3 without bucket", func(c *Config) { c.StorageBackend = "s3"; c.S3Bucket = "" }},
		{"no widths", func(c *Config) { c.ThumbnailWidths = nil }},
		{"negative width", func(c *Config) { c.ThumbnailWidths = []int{100, -1} }},
		{"zero workers", func(c *Config) { c.WorkerCount = 0 }},
		{"no pixel limit", func(c *Config) { c.MaxImagePixels = 0 }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			assert.Error(t, Validate(&c))
		})
	}
}
