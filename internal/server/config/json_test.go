package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	full := writeTempJSON(t, dir, "full.json", map[string]any{
		"endpoint_addr_http":      "0.0.0.0:9000",
		"metrics_addr":            "0.0.0.0:9001",
		"database_dsn":            "postgres://u:p@db/x",
		"otlp_endpoint":           "collector:4317",
		"otlp_insecure":           false,
		"service_name":            "pessoas",
		"service_namespace":       "ns",
		"service_instance_id":     "pod-1",
		"drop_schema_on_shutdown": true,
		"hash_passwords":          true,
		"shutdown_timeout":        "30s",
		"log_level":               "debug",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", full}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "0.0.0.0:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "0.0.0.0:9001", cfg.MetricsAddr)
		assert.Equal(t, "postgres://u:p@db/x", cfg.DatabaseDSN)
		assert.Equal(t, "collector:4317", cfg.OTLPEndpoint)
		assert.False(t, cfg.OTLPInsecure)
		assert.Equal(t, "pessoas", cfg.ServiceName)
		assert.Equal(t, "ns", cfg.ServiceNamespace)
		assert.Equal(t, "pod-1", cfg.ServiceInstanceID)
		assert.True(t, cfg.DropSchemaOnShutdown)
		assert.True(t, cfg.HashPasswords)
		assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"database_dsn": "other"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "other", cfg.DatabaseDSN)
		assert.Equal(t, ":8000", cfg.EndpointAddrHTTP)
		assert.True(t, cfg.OTLPInsecure)
		assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{EndpointAddrHTTP: "defaults:1234", HashPasswords: true}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.True(t, cfg.HashPasswords)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
