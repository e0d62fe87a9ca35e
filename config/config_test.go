package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENAI_API_KEY", "MILVUS_API_KEY", "MYSQL_DSN", "JWT_SECRET", "OSS_ACCESS_KEY_ID", "OSS_ACCESS_KEY_SECRET"} {
		t.Setenv(key, "")
	}
}

func TestInitAppliesDefaults(t *testing.T) {
	clearEnvOverrides(t)

	path := writeConfig(t, `
jwt:
  secret_key: test-secret
`)
	require.NoError(t, Init(path))

	assert.Equal(t, "8000", Cfg.Server.Port)
	assert.Equal(t, StoreDriverJSONFile, Cfg.Store.Driver)
	assert.Equal(t, IngestModeSimulated, Cfg.Ingest.Mode)
	assert.Equal(t, 5*time.Second, Cfg.Ingest.PollInterval.Std())
	assert.Equal(t, 600*time.Millisecond, Cfg.Ingest.SimMinLatency.Std())
	assert.Equal(t, 1400*time.Millisecond, Cfg.Ingest.SimMaxLatency.Std())
	assert.Equal(t, 5, Cfg.Ingest.SimMinCount)
	assert.Equal(t, 25, Cfg.Ingest.SimMaxCount)
	assert.False(t, Cfg.ChatEnabled())
}

func TestInitParsesDurations(t *testing.T) {
	clearEnvOverrides(t)

	path := writeConfig(t, `
jwt:
  secret_key: test-secret
ingest:
  mode: simulated
  poll_interval: 2s
  sim_min_latency: 100ms
  sim_max_latency: 200ms
`)
	require.NoError(t, Init(path))
	assert.Equal(t, 2*time.Second, Cfg.Ingest.PollInterval.Std())
	assert.Equal(t, 100*time.Millisecond, Cfg.Ingest.SimMinLatency.Std())
}

func TestInitFailsFastOnMissingSecret(t *testing.T) {
	clearEnvOverrides(t)

	path := writeConfig(t, `
server:
  port: "9000"
`)
	err := Init(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret_key")
}

func TestInitFailsFastNamingMissingKey(t *testing.T) {
	clearEnvOverrides(t)

	tests := []struct {
		name    string
		content string
		wantKey string
	}{
		{
			"mysql without dsn",
			"jwt:\n  secret_key: s\nstore:\n  driver: mysql\n",
			"store.dsn",
		},
		{
			"local mode without api key",
			"jwt:\n  secret_key: s\ningest:\n  mode: local\n",
			"model.api_key",
		},
		{
			"remote mode without base",
			"jwt:\n  secret_key: s\ningest:\n  mode: remote\n",
			"ingest.remote_base",
		},
		{
			"mq enabled without name server",
			"jwt:\n  secret_key: s\nmq:\n  enabled: true\n",
			"mq.name_server",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Init(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

func TestInitRejectsInvalidSimRange(t *testing.T) {
	clearEnvOverrides(t)

	path := writeConfig(t, `
jwt:
  secret_key: s
ingest:
  sim_min_count: 30
  sim_max_count: 10
`)
	assert.Error(t, Init(path))
}

func TestEnvOverrides(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	path := writeConfig(t, `
server:
  port: "9000"
`)
	require.NoError(t, Init(path))
	assert.Equal(t, "env-secret", Cfg.JWT.SecretKey)
	assert.Equal(t, "sk-test", Cfg.Model.APIKey)
}
