package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0, cfg.Pipeline.Capacity)
	assert.Equal(t, 2*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, ":8080", cfg.GRPC.Addr)
	assert.NotEqual(t, cfg.Portfolio.Source, cfg.Portfolio.Sink, "final state must not overwrite the initial collection")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Default().Portfolio, cfg.Portfolio)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "priorityflow.yaml")
	content := `
portfolio:
  source: memory
  sink: file:/tmp/out.json.gz
pipeline:
  capacity: 8
  pace: 250ms
monitor:
  interval: 5s
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Portfolio.Source)
	assert.Equal(t, "file:/tmp/out.json.gz", cfg.Portfolio.Sink)
	assert.Equal(t, 8, cfg.Pipeline.Capacity)
	assert.Equal(t, 250*time.Millisecond, cfg.Pipeline.Pace)
	assert.Equal(t, 5*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched sections keep their defaults
	assert.Equal(t, Default().Events.Source, cfg.Events.Source)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline: [oops"), 0o644))

	_, err := Load(path)

	assert.ErrorContains(t, err, "failed to load config file")
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		assert func(t *testing.T, cfg Config)
	}{
		{
			name: "Prefixed Overrides",
			env: map[string]string{
				"PRIORITYFLOW_PORTFOLIO_SOURCE":  "postgres",
				"PRIORITYFLOW_EVENTS_SOURCE":     "json:/data/events.json",
				"PRIORITYFLOW_PIPELINE_CAPACITY": "16",
				"PRIORITYFLOW_PIPELINE_PACE":     "0s",
				"PRIORITYFLOW_GRPC_ADDR":         ":9000",
			},
			assert: func(t *testing.T, cfg Config) {
				assert.Equal(t, "postgres", cfg.Portfolio.Source)
				assert.Equal(t, "json:/data/events.json", cfg.Events.Source)
				assert.Equal(t, 16, cfg.Pipeline.Capacity)
				assert.Equal(t, time.Duration(0), cfg.Pipeline.Pace)
				assert.Equal(t, ":9000", cfg.GRPC.Addr)
			},
		},
		{
			name: "Metrics Can Be Disabled",
			env:  map[string]string{"PRIORITYFLOW_METRICS_ADDR": "off"},
			assert: func(t *testing.T, cfg Config) {
				assert.Empty(t, cfg.Metrics.Addr)
			},
		},
		{
			name: "Explicit DB_CONN_STR",
			env:  map[string]string{"DB_CONN_STR": "postgres://u:p@db/x"},
			assert: func(t *testing.T, cfg Config) {
				assert.Equal(t, "postgres://u:p@db/x", cfg.Database.ConnStr)
			},
		},
		{
			name: "DSN From DB Variables",
			env:  map[string]string{"DB_HOST": "db", "DB_NAME": "assets"},
			assert: func(t *testing.T, cfg Config) {
				assert.Equal(t, "host=db port=5432 user=postgres password=postgres dbname=assets sslmode=disable", cfg.Database.ConnStr)
			},
		},
		{
			name: "Prefixed DSN Wins",
			env: map[string]string{
				"PRIORITYFLOW_DATABASE_CONN_STR": "postgres://primary",
				"DB_CONN_STR":                    "postgres://fallback",
			},
			assert: func(t *testing.T, cfg Config) {
				assert.Equal(t, "postgres://primary", cfg.Database.ConnStr)
			},
		},
		{
			name: "No Database Variables",
			env:  map[string]string{},
			assert: func(t *testing.T, cfg Config) {
				assert.Empty(t, cfg.Database.ConnStr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, applyEnv(&cfg, envMap(tt.env)))
			tt.assert(t, cfg)
		})
	}
}

func TestApplyEnv_MalformedValuesAreReported(t *testing.T) {
	cfg := Default()
	err := applyEnv(&cfg, envMap(map[string]string{
		"PRIORITYFLOW_PIPELINE_CAPACITY": "lots",
		"PRIORITYFLOW_PIPELINE_PACE":     "fast",
		"PRIORITYFLOW_MONITOR_INTERVAL":  "soon",
		"PRIORITYFLOW_GRPC_ADDR":         ":9000",
	}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `PRIORITYFLOW_PIPELINE_CAPACITY="lots"`)
	assert.Contains(t, err.Error(), `PRIORITYFLOW_PIPELINE_PACE="fast"`)
	assert.Contains(t, err.Error(), `PRIORITYFLOW_MONITOR_INTERVAL="soon"`)
	// malformed values keep the previous setting, valid ones still apply
	assert.Equal(t, Default().Pipeline.Capacity, cfg.Pipeline.Capacity)
	assert.Equal(t, Default().Monitor.Interval, cfg.Monitor.Interval)
	assert.Equal(t, ":9000", cfg.GRPC.Addr)
}

func TestLoad_MalformedEnvFails(t *testing.T) {
	t.Setenv("PRIORITYFLOW_PIPELINE_CAPACITY", "lots")

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.ErrorContains(t, err, "invalid environment")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectedErr string
	}{
		{
			name:        "Negative Capacity",
			mutate:      func(c *Config) { c.Pipeline.Capacity = -1 },
			expectedErr: "pipeline.capacity must be >= 0",
		},
		{
			name:        "Negative Pace",
			mutate:      func(c *Config) { c.Pipeline.Pace = -time.Second },
			expectedErr: "pipeline.pace must be >= 0",
		},
		{
			name:        "Zero Monitor Interval",
			mutate:      func(c *Config) { c.Monitor.Interval = 0 },
			expectedErr: "monitor.interval must be > 0",
		},
		{
			name:        "Empty gRPC Address",
			mutate:      func(c *Config) { c.GRPC.Addr = "" },
			expectedErr: "grpc.addr cannot be empty",
		},
		{
			name:        "Unknown Log Level",
			mutate:      func(c *Config) { c.Log.Level = "loud" },
			expectedErr: "invalid log.level",
		},
		{
			name:        "Unknown Log Format",
			mutate:      func(c *Config) { c.Log.Format = "xml" },
			expectedErr: "log.format must be text or json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.expectedErr)
		})
	}
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "asset_id", "A")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"asset_id":"A"`)
}
