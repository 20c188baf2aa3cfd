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
	configPath := filepath.Join(t.TempDir(), "spsbridge.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `version: "1.0"
instance: rover-1
redis_url: redis://redis:6380/2
dispatcher:
  cycle_interval: 250ms
  retain_cycles: 3
output:
  yaw_format: int
health:
  addr: ":9090"
`)

	config, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "rover-1", config.Instance)
	assert.Equal(t, "redis://redis:6380/2", config.RedisURL)
	assert.Equal(t, 250*time.Millisecond, config.Dispatcher.CycleInterval)
	assert.Equal(t, 3, *config.Dispatcher.RetainCycles)
	assert.False(t, config.FloatYaw())
	assert.Equal(t, ":9090", config.Health.Addr)

	opts, err := config.RedisOptions()
	require.NoError(t, err)
	assert.Equal(t, "redis:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	config, err := Load(writeConfig(t, `version: "1.0"`))
	require.NoError(t, err)

	assert.Equal(t, DefaultInstance, config.Instance)
	assert.Equal(t, DefaultRedisURL, config.RedisURL)
	assert.Equal(t, DefaultCycleInterval, config.Dispatcher.CycleInterval)
	assert.Equal(t, DefaultRetainCycles, *config.Dispatcher.RetainCycles)
	assert.Equal(t, DefaultYawFormat, config.Output.YawFormat)
	assert.True(t, config.FloatYaw())
	assert.Equal(t, DefaultHealthAddr, config.Health.Addr)
}

func TestLoad_ZeroRetainCyclesIsKept(t *testing.T) {
	config, err := Load(writeConfig(t, `version: "1.0"
dispatcher:
  retain_cycles: 0
`))
	require.NoError(t, err)
	assert.Equal(t, 0, *config.Dispatcher.RetainCycles)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	config, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "1.0", config.Version)
	assert.Equal(t, DefaultInstance, config.Instance)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SPS_INSTANCE", "from-env")
	t.Setenv("REDIS_URL", "redis://envhost:6379")
	t.Setenv("SPS_YAW_FORMAT", "int")
	t.Setenv("SPS_HEALTH_ADDR", "127.0.0.1:8181")

	config, err := Load(writeConfig(t, `version: "1.0"
instance: from-file
output:
  yaw_format: float
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", config.Instance)
	assert.Equal(t, "redis://envhost:6379", config.RedisURL)
	assert.Equal(t, "int", config.Output.YawFormat)
	assert.Equal(t, "127.0.0.1:8181", config.Health.Addr)
}

func TestLoad_FileNotFound(t *testing.T) {
	config, err := Load("/nonexistent/spsbridge.yml")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	config, err := Load(writeConfig(t, `version: "1.0"
dispatcher:
  - this is invalid
    yaml syntax
`))
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidate_Rejections(t *testing.T) {
	negative := -1

	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:    "unsupported version",
			config:  Config{Version: "2.0"},
			wantErr: "unsupported version",
		},
		{
			name:    "instance with key separator",
			config:  Config{Version: "1.0", Instance: "rover:1"},
			wantErr: "invalid instance name",
		},
		{
			name:    "bad redis url",
			config:  Config{Version: "1.0", RedisURL: "http://localhost"},
			wantErr: "invalid redis_url",
		},
		{
			name:    "negative cycle interval",
			config:  Config{Version: "1.0", Dispatcher: DispatcherConfig{CycleInterval: -time.Second}},
			wantErr: "cycle_interval must be positive",
		},
		{
			name:    "negative retain cycles",
			config:  Config{Version: "1.0", Dispatcher: DispatcherConfig{RetainCycles: &negative}},
			wantErr: "retain_cycles must be >= 0",
		},
		{
			name:    "unknown yaw format",
			config:  Config{Version: "1.0", Output: OutputConfig{YawFormat: "degrees"}},
			wantErr: "invalid output.yaw_format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
