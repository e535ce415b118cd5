package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HANDYCMD_FILE", "HANDYCMD_ROOT", "HANDYCMD_DEBOUNCE", "HANDYCMD_BACKEND",
		"HANDYCMD_LOG_LEVEL", "HANDYCMD_HISTORY", "HANDYCMD_CONFIG",
		"REDISCLI_AUTH", "REDIS_FS_VOLUME", "NO_COLOR",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	cfg := DefaultConfig()

	assert.Equal(t, "commands.txt", cfg.File)
	assert.Equal(t, 300*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Equal(t, "main", cfg.Volume)
	assert.Equal(t, "/xdg/handycmd/config.yaml", cfg.ConfigFile)
	assert.NoError(t, cfg.Validate())
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
file: from-file.txt
debounce: 1s
concurrency: 2
volume: filevol
log_level: debug
`)
	t.Setenv("HANDYCMD_DEBOUNCE", "50ms")
	t.Setenv("REDIS_FS_VOLUME", "envvol")

	cfg := DefaultConfig()
	flags := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--config", path, "--volume", "flagvol"}))

	require.NoError(t, cfg.Load(flags))

	assert.Equal(t, "from-file.txt", cfg.File, "file beats default")
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 50*time.Millisecond, cfg.Debounce, "env beats file")
	assert.Equal(t, "flagvol", cfg.Volume, "flag beats env")
}

func TestLoadMissingDefaultFileIsIgnored(t *testing.T) {
	clearEnv(t)
	cfg := DefaultConfig()
	cfg.ConfigFile = filepath.Join(t.TempDir(), "nope.yaml")

	assert.NoError(t, cfg.Load(nil))
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	clearEnv(t)
	cfg := DefaultConfig()
	flags := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}))

	assert.Error(t, cfg.Load(flags))
}

func TestLoadRejectsBadYAML(t *testing.T) {
	clearEnv(t)
	cfg := DefaultConfig()
	cfg.ConfigFile = writeConfig(t, "concurrency: [oops")

	assert.Error(t, cfg.Load(nil))
}

func TestLoadRejectsBadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HANDYCMD_DEBOUNCE", "soon")
	cfg := DefaultConfig()
	cfg.ConfigFile = ""

	err := cfg.Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HANDYCMD_DEBOUNCE")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"redis backend", func(c *Config) { c.Backend = BackendRedis }, false},
		{"unknown backend", func(c *Config) { c.Backend = "s3" }, true},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, true},
		{"negative debounce", func(c *Config) { c.Debounce = -time.Second }, true},
		{"zero debounce", func(c *Config) { c.Debounce = 0 }, false},
		{"empty file", func(c *Config) { c.File = "  " }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestRedisOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "redis.local"
	cfg.Port = 6380
	cfg.DB = 3

	opts := cfg.RedisOptions()
	assert.Equal(t, "redis.local:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Nil(t, opts.TLSConfig)

	cfg.Socket = "/tmp/redis.sock"
	opts = cfg.RedisOptions()
	assert.Equal(t, "unix", opts.Network)
	assert.Equal(t, "/tmp/redis.sock", opts.Addr)

	cfg.URI = "redis://:secret@example.com:7000/1"
	cfg.DB = 0
	opts = cfg.RedisOptions()
	assert.Equal(t, "example.com:7000", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 1, opts.DB)
	assert.Equal(t, cfg.URI, cfg.Addr())
}

func TestShouldColor(t *testing.T) {
	clearEnv(t)

	cfg := DefaultConfig()
	cfg.Color = true
	assert.True(t, cfg.ShouldColor())

	cfg.NoColor = true
	assert.False(t, cfg.ShouldColor(), "no-color wins")

	cfg = DefaultConfig()
	cfg.Color = true
	cfg.JSON = true
	assert.False(t, cfg.ShouldColor(), "json output is never colored")

	t.Setenv("NO_COLOR", "1")
	cfg = DefaultConfig()
	assert.False(t, cfg.ShouldColor())
}
