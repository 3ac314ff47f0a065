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

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
mysql:
  host: 127.0.0.1
  user: gida
  password: gida
  database: gida_messaging
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 9091, cfg.Server.MetricsPort)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "utf8mb4", cfg.MySQL.Charset)
	assert.Equal(t, "gida:", cfg.Redis.KeyPrefix)
	assert.Equal(t, "user", cfg.Auth.DefaultRole)
	assert.Equal(t, 168, cfg.Auth.ExpireHours)
	assert.Equal(t, "support", cfg.Support.UserId)
	assert.Equal(t, int64(10000), cfg.WebSocket.MaxConnNum)
	assert.Equal(t, 30*time.Second, cfg.WebSocket.PongWait)
	assert.Equal(t, 256, cfg.WebSocket.EventChannelSize)
}

func TestLoad_ExplicitValuesWin(t *testing.T) {
	path := writeConfig(t, `
server:
  http_port: 9000
  mode: release
support:
  user_id: gida_support
websocket:
  max_conn_num: 500
  event_channel_size: 64
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "gida_support", cfg.Support.UserId)
	assert.Equal(t, int64(500), cfg.WebSocket.MaxConnNum)
	assert.Equal(t, 64, cfg.WebSocket.EventChannelSize)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestMySQLConfig_DSN(t *testing.T) {
	c := MySQLConfig{
		Host:     "db.internal",
		Port:     3307,
		User:     "gida",
		Password: "secret",
		Database: "gida_messaging",
		Charset:  "utf8mb4",
	}

	assert.Equal(t,
		"gida:secret@tcp(db.internal:3307)/gida_messaging?charset=utf8mb4&parseTime=True&loc=Local",
		c.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	c := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", c.Addr())
}
