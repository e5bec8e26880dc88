package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, BackendMongo, cfg.Storage.Backend)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 2, cfg.Polling.MessageIntervalSeconds)
	assert.Equal(t, 6, cfg.Polling.ConversationIntervalSeconds)
	assert.Equal(t, ".goconvo/master.key", cfg.Crypto.KeyFile)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CHAT_BACKEND", BackendMySQL)
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("MYSQL_PORT", "3307")
	t.Setenv("MYSQL_USER", "convo")
	t.Setenv("MYSQL_PASSWORD", "secret")
	t.Setenv("MYSQL_DATABASE", "convo_db")
	t.Setenv("POLL_MESSAGE_INTERVAL", "1")

	cfg := Load()

	assert.Equal(t, BackendMySQL, cfg.Storage.Backend)
	assert.Equal(t, 1, cfg.Polling.MessageIntervalSeconds)
	assert.Equal(t, "convo:secret@tcp(db.internal:3307)/convo_db?charset=utf8mb4&parseTime=True&loc=Local", cfg.MySQLDSN())
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("POLL_MESSAGE_INTERVAL", "soon")

	cfg := Load()
	assert.Equal(t, 2, cfg.Polling.MessageIntervalSeconds)
}
