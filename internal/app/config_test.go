package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"*"}, cfg.WSOrigins)
	assert.Equal(t, 256, cfg.SendBuffer)
	assert.Equal(t, 20*time.Second, cfg.PingInterval)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("CORS_ALLOW", "https://a.example, https://b.example ,")
	t.Setenv("WS_SEND_BUFFER", "32")
	t.Setenv("WS_PING_SECONDS", "5")

	cfg := LoadConfig()

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllow)
	assert.Equal(t, 32, cfg.SendBuffer)
	assert.Equal(t, 5*time.Second, cfg.PingInterval)
}

func TestLoadConfigIgnoresBadInt(t *testing.T) {
	t.Setenv("WS_SEND_BUFFER", "lots")
	cfg := LoadConfig()
	assert.Equal(t, 256, cfg.SendBuffer)
}
