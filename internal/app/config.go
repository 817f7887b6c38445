package app

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

type Config struct {
	Env      string
	HTTPAddr string

	CORSAllow []string
	WSOrigins []string // origin patterns accepted on /ws

	SendBuffer   int           // outbound frames buffered per connection
	PingInterval time.Duration // websocket keepalive period
}

func LoadConfig() Config {
	cfg := Config{
		Env:      getEnv("APP_ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}
	cfg.CORSAllow = splitCSV(getEnv("CORS_ALLOW", "http://localhost:3000"))
	cfg.WSOrigins = splitCSV(getEnv("WS_ORIGINS", "*"))
	cfg.SendBuffer = getEnvInt("WS_SEND_BUFFER", 256)
	cfg.PingInterval = time.Duration(getEnvInt("WS_PING_SECONDS", 20)) * time.Second
	log.Printf("config: %+v\n", cfg)
	return cfg
}

// getEnv returns the env var or a default
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getEnvInt parses an int env var with a fallback
func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		var i int
		_, _ = fmt.Sscanf(v, "%d", &i)
		if i > 0 {
			return i
		}
	}
	return def
}

// splitCSV trims and filters a comma-separated list
func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
