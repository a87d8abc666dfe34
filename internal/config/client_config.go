package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ClientConfig holds the settings the tracker client needs: where the remote
// endpoint lives, where the session file is kept, and the request budget.
type ClientConfig interface {
	GetBaseEndpoint() string
	GetSessionFile() string
	GetRequestTimeout() time.Duration
}

const defaultRequestTimeout = 20 * time.Second

type Client struct{}

var _ ClientConfig = Client{}

// GetBaseEndpoint returns the remote API endpoint URL. An empty value is a
// configuration error surfaced by the transport on first request, not here.
func (Client) GetBaseEndpoint() string {
	return GetEnv("API_BASE_URL", "")
}

func (Client) GetSessionFile() string {
	if file := os.Getenv("SESSION_FILE"); file != "" {
		return file
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".minda-session.json"
	}
	return filepath.Join(home, ".config", "minda", "session.json")
}

func (Client) GetRequestTimeout() time.Duration {
	raw := GetEnv("REQUEST_TIMEOUT_MS", "")
	if raw == "" {
		return defaultRequestTimeout
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(ms) * time.Millisecond
}
