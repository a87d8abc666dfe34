package config

import "time"

// ServerConfig holds the settings for the reference backend.
type ServerConfig interface {
	GetTokenSecret() string
	GetTokenTTL() time.Duration
	GetSeedFile() string
	GetBootstrapAdminPassword() string
}

type Server struct{}

var _ ServerConfig = Server{}

func (Server) GetTokenSecret() string {
	return GetEnv("TOKEN_SECRET", "dev-secret-change-me")
}

func (Server) GetTokenTTL() time.Duration {
	return 24 * time.Hour
}

func (Server) GetSeedFile() string {
	return GetEnv("SEED_FILE", "")
}

// GetBootstrapAdminPassword is the password assigned to the bootstrap admin
// account when no seed file provides one.
func (Server) GetBootstrapAdminPassword() string {
	return GetEnv("BOOTSTRAP_ADMIN_PASSWORD", "admin123")
}
