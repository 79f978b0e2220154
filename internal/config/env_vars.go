package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	appNameVar     = "APP_NAME"
	apiURLVar      = "GRANDLINE_API_URL"
	tokenFileVar   = "GRANDLINE_TOKEN_FILE"
	httpTimeoutVar = "GRANDLINE_HTTP_TIMEOUT"

	defaultAPIBaseURL  = "https://web-production-23e31.up.railway.app"
	defaultHTTPTimeout = 30 * time.Second
	tokenFileName      = "gl_token"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Grandline")
}

// GetAPIBaseURL returns the backend base URL. All endpoint paths are resolved
// relative to it.
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiURLVar, defaultAPIBaseURL)
}

// GetTokenPath returns where the session token is persisted between runs.
// Defaults to <user config dir>/grandline/gl_token, falling back to the
// working directory when no config dir can be resolved.
func (EnvVars) GetTokenPath() string {
	if path := os.Getenv(tokenFileVar); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", tokenFileName)
	}
	return filepath.Join(dir, "grandline", tokenFileName)
}

// GetHTTPTimeout returns the per-request deadline for backend calls.
func (EnvVars) GetHTTPTimeout() time.Duration {
	value := os.Getenv(httpTimeoutVar)
	if value == "" {
		return defaultHTTPTimeout
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultHTTPTimeout
	}
	return d
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
