package config

import (
	"os"
	"strings"
	"time"
)

// ServiceConfig holds configuration for a backend service.
type ServiceConfig struct {
	Name        string
	Instances   []string
	Timeout     time.Duration
	HealthCheck string
}

// BaseURL returns the first instance, used for health reporting.
func (s ServiceConfig) BaseURL() string {
	if len(s.Instances) == 0 {
		return ""
	}
	return s.Instances[0]
}

// GatewayConfig holds the main gateway configuration.
type GatewayConfig struct {
	Port     string
	Services map[string]ServiceConfig
}

// LoadConfig loads the gateway configuration from the environment.
// BACKOFFICE_SERVICE_URLS accepts a comma-separated list of replicas.
func LoadConfig() *GatewayConfig {
	return &GatewayConfig{
		Port: getEnv("GATEWAY_PORT", "8000"),
		Services: map[string]ServiceConfig{
			"backoffice": {
				Name:        "backoffice-service",
				Instances:   splitURLs(getEnv("BACKOFFICE_SERVICE_URLS", "http://localhost:8080")),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
		},
	}
}

func splitURLs(raw string) []string {
	var urls []string
	for _, u := range strings.Split(raw, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, strings.TrimSuffix(u, "/"))
		}
	}
	return urls
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
