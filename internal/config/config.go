package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/treestream-io/treestream/internal/errors"
)

type Config struct {
	Port               string
	GitHubToken        string
	GitHubAPIURL       string
	LogLevel           string
	CORSAllowedOrigins []string
	RequestsPerSecond  float64
}

func Load() (*Config, error) {
	port := getEnv("PORT", "8080")
	githubToken := getEnv("GITHUB_TOKEN", "")
	githubAPIURL := getEnv("GITHUB_API_URL", "https://api.github.com")
	logLevel := getEnv("LOG_LEVEL", "info")
	origins := strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ",")

	rps, err := strconv.ParseFloat(getEnv("GITHUB_REQUESTS_PER_SECOND", "10"), 64)
	if err != nil {
		return nil, errors.NewConfigurationError("invalid GITHUB_REQUESTS_PER_SECOND", err)
	}

	return &Config{
		Port:               port,
		GitHubToken:        githubToken,
		GitHubAPIURL:       githubAPIURL,
		LogLevel:           logLevel,
		CORSAllowedOrigins: origins,
		RequestsPerSecond:  rps,
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
