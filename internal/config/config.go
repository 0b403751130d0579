package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds everything a pipeline run needs. It is loaded once at
// startup and passed down explicitly; nothing here is process-global.
type Config struct {
	RepoOwner   string
	RepoName    string
	GitHubToken string
	APIBaseURL  string
	Months      int
	DBPath      string
	OutputDir   string
	RunAnalysis bool
	ServeAddr   string
}

// Load reads configuration from environment variables. GITHUB_REPO is
// required and must be in "owner/name" form; everything else has a default.
func Load() (*Config, error) {
	repo := os.Getenv("GITHUB_REPO")
	if repo == "" {
		return nil, fmt.Errorf("GITHUB_REPO environment variable is required")
	}

	owner, name, err := ParseRepo(repo)
	if err != nil {
		return nil, err
	}

	months, err := strconv.Atoi(getEnv("MONTHS", "6"))
	if err != nil || months <= 0 {
		return nil, fmt.Errorf("MONTHS must be a positive integer")
	}

	return &Config{
		RepoOwner:   owner,
		RepoName:    name,
		GitHubToken: os.Getenv("GITHUB_TOKEN"),
		APIBaseURL:  getEnv("GITHUB_API_URL", "https://api.github.com"),
		Months:      months,
		DBPath:      getEnv("DB_PATH", "github_commits.db"),
		OutputDir:   getEnv("OUTPUT_DIR", "output"),
		RunAnalysis: parseBool(getEnv("RUN_ANALYSIS", "true")),
		ServeAddr:   getEnv("SERVE_ADDR", ":8080"),
	}, nil
}

// ParseRepo splits an "owner/name" repository identifier.
func ParseRepo(repo string) (owner, name string, err error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository must be in the format 'owner/name', got %q", repo)
	}
	return parts[0], parts[1], nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "yes", "1":
		return true
	}
	return false
}
