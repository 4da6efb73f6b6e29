// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, Load returns an error and the
// process exits. A .env file in the working directory is read first when
// present (local development convenience).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the job posting service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	// Downstream platform services.
	KernelURL       string
	EmailServiceURL string

	// External job boards, "name=url" pairs. Empty disables syndication.
	JobBoards map[string]string

	// Expiry sweep interval in hours. Zero disables the sweep.
	SweepIntervalHours int
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments inject env directly.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("JOBS_PORT")
	if port == "" {
		port = "8083"
	}

	kernelURL := os.Getenv("KERNEL_URL")
	if kernelURL == "" {
		kernelURL = "http://kernel-component:8080"
	}

	emailURL := os.Getenv("EMAIL_SERVICE_URL")
	if emailURL == "" {
		emailURL = "http://business-email-service:8096"
	}

	sweepHours := 1
	if v := os.Getenv("SWEEP_INTERVAL_HOURS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("SWEEP_INTERVAL_HOURS must be a non-negative integer, got %q", v)
		}
		sweepHours = n
	}

	boards, err := parseBoards(os.Getenv("JOB_BOARDS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               port,
		DatabaseURL:        dbURL,
		RedisURL:           redisURL,
		KernelURL:          kernelURL,
		EmailServiceURL:    emailURL,
		JobBoards:          boards,
		SweepIntervalHours: sweepHours,
	}, nil
}

// parseBoards parses "linkedin=https://...,indeed=https://..." into a map.
func parseBoards(raw string) (map[string]string, error) {
	boards := make(map[string]string)
	if raw == "" {
		return boards, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		name, url, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" || url == "" {
			return nil, fmt.Errorf("JOB_BOARDS entry %q must be name=url", pair)
		}
		boards[name] = url
	}
	return boards, nil
}
