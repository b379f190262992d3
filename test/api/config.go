/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBaseURL is the public objects API used when API_BASE_URL is unset.
const DefaultBaseURL = "https://api.restful-api.dev"

type TestConfig struct {
	BaseURL         string
	AuthToken       string
	APIKey          string
	RequestTimeout  time.Duration
	TestTimeout     time.Duration
	CleanupTimeout  time.Duration
	SkipIntegration bool
	DebugLogging    bool
	LogRequests     bool
	LogResponses    bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if any configuration value is invalid.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	var invalid []string

	config := &TestConfig{
		BaseURL:         getStringWithDefault("API_BASE_URL", DefaultBaseURL),
		AuthToken:       os.Getenv("API_AUTH_TOKEN"),
		APIKey:          os.Getenv("API_KEY"),
		RequestTimeout:  getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second, &invalid),
		TestTimeout:     getDurationWithDefault("TEST_TIMEOUT", 5*time.Minute, &invalid),
		CleanupTimeout:  getDurationWithDefault("CLEANUP_TIMEOUT", 30*time.Second, &invalid),
		SkipIntegration: getBoolWithDefault("SKIP_INTEGRATION", false, &invalid),
		DebugLogging:    getBoolWithDefault("DEBUG_LOGGING", false, &invalid),
		LogRequests:     getBoolWithDefault("LOG_REQUESTS", false, &invalid),
		LogResponses:    getBoolWithDefault("LOG_RESPONSES", false, &invalid),
	}

	if len(invalid) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(invalid, ", "))
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func getStringWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getDurationWithDefault gets a duration from environment variable or returns default.
// Unparseable values are recorded in invalid rather than silently ignored.
func getDurationWithDefault(key string, defaultValue time.Duration, invalid *[]string) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		*invalid = append(*invalid, fmt.Sprintf("%s=%q (expected a positive duration such as 30s)", key, value))
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool, invalid *[]string) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		*invalid = append(*invalid, fmt.Sprintf("%s=%q (expected a boolean)", key, value))
		return defaultValue
	}

	return boolValue
}

// envPaths are searched in order, the first one that exists wins.
//
//nolint:gochecknoglobals
var envPaths = []string{
	"../../.env", // From test/api/suites directory
	"../.env",    // From test/api directory
	".env",
}

func loadEnvFile() {
	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Existing environment variables take precedence over the file.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

func validateConfig(config *TestConfig) error {
	u, err := url.Parse(config.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid configuration: API_BASE_URL %q: %w", config.BaseURL, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid configuration: API_BASE_URL %q must be an absolute http(s) URL", config.BaseURL)
	}

	return nil
}
