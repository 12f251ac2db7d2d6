// Package config builds the runtime configuration from the process
// environment, so that no other component reads environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names the report requires.
const (
	EnvOrgName        = "ORG_NAME"
	EnvGitHubToken    = "GH_TOKEN"
	EnvSlackToken     = "SLACK_BOT_TOKEN"
	EnvSlackChannelID = "SLACK_CHANNEL_ID"
)

// Config holds every value a report run needs.
type Config struct {
	Org          string
	GitHubToken  string
	SlackToken   string
	SlackChannel string
}

// MissingEnvError reports a required environment variable that is not set.
type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("required environment variable %s is not set", e.Name)
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; it never overrides
// variables already set in the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	for _, field := range []struct {
		env    string
		target *string
	}{
		{EnvOrgName, &cfg.Org},
		{EnvGitHubToken, &cfg.GitHubToken},
		{EnvSlackToken, &cfg.SlackToken},
		{EnvSlackChannelID, &cfg.SlackChannel},
	} {
		value := os.Getenv(field.env)
		if value == "" {
			return nil, &MissingEnvError{Name: field.env}
		}
		*field.target = value
	}
	return cfg, nil
}
