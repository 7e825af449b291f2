package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// GitHubConfig points at the repository whose issues carry profile
// submissions and receive match comments.
type GitHubConfig struct {
	Repo            string        `mapstructure:"repo"`
	Token           string        `mapstructure:"token"`
	ProfileLabel    string        `mapstructure:"profile_label"`
	ProfileCacheTTL time.Duration `mapstructure:"profile_cache_ttl"`
}

func (config *GitHubConfig) applyDefaults() {
	if config.ProfileLabel == "" {
		config.ProfileLabel = "profile"
	}
	if config.ProfileCacheTTL == 0 {
		config.ProfileCacheTTL = 10 * time.Minute
	}
}

func (config GitHubConfig) validate() error {

	if config.Repo == "" {
		return fmt.Errorf("missing variable: github repo")
	}

	if strings.Count(config.Repo, "/") != 1 {
		return fmt.Errorf("github repo must be in owner/name form: %v", config.Repo)
	}

	return nil
}

func (config GitHubConfig) bindEnvironmentVariables() error {

	if err := viper.BindEnv("github.token", "GITHUB_TOKEN"); err != nil {
		return err
	}

	return viper.BindEnv("github.repo", "GITHUB_REPO")
}
