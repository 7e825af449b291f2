package config

import (
	"fmt"
	"time"
)

// CrawlerConfig controls pagination, pacing and failure tolerance of every
// site adapter. Sites lists the enabled adapters by name.
type CrawlerConfig struct {
	Sites                 []string      `mapstructure:"sites"`
	MaxPages              int           `mapstructure:"max_pages"`
	RequestDelay          time.Duration `mapstructure:"request_delay"`
	RequestTimeout        time.Duration `mapstructure:"request_timeout"`
	MaxRetries            int           `mapstructure:"max_retries"`
	ParseFailureThreshold float64       `mapstructure:"parse_failure_threshold"`
	UserAgent             string        `mapstructure:"user_agent"`
	CronExpression        string        `mapstructure:"cron"`
}

func (config *CrawlerConfig) applyDefaults() {
	if config.MaxPages == 0 {
		config.MaxPages = 20
	}
	if config.RequestDelay == 0 {
		config.RequestDelay = 2 * time.Second
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.ParseFailureThreshold == 0 {
		config.ParseFailureThreshold = 0.3
	}
	if config.UserAgent == "" {
		config.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if config.CronExpression == "" {
		config.CronExpression = "0 * * * *"
	}
}

func (config CrawlerConfig) validate() error {

	if len(config.Sites) == 0 {
		return fmt.Errorf("missing variable: sites")
	}

	if config.MaxPages < 1 {
		return fmt.Errorf("max_pages must be positive")
	}

	if config.RequestDelay < 0 || config.RequestTimeout <= 0 {
		return fmt.Errorf("request_delay must be non-negative and request_timeout positive")
	}

	if config.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}

	if config.ParseFailureThreshold < 0 || config.ParseFailureThreshold > 1 {
		return fmt.Errorf("parse_failure_threshold must be between 0 and 1")
	}

	return nil
}
