package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DBConfig points at the sqlite database file. The directory is created by
// the repositories layer on first open.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

func (config *DBConfig) applyDefaults() {
	if config.Path == "" {
		config.Path = "./data/recruitment.db"
	}
}

func (config DBConfig) validate() error {
	if strings.TrimSpace(config.Path) == "" {
		return fmt.Errorf("missing variable: db path")
	}
	return nil
}

func (config DBConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("db.path", "DB_PATH")
}
