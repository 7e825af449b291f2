package config

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger"`
	DB      DBConfig      `mapstructure:"db"`
	Crawler CrawlerConfig `mapstructure:"crawler"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Matcher MatcherConfig `mapstructure:"matcher"`
	GitHub  GitHubConfig  `mapstructure:"github"`
	Export  ExportConfig  `mapstructure:"export"`
}

var configFile = "./configs/config.yaml"

func Get() *Config {

	if value, _ := os.LookupEnv("CONFIG_PATH"); value != "" {
		configFile = value
	}

	config, err := Load(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

// Load reads the YAML file, applies environment overrides and validates every
// section. An invalid configuration is fatal before any fetch happens.
func Load(file string) (*Config, error) {

	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	if err := bindEnvironmentVariables(); err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (config *Config) applyDefaults() {
	config.DB.applyDefaults()
	config.Crawler.applyDefaults()
	config.Filter.applyDefaults()
	config.Matcher.applyDefaults()
	config.GitHub.applyDefaults()
	config.Export.applyDefaults()
}

func bindEnvironmentVariables() error {
	var errs []error

	db, logger, github := DBConfig{}, LoggerConfig{}, GitHubConfig{}

	if err := db.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := logger.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := github.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("GitHubConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.Crawler.validate(); err != nil {
		errs = append(errs, fmt.Errorf("CrawlerConfig: %w", err))
	}

	if err := config.Filter.validate(); err != nil {
		errs = append(errs, fmt.Errorf("FilterConfig: %w", err))
	}

	if err := config.Matcher.validate(); err != nil {
		errs = append(errs, fmt.Errorf("MatcherConfig: %w", err))
	}

	if err := config.GitHub.validate(); err != nil {
		errs = append(errs, fmt.Errorf("GitHubConfig: %w", err))
	}

	if err := config.Export.validate(); err != nil {
		errs = append(errs, fmt.Errorf("ExportConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}
