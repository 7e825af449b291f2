package config

import (
	"fmt"
	"math"
)

// MatcherConfig fixes the scoring weights and selection bounds. Weights are
// documented here rather than hardcoded so each term is independently
// testable.
type MatcherConfig struct {
	RoleWeight     float64 `mapstructure:"role_weight"`
	SkillWeight    float64 `mapstructure:"skill_weight"`
	LocationWeight float64 `mapstructure:"location_weight"`

	MinScore          float64 `mapstructure:"min_score"`
	TopN              int     `mapstructure:"top_n"`
	EntryYearsCeiling int     `mapstructure:"entry_years_ceiling"`
	RenotifyOnChange  bool    `mapstructure:"renotify_on_change"`

	// RoleCategories maps a role category name to the keywords that classify
	// a posting into it.
	RoleCategories map[string][]string `mapstructure:"role_categories"`
}

func (config *MatcherConfig) applyDefaults() {
	if config.RoleWeight == 0 && config.SkillWeight == 0 && config.LocationWeight == 0 {
		config.RoleWeight = 0.5
		config.SkillWeight = 0.35
		config.LocationWeight = 0.15
	}
	if config.MinScore == 0 {
		config.MinScore = 0.5
	}
	if config.TopN == 0 {
		config.TopN = 10
	}
	if config.EntryYearsCeiling == 0 {
		config.EntryYearsCeiling = 1
	}
}

func (config MatcherConfig) validate() error {

	sum := config.RoleWeight + config.SkillWeight + config.LocationWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1, got %v", sum)
	}

	if config.RoleWeight < 0 || config.SkillWeight < 0 || config.LocationWeight < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}

	if config.MinScore < 0 || config.MinScore > 1 {
		return fmt.Errorf("min_score must be between 0 and 1")
	}

	if config.TopN < 1 {
		return fmt.Errorf("top_n must be positive")
	}

	if config.EntryYearsCeiling < 0 {
		return fmt.Errorf("entry_years_ceiling must be non-negative")
	}

	return nil
}
