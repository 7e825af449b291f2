package config

import "fmt"

// FilterConfig carries the keyword vocabularies driving normalization. The
// lists are loaded once per run and threaded into the normalizer, never
// mutated afterwards.
type FilterConfig struct {
	// JobKeywords is an OR-condition over title and description; a posting
	// matching none of them is rejected. Empty list disables the check.
	JobKeywords []string `mapstructure:"job_keywords"`
	// ExcludeKeywords reject a posting when found in the title.
	ExcludeKeywords []string `mapstructure:"exclude_keywords"`

	EntryKeywords        []string `mapstructure:"entry_keywords"`
	NoExperienceKeywords []string `mapstructure:"no_experience_keywords"`
	InternshipKeywords   []string `mapstructure:"internship_keywords"`
}

func (config *FilterConfig) applyDefaults() {
	if len(config.EntryKeywords) == 0 {
		config.EntryKeywords = []string{"신입", "entry", "junior", "주니어", "신입/경력", "경력/신입"}
	}
	if len(config.NoExperienceKeywords) == 0 {
		config.NoExperienceKeywords = []string{"경력무관", "경력 무관", "무관"}
	}
	if len(config.InternshipKeywords) == 0 {
		config.InternshipKeywords = []string{"인턴", "intern", "internship"}
	}
}

func (config FilterConfig) validate() error {

	for _, list := range [][]string{config.EntryKeywords, config.NoExperienceKeywords, config.InternshipKeywords} {
		for _, keyword := range list {
			if keyword == "" {
				return fmt.Errorf("experience keyword lists must not contain empty strings")
			}
		}
	}

	return nil
}
