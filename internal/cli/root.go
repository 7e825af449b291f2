package cli

import (
	"os"

	"github.com/GeonYul2/Recruitment-Auto/internal/config"
	"github.com/GeonYul2/Recruitment-Auto/internal/logger"
	"github.com/spf13/cobra"
)

const app = "recruitment-auto"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   app,
	Short: "recruitment-auto collects entry-level job postings and matches them to candidate profiles",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			_ = os.Setenv("CONFIG_PATH", cfgFile)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./configs/config.yaml)")
}

// setup loads configuration and initializes logging; every subcommand starts
// here. An invalid configuration is fatal inside config.Get.
func setup() *config.Config {
	cfg := config.Get()
	logger.Setup(cfg.Logger)
	return cfg
}
