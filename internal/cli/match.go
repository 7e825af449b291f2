package cli

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match active profiles against open postings and deliver notifications",
	Run: func(cmd *cobra.Command, args []string) {

		cfg := setup()

		app, err := newApplication(cfg)
		if err != nil {
			log.Fatalf("can't initialize application: %v", err)
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if _, err = app.runMatch(ctx); err != nil {
			log.Fatalf("matching failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
