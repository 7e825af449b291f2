package cli

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl the configured job sites once and reconcile the posting store",
	Run: func(cmd *cobra.Command, args []string) {

		cfg := setup()

		app, err := newApplication(cfg)
		if err != nil {
			log.Fatalf("can't initialize application: %v", err)
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if _, err = app.runCrawl(ctx); err != nil {
			log.Fatalf("crawl failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(crawlCmd)
}
