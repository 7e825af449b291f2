package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/GeonYul2/Recruitment-Auto/internal/metrics"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the crawl-match-export pipeline on the configured cron expression",
	Run: func(cmd *cobra.Command, args []string) {

		cfg := setup()

		app, err := newApplication(cfg)
		if err != nil {
			log.Fatalf("can't initialize application: %v", err)
		}
		defer app.Close()

		metrics.StartMetricsServer(cfg.Logger.MetricsAddress)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		scheduler := cron.New()
		_, err = scheduler.AddFunc(cfg.Crawler.CronExpression, func() {
			runPipeline(ctx, app)
		})
		if err != nil {
			log.Fatalf("invalid cron expression %q: %v", cfg.Crawler.CronExpression, err)
		}

		scheduler.Start()
		log.Infof("pipeline scheduled with cron expression %q", cfg.Crawler.CronExpression)

		runPipeline(ctx, app)

		<-ctx.Done()
		log.Info("shutting down scheduler...")
		<-scheduler.Stop().Done()
		log.Info("scheduler stopped")
	},
}

func runPipeline(ctx context.Context, app *application) {

	summaries, err := app.crawl.Run(ctx)
	if err != nil {
		log.Errorf("crawl failed: %v", err)
		return
	}

	emitted, err := app.match.Run(ctx)
	if err != nil {
		log.Errorf("matching failed: %v", err)
		return
	}

	if err = app.notifier.Flush(ctx); err != nil {
		log.Errorf("notification delivery failed: %v", err)
	}

	if err = app.saveRunSummary(ctx, summaries, emitted); err != nil {
		log.Errorf("failed to save run summary: %v", err)
	}

	if _, err = app.exporter.Export(ctx, time.Now().UTC()); err != nil {
		log.Errorf("export failed: %v", err)
	}
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}
