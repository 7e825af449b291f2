package cli

import (
	"context"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print posting, profile and last-run counters",
	Run: func(cmd *cobra.Command, args []string) {

		cfg := setup()

		app, err := newApplication(cfg)
		if err != nil {
			log.Fatalf("can't initialize application: %v", err)
		}
		defer app.Close()

		report, err := app.stats.Collect(context.Background())
		if err != nil {
			log.Fatalf("failed to collect stats: %v", err)
		}

		fmt.Printf("open postings:    %v\n", report.OpenPostings)
		fmt.Printf("closed postings:  %v\n", report.ClosedPostings)
		fmt.Printf("active profiles:  %v\n", report.ActiveProfiles)

		if report.LastRun == nil {
			fmt.Println("last run:         never")
			return
		}

		fmt.Printf("last run:         %v\n", report.LastRun.LastRunAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Printf("matches emitted:  %v\n", report.LastRun.MatchesEmitted)

		sources := make([]string, 0, len(report.LastRun.Sources))
		for source := range report.LastRun.Sources {
			sources = append(sources, source)
		}
		sort.Strings(sources)

		for _, source := range sources {
			summary := report.LastRun.Sources[source]
			fmt.Printf("  %v: %v new, %v updated, %v reopened, %v closed\n",
				source, summary.New, summary.Updated, summary.Reopened, summary.Closed)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
