package cli

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the open posting snapshot to the configured JSON file",
	Run: func(cmd *cobra.Command, args []string) {

		cfg := setup()

		app, err := newApplication(cfg)
		if err != nil {
			log.Fatalf("can't initialize application: %v", err)
		}
		defer app.Close()

		if _, err = app.exporter.Export(context.Background(), time.Now().UTC()); err != nil {
			log.Fatalf("export failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
