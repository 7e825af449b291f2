package cli

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List registered candidate profiles",
	Run: func(cmd *cobra.Command, args []string) {

		cfg := setup()

		app, err := newApplication(cfg)
		if err != nil {
			log.Fatalf("can't initialize application: %v", err)
		}
		defer app.Close()

		profiles, err := app.profileSource.GetActive(context.Background())
		if err != nil {
			log.Fatalf("failed to load profiles: %v", err)
		}

		if len(profiles) == 0 {
			fmt.Println("no registered profiles")
			return
		}

		for _, profile := range profiles {
			fmt.Printf("#%v %v\n", profile.IssueNumber, profile.Identity)
			fmt.Printf("  roles:     %v\n", strings.Join(profile.DesiredRoles, ", "))
			fmt.Printf("  years:     %v\n", profile.YearsExperience)
			fmt.Printf("  skills:    %v\n", strings.Join(profile.Skills, ", "))
			fmt.Printf("  locations: %v\n", strings.Join(profile.DesiredLocations, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
