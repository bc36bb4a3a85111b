package cli

import (
	"learngenix_backend/internal/config"
	"learngenix_backend/pkg/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configDir)
			if err != nil {
				return err
			}

			db, err := database.InitDB(&cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close(db)

			return database.Migrate(db)
		},
	}
}
