package cli

import (
	"learngenix_backend/internal/app"
	"learngenix_backend/internal/config"

	"github.com/spf13/cobra"
)

func newServeCmd(configDir *string) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*configDir)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			application, err := app.NewApp(cfg)
			if err != nil {
				return err
			}
			return application.Run()
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "port to listen on (overrides config)")
	return cmd
}
