package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configDir string

// Execute 运行命令行入口
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_DIR")
	if envConfig == "" {
		envConfig = "configs"
	}

	cmd := &cobra.Command{
		Use:           "learngenix",
		Short:         "LearnGenix backend API",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&configDir, "config", envConfig, "directory containing config.yaml")
	cmd.AddCommand(newServeCmd(&configDir))
	cmd.AddCommand(newMigrateCmd(&configDir))
	cmd.AddCommand(newSeedCmd(&configDir))
	return cmd
}
