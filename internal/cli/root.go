package cli

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env", "error", err)
	}

	err := newRootCmd(logger).Execute()
	if err != nil {
		logger.Error("command failed", "error", err)
	}
	return err
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:           "quiz-service",
		Short:         "Quiz presentation service for generated Wikipedia quizzes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&port, "port", "", "port to listen on (default from config, PORT or 8080)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewStartCmd(&configPath, &port, logger))
	cmd.AddCommand(NewMigrateCmd(&configPath, logger))
	cmd.AddCommand(NewImportCmd(&configPath, logger))
	cmd.AddCommand(NewHistoryCmd(&configPath, logger))
	return cmd
}
