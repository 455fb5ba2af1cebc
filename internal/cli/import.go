package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"wiki-quiz-service/internal/app"
	"wiki-quiz-service/internal/config"

	"github.com/spf13/cobra"
)

// NewImportCmd stores a generator document in the configured catalog.
func NewImportCmd(configPath *string, logger *slog.Logger) *cobra.Command {
	var sourceURL string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a generated quiz document (use - for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readDocument(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			catalog, persistent, closeCatalog, err := openCatalog(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeCatalog()
			if !persistent {
				return errors.New("no catalog configured: set postgres.url or sqlite.path")
			}

			item, err := app.NewImporter(catalog).Import(cmd.Context(), sourceURL, raw)
			if err != nil {
				return err
			}
			logger.Info("quiz imported", "quiz_id", item.ID, "title", item.Title)
			fmt.Fprintln(cmd.OutOrStdout(), item.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&sourceURL, "url", "", "source article URL")
	return cmd
}

func readDocument(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
