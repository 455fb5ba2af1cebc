package cli

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"wiki-quiz-service/internal/config"
	"wiki-quiz-service/internal/domain"

	"github.com/spf13/cobra"
)

// NewHistoryCmd lists generated quizzes, newest first.
func NewHistoryCmd(configPath *string, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List previously generated quizzes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			catalog, _, closeCatalog, err := openCatalog(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeCatalog()

			items, err := catalog.ListHistory(cmd.Context())
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), items)
		},
	}
}

func printHistory(out io.Writer, items []domain.HistoryItem) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tGENERATED\tURL")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", item.ID, item.Title, item.GeneratedAt.Format(time.DateTime), item.URL)
	}
	return w.Flush()
}
