package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

const historyReplyPreview = 60

func newHistoryCmd(app *app) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent chat and recommendation exchanges",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}

			store, err := app.openHistory()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			exchanges, err := store.Latest(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(exchanges)
			}

			if len(exchanges) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No exchanges recorded yet.")
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWHEN\tBACKEND\tACTION\tINPUT\tREPLY")
			for _, exchange := range exchanges {
				action := string(exchange.Action)
				if exchange.Category != "" {
					action += "/" + string(exchange.Category)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					exchange.ID,
					exchange.CreatedAt.Local().Format(time.DateTime),
					exchange.Backend,
					action,
					preview(exchange.Input),
					preview(exchange.Reply),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of exchanges to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= historyReplyPreview {
		return text
	}
	return string(runes[:historyReplyPreview-3]) + "..."
}
