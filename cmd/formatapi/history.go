package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nulzo/formatapi/internal/cli"
	"github.com/nulzo/formatapi/internal/extract"
	"github.com/nulzo/formatapi/internal/store"
	"github.com/nulzo/formatapi/pkg/schema"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse saved configurations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent configurations, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		reveal, _ := cmd.Flags().GetBool("reveal")

		return withStore(func(repo store.Repository) error {
			recs, err := historyService(repo).Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), recs, reveal)
			return nil
		})
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Search configurations by vendor or base URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reveal, _ := cmd.Flags().GetBool("reveal")

		return withStore(func(repo store.Repository) error {
			recs, err := historyService(repo).Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), recs, reveal)
			return nil
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(repo store.Repository) error {
			err := historyService(repo).Delete(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return eris.Errorf("history record %q not found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted %s\n", cli.CheckMark(), args[0])
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all configurations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return eris.New("refusing to clear history without --yes")
		}
		return withStore(func(repo store.Repository) error {
			if err := historyService(repo).Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s History cleared\n", cli.CheckMark())
			return nil
		})
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of records")
	for _, c := range []*cobra.Command{historyListCmd, historySearchCmd} {
		c.Flags().Bool("reveal", false, "show API keys unmasked")
	}
	historyClearCmd.Flags().Bool("yes", false, "confirm deletion of every record")

	historyCmd.AddCommand(historyListCmd, historySearchCmd, historyDeleteCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func renderHistory(w io.Writer, recs []schema.HistoryRecord, reveal bool) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No history records found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "VENDOR", "BASE URL", "API KEY", "MODELS", "CREATED"})
	for _, r := range recs {
		key := extract.MaskSecret(r.APIKey)
		if reveal {
			key = r.APIKey
		}
		t.AppendRow(table.Row{
			r.ID,
			r.Vendor,
			r.BaseURL,
			key,
			strings.Join(r.Models, ", "),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	t.Render()
}
