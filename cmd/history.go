package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or edit the search history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past searches, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeps(cmd.Context(), "stderr")
		if err != nil {
			return err
		}
		defer d.Close()

		entries := d.history.Entries()
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No searches yet")
			return nil
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			}).
			Headers("ID", "Term", "Date")
		for _, e := range entries {
			t.Row(e.ID, e.Term, e.Timestamp)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id...]",
	Short: "Remove entries by id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeps(cmd.Context(), "stderr")
		if err != nil {
			return err
		}
		defer d.Close()

		for _, id := range args {
			if err := d.history.Delete(cmd.Context(), id); err != nil {
				return err
			}
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeps(cmd.Context(), "stderr")
		if err != nil {
			return err
		}
		defer d.Close()

		return d.history.Clear(cmd.Context())
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyDeleteCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
