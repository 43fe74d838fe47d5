package cmd

import (
	"fmt"

	"github.com/JINMI714/JMsTube/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jmstube",
	Short: "Find YouTube videos that outperform their channel",
	Long: `JMsTube searches YouTube and ranks the results by engagement.

Every result is scored by its like-to-view ratio (great >= 4%, good >= 2%)
and its view-to-subscriber ratio, and can be filtered by content type,
tier, view count and subscriber count.

Examples:
  jmstube                          # Launch interactive TUI
  jmstube search "home cafe"
  jmstube search "vlog" --region JP --strict --sort likeRatio
  jmstube history list`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// The TUI owns the terminal, so logs only go to a configured file.
		d, err := loadDeps(ctx, "")
		if err != nil {
			return err
		}
		defer d.Close()

		session, err := d.newSession(ctx, true)
		if err != nil {
			return err
		}

		app := tui.NewApp(ctx, session, d.logger.Named("tui"))
		program := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("error running application: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./jmstube.yaml or <user config dir>/jmstube/jmstube.yaml)")
}
