package cli

import (
	"github.com/spf13/cobra"
)

var dbPath string

// NewRootCmd assembles the taskmanager command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskmanager",
		Short: "Personal task tracking for personas and their tasks",
		Long: `taskmanager keeps personas and the tasks assigned to them.
Run "taskmanager serve" for the HTTP API (and the Telegram bot when TELEGRAM_TOKEN is set),
or use the persona and task subcommands directly against the database.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database DSN (overrides DATABASE_URL)")

	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(PersonaCmd())
	rootCmd.AddCommand(TaskCmd())
	return rootCmd
}
