package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "chronoctl",
	Short: "ChronoPlan schedule CLI",
	Long: `chronoctl browses and extends the seeded ChronoPlan timelines from a terminal.

The store lives in memory for the duration of a single command, so every
invocation starts from the seed fixture (SEED_FILE or the built-in one).`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "emit structured logs")

	rootCmd.AddCommand(usersCmd)
	initAgendaCommand()
	initGenerateCommand()
	initExportCommand()
}
