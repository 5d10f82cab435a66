/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/apelahishokr/tracker/internal/shell"
	"github.com/spf13/cobra"
)

var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Terminal project and task tracker",
	Long: `Starts an interactive session for managing projects and tasks. Usage:

	tracker [--config tracker.yaml]
`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath)
		if err != nil {
			return err
		}
		defer a.close()

		sh := shell.New(shell.Options{
			In:       cmd.InOrStdin(),
			Out:      cmd.OutOrStdout(),
			Logger:   a.logger,
			Accounts: a.accounts,
			Projects: a.projects,
			Tasks:    a.tasks,
		})
		return sh.Run(cmd.Context())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is tracker.yaml)")
}
