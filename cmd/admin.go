/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/apelahishokr/tracker/internal/services"
	"github.com/apelahishokr/tracker/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// adminCmd is the root of the tracker-admin binary.
var adminCmd = &cobra.Command{
	Use:           "tracker-admin",
	Short:         "Administrative tasks for the tracker data files",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	adminUsername string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the admin account",
	Long: `Creates the single admin account. Fails if one already exists. Usage:

	tracker-admin create-admin --username root --password secret
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath)
		if err != nil {
			return err
		}
		defer a.close()

		account, err := a.accounts.CreateAdmin(cmd.Context(), adminUsername, adminPassword)
		if err != nil {
			if errors.Is(err, services.ErrAdminExists) {
				return errors.New("admin already exists")
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Admin account %q created.\n", account.Username)
		return nil
	},
}

var purgeDataCmd = &cobra.Command{
	Use:   "purge-data",
	Short: "Delete the account and project files",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		paths := []string{a.cfg.AccountsPath(), a.cfg.ProjectsPath()}

		var existing []string
		for _, p := range paths {
			ok, err := a.storage.Exists(ctx, p)
			if err != nil {
				return err
			}
			if ok {
				existing = append(existing, p)
			}
		}
		if len(existing) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error: no data files to purge.")
			return nil
		}

		fmt.Fprint(out, "This deletes all accounts and projects. Type YES to confirm: ")
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Purge cancelled.")
			return nil
		}
		if strings.TrimRight(answer, "\r\n") != "YES" {
			fmt.Fprintln(out, "Purge cancelled.")
			return nil
		}

		for _, p := range existing {
			if err := a.storage.Delete(ctx, p); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("failed to delete %s: %w", p, err)
			}
			a.logger.Warn(ctx, "data file purged", zap.String("path", p))
		}
		fmt.Fprintln(out, "All data purged.")
		return nil
	},
}

// ExecuteAdmin runs the tracker-admin command tree.
func ExecuteAdmin() {
	if err := adminCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	adminCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is tracker.yaml)")

	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "admin username")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")

	adminCmd.AddCommand(createAdminCmd)
	adminCmd.AddCommand(purgeDataCmd)
}
