package cmd

import (
	"fmt"

	"github.com/huangsam/ahp/core"
	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/internal/persist"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// submissionsCmd focused on stored expert submissions.
var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Manage stored expert submissions",
	Long: `Manage the submissions stored by 'compute --save', the HTTP API or the MCP server.

Subcommands:
  list    - List submissions, newest first
  show    - Print one submission with its full result
  delete  - Remove one submission
  status  - Show store statistics
  clear   - Remove all submissions and consensus runs
  migrate - Run database schema migrations

Examples:
  ahp submissions list --expert alice
  ahp submissions show 0b6f...`,
}

var submissionsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored submissions, newest first",
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		expert, _ := cmd.Flags().GetString("expert")
		if err := core.ExecuteSubmissionsList(rootCtx, cfg, storeManager, expert); err != nil {
			contract.LogFatal("Failed to list submissions", err)
		}
	},
}

var submissionsShowCmd = &cobra.Command{
	Use:     "show <submission-id>",
	Short:   "Print one stored submission",
	Args:    cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error { return sharedSetup(rootCtx, cmd, nil) },
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteSubmissionShow(rootCtx, cfg, storeManager, args[0]); err != nil {
			contract.LogFatal("Failed to show submission", err)
		}
	},
}

var submissionsDeleteCmd = &cobra.Command{
	Use:     "delete <submission-id>",
	Short:   "Remove one stored submission",
	Args:    cobra.ExactArgs(1),
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteSubmissionDelete(rootCtx, storeManager, args[0]); err != nil {
			contract.LogFatal("Failed to delete submission", err)
		}
		fmt.Printf("Submission %s deleted.\n", args[0])
	},
}

var submissionsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display submission store statistics and connection details",
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := storeManager.GetSubmissionStore()
		if store == nil {
			contract.LogFatal("Failed to get submission status", fmt.Errorf("store backend %q keeps no submissions", cfg.StoreBackend))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get submission status", err)
		}
		persist.PrintSubmissionStatus(status)
	},
}

var submissionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored submissions and consensus runs",
	Long: `Delete every stored submission together with the recorded consensus runs.

WARNING: This action cannot be undone. Consider 'ahp consensus export' first.`,
	PreRunE: migrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := persist.ClearStores(cfg.StoreBackend, cfg.StoreDBConnect, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

var submissionsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the submission and consensus tables.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  ahp submissions migrate

  # Rollback to initial state
  ahp submissions migrate --target-version 0`,
	PreRunE: migrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := persist.Migrate(cfg.StoreBackend, cfg.StoreDBConnect, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
