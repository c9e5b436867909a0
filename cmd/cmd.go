// Package cmd defines the command-line interface for ahp.
package cmd

import (
	"github.com/huangsam/ahp/internal/contract"
	"github.com/huangsam/ahp/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(submissionsCmd)
	rootCmd.AddCommand(consensusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the submissions subcommands to the parent submissions command
	submissionsCmd.AddCommand(submissionsListCmd)
	submissionsCmd.AddCommand(submissionsShowCmd)
	submissionsCmd.AddCommand(submissionsDeleteCmd)
	submissionsCmd.AddCommand(submissionsStatusCmd)
	submissionsCmd.AddCommand(submissionsClearCmd)
	submissionsCmd.AddCommand(submissionsMigrateCmd)

	// Add the consensus subcommands to the parent consensus command
	consensusCmd.AddCommand(consensusStatusCmd)
	consensusCmd.AddCommand(consensusExportCmd)
	consensusCmd.AddCommand(consensusClearCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("questionnaire", "q", "", "Path to a questionnaire YAML file (default: bundled public-space questionnaire)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of global rows to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx or markdown or html")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Float64("cr-threshold", schema.DefaultCRThreshold, "Consistency ratio above which a comparison set is flagged")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("nats-url", "", "Publish submission and consensus events to this NATS server")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in progress messages (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of computeCmd to Viper
	computeCmd.Flags().String("expert", "", "Expert name, overriding the one in a single submission file")
	computeCmd.Flags().Bool("save", false, "Store the evaluated submissions")
	if err := viper.BindPFlags(computeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding compute flags", err)
	}

	// Bind all flags of aggregateCmd to Viper
	aggregateCmd.Flags().String("mode", string(schema.BothMode), "Aggregation rule: aij or aip or both")
	aggregateCmd.Flags().Bool("from-store", false, "Aggregate the latest stored submission of every expert")
	if err := viper.BindPFlags(aggregateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding aggregate flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("listen", ":8080", "Address for the HTTP API")
	serveCmd.Flags().String("metrics-listen", "", "Separate address for /metrics (default: served by the API)")
	serveCmd.Flags().Float64("rate-limit", 0, "Requests per second allowed per client (0 = unlimited)")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Read directly by the command; bound keys are shared across commands
	submissionsListCmd.Flags().String("expert", "", "Only list submissions of this expert")

	// Bind all flags of submissionsMigrateCmd to Viper
	submissionsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(submissionsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding submissions migrate flags", err)
	}
}
