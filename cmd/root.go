package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Altinn/altinn-authorization-tmp-sub012/config"
	"github.com/Altinn/altinn-authorization-tmp-sub012/database"
	"github.com/Altinn/altinn-authorization-tmp-sub012/dialect"
	"github.com/Altinn/altinn-authorization-tmp-sub012/models"
	"github.com/Altinn/altinn-authorization-tmp-sub012/runner"
	"github.com/Altinn/altinn-authorization-tmp-sub012/schema"
	"github.com/Altinn/altinn-authorization-tmp-sub012/utils"
)

var (
	cfgFile string
	v       = config.New()
	cfg     *config.Config
	log     = zap.NewNop().Sugar()
)

var rootCmd = &cobra.Command{
	Use:   "dbdef",
	Short: "Definition-driven migrations for the authorization catalog",
	Long: `dbdef applies the registered definitions to SQL Server, PostgreSQL or SQLite.
Every change is journaled and runs once per database.

Examples:

  dbdef migrate --dry-run
  dbdef migrate
  dbdef status
  dbdef generate --dir models
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envErr := utils.LoadEnv()

		var err error
		cfg, err = config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		log, err = utils.NewLogger(cfg.Debug)
		if err != nil {
			return err
		}
		if envErr != nil {
			log.Debugw("no .env file found, continuing", "error", envErr)
		}
		return nil
	},
}

// Execute runs the CLI
func Execute() {
	defer func() { _ = log.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}

// Register subcommands
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (yaml, json or toml)")
	flags.Bool("debug", false, "Verbose development logging")
	flags.String("dialect", "", "Database dialect (mssql, postgres, sqlite)")
	flags.String("connection-string", "", "Database connection string")
	flags.String("collection", "", "Migration collection id")
	_ = v.BindPFlag("debug", flags.Lookup("debug"))
	_ = v.BindPFlag("dialect", flags.Lookup("dialect"))
	_ = v.BindPFlag("connection_string", flags.Lookup("connection-string"))
	_ = v.BindPFlag("collection_id", flags.Lookup("collection"))

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(initCmd)
}

// openDatabase validates the settings and connects.
func openDatabase(ctx context.Context) (database.Conn, dialect.Dialect, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	d, err := cfg.DialectValue()
	if err != nil {
		return nil, nil, err
	}
	conn, err := database.Open(ctx, d, cfg.ConnectionString)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, d, nil
}

func loadRegistry() (*schema.Registry, error) {
	reg, err := models.Registry()
	if err != nil {
		return nil, fmt.Errorf("invalid definitions: %w", err)
	}
	return reg, nil
}

func newEngine(conn database.Conn, d dialect.Dialect, reg *schema.Registry, dryRun bool) *runner.Engine {
	return runner.New(conn, d, reg, log, runner.Options{
		Schema:            cfg.Schemas.Default,
		TranslationSchema: cfg.Schemas.Translation,
		HistorySchema:     cfg.Schemas.History,
		CollectionId:      cfg.CollectionId,
		DryRun:            dryRun,
	})
}
