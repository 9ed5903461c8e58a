package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Altinn/altinn-authorization-tmp-sub012/generator"
	"github.com/Altinn/altinn-authorization-tmp-sub012/loader"
)

var (
	dryRunMigrate  bool
	writeScript    bool
	functionsFile  string
	migrateTimeout time.Duration
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending migrations",
	Long: `Apply every planned operation that is not yet in the journal: schemas,
tables and columns, translation tables, unique constraints, foreign keys,
views and functions from the functions manifest.

Examples:
  dbdef migrate                        # Apply pending migrations
  dbdef migrate --dry-run              # Print the SQL without applying it
  dbdef migrate --dry-run --write      # Also save the SQL to the script folder
  dbdef migrate --functions funcs.yaml # Apply stored functions after tables
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMigrate(cmd.Context()); err != nil {
			fmt.Println("❌ Migration failed:", err)
			os.Exit(1)
		}
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&dryRunMigrate, "dry-run", false, "Preview the SQL that would be executed without applying migrations")
	migrateCmd.Flags().BoolVar(&writeScript, "write", false, "With --dry-run, write the SQL to a file in the script folder")
	migrateCmd.Flags().StringVar(&functionsFile, "functions", "", "Functions manifest (defaults to functions_file from config)")
	migrateCmd.Flags().DurationVarP(&migrateTimeout, "timeout", "t", 10*time.Minute, "Timeout for the whole run")
}

func runMigrate(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, migrateTimeout)
	defer cancel()

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	file := functionsFile
	if file == "" {
		file = cfg.FunctionsFile
	}
	var functions []loader.Function
	if file != "" {
		functions, err = loader.LoadFunctionsFromYAML(file, cfg.Schemas.Default)
		if err != nil {
			return err
		}
	}

	conn, d, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	engine := newEngine(conn, d, reg, dryRunMigrate)
	if err := engine.Migrate(ctx); err != nil {
		return err
	}
	for _, fn := range functions {
		if err := engine.CreateFunction(ctx, fn.Schema, fn.Name, fn.Script); err != nil {
			return err
		}
	}

	applied := engine.Applied()
	if !dryRunMigrate {
		fmt.Printf("✅ Applied %d migrations\n", len(applied))
		return nil
	}

	if len(applied) == 0 {
		fmt.Println("✅ Nothing to apply")
		return nil
	}
	fmt.Printf("📋 %d migrations would be applied:\n\n", len(applied))
	for _, script := range applied {
		fmt.Println(script)
		fmt.Println()
	}
	if writeScript {
		path, err := generator.WriteScript(cfg.ScriptDir, applied, cfg.CollectionId, time.Now())
		if err != nil {
			return err
		}
		fmt.Println("📝 Script written to", path)
	}
	return nil
}
