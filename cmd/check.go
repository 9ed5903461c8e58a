package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Altinn/altinn-authorization-tmp-sub012/introspect"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check database schema and migration status",
	Long: `Check the current state of your database schema and migrations.

This command will:
- Verify database connectivity
- Read the migration journal
- Compare every table definition with the live schema
- Report pending operations and drift

Examples:
  dbdef check                    # Check current state
  dbdef check --timeout 30s      # Set custom timeout
`,
	Run: func(cmd *cobra.Command, args []string) {
		clean, err := checkDatabaseSchema()
		if err != nil {
			fmt.Printf("❌ Schema check failed: %v\n", err)
			os.Exit(1)
		}
		if !clean {
			os.Exit(2)
		}
		fmt.Println("✅ Schema check completed successfully")
	},
}

var checkTimeout time.Duration

func init() {
	checkCmd.Flags().DurationVarP(&checkTimeout, "timeout", "t", 10*time.Second, "Timeout for schema check")
}

func checkDatabaseSchema() (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	reg, err := loadRegistry()
	if err != nil {
		return false, err
	}
	conn, d, err := openDatabase(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	engine := newEngine(conn, d, reg, true)
	pending, err := engine.Pending(ctx)
	if err != nil {
		return false, err
	}
	fmt.Printf("📊 Found %d journal entries, %d operations pending\n", len(engine.Journal()), len(pending))

	drifts, err := introspect.Compare(ctx, conn, d, reg, cfg.Schemas.Default)
	if err != nil {
		return false, err
	}
	for _, drift := range drifts {
		switch {
		case drift.MissingTable:
			fmt.Printf("⚠️  %s: table is missing\n", drift.Type)
		default:
			if len(drift.MissingColumns) > 0 {
				fmt.Printf("⚠️  %s: missing columns %s\n", drift.Type, strings.Join(drift.MissingColumns, ", "))
			}
			if len(drift.ExtraColumns) > 0 {
				fmt.Printf("⚠️  %s: unmapped columns %s\n", drift.Type, strings.Join(drift.ExtraColumns, ", "))
			}
		}
	}
	return len(pending) == 0 && len(drifts) == 0, nil
}
