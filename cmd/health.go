package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Altinn/altinn-authorization-tmp-sub012/introspect"
	"github.com/Altinn/altinn-authorization-tmp-sub012/runner"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database connectivity",
	Long: `Check if the database is accessible and responsive.

Examples:
  dbdef health                    # Check default database connection
  dbdef health --timeout 10s      # Set custom timeout
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := checkDatabaseHealth(); err != nil {
			fmt.Printf("❌ Database health check failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Database is healthy and accessible")
	},
}

var healthTimeout time.Duration

func init() {
	healthCmd.Flags().DurationVarP(&healthTimeout, "timeout", "t", 5*time.Second, "Timeout for health check")
}

func checkDatabaseHealth() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	// Open pings the connection.
	conn, d, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	exists, err := introspect.TableExists(ctx, conn, d, cfg.Schemas.Default, runner.JournalTable)
	if err != nil {
		return fmt.Errorf("failed to check %s table: %w", runner.JournalTable, err)
	}
	if !exists {
		fmt.Printf("⚠️  Database is accessible but %s table not found\n", runner.JournalTable)
		fmt.Println("   Run 'dbdef migrate' to create it")
	}
	return nil
}
